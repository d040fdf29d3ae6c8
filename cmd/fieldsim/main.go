// fieldsim replays a recorded walking path against a guide session,
// standing in for the walker's phone during development.
//
//	fieldsim -addr localhost:3000 -session <id> -path walk.csv
//
// The path file holds one "lat,lng" pair per line.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

type point struct {
	lat float64
	lng float64
}

func main() {
	addr := flag.String("addr", "localhost:3000", "API host:port")
	session := flag.String("session", "", "guide session id")
	pathFile := flag.String("path", "", "CSV file with lat,lng lines")
	interval := flag.Duration("interval", time.Second, "delay between samples")
	flag.Parse()

	if *session == "" || *pathFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	points, err := loadPath(*pathFile)
	if err != nil {
		log.Fatalf("load path: %v", err)
	}

	url := fmt.Sprintf("ws://%s/guide/sessions/%s/position", *addr, *session)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		log.Fatalf("dial %s: %v", url, err)
	}
	defer conn.Close()

	for i, p := range points {
		sample := map[string]any{
			"lat":       p.lat,
			"lng":       p.lng,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}
		if err := conn.WriteJSON(sample); err != nil {
			log.Fatalf("send sample %d: %v", i, err)
		}
		log.Printf("sent %d/%d (%.6f, %.6f)", i+1, len(points), p.lat, p.lng)
		time.Sleep(*interval)
	}
}

func loadPath(name string) ([]point, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var points []point
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		p, err := parseLine(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		points = append(points, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("no points in %s", name)
	}
	return points, nil
}

func parseLine(text string) (point, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return point{}, fmt.Errorf("expected lat,lng got %q", text)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return point{}, err
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return point{}, err
	}
	return point{lat: lat, lng: lng}, nil
}
