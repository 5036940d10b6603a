//go:build ignore

// Seeds the booking API with a spread of requests across a few drivers,
// then accepts, rejects and completes a portion so every status shows up
// in stats and listings. Run against a local server:
//
//	go run scripts/seed_data.go
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"
)

const baseURL = "http://localhost:8080"

var (
	passengerNames = []string{"Ali", "Zainab", "Hassan", "Fatima", "Omar", "Noor", "Karim", "Layla", "Yusuf", "Mariam"}
	cities         = []string{"Baghdad", "Basra", "Erbil", "Mosul", "Najaf", "Karbala", "Kirkuk", "Sulaymaniyah"}
)

type bookingRecord struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func main() {
	rand.Seed(time.Now().UnixNano())

	log.Println("Creating 30 booking requests...")

	ids := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		from := cities[rand.Intn(len(cities))]
		to := cities[rand.Intn(len(cities))]
		for to == from {
			to = cities[rand.Intn(len(cities))]
		}

		payload := map[string]interface{}{
			"passenger_id": fmt.Sprintf("passenger_%d", rand.Intn(10)+1),
			"driver_id":    fmt.Sprintf("driver_%d", rand.Intn(5)+1),
			"trip_id":      fmt.Sprintf("trip_%d", i+1),
			"trip_info": map[string]interface{}{
				"from":  from,
				"to":    to,
				"date":  time.Now().AddDate(0, 0, rand.Intn(14)+1).Format("2006-01-02"),
				"time":  fmt.Sprintf("%02d:00", rand.Intn(14)+6),
				"price": float64((rand.Intn(30) + 5) * 1000),
				"seats": rand.Intn(3) + 1,
			},
			"passenger_info": map[string]interface{}{
				"name":  passengerNames[rand.Intn(len(passengerNames))],
				"phone": fmt.Sprintf("0790%07d", rand.Intn(10000000)),
				"seats": rand.Intn(3) + 1,
			},
		}

		rec, err := postJSON("/v1/bookings/requests", payload)
		if err != nil {
			log.Fatalf("create request failed: %v", err)
		}
		ids = append(ids, rec.ID)
	}

	log.Printf("Created %d requests, driving some through the lifecycle...", len(ids))

	accepted := 0
	rejected := 0
	completed := 0
	for i, id := range ids {
		switch {
		case i%3 == 0:
			if _, err := postJSON("/v1/bookings/"+id+"/accept", nil); err != nil {
				log.Fatalf("accept failed: %v", err)
			}
			accepted++
			if i%6 == 0 {
				if _, err := postJSON("/v1/bookings/"+id+"/complete", nil); err != nil {
					log.Fatalf("complete failed: %v", err)
				}
				completed++
			}
		case i%3 == 1:
			if _, err := postJSON("/v1/bookings/"+id+"/reject", map[string]string{"reason": "seats already taken"}); err != nil {
				log.Fatalf("reject failed: %v", err)
			}
			rejected++
		}
	}

	log.Printf("Done: %d accepted (%d completed), %d rejected, %d left pending",
		accepted, completed, rejected, len(ids)-accepted-rejected)
}

func postJSON(path string, payload interface{}) (*bookingRecord, error) {
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return nil, err
		}
	}

	resp, err := http.Post(baseURL+path, "application/json", &body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s: unexpected status %d", path, resp.StatusCode)
	}

	var rec bookingRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
