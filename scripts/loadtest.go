//go:build ignore

// Burst-creates booking requests to exercise the API under concurrency
// and the persistence debounce window behind it. Run against a local
// server:
//
//	go run scripts/loadtest.go
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL     = "http://localhost:8080"
	totalReqs   = 1000
	concurrency = 50
)

type stats struct {
	success      int64
	failed       int64
	totalLatency int64 // microseconds
	maxLatency   int64
}

func main() {
	rand.Seed(time.Now().UnixNano())

	fmt.Println("Mishwar Booking Load Test")
	fmt.Println("=========================")
	fmt.Printf("%d requests, %d concurrent\n\n", totalReqs, concurrency)

	var s stats
	jobs := make(chan int)
	var wg sync.WaitGroup

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				createBooking(i, &s)
			}
		}()
	}

	for i := 0; i < totalReqs; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	elapsed := time.Since(start)

	success := atomic.LoadInt64(&s.success)
	failed := atomic.LoadInt64(&s.failed)
	fmt.Printf("Completed in %s\n", elapsed)
	fmt.Printf("  Success: %d  Failed: %d\n", success, failed)
	fmt.Printf("  Throughput: %.0f req/s\n", float64(totalReqs)/elapsed.Seconds())
	if success > 0 {
		avg := time.Duration(atomic.LoadInt64(&s.totalLatency)/success) * time.Microsecond
		max := time.Duration(atomic.LoadInt64(&s.maxLatency)) * time.Microsecond
		fmt.Printf("  Latency: avg %s, max %s\n", avg, max)
	}
}

func createBooking(i int, s *stats) {
	payload := map[string]interface{}{
		"passenger_id": fmt.Sprintf("lt_passenger_%d", i%100),
		"driver_id":    fmt.Sprintf("lt_driver_%d", i%20),
		"trip_id":      fmt.Sprintf("lt_trip_%d", i),
		"trip_info": map[string]interface{}{
			"from":  "Baghdad",
			"to":    "Basra",
			"date":  "2025-06-01",
			"time":  "09:00",
			"price": 15000,
			"seats": 2,
		},
		"passenger_info": map[string]interface{}{
			"name":  fmt.Sprintf("Tester %d", i),
			"phone": fmt.Sprintf("0790%07d", i),
			"seats": 1,
		},
	}

	body, _ := json.Marshal(payload)

	begin := time.Now()
	resp, err := http.Post(baseURL+"/v1/bookings/requests", "application/json", bytes.NewReader(body))
	latency := time.Since(begin).Microseconds()

	if err != nil || resp.StatusCode != http.StatusCreated {
		atomic.AddInt64(&s.failed, 1)
		if resp != nil {
			resp.Body.Close()
		}
		return
	}
	resp.Body.Close()

	atomic.AddInt64(&s.success, 1)
	atomic.AddInt64(&s.totalLatency, latency)
	for {
		max := atomic.LoadInt64(&s.maxLatency)
		if latency <= max || atomic.CompareAndSwapInt64(&s.maxLatency, max, latency) {
			break
		}
	}
}
