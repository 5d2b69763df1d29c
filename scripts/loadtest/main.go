// Loadtest drives concurrent checks through a running gateway and reports
// throughput, latency percentiles and the status code mix.
//
// Usage:
//
//	go run ./scripts/loadtest --url http://localhost:8080/api/check --concurrency 20 --requests 2000
//	go run ./scripts/loadtest --targets 1.1.1.1:443,8.8.8.8:53 --out summary.json
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/pflag"
)

type summary struct {
	URL           string         `json:"url"`
	Requests      int            `json:"requests"`
	Concurrency   int            `json:"concurrency"`
	Success       int32          `json:"success"`
	Failure       int32          `json:"failure"`
	DurationMS    int64          `json:"duration_ms"`
	ThroughputRPS float64        `json:"throughput_rps"`
	StatusCodes   map[int]int32  `json:"status_codes"`
	LatencyMS     map[string]int `json:"latency_ms"`
}

func main() {
	var (
		gatewayURL  = pflag.String("url", "http://localhost:8080/api/check", "gateway check endpoint")
		concurrency = pflag.Int("concurrency", 10, "number of concurrent workers")
		requests    = pflag.Int("requests", 100, "total number of checks to send")
		targets     = pflag.StringSlice("targets", []string{"1.1.1.1:443", "8.8.8.8:53", "9.9.9.9:443"}, "targets to rotate through")
		timeout     = pflag.Duration("timeout", 15*time.Second, "per-request timeout")
		outJSON     = pflag.String("out", "", "write a JSON summary to this file")
		verbose     = pflag.BoolP("verbose", "v", false, "log every request")
	)
	pflag.Parse()

	client := &http.Client{Timeout: *timeout}

	jobs := make(chan int)
	var wg sync.WaitGroup

	var success, failure int32

	var mu sync.Mutex
	statusCodes := make(map[int]int32)
	latencies := make([]time.Duration, 0, *requests)

	start := time.Now()

	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range jobs {
				target := (*targets)[idx%len(*targets)]
				reqURL := *gatewayURL + "?" + url.Values{"target": {target}}.Encode()

				begin := time.Now()
				resp, err := client.Get(reqURL)
				dur := time.Since(begin)

				if err != nil {
					atomic.AddInt32(&failure, 1)
					if *verbose {
						fmt.Printf("[%d] target=%s error=%v\n", workerID, target, err)
					}
					continue
				}
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()

				if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
					atomic.AddInt32(&success, 1)
				} else {
					atomic.AddInt32(&failure, 1)
				}

				mu.Lock()
				statusCodes[resp.StatusCode]++
				latencies = append(latencies, dur)
				mu.Unlock()

				if *verbose {
					fmt.Printf("[%d] target=%s status=%d dur=%v\n", workerID, target, resp.StatusCode, dur)
				}
			}
		}(i)
	}

	go func() {
		for i := 0; i < *requests; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	wg.Wait()
	elapsed := time.Since(start)

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	pick := func(p float64) time.Duration {
		if len(latencies) == 0 {
			return 0
		}
		return latencies[int(float64(len(latencies)-1)*p)]
	}

	s := summary{
		URL:           *gatewayURL,
		Requests:      *requests,
		Concurrency:   *concurrency,
		Success:       success,
		Failure:       failure,
		DurationMS:    elapsed.Milliseconds(),
		ThroughputRPS: float64(success+failure) / elapsed.Seconds(),
		StatusCodes:   statusCodes,
		LatencyMS: map[string]int{
			"p50": int(pick(0.50).Milliseconds()),
			"p90": int(pick(0.90).Milliseconds()),
			"p99": int(pick(0.99).Milliseconds()),
			"max": int(pick(1).Milliseconds()),
		},
	}

	fmt.Println("--- Load Test Summary ---")
	fmt.Printf("Gateway: %s\n", s.URL)
	fmt.Printf("Requests: %d  Concurrency: %d\n", s.Requests, s.Concurrency)
	fmt.Printf("Success: %d  Failure: %d\n", s.Success, s.Failure)
	fmt.Printf("Duration: %v  Throughput: %.2f req/s\n", elapsed, s.ThroughputRPS)

	codes := make([]int, 0, len(statusCodes))
	for code := range statusCodes {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	fmt.Println("\nStatus codes:")
	for _, code := range codes {
		fmt.Printf("  %d -> %d\n", code, statusCodes[code])
	}
	fmt.Printf("\nLatency: p50=%v p90=%v p99=%v max=%v\n", pick(0.50), pick(0.90), pick(0.99), pick(1))

	if *outJSON != "" {
		f, err := os.Create(*outJSON)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create json file: %v\n", err)
			os.Exit(1)
		}
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		enc.Encode(s)
		f.Close()
		fmt.Printf("\nWrote JSON summary to %s\n", *outJSON)
	}

	if failure > 0 {
		os.Exit(2)
	}
}
