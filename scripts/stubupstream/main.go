// Stubupstream is a stand-in for the proxy health-check API, for running the
// gateway locally without reaching the real service.
//
// Usage:
//
//	go run ./scripts/stubupstream --port 9000 --delay 200ms --fail-rate 0.1
//
// Then point the gateway at it with UPSTREAM_URL=http://localhost:9000/api/v1/check.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/pflag"
)

type checkResult struct {
	IP        string `json:"ip"`
	Port      string `json:"port"`
	ProxyIP   bool   `json:"proxyip"`
	LatencyMS int64  `json:"delay"`
	CheckedAt string `json:"checked_at"`
}

func main() {
	port := pflag.Int("port", 9000, "port to listen on")
	delay := pflag.Duration("delay", 0, "artificial delay before every answer")
	failRate := pflag.Float64("fail-rate", 0, "fraction of checks answered with 503")
	pflag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/check", func(w http.ResponseWriter, r *http.Request) {
		ip := r.URL.Query().Get("ip")
		log.Info("check", slog.String("ip", ip), slog.String("from", r.RemoteAddr))

		if *delay > 0 {
			select {
			case <-time.After(*delay):
			case <-r.Context().Done():
				return
			}
		}

		if *failRate > 0 && rand.Float64() < *failRate {
			http.Error(w, "checker overloaded", http.StatusServiceUnavailable)
			return
		}

		host, p, err := net.SplitHostPort(ip)
		if ip == "" || err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "ip must be host:port"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(checkResult{
			IP:        host,
			Port:      p,
			ProxyIP:   rand.IntN(2) == 1,
			LatencyMS: delay.Milliseconds(),
			CheckedAt: time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Info("starting stub upstream", slog.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error("server failed", slog.Any("err", err))
		os.Exit(1)
	}
}
