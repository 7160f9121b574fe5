package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numUsernames = 200
)

var profileNames = []string{
	"sample_ai_account1", "sample_ai_account2", "openai", "anthropic", "deepmind",
}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== FLD Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n\n", numWorkers, testDuration)

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Phase 1: Cached read load, leaderboard only
	fmt.Println("\n--- Phase 1: Warm-up (GET /api/leaderboard) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doGetLeaderboard(false)
	})

	// Phase 2: Mixed read load across all endpoints
	fmt.Println("\n--- Phase 2: Mixed read load ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.30:
			return doGetLeaderboard(false)
		case r < 0.45:
			return doGetGrowth()
		case r < 0.60:
			return doGetTrends()
		case r < 0.75:
			return doGetProfile(rng)
		case r < 0.85:
			return doGetScrapeStats(rng)
		case r < 0.95:
			return doGetStatus()
		default:
			return doGetAccounts()
		}
	})

	// Phase 3: Reads with submissions and cache bypass refreshes
	fmt.Println("\n--- Phase 3: Mixed load (85% GET, 10% POST, 5% refresh) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.35:
			return doGetLeaderboard(false)
		case r < 0.40:
			return doGetLeaderboard(true)
		case r < 0.55:
			return doGetGrowth()
		case r < 0.70:
			return doGetTrends()
		case r < 0.85:
			return doGetProfile(rng)
		case r < 0.90:
			return doGetAccounts()
		default:
			return doSubmit(rng)
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-26s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 92))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-26s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 92))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doGet(endpoint, url string, wantStatus int) result {
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != wantStatus}
}

func doGetLeaderboard(refresh bool) result {
	url := baseURL + "/api/leaderboard"
	ep := "GET /api/leaderboard"
	if refresh {
		url += "?refresh=true"
		ep = "GET /api/leaderboard?r"
	}
	return doGet(ep, url, 200)
}

func doGetGrowth() result {
	return doGet("GET /api/growth", baseURL+"/api/growth", 200)
}

func doGetTrends() result {
	return doGet("GET /api/trends", baseURL+"/api/trends", 200)
}

func doGetProfile(rng *rand.Rand) result {
	name := profileNames[rng.Intn(len(profileNames))]
	url := fmt.Sprintf("%s/api/profile?u=%s", baseURL, name)
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /api/profile", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	// 404 is a valid outcome for profiles the scraper does not track
	bad := resp.StatusCode != 200 && resp.StatusCode != 404
	return result{"GET /api/profile", resp.StatusCode, lat, bad}
}

func doGetScrapeStats(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/api/stats/scrape?limit=%d", baseURL, rng.Intn(20)+1)
	return doGet("GET /api/stats/scrape", url, 200)
}

func doGetStatus() result {
	return doGet("GET /api/status", baseURL+"/api/status", 200)
}

func doGetAccounts() result {
	return doGet("GET /api/accounts", baseURL+"/api/accounts", 200)
}

func doSubmit(rng *rand.Rand) result {
	body := map[string]interface{}{
		"username":  fmt.Sprintf("loadtest_user_%d", rng.Intn(numUsernames)),
		"submitter": "loadtest",
	}
	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/api/submit", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /api/submit", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	// Duplicate submissions come back 400, which is expected under churn
	bad := resp.StatusCode != 200 && resp.StatusCode != 400
	return result{"POST /api/submit", resp.StatusCode, lat, bad}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
