// Package main - agitator
// Load generator: many concurrent WebSocket players spamming actions at one server.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"sync"
	"sync/atomic"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/MRamiBalles/CommitClicker/server/internal/session"
)

// Config for the agitator
type Config struct {
	ServerURL      string
	NumClients     int
	ActionInterval time.Duration
	TestDuration   time.Duration
	ResultsFile    string
}

// Stats tracks performance metrics
type Stats struct {
	MessagesSent     int64
	MessagesReceived int64
	Applied          int64
	Rejected         int64
	Errors           int64
	Latencies        []time.Duration
	mu               sync.Mutex
}

// weightedAction is one entry of the action mix.
type weightedAction struct {
	action session.Action
	weight int
}

// Clicks dominate, like a real player.
var actionMix = []weightedAction{
	{session.Action{Type: session.ActionClick}, 80},
	{session.Action{Type: session.ActionBuyUpgrade, ID: "u1"}, 6},
	{session.Action{Type: session.ActionBuyUpgrade, ID: "u2"}, 4},
	{session.Action{Type: session.ActionBuyUpgrade, ID: "u3"}, 2},
	{session.Action{Type: session.ActionActivateSkill, ID: "s1"}, 1},
	{session.Action{Type: session.ActionActivateSkill, ID: "s2"}, 1},
	{session.Action{Type: session.ActionSpawnBug}, 1},
}

var cfg Config

var rootCmd = &cobra.Command{
	Use:   "agitator",
	Short: "Stress the game server with concurrent WebSocket players",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("=========================================")
		fmt.Println("AGITATOR - WebSocket load generator")
		fmt.Println("=========================================")
		fmt.Printf("Server:   %s\n", cfg.ServerURL)
		fmt.Printf("Clients:  %d\n", cfg.NumClients)
		fmt.Printf("Interval: %v\n", cfg.ActionInterval)
		fmt.Printf("Duration: %v\n", cfg.TestDuration)
		fmt.Println("=========================================")

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.TestDuration)
		defer cancel()
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()

		stats := runStressTest(ctx, cfg)
		return printResults(stats, cfg)
	},
}

func init() {
	rootCmd.Flags().StringVar(&cfg.ServerURL, "url", "ws://localhost:8080/ws", "WebSocket server URL")
	rootCmd.Flags().IntVar(&cfg.NumClients, "clients", 50, "Number of concurrent clients")
	rootCmd.Flags().DurationVar(&cfg.ActionInterval, "interval", 100*time.Millisecond, "Action interval per client")
	rootCmd.Flags().DurationVar(&cfg.TestDuration, "duration", 60*time.Second, "Test duration")
	rootCmd.Flags().StringVar(&cfg.ResultsFile, "out", "stress_test_results.json", "Where to write the JSON results")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runStressTest(ctx context.Context, config Config) *Stats {
	stats := &Stats{
		Latencies: make([]time.Duration, 0, 10000),
	}

	var wg sync.WaitGroup

	fmt.Println("\nStarting clients...")

	for i := 0; i < config.NumClients; i++ {
		wg.Add(1)
		go func(clientID int) {
			defer wg.Done()
			runClient(ctx, clientID, config, stats)
		}(i)

		// Stagger client starts to avoid thundering herd
		time.Sleep(10 * time.Millisecond)
	}

	fmt.Printf("All %d clients started\n\n", config.NumClients)

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fmt.Printf("Progress: sent=%s recv=%s errors=%d\n",
					humanize.Comma(atomic.LoadInt64(&stats.MessagesSent)),
					humanize.Comma(atomic.LoadInt64(&stats.MessagesReceived)),
					atomic.LoadInt64(&stats.Errors))
			}
		}
	}()

	wg.Wait()
	return stats
}

func runClient(ctx context.Context, clientID int, config Config, stats *Stats) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, config.ServerURL, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "client %d: connection failed: %v\n", clientID, err)
		atomic.AddInt64(&stats.Errors, 1)
		return
	}
	defer conn.Close()

	go receive(conn, stats)

	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(clientID)))
	ticker := time.NewTicker(config.ActionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case <-ticker.C:
			start := time.Now()
			if err := conn.WriteJSON(randomAction(rng)); err != nil {
				atomic.AddInt64(&stats.Errors, 1)
				return
			}

			latency := time.Since(start)
			atomic.AddInt64(&stats.MessagesSent, 1)

			stats.mu.Lock()
			stats.Latencies = append(stats.Latencies, latency)
			stats.mu.Unlock()
		}
	}
}

// receive counts envelopes and tallies action results until the connection closes.
func receive(conn *websocket.Conn, stats *Stats) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		for _, line := range bytes.Split(data, []byte{'\n'}) {
			atomic.AddInt64(&stats.MessagesReceived, 1)

			var env struct {
				Type    string `json:"type"`
				Payload struct {
					Applied bool `json:"applied"`
				} `json:"payload"`
			}
			if json.Unmarshal(line, &env) != nil || env.Type != "result" {
				continue
			}
			if env.Payload.Applied {
				atomic.AddInt64(&stats.Applied, 1)
			} else {
				atomic.AddInt64(&stats.Rejected, 1)
			}
		}
	}
}

func randomAction(rng *rand.Rand) session.Action {
	total := 0
	for _, w := range actionMix {
		total += w.weight
	}
	n := rng.Intn(total)
	for _, w := range actionMix {
		if n < w.weight {
			return w.action
		}
		n -= w.weight
	}
	return actionMix[0].action
}

// Summary is the JSON report written at the end of a run.
type Summary struct {
	Clients    int     `json:"clients"`
	Interval   string  `json:"interval"`
	Duration   string  `json:"duration"`
	Sent       int64   `json:"sent"`
	Received   int64   `json:"received"`
	Applied    int64   `json:"applied"`
	Rejected   int64   `json:"rejected"`
	Unanswered int64   `json:"unanswered"`
	Errors     int64   `json:"errors"`
	ErrorRate  float64 `json:"error_rate"`
	PerSecond  float64 `json:"per_second"`
	P50        string  `json:"write_p50"`
	P95        string  `json:"write_p95"`
	P99        string  `json:"write_p99"`
}

func summarize(stats *Stats, config Config) Summary {
	sum := Summary{
		Clients:  config.NumClients,
		Interval: config.ActionInterval.String(),
		Duration: config.TestDuration.String(),
		Sent:     atomic.LoadInt64(&stats.MessagesSent),
		Received: atomic.LoadInt64(&stats.MessagesReceived),
		Applied:  atomic.LoadInt64(&stats.Applied),
		Rejected: atomic.LoadInt64(&stats.Rejected),
		Errors:   atomic.LoadInt64(&stats.Errors),
	}
	sum.Unanswered = sum.Sent - sum.Applied - sum.Rejected
	sum.ErrorRate = float64(sum.Errors) / float64(sum.Sent+1)
	sum.PerSecond = float64(sum.Sent) / config.TestDuration.Seconds()

	stats.mu.Lock()
	lat := append([]time.Duration(nil), stats.Latencies...)
	stats.mu.Unlock()
	sort.Slice(lat, func(i, j int) bool { return lat[i] < lat[j] })
	sum.P50 = percentile(lat, 0.50).String()
	sum.P95 = percentile(lat, 0.95).String()
	sum.P99 = percentile(lat, 0.99).String()
	return sum
}

// percentile expects sorted input.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	i := int(p * float64(len(sorted)-1))
	return sorted[i]
}

func printResults(stats *Stats, config Config) error {
	sum := summarize(stats, config)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nRESULTS")
	fmt.Fprintf(w, "sent\t%s\n", humanize.Comma(sum.Sent))
	fmt.Fprintf(w, "received\t%s\n", humanize.Comma(sum.Received))
	fmt.Fprintf(w, "applied / rejected\t%s / %s\n", humanize.Comma(sum.Applied), humanize.Comma(sum.Rejected))
	fmt.Fprintf(w, "unanswered\t%s (rate limited or in flight)\n", humanize.Comma(sum.Unanswered))
	fmt.Fprintf(w, "errors\t%d (%.2f%%)\n", sum.Errors, sum.ErrorRate*100)
	fmt.Fprintf(w, "throughput\t%.1f actions/s\n", sum.PerSecond)
	fmt.Fprintf(w, "write latency\tp50 %s  p95 %s  p99 %s\n", sum.P50, sum.P95, sum.P99)
	w.Flush()

	switch {
	case sum.Errors == 0 && sum.Sent > 0:
		color.New(color.FgGreen, color.Bold).Println("PASS: server kept up")
	case sum.ErrorRate < 0.05:
		color.New(color.FgYellow, color.Bold).Println("WARN: some connections failed")
	default:
		color.New(color.FgRed, color.Bold).Println("FAIL: error rate too high")
	}

	data, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(config.ResultsFile, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	fmt.Printf("results written to %s\n", config.ResultsFile)
	return nil
}
