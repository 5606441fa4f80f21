// Command classroom-sim plays simulated classrooms against a running
// classplay server and checks its counters.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/okian/classplay/internal/simulate"
	"github.com/okian/classplay/pkg/logger"
)

const (
	defaultClassrooms = 20
	defaultRounds     = 3
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 10 * time.Second
	defaultSettle     = 10 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		classrooms = flag.Int("classrooms", defaultClassrooms, "Number of simulated classrooms")
		rounds     = flag.Int("rounds", defaultRounds, "Rounds played on each screen")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Classrooms played concurrently")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		settle     = flag.Duration("settle", defaultSettle, "Longest wait for a timed transition")
		replay     = flag.Bool("replay", false, "Send every action twice to exercise deduplication")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &simulate.Config{
		BaseURL:    *baseURL,
		Classrooms: *classrooms,
		Rounds:     *rounds,
		Workers:    *workers,
		Timeout:    *timeout,
		Settle:     *settle,
		Replay:     *replay,
		Verbose:    *verbose,
	}
	if _, err := simulate.Run(ctx, cfg); err != nil {
		fmt.Fprintln(os.Stderr, "simulation failed:", err)
		cancel()
		os.Exit(1) //nolint:gocritic // cancel called above
	}
}
