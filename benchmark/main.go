// Package main provides a performance benchmarking tool for the Caudal CLI.
// It generates synthetic flow-rate readings of increasing size, runs each
// report several times without a cache and with the SQLite cache, treating the
// first cached run as cold and averaging the rest as warm, and writes the
// timings to a CSV file.
//
// Prerequisites:
// - caudal binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for the generated inputs (defaults to a temp dir)
package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Input       string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Days        []int // Days of readings per generated input
	Commands    []string
}

func main() {
	workDir := ""
	switch len(os.Args) {
	case 1:
		dir, err := os.MkdirTemp("", "caudal-benchmark-*")
		if err != nil {
			fmt.Printf("Failed to create work dir: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = os.RemoveAll(dir) }()
		workDir = dir
	case 2:
		workDir = os.Args[1]
	default:
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     workDir,
		Timeout:     5 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Days:        []int{7, 90, 365},
		Commands:    []string{"cycles", "daily"},
	}

	if _, err := exec.LookPath("caudal"); err != nil {
		fmt.Printf("Prerequisites check failed: caudal binary not found in PATH\n")
		os.Exit(1)
	}

	// Clear the cache using caudal cache clear
	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("caudal", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	}

	inputs, err := generateInputs(config)
	if err != nil {
		fmt.Printf("Failed to generate inputs: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config, inputs)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// syntheticReadings returns one reading per minute over days, with a pump that
// runs for a few hours every morning and afternoon.
func syntheticReadings(days int) (stamps []time.Time, flows []float64) {
	rng := rand.New(rand.NewPCG(42, uint64(days)))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for m := 0; m < days*24*60; m++ {
		ts := start.Add(time.Duration(m) * time.Minute)
		hour := ts.Hour()
		if hour >= 20 || hour < 5 {
			// Logger is off overnight, which produces gaps between cycles
			continue
		}
		flow := 0.2 * rng.Float64()
		if (hour >= 7 && hour < 10) || (hour >= 14 && hour < 17) {
			flow = 2.0 + math.Sin(float64(m)/30.0) + rng.Float64()
		}
		stamps = append(stamps, ts)
		flows = append(flows, flow)
	}
	return stamps, flows
}

// generateInputs writes a CSV and an XLSX file for every configured size.
func generateInputs(config BenchmarkConfig) ([]string, error) {
	var inputs []string
	for _, days := range config.Days {
		stamps, flows := syntheticReadings(days)

		csvPath := filepath.Join(config.WorkDir, fmt.Sprintf("readings_%dd.csv", days))
		if err := writeCSVInput(csvPath, stamps, flows); err != nil {
			return nil, err
		}
		xlsxPath := filepath.Join(config.WorkDir, fmt.Sprintf("readings_%dd.xlsx", days))
		if err := writeXLSXInput(xlsxPath, stamps, flows); err != nil {
			return nil, err
		}
		fmt.Printf("Generated %d readings for %d days\n", len(stamps), days)
		inputs = append(inputs, csvPath, xlsxPath)
	}
	return inputs, nil
}

func writeCSVInput(path string, stamps []time.Time, flows []float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"fecha_hora", "flowRate"}); err != nil {
		return err
	}
	for i, ts := range stamps {
		if err := writer.Write([]string{ts.Format("2006-01-02 15:04:05"), fmt.Sprintf("%.3f", flows[i])}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeXLSXInput(path string, stamps []time.Time, flows []float64) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", []any{"fecha_hora", "L/MIN"}); err != nil {
		return err
	}
	for i, ts := range stamps {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, []any{ts.Format("2006-01-02 15:04:05"), flows[i]}); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.SaveAs(path)
}

// runBenchmarks executes all benchmark commands across generated inputs
func runBenchmarks(config BenchmarkConfig, inputs []string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d inputs, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(inputs), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, input := range inputs {
		for _, command := range config.Commands {
			results = append(results, runBenchmarkSuite(config, input, command))
		}
	}
	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, input, command string) BenchmarkResult {
	name := filepath.Base(input)
	fmt.Printf("Running %s on %s\n", command, name)

	// Helper to run a benchmark phase
	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, input, command, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Input:       name,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a caudal command multiple times with specified cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, input, command, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{command, input, "--cache-backend", cacheBackend}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("caudal", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	return strings.Contains(string(output), "Analysis completed in")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/caudal_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"input", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Input, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range config.Commands {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-22s: No-cache: %s, Cold: %s, Warm: %s\n", result.Input, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
