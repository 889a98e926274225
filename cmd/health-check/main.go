// Package main provides a standalone health check command for the personalization service
// This command can be used for Docker health checks, monitoring scripts, and debugging
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	exitCodeSuccess = 0
	exitCodeFailure = 1
	exitCodeError   = 2
)

// Config holds command-line configuration
type Config struct {
	URL          string
	Timeout      time.Duration
	Verbose      bool
	OutputFormat string
	AllowDegrade bool
	RetryCount   int
	RetryDelay   time.Duration
}

type check struct {
	Name       string  `json:"name"`
	Status     string  `json:"status"`
	Message    string  `json:"message"`
	DurationMS float64 `json:"duration_ms"`
}

type report struct {
	Status          string  `json:"status"`
	Version         string  `json:"version"`
	Checks          []check `json:"checks"`
	TotalDurationMS float64 `json:"total_duration_ms"`
}

func main() {
	os.Exit(run(parseFlags(), os.Stdout))
}

// parseFlags parses command-line flags
func parseFlags() Config {
	config := Config{}

	flag.StringVar(&config.URL, "url", "", "Health check endpoint URL (default $HEALTH_CHECK_URL or http://localhost:8080/health)")
	flag.DurationVar(&config.Timeout, "timeout", 10*time.Second, "Request timeout")
	flag.BoolVar(&config.Verbose, "verbose", false, "Verbose output")
	flag.StringVar(&config.OutputFormat, "format", "text", "Output format: text, json")
	flag.BoolVar(&config.AllowDegrade, "allow-degraded", true, "Treat a degraded service as passing")
	flag.IntVar(&config.RetryCount, "retry", 0, "Number of retries on failure")
	flag.DurationVar(&config.RetryDelay, "retry-delay", 1*time.Second, "Delay between retries")
	flag.Parse()

	if config.URL == "" {
		config.URL = os.Getenv("HEALTH_CHECK_URL")
	}
	if config.URL == "" {
		config.URL = "http://localhost:8080/health"
	}

	return config
}

func run(config Config, out io.Writer) int {
	client := &http.Client{Timeout: config.Timeout}

	var lastError error
	for attempt := 0; attempt <= config.RetryCount; attempt++ {
		if attempt > 0 {
			if config.Verbose {
				fmt.Fprintf(out, "Retrying in %v... (attempt %d/%d)\n", config.RetryDelay, attempt, config.RetryCount)
			}
			time.Sleep(config.RetryDelay)
		}

		r, err := fetch(client, config.URL)
		if err != nil {
			lastError = err
			if config.Verbose {
				fmt.Fprintf(out, "Request failed: %v\n", err)
			}
			continue
		}

		output(out, r, config)
		return exitCode(r.Status, config.AllowDegrade)
	}

	fmt.Fprintf(out, "Health check failed after %d attempts: %v\n", config.RetryCount+1, lastError)
	return exitCodeError
}

func fetch(client *http.Client, url string) (*report, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var r report
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to decode response (HTTP %d): %w", resp.StatusCode, err)
	}
	return &r, nil
}

func exitCode(status string, allowDegraded bool) int {
	switch status {
	case "healthy", "alive", "ready":
		return exitCodeSuccess
	case "degraded":
		if allowDegraded {
			return exitCodeSuccess
		}
	}
	return exitCodeFailure
}

func output(out io.Writer, r *report, config Config) {
	if config.OutputFormat == "json" {
		data, _ := json.MarshalIndent(r, "", "  ")
		fmt.Fprintln(out, string(data))
		return
	}

	fmt.Fprintf(out, "Status: %s\n", r.Status)
	if r.Version != "" {
		fmt.Fprintf(out, "Version: %s\n", r.Version)
		fmt.Fprintf(out, "Duration: %.0fms\n", r.TotalDurationMS)
	}

	if config.Verbose && len(r.Checks) > 0 {
		fmt.Fprintln(out, "\nChecks:")
		for _, c := range r.Checks {
			fmt.Fprintf(out, "  %s: %s", c.Name, c.Status)
			if c.Message != "" {
				fmt.Fprintf(out, " (%s)", c.Message)
			}
			fmt.Fprintf(out, " [%.0fms]\n", c.DurationMS)
		}
	}
}
