package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type probe struct {
	Name         string          `json:"name"`
	AssignmentID string          `json:"assignment_id,omitempty"`
	Change       json.RawMessage `json:"change"`
	ExpectBlock  bool            `json:"expect_block"`
}

type config struct {
	Probes []probe `json:"probes"`
}

type verdict struct {
	Data struct {
		HasConflicts bool     `json:"has_conflicts"`
		CanProceed   bool     `json:"can_proceed"`
		Warnings     []string `json:"warnings"`
	} `json:"data"`
}

type result struct {
	Probe    probe
	Status   int
	Blocked  bool
	Warnings []string
	Match    bool
	Error    error
	Duration time.Duration
}

func main() {
	var (
		base       string
		probesPath string
		timeout    time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080/api/v1", "API base URL")
	flag.StringVar(&probesPath, "probes", filepath.Join("scripts", "conflict_probe", "probes.json"), "Path to JSON probes file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	probes, err := loadProbes(probesPath)
	if err != nil {
		log.Fatalf("failed to load probes: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var (
		results    []result
		mismatches int
	)

	for _, p := range probes {
		res := runProbe(client, base, p)
		if res.Error != nil || !res.Match {
			mismatches++
		}
		results = append(results, res)
	}

	printReport(results)

	fmt.Printf("Mismatches: %d of %d\n", mismatches, len(results))
	if mismatches > 0 {
		os.Exit(1)
	}
}

func loadProbes(path string) ([]probe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Probes) == 0 {
		return nil, fmt.Errorf("no probes defined in %s", path)
	}
	return cfg.Probes, nil
}

func runProbe(client *http.Client, base string, p probe) result {
	res := result{Probe: p}

	payload := map[string]interface{}{"change": json.RawMessage(p.Change)}
	if p.AssignmentID != "" {
		payload["assignmentId"] = p.AssignmentID
	}
	body, err := json.Marshal(payload)
	if err != nil {
		res.Error = fmt.Errorf("marshal payload: %w", err)
		return res
	}

	url := strings.TrimRight(base, "/") + "/insights/validate"
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		res.Error = err
		return res
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		res.Error = fmt.Errorf("validate request failed: %w", err)
		return res
	}
	defer resp.Body.Close()

	res.Status = resp.StatusCode
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		res.Error = fmt.Errorf("read body: %w", err)
		return res
	}

	var v verdict
	if err := json.Unmarshal(raw, &v); err != nil {
		res.Error = fmt.Errorf("decode verdict: %w", err)
		return res
	}

	res.Blocked = !v.Data.CanProceed
	res.Warnings = v.Data.Warnings
	res.Match = resp.StatusCode == http.StatusOK && res.Blocked == p.ExpectBlock
	return res
}

func printReport(results []result) {
	fmt.Println("Conflict Probe Report")
	fmt.Println("=====================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.Match {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s\n", status, res.Probe.Name)
		fmt.Printf("  Status: %d (%s)\n", res.Status, res.Duration)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
		} else {
			fmt.Printf("  Blocked: %t | Expected block: %t | Warnings: %d\n", res.Blocked, res.Probe.ExpectBlock, len(res.Warnings))
		}
	}
}
