package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode/utf8"
)

type transformRequest struct {
	Text           string            `json:"text"`
	Transformation string            `json:"transformation,omitempty"`
	Provider       string            `json:"provider,omitempty"`
	Model          string            `json:"model,omitempty"`
	Prompt         string            `json:"prompt,omitempty"`
	Values         map[string]string `json:"values,omitempty"`
}

type transformResponse struct {
	Text      string `json:"text"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

type result struct {
	Sample    string `json:"sample"`
	Chars     int    `json:"chars"`
	Provider  string `json:"provider,omitempty"`
	Model     string `json:"model,omitempty"`
	Run       int    `json:"run"`
	ElapsedMs int64  `json:"elapsed_ms"`
	WallMs    int64  `json:"wall_ms"`
	OutChars  int    `json:"out_chars"`
	Error     string `json:"error,omitempty"`
}

type runner struct {
	client   *http.Client
	baseURL  string
	apiKey   string
	provider string
	model    string
	style    string
}

func main() {
	url := flag.String("url", "http://127.0.0.1:8765", "API base URL")
	apiKey := flag.String("api-key", "", "X-API-Key token (optional)")
	provider := flag.String("provider", "", "provider to benchmark: openai, ollama or lmstudio (default: server default)")
	model := flag.String("model", "", "model id (default: provider default)")
	style := flag.String("style", "formal", "transformation style for timing runs")
	runs := flag.Int("runs", 3, "Number of runs per sample")
	quality := flag.Bool("quality", false, "Quality mode: show input/output for each quality sample (1 run, no timing table)")
	samplesPath := flag.String("samples", "", "YAML sample set (default: built-in samples)")
	jsonOut := flag.String("json", "", "Write results to JSON file (e.g. results.json)")
	warmup := flag.Bool("warmup", false, "Run one warmup request per sample before measuring")
	flag.Parse()

	set, err := loadSamples(*samplesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	r := &runner{
		client:   &http.Client{Timeout: 180 * time.Second},
		baseURL:  strings.TrimRight(*url, "/"),
		apiKey:   *apiKey,
		provider: *provider,
		model:    *model,
		style:    *style,
	}

	if *quality {
		if failures := r.quality(set.Quality); failures > 0 {
			os.Exit(1)
		}
		return
	}

	fmt.Printf("Benchmarking %s (provider: %s, model: %s, %d runs per sample",
		r.baseURL, orDefault(r.provider), orDefault(r.model), *runs)
	if *warmup {
		fmt.Print(", warmup enabled")
	}
	fmt.Println(")")

	var results []result
	var failures int
	for _, sample := range set.Timing {
		if *warmup {
			fmt.Printf("  Warming up %s...", sample.Name)
			w := r.run(sample, 0)
			if w.Error != "" {
				fmt.Printf(" FAILED (%s)\n", w.Error)
			} else {
				fmt.Printf(" %dms (discarded)\n", w.ElapsedMs)
			}
		}
		for run := 1; run <= *runs; run++ {
			fmt.Printf("  Running %s (run %d/%d)...", sample.Name, run, *runs)
			res := r.run(sample, run)
			results = append(results, res)
			if res.Error != "" {
				fmt.Printf(" FAILED (%s)\n", res.Error)
				failures++
			} else {
				fmt.Printf(" %dms\n", res.ElapsedMs)
			}
		}
	}

	fmt.Println()
	printTable(results)
	printSummary(results)

	if *jsonOut != "" {
		if err := writeJSON(*jsonOut, results, r.baseURL, r.provider); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON: %v\n", err)
		} else {
			fmt.Printf("\nResults written to %s\n", *jsonOut)
		}
	}

	if failures > 0 {
		os.Exit(1)
	}
}

func orDefault(s string) string {
	if s == "" {
		return "default"
	}
	return s
}

// transform posts one sample and returns the decoded response and the wall time.
func (r *runner) transform(sample Sample) (transformResponse, int64, error) {
	style := sample.Style
	if style == "" && sample.Prompt == "" {
		style = r.style
	}
	payload, err := json.Marshal(transformRequest{
		Text:           sample.Text,
		Transformation: style,
		Provider:       r.provider,
		Model:          r.model,
		Prompt:         sample.Prompt,
		Values:         sample.Values,
	})
	if err != nil {
		return transformResponse{}, 0, err
	}

	req, err := http.NewRequest(http.MethodPost, r.baseURL+"/api/transform", bytes.NewReader(payload))
	if err != nil {
		return transformResponse{}, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("X-API-Key", r.apiKey)
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	wallMs := time.Since(start).Milliseconds()
	if err != nil {
		return transformResponse{}, wallMs, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return transformResponse{}, wallMs, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tr transformResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return transformResponse{}, wallMs, err
	}
	return tr, wallMs, nil
}

func (r *runner) run(sample Sample, run int) result {
	chars := utf8.RuneCountInString(sample.Text)
	tr, wallMs, err := r.transform(sample)
	if err != nil {
		return result{Sample: sample.Name, Chars: chars, Run: run, WallMs: wallMs, Error: err.Error()}
	}
	return result{
		Sample:    sample.Name,
		Chars:     chars,
		Provider:  tr.Provider,
		Model:     tr.Model,
		Run:       run,
		ElapsedMs: tr.ElapsedMs,
		WallMs:    wallMs,
		OutChars:  utf8.RuneCountInString(tr.Text),
	}
}

func (r *runner) quality(samples []Sample) int {
	fmt.Printf("Quality test against %s (provider: %s, model: %s)\n", r.baseURL, orDefault(r.provider), orDefault(r.model))
	fmt.Println(strings.Repeat("=", 72))

	var failures int
	for i, sample := range samples {
		label := sample.Style
		if sample.Prompt != "" {
			label = "prompt " + sample.Prompt
		}
		fmt.Printf("\n--- %d/%d: %s [%s] (%d chars) ---\n", i+1, len(samples), sample.Name, label, utf8.RuneCountInString(sample.Text))
		fmt.Printf("IN:  %s\n", strings.TrimSpace(sample.Text))

		tr, _, err := r.transform(sample)
		if err != nil {
			fmt.Printf("ERR: %s\n", err)
			failures++
			continue
		}

		fmt.Printf("OUT: %s\n", tr.Text)
		fmt.Printf("     [%s/%s, %dms, %d->%d chars]\n", tr.Provider, tr.Model, tr.ElapsedMs,
			utf8.RuneCountInString(sample.Text), utf8.RuneCountInString(tr.Text))
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 72))
	fmt.Printf("Done: %d/%d passed\n", len(samples)-failures, len(samples))
	return failures
}

func printTable(results []result) {
	fmt.Println("| Sample | Chars | Model | Run | Elapsed (ms) | Wall (ms) | Out Chars | Ratio |")
	fmt.Println("|--------|-------|-------|-----|--------------|-----------|-----------|-------|")
	for _, r := range results {
		if r.Error != "" {
			fmt.Printf("| %-6s | %5d | %-20s | %d | %12s | %9s | %9s | %5s |\n",
				r.Sample, r.Chars, "-", r.Run, "FAIL", "-", "-", "-")
			continue
		}
		ratio := float64(r.OutChars) / float64(r.Chars)
		fmt.Printf("| %-6s | %5d | %-20s | %d | %12d | %9d | %9d | %5.2f |\n",
			r.Sample, r.Chars, r.Model, r.Run, r.ElapsedMs, r.WallMs, r.OutChars, ratio)
	}
}

func printSummary(results []result) {
	var ok []result
	for _, r := range results {
		if r.Error == "" {
			ok = append(ok, r)
		}
	}

	if len(ok) == 0 {
		fmt.Printf("\nSummary: all %d runs failed\n", len(results))
		return
	}

	var totalElapsed int64
	var totalChars int
	fastest, slowest := ok[0], ok[0]
	for _, r := range ok {
		totalElapsed += r.ElapsedMs
		totalChars += r.Chars
		if r.ElapsedMs < fastest.ElapsedMs {
			fastest = r
		}
		if r.ElapsedMs > slowest.ElapsedMs {
			slowest = r
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("- Avg ms/char: %.2f\n", float64(totalElapsed)/float64(totalChars))
	fmt.Printf("- Min elapsed: %dms (%s)\n", fastest.ElapsedMs, fastest.Sample)
	fmt.Printf("- Max elapsed: %dms (%s)\n", slowest.ElapsedMs, slowest.Sample)
	fmt.Printf("- Total runs: %d (%d ok, %d failed)\n", len(results), len(ok), len(results)-len(ok))
}

type jsonReport struct {
	Timestamp string   `json:"timestamp"`
	URL       string   `json:"url"`
	Provider  string   `json:"provider,omitempty"`
	Results   []result `json:"results"`
}

func writeJSON(path string, results []result, baseURL, provider string) error {
	data, err := json.MarshalIndent(jsonReport{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		URL:       baseURL,
		Provider:  provider,
		Results:   results,
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
