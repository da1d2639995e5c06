// Command parity_check replays read-only requests against this API and the
// legacy Node backend it replaces, reporting status and payload differences.
// Run it before a cutover; a mismatch on a critical endpoint exits non-zero.
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
	"reflect"
	"strings"
	"time"
)

type endpoint struct {
	Path     string
	Critical bool
}

// Envelope keys the legacy backend never emits. They are stripped before
// comparison so observability additions do not count as payload drift.
var ignoredKeys = map[string]struct{}{
	"meta": {},
}

var defaultEndpoints = []endpoint{
	{Path: "/api/persons/search?q=perez", Critical: true},
	{Path: "/api/persons/search?q=", Critical: true},
	{Path: "/api/procedures/person/%s", Critical: false},
	{Path: "/health", Critical: false},
}

type result struct {
	Endpoint       endpoint
	NewStatus      int
	LegacyStatus   int
	StatusMatch    bool
	BodyMatch      bool
	Err            error
	NewDuration    time.Duration
	LegacyDuration time.Duration
}

func main() {
	var (
		newBase    string
		legacyBase string
		personID   string
		timeout    time.Duration
	)
	flag.StringVar(&newBase, "new-base", "http://localhost:5000", "base URL of this API")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:3000", "base URL of the legacy backend")
	flag.StringVar(&personID, "person", "", "person ID substituted into person-scoped endpoints")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}

	var results []result
	breaking := 0
	for _, ep := range defaultEndpoints {
		if strings.Contains(ep.Path, "%s") {
			if personID == "" {
				continue
			}
			ep.Path = fmt.Sprintf(ep.Path, personID)
		}
		res := compare(client, newBase, legacyBase, ep)
		if ep.Critical && (res.Err != nil || !res.StatusMatch || !res.BodyMatch) {
			breaking++
		}
		results = append(results, res)
	}

	report(results)
	if breaking > 0 {
		log.Printf("%d critical endpoint(s) differ", breaking)
		os.Exit(1)
	}
}

func compare(client *http.Client, newBase, legacyBase string, ep endpoint) result {
	res := result{Endpoint: ep}

	newBody, newStatus, newDur, err := fetch(client, newBase, ep.Path)
	if err != nil {
		res.Err = fmt.Errorf("new API request failed: %w", err)
		return res
	}
	legacyBody, legacyStatus, legacyDur, err := fetch(client, legacyBase, ep.Path)
	if err != nil {
		res.Err = fmt.Errorf("legacy request failed: %w", err)
		return res
	}

	res.NewStatus = newStatus
	res.LegacyStatus = legacyStatus
	res.NewDuration = newDur
	res.LegacyDuration = legacyDur
	res.StatusMatch = newStatus == legacyStatus
	res.BodyMatch = bodiesEqual(newBody, legacyBody)
	return res
}

func fetch(client *http.Client, base, path string) ([]byte, int, time.Duration, error) {
	url := strings.TrimRight(base, "/") + path
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, 0, err
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, 0, err
	}
	return body, resp.StatusCode, time.Since(start), nil
}

func bodiesEqual(a, b []byte) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}
	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	normalize(&aj)
	normalize(&bj)
	return reflect.DeepEqual(aj, bj)
}

func normalize(v *interface{}) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		for key := range ignoredKeys {
			delete(val, key)
		}
		for k, inner := range val {
			normalize(&inner)
			val[k] = inner
		}
	case []interface{}:
		for i, inner := range val {
			normalize(&inner)
			val[i] = inner
		}
	case float64:
		if val == float64(int64(val)) {
			*v = int64(val)
		}
	}
}

func report(results []result) {
	fmt.Println("Parity Check Report")
	fmt.Println("===================")
	for _, res := range results {
		status := "OK"
		if res.Err != nil {
			status = "ERROR"
		} else if !res.StatusMatch || !res.BodyMatch {
			status = "DIFF"
		}
		fmt.Printf("[%s] GET %s\n", status, res.Endpoint.Path)
		if res.Err != nil {
			fmt.Printf("  Error: %v\n", res.Err)
			continue
		}
		fmt.Printf("  New: %d (%s) | Legacy: %d (%s)\n", res.NewStatus, res.NewDuration, res.LegacyStatus, res.LegacyDuration)
		fmt.Printf("  Status match: %t | Body match: %t | Critical: %t\n", res.StatusMatch, res.BodyMatch, res.Endpoint.Critical)
	}
}
