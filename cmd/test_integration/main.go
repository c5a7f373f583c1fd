package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func main() {
	baseURL := os.Getenv("POKEDEX_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// Wait for server to start
	if !waitHealthy(baseURL, 10*time.Second) {
		fmt.Println("FAILED: server did not become healthy")
		os.Exit(1)
	}

	fmt.Println("Starting Integration Test...")

	steps := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"Trigger preload", http.MethodPost, "/api/v1/pokemon/cache/preload", http.StatusAccepted},
		{"Fetch pokemon 1", http.MethodGet, "/api/v1/pokemon/1", http.StatusOK},
		{"Fetch first page", http.MethodGet, "/api/v1/pokemon?offset=0&limit=5", http.StatusOK},
		{"Reject bad limit", http.MethodGet, "/api/v1/pokemon?limit=0", http.StatusBadRequest},
		{"Unknown pokemon", http.MethodGet, "/api/v1/pokemon/999999", http.StatusNotFound},
		{"Cache stats", http.MethodGet, "/api/v1/cache/stats", http.StatusOK},
	}

	for i, step := range steps {
		fmt.Printf("%d. %s...\n", i+1, step.name)
		if !sendRequest(baseURL, step.method, step.path, step.status) {
			fmt.Printf("FAILED: %s\n", step.name)
			os.Exit(1)
		}
		fmt.Printf("PASSED: %s\n", step.name)
	}
}

func waitHealthy(baseURL string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(baseURL + "/healthz")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return true
			}
		}
		time.Sleep(200 * time.Millisecond)
	}
	return false
}

func sendRequest(baseURL, method, endpoint string, wantStatus int) bool {
	req, err := http.NewRequest(method, baseURL+endpoint, nil)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return false
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != wantStatus {
		fmt.Printf("Request failed with status %d (want %d): %s\n", resp.StatusCode, wantStatus, string(respBody))
		return false
	}

	var envelope struct {
		ResponseMessage string `json:"responseMessage"`
		ResponseCode    string `json:"responseCode"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		fmt.Printf("Response is not an API envelope: %v\n", err)
		return false
	}
	fmt.Printf("Response: %s %s\n", envelope.ResponseCode, envelope.ResponseMessage)

	return true
}
