// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSerpAPISearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "type 2 diabetes symptoms" {
			t.Errorf("q = %q", q.Get("q"))
		}
		if q.Get("api_key") != "sk-test" {
			t.Errorf("api_key = %q", q.Get("api_key"))
		}
		if q.Get("engine") != "google" || q.Get("safe") != "active" {
			t.Errorf("engine/safe = %q/%q", q.Get("engine"), q.Get("safe"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"organic_results": []map[string]string{
				{"title": "Type 2 diabetes - Mayo Clinic", "link": "https://mayo.example/d", "snippet": "Increased thirst...", "source": "Mayo Clinic"},
				{"title": "Diabetes - NIH", "link": "https://nih.example/d", "snippet": "Frequent urination...", "source": ""},
			},
		})
	}))
	defer ts.Close()
	orig := serpAPIBase
	serpAPIBase = ts.URL
	defer func() { serpAPIBase = orig }()

	cfg := testCfg()
	cfg.SerpAPIKey = "sk-test"
	b := &SerpAPIBackend{Client: &http.Client{Timeout: 5 * time.Second}}

	results, err := b.Search(context.Background(), "type 2 diabetes symptoms", cfg)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Title != "Type 2 diabetes - Mayo Clinic" || results[0].Source != "Mayo Clinic" {
		t.Errorf("results[0] = %+v", results[0])
	}
	// Missing provider source falls back to the engine name.
	if results[1].Source != "google" {
		t.Errorf("results[1].Source = %q, want google", results[1].Source)
	}
}

func TestSerpAPISearchMissingKey(t *testing.T) {
	b := &SerpAPIBackend{Client: http.DefaultClient}
	if _, err := b.Search(context.Background(), "q", testCfg()); err == nil {
		t.Fatal("Search accepted a missing API key")
	}
}

func TestSerpAPISearchUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"error": "Your account has run out of searches."})
	}))
	defer ts.Close()
	orig := serpAPIBase
	serpAPIBase = ts.URL
	defer func() { serpAPIBase = orig }()

	cfg := testCfg()
	cfg.SerpAPIKey = "sk-test"
	b := &SerpAPIBackend{Client: http.DefaultClient}

	if _, err := b.Search(context.Background(), "q", cfg); err == nil {
		t.Fatal("Search ignored the provider error payload")
	}
}

func TestSerpAPISearchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()
	orig := serpAPIBase
	serpAPIBase = ts.URL
	defer func() { serpAPIBase = orig }()

	cfg := testCfg()
	cfg.SerpAPIKey = "sk-test"
	b := &SerpAPIBackend{Client: http.DefaultClient}

	if _, err := b.Search(context.Background(), "q", cfg); err == nil {
		t.Fatal("Search ignored HTTP 429")
	}
}
