// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/answer-engine/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.ArchiveConfig{
		Path: filepath.Join(t.TempDir(), "answers.db"),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleResult(id string, at time.Time) *types.PipelineResult {
	return &types.PipelineResult{
		ID:              id,
		Question:        "What are the symptoms of type 2 diabetes?",
		RefinedQuery:    "type 2 diabetes mellitus symptoms",
		FinalAnswerHTML: `<div class="medical-answer">answer</div>`,
		WebResults: []types.SearchResult{
			{Title: "Mayo Clinic", Snippet: "Increased thirst", URL: "https://mayo.example", Source: "google"},
		},
		LiteratureResults: []types.SearchResult{},
		Degraded:          types.Degraded{Literature: true},
		Timestamp:         at,
	}
}

func TestSaveAndGet(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	want := sampleResult("id-1", time.Now())
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(ctx, "id-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Question != want.Question || got.RefinedQuery != want.RefinedQuery {
		t.Errorf("Get = %+v", got)
	}
	if got.FinalAnswerHTML != want.FinalAnswerHTML {
		t.Errorf("FinalAnswerHTML = %q", got.FinalAnswerHTML)
	}
	if len(got.WebResults) != 1 || got.WebResults[0].Title != "Mayo Clinic" {
		t.Errorf("WebResults = %+v", got.WebResults)
	}
	if got.LiteratureResults == nil || len(got.LiteratureResults) != 0 {
		t.Errorf("LiteratureResults = %v, want empty non-nil", got.LiteratureResults)
	}
	if !got.Degraded.Literature || got.Degraded.Research {
		t.Errorf("Degraded = %+v", got.Degraded)
	}
	if !got.Timestamp.Equal(want.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, want.Timestamp)
	}
}

func TestSaveRejectsDuplicateID(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	r := sampleResult("dup", time.Now())
	if err := store.Save(ctx, r); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, r); err == nil {
		t.Fatal("Save accepted a duplicate ID")
	}
}

func TestGetMissing(t *testing.T) {
	store := testStore(t)
	_, err := store.Get(context.Background(), "no-such-id")
	if err == nil {
		t.Fatal("Get returned a result for a missing ID")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("err = %v, want not-found", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		r := sampleResult(fmt.Sprintf("id-%d", i), base.Add(time.Duration(i)*time.Minute))
		if err := store.Save(ctx, r); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	summaries, err := store.List(ctx, 3)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("len(summaries) = %d, want 3", len(summaries))
	}
	for i, want := range []string{"id-4", "id-3", "id-2"} {
		if summaries[i].ID != want {
			t.Errorf("summaries[%d].ID = %q, want %q", i, summaries[i].ID, want)
		}
	}
	if !summaries[0].Degraded {
		t.Error("summary should collapse degraded flags to a single bool")
	}
}

func TestListDefaultLimit(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		r := sampleResult(fmt.Sprintf("id-%02d", i), time.Now().Add(time.Duration(i)*time.Second))
		if err := store.Save(ctx, r); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	summaries, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(summaries) != 20 {
		t.Errorf("len(summaries) = %d, want the default limit of 20", len(summaries))
	}
}
