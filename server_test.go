package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"autodeck/common"
)

func writeTestInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test input: %v", err)
	}
	return path
}

// TestConcurrentJobs simulates multiple users submitting deck jobs at once.
// Text-only inputs keep the run offline: no LLM, no image backend.
func TestConcurrentJobs(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()

	input := writeTestInput(t, inputDir, "notes.txt",
		"Revenue grew twelve percent year over year.\n\n"+
			"Churn dropped below two percent in the final quarter.\n\n"+
			"The new onboarding flow doubled trial conversions.\n")

	concurrentUsers := 4
	pool := NewWorkerPool(2, concurrentUsers)

	var config common.PipelineConfig
	config.DefaultTimeouts()

	jobIDs := make([]string, concurrentUsers)
	for i := 0; i < concurrentUsers; i++ {
		jobIDs[i] = fmt.Sprintf("job-%d", i)
		pool.Submit(&Job{
			ID: jobIDs[i],
			Request: common.PresentationRequest{
				Inputs:     []string{input},
				OutputPath: filepath.Join(outputDir, jobIDs[i], "presentation.pptx"),
			},
			Config: config,
		})
	}

	start := time.Now()
	pool.Shutdown()
	t.Logf("all jobs drained in %s", time.Since(start))

	for _, id := range jobIDs {
		status, ok := pool.GetStatus(id)
		if !ok {
			t.Fatalf("job %s has no status", id)
		}
		if status.Status != "completed" {
			t.Errorf("job %s: status %q, error %q", id, status.Status, status.Error)
			continue
		}
		if status.SlidesBuilt == 0 {
			t.Errorf("job %s: no slides built", id)
		}
		if _, err := os.Stat(status.OutputPath); err != nil {
			t.Errorf("job %s: deck not written: %v", id, err)
		}
		if status.DoneAt == nil {
			t.Errorf("job %s: completed without done timestamp", id)
		}
	}
}

func TestStatusUnknownJob(t *testing.T) {
	pool := NewWorkerPool(1, 1)
	defer pool.Shutdown()

	if _, ok := pool.GetStatus("missing"); ok {
		t.Error("expected unknown job to have no status")
	}
}

func TestStyleFlags(t *testing.T) {
	styles := styleFlags{}

	if err := styles.Set("palette=dark"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := styles.Set("font = Georgia"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if styles["palette"] != "dark" || styles["font"] != "Georgia" {
		t.Errorf("unexpected styles: %v", styles)
	}

	if err := styles.Set("nodelimiter"); err == nil {
		t.Error("expected error for value without '='")
	}
	if err := styles.Set("=value"); err == nil {
		t.Error("expected error for empty key")
	}
}
