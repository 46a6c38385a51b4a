package deck

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"autodeck/common"
)

func sampleDrafts() []common.SlideDraft {
	return []common.SlideDraft{
		{
			Title:   "Revenue doubled in a year",
			Bullets: []string{"North region led growth", "Churn stayed flat"},
			Notes:   "Open with the headline number.",
			Layout:  common.LayoutSplit,
			Sources: []string{"/data/sales.csv"},
		},
		{
			Title:   "Retention is the next lever",
			Bullets: []string{"Cohort curves flatten after month three"},
			Layout:  common.LayoutStacked,
		},
		{
			Title:   "Ship the loyalty program",
			Bullets: []string{"Pilot in two markets first"},
			Layout:  common.LayoutFocus,
		},
	}
}

func TestAssembleWritesDeckAndPreviews(t *testing.T) {
	out := filepath.Join(t.TempDir(), "deck", "presentation.pptx")

	result, err := Assemble(sampleDrafts(), ResolveTheme(nil), out)
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}

	if result.SlidesBuilt != 3 {
		t.Errorf("slides built = %d", result.SlidesBuilt)
	}
	data, err := os.ReadFile(result.OutputPath)
	if err != nil {
		t.Fatalf("deck not written: %v", err)
	}
	// A PPTX file is a ZIP archive.
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Error("output is not a ZIP container")
	}

	preview, err := os.ReadFile(result.PreviewPath)
	if err != nil {
		t.Fatalf("preview not written: %v", err)
	}
	if !strings.Contains(string(preview), "## Slide 1: Revenue doubled in a year") {
		t.Errorf("preview content:\n%s", preview)
	}

	html, err := os.ReadFile(result.HTMLPreviewPath)
	if err != nil {
		t.Fatalf("HTML preview not written: %v", err)
	}
	if !strings.Contains(string(html), "<h2>") {
		t.Errorf("HTML preview content:\n%s", html)
	}
}

func TestAssembleSkipsUnmaterializedAsset(t *testing.T) {
	drafts := sampleDrafts()
	drafts[0].Assets = []common.AssetSpec{{Kind: common.AssetImage, Prompt: "a visual"}}

	out := filepath.Join(t.TempDir(), "presentation.pptx")
	result, err := Assemble(drafts, ResolveTheme(nil), out)
	if err != nil {
		t.Fatalf("missing asset must not fail assembly: %v", err)
	}
	if len(result.Notes) != 1 || !strings.Contains(result.Notes[0], "skipped") {
		t.Errorf("notes = %v", result.Notes)
	}
}

func TestAssembleSkipsVanishedAssetFile(t *testing.T) {
	drafts := sampleDrafts()
	drafts[1].Assets = []common.AssetSpec{{
		Kind: common.AssetChart,
		Path: filepath.Join(t.TempDir(), "gone.png"),
	}}

	out := filepath.Join(t.TempDir(), "presentation.pptx")
	result, err := Assemble(drafts, ResolveTheme(nil), out)
	if err != nil {
		t.Fatalf("vanished asset must not fail assembly: %v", err)
	}
	if len(result.Notes) != 1 {
		t.Errorf("notes = %v", result.Notes)
	}
}

func TestRenderPreviewFormat(t *testing.T) {
	drafts := sampleDrafts()
	drafts[0].Assets = []common.AssetSpec{{Kind: common.AssetChart, Path: "/tmp/c.png"}}

	md := RenderPreview(drafts, "Calibri")

	if !strings.HasPrefix(md, "# Presentation Preview\n") {
		t.Errorf("preview header missing:\n%s", md)
	}
	for _, want := range []string{
		"_Font_: Calibri",
		"## Slide 1: Revenue doubled in a year",
		"- North region led growth",
		"_Assets_: chart",
		"_Sources_: sales.csv",
		"_Notes_: Open with the headline number.",
		"## Slide 3: Ship the loyalty program",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("preview missing %q:\n%s", want, md)
		}
	}
}

func TestRenderPreviewDeterministic(t *testing.T) {
	drafts := sampleDrafts()
	if RenderPreview(drafts, "Calibri") != RenderPreview(drafts, "Calibri") {
		t.Error("preview differs between runs on identical drafts")
	}
}

func TestAssembleAppliesThemeFont(t *testing.T) {
	out := filepath.Join(t.TempDir(), "presentation.pptx")
	theme := ResolveTheme(map[string]string{"font": "Georgia"})

	result, err := Assemble(sampleDrafts(), theme, out)
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}

	preview, err := os.ReadFile(result.PreviewPath)
	if err != nil {
		t.Fatalf("preview not written: %v", err)
	}
	if !strings.Contains(string(preview), "_Font_: Georgia") {
		t.Errorf("font override missing from preview:\n%s", preview)
	}

	html, err := os.ReadFile(result.HTMLPreviewPath)
	if err != nil {
		t.Fatalf("HTML preview not written: %v", err)
	}
	if !strings.Contains(string(html), "font-family: Georgia") {
		t.Errorf("font override missing from HTML preview:\n%s", html)
	}
}
