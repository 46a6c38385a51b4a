package deck

import (
	"strings"
	"testing"
	"unicode/utf8"

	"autodeck/common"
)

func outlineWithSlides(n int) common.OutlinePlan {
	plan := common.OutlinePlan{Theme: ResolveTheme(nil)}
	for i := 0; i < n; i++ {
		plan.Slides = append(plan.Slides, common.OutlineSlide{
			Title:   "topic: a conclusion",
			Bullets: []string{"supporting point"},
			Visual:  common.VisualNone,
		})
	}
	return plan
}

func TestLayoutRotation(t *testing.T) {
	drafts := DesignSlides(outlineWithSlides(5))

	want := []common.Layout{
		common.LayoutSplit, common.LayoutStacked, common.LayoutFocus,
		common.LayoutSplit, common.LayoutStacked,
	}
	for i, draft := range drafts {
		if draft.Layout != want[i] {
			t.Errorf("slide %d layout = %v, want %v", i, draft.Layout, want[i])
		}
	}
}

func TestDesignRewritesTitleIdempotently(t *testing.T) {
	drafts := DesignSlides(outlineWithSlides(1))
	if drafts[0].Title != "a conclusion" {
		t.Errorf("title = %q", drafts[0].Title)
	}

	// Titles already in conclusion form pass through the second rewrite.
	plan := outlineWithSlides(1)
	plan.Slides[0].Title = "a conclusion"
	if got := DesignSlides(plan)[0].Title; got != "a conclusion" {
		t.Errorf("conclusion-form title changed to %q", got)
	}
}

func TestCondenseBulletsEnforcesLimits(t *testing.T) {
	plan := outlineWithSlides(1)
	long := strings.Repeat("lengthy ", 40)
	plan.Slides[0].Bullets = []string{long, long, long, long, long, long, long}

	bullets := DesignSlides(plan)[0].Bullets
	if len(bullets) != common.MaxBulletsPerSlide {
		t.Errorf("bullet count = %d", len(bullets))
	}
	for i, b := range bullets {
		if utf8.RuneCountInString(b) > common.MaxBulletLength {
			t.Errorf("bullet %d is %d runes", i, utf8.RuneCountInString(b))
		}
		if strings.HasSuffix(b, "length") || strings.HasSuffix(b, "lengt") {
			t.Errorf("bullet %d cut mid-word: %q", i, b)
		}
	}
}

func TestShortBulletListsAreNotPadded(t *testing.T) {
	plan := outlineWithSlides(1)
	plan.Slides[0].Bullets = []string{"only point"}
	if got := DesignSlides(plan)[0].Bullets; len(got) != 1 {
		t.Errorf("bullets = %v", got)
	}
}

func TestAssetSpecification(t *testing.T) {
	plan := outlineWithSlides(3)
	plan.Slides[0].Visual = common.VisualChart
	plan.Slides[0].TableRef = "table-1"
	plan.Slides[1].Visual = common.VisualImage

	drafts := DesignSlides(plan)

	chart := drafts[0].Assets
	if len(chart) != 1 || chart[0].Kind != common.AssetChart || chart[0].TableRef != "table-1" {
		t.Errorf("chart assets = %+v", chart)
	}
	if chart[0].Materialized() {
		t.Error("asset materialized before any generator ran")
	}

	img := drafts[1].Assets
	if len(img) != 1 || img[0].Kind != common.AssetImage || img[0].Prompt == "" {
		t.Errorf("image assets = %+v", img)
	}

	if len(drafts[2].Assets) != 0 {
		t.Errorf("no-visual slide got assets: %+v", drafts[2].Assets)
	}
}

func TestSpeakerNotes(t *testing.T) {
	for _, draft := range DesignSlides(outlineWithSlides(2)) {
		if draft.Notes == "" {
			t.Error("slide missing speaker notes")
		}
	}
}
