package deck

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"autodeck/common"
)

// PlannerOptions carries the optional collaborators of the outline stage.
// TextGen is the injected generative adapter; when nil the planner is fully
// deterministic.
type PlannerOptions struct {
	Instructions string
	TextGen      common.TextGenerator
	Timeout      time.Duration
}

const maxTitleLength = 90

// BuildOutline converts a content summary into an ordered slide outline.
// The slide count policy and the [3,12] clamp decided here are final; no
// later stage overrides them.
func BuildOutline(summary common.ContentSummary, durationMinutes int, stylePrefs map[string]string, opts PlannerOptions) common.OutlinePlan {
	count := slideCount(summary, durationMinutes)

	topics := summary.Topics
	if len(topics) == 0 {
		topics = []string{"Overview"}
	}

	slides := make([]common.OutlineSlide, 0, count)
	next := 0 // index of the first unassigned finding
	for i := 0; i < count; i++ {
		bullets, sources, tableRef := takeBullets(summary, &next)
		topic := topics[i%len(topics)]
		if len(bullets) == 0 {
			bullets = []string{"Highlight the main point for " + topic}
		}

		slide := common.OutlineSlide{
			Title:    slideTitle(topic, bullets),
			Bullets:  bullets,
			Visual:   pickVisual(summary, tableRef, topic, opts.Instructions),
			TableRef: tableRef,
			Sources:  sources,
		}
		if opts.TextGen != nil {
			slide.Bullets = refineBullets(opts, slide.Title, slide.Bullets)
		}
		slides = append(slides, slide)
	}

	return common.OutlinePlan{Slides: slides, Theme: ResolveTheme(stylePrefs)}
}

// slideCount applies the one-minute rule when a duration is given, otherwise
// estimates from content volume and clamps to [MinSlides, MaxSlides].
func slideCount(summary common.ContentSummary, durationMinutes int) int {
	if durationMinutes > 0 {
		return durationMinutes
	}
	count := len(summary.Findings)
	if len(summary.Topics) > count {
		count = len(summary.Topics)
	}
	if count < common.MinSlides {
		count = common.MinSlides
	}
	if count > common.MaxSlides {
		count = common.MaxSlides
	}
	return count
}

// takeBullets assigns the next run of findings (up to the per-slide cap) to
// a slide, in original order. Findings beyond the total budget are dropped;
// the outline is a summary, not a transcript.
func takeBullets(summary common.ContentSummary, next *int) ([]string, []string, string) {
	var bullets, sources []string
	var tableRef string

	for *next < len(summary.Findings) && len(bullets) < common.MaxBulletsPerSlide {
		f := summary.Findings[*next]
		*next++
		bullets = append(bullets, f.Text)
		if f.Source != "" {
			sources = appendSource(sources, f.Source)
			if tableRef == "" {
				if t := tableForSource(summary, f.Source); t != nil {
					tableRef = t.Ref
				}
			}
		}
	}
	return bullets, sources, tableRef
}

func tableForSource(summary common.ContentSummary, source string) *common.TableSummary {
	for i := range summary.Tables {
		if summary.Tables[i].Source == source {
			return &summary.Tables[i]
		}
	}
	return nil
}

// slideTitle builds a raw "<topic>: <conclusion>" phrase from the slide's
// leading bullet and rewrites it into conclusion form.
func slideTitle(topic string, bullets []string) string {
	raw := topic + ": key takeaway"
	if len(bullets) > 0 {
		raw = topic + ": " + bullets[0]
	}
	return common.TruncateAtWord(RewriteTitle(raw), maxTitleLength)
}

// RewriteTitle turns a "<topic>: <conclusion>" phrase into its conclusion
// part. Phrases without a separator pass through unchanged, which makes the
// rewrite idempotent.
func RewriteTitle(title string) string {
	if _, after, ok := strings.Cut(title, ":"); ok {
		if trimmed := strings.TrimSpace(after); trimmed != "" {
			return trimmed
		}
	}
	return strings.TrimSpace(title)
}

var imageCues = []string{"image", "visual", "photo", "picture", "diagram", "illustrat", "design", "look"}

// pickVisual chooses chart when table data backs the slide, image when the
// instructions or topic imply visual emphasis, none otherwise.
func pickVisual(summary common.ContentSummary, tableRef, topic, instructions string) common.VisualHint {
	if tableRef != "" {
		return common.VisualChart
	}
	hint := strings.ToLower(instructions + " " + topic)
	for _, cue := range imageCues {
		if strings.Contains(hint, cue) {
			return common.VisualImage
		}
	}
	return common.VisualNone
}

// refineBullets asks the generative adapter to tighten bullet text. Every
// failure path keeps the original bullets.
func refineBullets(opts PlannerOptions, title string, bullets []string) []string {
	if len(bullets) == 0 {
		return bullets
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	prompt := fmt.Sprintf(
		"Rewrite these slide bullets to be concise (<=12 words each), 3-5 bullets max.\n"+
			"Return ONLY the bullet points, one per line, starting with \"- \".\n"+
			"Title: %s\nBullets:\n- %s",
		title, strings.Join(bullets, "\n- "))

	text, err := opts.TextGen.Generate(ctx, prompt)
	if err != nil {
		log.Printf("Warning: bullet refinement failed, keeping originals: %v", err)
		return bullets
	}

	var refined []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(line), "- "), "* "))
		if line == "" {
			continue
		}
		refined = append(refined, line)
		if len(refined) == common.MaxBulletsPerSlide {
			break
		}
	}
	if len(refined) == 0 {
		return bullets
	}
	return refined
}
