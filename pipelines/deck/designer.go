package deck

import (
	"autodeck/common"
)

// speakerNote is the constant authoring reminder attached to every slide.
const speakerNote = "One concept per slide; the title states the conclusion, the bullets support it."

// DesignSlides expands the outline into slide drafts: condensed bullets,
// rotated layouts, asset specifications and speaker notes. Assets are only
// specified here; materialization happens later and may leave Path empty.
func DesignSlides(outline common.OutlinePlan) []common.SlideDraft {
	layouts := common.Layouts()
	drafts := make([]common.SlideDraft, 0, len(outline.Slides))

	for i, slide := range outline.Slides {
		draft := common.SlideDraft{
			Title:   RewriteTitle(slide.Title),
			Bullets: condenseBullets(slide.Bullets),
			Notes:   speakerNote,
			Layout:  layouts[i%len(layouts)],
			Assets:  specifyAssets(slide),
			Sources: slide.Sources,
		}
		drafts = append(drafts, draft)
	}
	return drafts
}

// condenseBullets trims each bullet to the character budget at a word
// boundary and enforces the per-slide cap. Fewer than three bullets are
// left as-is; padding would dilute the slide.
func condenseBullets(bullets []string) []string {
	if len(bullets) > common.MaxBulletsPerSlide {
		bullets = bullets[:common.MaxBulletsPerSlide]
	}
	out := make([]string, 0, len(bullets))
	for _, b := range bullets {
		out = append(out, common.TruncateAtWord(b, common.MaxBulletLength))
	}
	return out
}

func specifyAssets(slide common.OutlineSlide) []common.AssetSpec {
	switch slide.Visual {
	case common.VisualChart:
		return []common.AssetSpec{{Kind: common.AssetChart, TableRef: slide.TableRef}}
	case common.VisualImage:
		return []common.AssetSpec{{Kind: common.AssetImage, Prompt: imagePrompt(slide.Title)}}
	}
	return nil
}

func imagePrompt(title string) string {
	return "Clean, minimal presentation visual illustrating: " + title
}
