package deck

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ppt "github.com/VantageDataChat/GoPPT"
	"github.com/yuin/goldmark"

	"autodeck/common"
)

// Slide geometry in EMU. GoPPT decks default to 16:9 at 10 x 5.625 inches.
const (
	emuPerInch = 914400

	slideWidth  = int64(10.0 * emuPerInch)
	slideHeight = int64(5.625 * emuPerInch)

	marginX    = int64(0.5 * emuPerInch)
	titleTop   = int64(0.3 * emuPerInch)
	titleH     = int64(0.8 * emuPerInch)
	bodyTop    = int64(1.2 * emuPerInch)
	bodyWidth  = slideWidth - 2*marginX
	bodyHeight = int64(3.7 * emuPerInch)
	footerTop  = int64(5.0 * emuPerInch)
	footerH    = int64(0.45 * emuPerInch)
	bodyGap    = int64(0.3 * emuPerInch)

	fontTitle  = 32
	fontBody   = 20
	fontFocus  = 24
	fontFooter = 10
)

// Assemble renders the slide drafts into a PPTX deck plus markdown and HTML
// previews. One missing asset never fails the deck; a rendering error does,
// because a partially written deck is not a usable artifact.
func Assemble(drafts []common.SlideDraft, theme map[string]string, outputPath string) (common.AssemblyResult, error) {
	palette := ResolvePalette(theme["palette"])

	var result common.AssemblyResult

	p := ppt.New()
	p.GetDocumentProperties().Title = "Generated presentation"
	p.GetDocumentProperties().Creator = "autodeck"

	for i, draft := range drafts {
		var slide *ppt.Slide
		if i == 0 {
			slide = p.GetActiveSlide()
		} else {
			slide = p.CreateSlide()
		}
		notes := buildSlide(slide, draft, palette)
		result.Notes = append(result.Notes, notes...)
	}

	w, err := ppt.NewWriter(p, ppt.WriterPowerPoint2007)
	if err != nil {
		return result, fmt.Errorf("failed to create PPTX writer: %w", err)
	}
	var buf bytes.Buffer
	if err := w.(*ppt.PPTXWriter).WriteTo(&buf); err != nil {
		return result, fmt.Errorf("failed to render deck: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return result, fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		return result, fmt.Errorf("failed to write deck: %w", err)
	}

	previewPath, htmlPath, err := writePreviews(drafts, theme["font"], outputPath)
	if err != nil {
		return result, err
	}

	result.OutputPath = outputPath
	result.PreviewPath = previewPath
	result.HTMLPreviewPath = htmlPath
	result.SlidesBuilt = len(drafts)
	return result, nil
}

// buildSlide draws one slide: background, accent bar, title, bullets per
// layout, optional asset, footer. Returns notes about skipped assets.
func buildSlide(slide *ppt.Slide, draft common.SlideDraft, palette Palette) []string {
	var notes []string

	// Background fill and accent bar set the palette tone for the slide.
	bg := slide.CreateRichTextShape()
	bg.SetOffsetX(0).SetOffsetY(0)
	bg.SetWidth(slideWidth).SetHeight(slideHeight)
	bg.SetFill(solidFill(palette.Background))

	accent := slide.CreateRichTextShape()
	accent.SetOffsetX(0).SetOffsetY(0)
	accent.SetWidth(slideWidth).SetHeight(int64(0.1 * emuPerInch))
	accent.SetFill(solidFill(palette.Accent))

	addTitle(slide, draft.Title, palette)

	asset, assetNote := pickAsset(draft)
	if assetNote != "" {
		notes = append(notes, fmt.Sprintf("slide %q: %s", draft.Title, assetNote))
	}

	switch draft.Layout {
	case common.LayoutSplit:
		textW := (bodyWidth - bodyGap) * 55 / 100
		addBullets(slide, draft.Bullets, marginX, bodyTop, textW, bodyHeight, fontBody, false, palette)
		if asset != nil {
			addAsset(slide, asset, marginX+textW+bodyGap, bodyTop, bodyWidth-textW-bodyGap, bodyHeight)
		}
	case common.LayoutStacked:
		addBullets(slide, draft.Bullets, marginX, bodyTop, bodyWidth, bodyHeight*55/100, fontBody, false, palette)
		if asset != nil {
			addAsset(slide, asset, marginX, bodyTop+bodyHeight*60/100, bodyWidth, bodyHeight*35/100)
		}
	default: // focus
		addBullets(slide, draft.Bullets, marginX, bodyTop+int64(0.3*emuPerInch), bodyWidth, bodyHeight*80/100, fontFocus, true, palette)
	}

	footerNote := draft.Notes
	if len(notes) > 0 {
		footerNote = strings.TrimSpace(footerNote + " [asset skipped]")
	}
	addFooter(slide, draft.Sources, footerNote, palette)
	return notes
}

// pickAsset returns the first materialized asset of the draft, plus a note
// when a specified asset had to be skipped.
func pickAsset(draft common.SlideDraft) (*common.AssetSpec, string) {
	for i := range draft.Assets {
		a := &draft.Assets[i]
		if !a.Materialized() {
			continue
		}
		if _, err := os.Stat(a.Path); err != nil {
			return nil, fmt.Sprintf("asset file %s missing, skipped", filepath.Base(a.Path))
		}
		return a, ""
	}
	if len(draft.Assets) > 0 {
		return nil, "asset was not materialized, skipped"
	}
	return nil, ""
}

func addTitle(slide *ppt.Slide, title string, palette Palette) {
	shape := slide.CreateRichTextShape()
	shape.SetOffsetX(marginX).SetOffsetY(titleTop)
	shape.SetWidth(bodyWidth).SetHeight(titleH)
	tr := shape.CreateTextRun(title)
	tr.GetFont().SetSize(fontTitle).SetBold(true).SetColor(ppt.NewColor(palette.TitleText))
}

func addBullets(slide *ppt.Slide, bullets []string, x, y, w, h int64, size int, bold bool, palette Palette) {
	shape := slide.CreateRichTextShape()
	shape.SetOffsetX(x).SetOffsetY(y)
	shape.SetWidth(w).SetHeight(h)

	for i, bullet := range bullets {
		if i > 0 {
			shape.CreateParagraph()
		}
		tr := shape.CreateTextRun("• " + bullet)
		tr.GetFont().SetSize(size).SetBold(bold).SetColor(ppt.NewColor(palette.BodyText))
	}
}

func addAsset(slide *ppt.Slide, asset *common.AssetSpec, x, y, w, h int64) {
	data, err := os.ReadFile(asset.Path)
	if err != nil {
		return
	}
	img := slide.CreateDrawingShape()
	img.SetImageData(data, "image/png")
	img.SetOffsetX(x).SetOffsetY(y)
	img.SetWidth(w).SetHeight(h)
}

func addFooter(slide *ppt.Slide, sources []string, note string, palette Palette) {
	shape := slide.CreateRichTextShape()
	shape.SetOffsetX(marginX).SetOffsetY(footerTop)
	shape.SetWidth(bodyWidth).SetHeight(footerH)

	wrote := false
	if len(sources) > 0 {
		names := make([]string, 0, len(sources))
		for _, s := range sources {
			names = append(names, filepath.Base(s))
		}
		tr := shape.CreateTextRun("Sources: " + strings.Join(names, ", "))
		tr.GetFont().SetSize(fontFooter).SetColor(ppt.NewColor(palette.Footer))
		wrote = true
	}
	if note != "" {
		if wrote {
			shape.CreateParagraph()
		}
		tr := shape.CreateTextRun(note)
		tr.GetFont().SetSize(fontFooter).SetColor(ppt.NewColor(palette.Footer))
	}
}

func solidFill(argb string) *ppt.Fill {
	return ppt.NewFill().SetSolid(ppt.NewColor(argb))
}

// writePreviews emits the markdown transcript next to the deck and converts
// it to HTML so the deck can be inspected without a PPTX viewer. The theme
// font is carried into both previews; the PPTX text runs keep the viewer's
// default face.
func writePreviews(drafts []common.SlideDraft, font, outputPath string) (string, string, error) {
	md := RenderPreview(drafts, font)

	base := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))
	previewPath := base + ".md"
	if err := os.WriteFile(previewPath, []byte(md), 0644); err != nil {
		return "", "", fmt.Errorf("failed to write preview: %w", err)
	}

	var body bytes.Buffer
	if err := goldmark.Convert([]byte(md), &body); err != nil {
		return "", "", fmt.Errorf("failed to render HTML preview: %w", err)
	}
	var html bytes.Buffer
	if font != "" {
		fmt.Fprintf(&html, "<!DOCTYPE html>\n<html><body style=\"font-family: %s, sans-serif\">\n", font)
	} else {
		html.WriteString("<!DOCTYPE html>\n<html><body>\n")
	}
	html.Write(body.Bytes())
	html.WriteString("</body></html>\n")

	htmlPath := base + ".html"
	if err := os.WriteFile(htmlPath, html.Bytes(), 0644); err != nil {
		return "", "", fmt.Errorf("failed to write HTML preview: %w", err)
	}
	return previewPath, htmlPath, nil
}

// RenderPreview builds the sequential title+bullets transcript of a deck.
func RenderPreview(drafts []common.SlideDraft, font string) string {
	var sb strings.Builder
	sb.WriteString("# Presentation Preview\n\n")
	if font != "" {
		fmt.Fprintf(&sb, "_Font_: %s\n\n", font)
	}
	for i, draft := range drafts {
		fmt.Fprintf(&sb, "## Slide %d: %s\n", i+1, draft.Title)
		for _, bullet := range draft.Bullets {
			fmt.Fprintf(&sb, "- %s\n", bullet)
		}
		if len(draft.Assets) > 0 {
			kinds := make([]string, 0, len(draft.Assets))
			for _, a := range draft.Assets {
				kinds = append(kinds, string(a.Kind))
			}
			fmt.Fprintf(&sb, "_Assets_: %s\n", strings.Join(kinds, ", "))
		}
		if len(draft.Sources) > 0 {
			names := make([]string, 0, len(draft.Sources))
			for _, s := range draft.Sources {
				names = append(names, filepath.Base(s))
			}
			fmt.Fprintf(&sb, "_Sources_: %s\n", strings.Join(names, ", "))
		}
		if draft.Notes != "" {
			fmt.Fprintf(&sb, "_Notes_: %s\n", draft.Notes)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
