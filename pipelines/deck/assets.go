package deck

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"autodeck/common"
)

// Generated images are fitted into this bounding box before embedding.
const (
	assetMaxWidth  = 1280
	assetMaxHeight = 720
)

// MaterializeAssets resolves each draft's asset specifications into files
// under the assets directory. Chart specs render from their backing table;
// image specs consume extracted PDF figures first, then the generative
// backend. Any failure leaves Path empty and the assembler skips the asset
// with a note; materialization never fails a slide.
func MaterializeAssets(drafts []common.SlideDraft, summary common.ContentSummary, req common.PresentationRequest, cfg common.PipelineConfig, imgGen ImageGenerator) []common.SlideDraft {
	if err := os.MkdirAll(req.AssetsDir, 0755); err != nil {
		log.Printf("Warning: cannot create assets dir %s: %v", req.AssetsDir, err)
		return drafts
	}

	figures := extractFigurePool(req, cfg)

	for di := range drafts {
		for ai := range drafts[di].Assets {
			spec := &drafts[di].Assets[ai]
			switch spec.Kind {
			case common.AssetChart:
				materializeChart(spec, summary, req.AssetsDir)
			case common.AssetImage:
				materializeImage(spec, &figures, req.AssetsDir, cfg, imgGen)
			}
		}
	}
	return drafts
}

// extractFigurePool pulls Picture crops out of every PDF input when the
// layout model is available. The pool is consumed in order by image assets.
func extractFigurePool(req common.PresentationRequest, cfg common.PipelineConfig) []string {
	if cfg.LayoutModelPath == "" {
		return nil
	}
	if _, err := os.Stat(cfg.LayoutModelPath); err != nil {
		log.Printf("Warning: layout model not found at %s, skipping figure extraction", cfg.LayoutModelPath)
		return nil
	}

	var pdfs []string
	for _, input := range req.Inputs {
		if common.ClassifyInput(input) == common.KindPDF {
			pdfs = append(pdfs, input)
		}
	}
	if len(pdfs) == 0 {
		return nil
	}

	extractor, err := NewFigureExtractor(cfg.LayoutModelPath)
	if err != nil {
		log.Printf("Warning: figure extraction unavailable: %v", err)
		return nil
	}
	defer extractor.Close()

	var pool []string
	for _, pdf := range pdfs {
		paths, err := extractor.ExtractFigures(pdf, req.AssetsDir)
		if err != nil {
			log.Printf("Warning: figure extraction failed for %s: %v", filepath.Base(pdf), err)
			continue
		}
		pool = append(pool, paths...)
	}
	log.Printf("Extracted %d candidate figures from %d PDF input(s)", len(pool), len(pdfs))
	return pool
}

func materializeChart(spec *common.AssetSpec, summary common.ContentSummary, assetsDir string) {
	table := summary.Table(spec.TableRef)
	if table == nil {
		log.Printf("Warning: chart asset references unknown table %q", spec.TableRef)
		return
	}
	data, err := RenderTableChart(*table)
	if err != nil {
		log.Printf("Warning: %v", err)
		return
	}
	path := filepath.Join(assetsDir, assetFileName("chart"))
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("Warning: failed to write chart asset: %v", err)
		return
	}
	spec.Path = path
}

func materializeImage(spec *common.AssetSpec, figures *[]string, assetsDir string, cfg common.PipelineConfig, imgGen ImageGenerator) {
	// Prefer real figures extracted from the inputs over generated art.
	if len(*figures) > 0 {
		src := (*figures)[0]
		*figures = (*figures)[1:]
		if path, err := normalizeInto(src, assetsDir); err == nil {
			spec.Path = path
			return
		}
	}

	if imgGen == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ImageTimeout)
	defer cancel()

	data, err := imgGen.Generate(ctx, spec.Prompt)
	if err != nil {
		log.Printf("Warning: image generation failed, slide proceeds without asset: %v", err)
		return
	}
	path := filepath.Join(assetsDir, assetFileName("image"))
	if err := writeFitted(data, path); err != nil {
		log.Printf("Warning: failed to write image asset: %v", err)
		return
	}
	spec.Path = path
}

// normalizeInto copies an extracted figure into the assets dir, fitted to
// the embedding bounds.
func normalizeInto(src, assetsDir string) (string, error) {
	img, err := imaging.Open(src)
	if err != nil {
		return "", err
	}
	fitted := imaging.Fit(img, assetMaxWidth, assetMaxHeight, imaging.Lanczos)
	path := filepath.Join(assetsDir, assetFileName("figure"))
	if err := imaging.Save(fitted, path); err != nil {
		return "", err
	}
	return path, nil
}

func writeFitted(data []byte, path string) error {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		// Not decodable (e.g. the 1x1 placeholder edge cases) - keep raw bytes.
		return os.WriteFile(path, data, 0644)
	}
	if img.Bounds().Dx() > assetMaxWidth || img.Bounds().Dy() > assetMaxHeight {
		img = imaging.Fit(img, assetMaxWidth, assetMaxHeight, imaging.Lanczos)
	}
	return imaging.Save(img, path)
}

func assetFileName(kind string) string {
	return fmt.Sprintf("%s-%s.png", kind, uuid.NewString()[:8])
}
