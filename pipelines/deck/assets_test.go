package deck

import (
	"bytes"
	"os"
	"testing"

	"autodeck/common"
)

func TestMaterializeChartAsset(t *testing.T) {
	summary := common.ContentSummary{
		Tables: []common.TableSummary{{
			Ref:    "table-1",
			Source: "/data/sales.csv",
			Rows:   2,
			Columns: []common.ColumnStats{
				{Name: "revenue", Count: 2, Mean: 1000, Min: 800, Max: 1200},
			},
		}},
	}
	drafts := []common.SlideDraft{{
		Title:  "Revenue holds steady",
		Layout: common.LayoutSplit,
		Assets: []common.AssetSpec{{Kind: common.AssetChart, TableRef: "table-1"}},
	}}

	req := common.PresentationRequest{AssetsDir: t.TempDir()}
	var cfg common.PipelineConfig
	cfg.DefaultTimeouts()

	out := MaterializeAssets(drafts, summary, req, cfg, nil)

	spec := out[0].Assets[0]
	if !spec.Materialized() {
		t.Fatal("chart asset not materialized")
	}
	data, err := os.ReadFile(spec.Path)
	if err != nil {
		t.Fatalf("chart file unreadable: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("chart file is not a PNG")
	}
}

func TestMaterializeChartUnknownTable(t *testing.T) {
	drafts := []common.SlideDraft{{
		Assets: []common.AssetSpec{{Kind: common.AssetChart, TableRef: "table-9"}},
	}}

	req := common.PresentationRequest{AssetsDir: t.TempDir()}
	var cfg common.PipelineConfig
	cfg.DefaultTimeouts()

	out := MaterializeAssets(drafts, common.ContentSummary{}, req, cfg, nil)
	if out[0].Assets[0].Materialized() {
		t.Error("asset materialized from unknown table")
	}
}

func TestMaterializeImageWithoutBackend(t *testing.T) {
	drafts := []common.SlideDraft{{
		Assets: []common.AssetSpec{{Kind: common.AssetImage, Prompt: "a visual"}},
	}}

	req := common.PresentationRequest{AssetsDir: t.TempDir()}
	var cfg common.PipelineConfig
	cfg.DefaultTimeouts()

	out := MaterializeAssets(drafts, common.ContentSummary{}, req, cfg, nil)
	if out[0].Assets[0].Materialized() {
		t.Error("image materialized without a backend")
	}
}

func TestPlaceholderPNG(t *testing.T) {
	data := PlaceholderPNG()
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("placeholder is not a PNG")
	}
}
