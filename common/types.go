package common

// VisualHint suggests what kind of visual a slide should carry.
type VisualHint string

const (
	VisualChart VisualHint = "chart"
	VisualImage VisualHint = "image"
	VisualNone  VisualHint = "none"
)

// Layout names one of the fixed slide layout templates.
type Layout string

const (
	LayoutSplit   Layout = "split"
	LayoutStacked Layout = "stacked"
	LayoutFocus   Layout = "focus"
)

// Layouts returns the rotation order used across a deck.
func Layouts() []Layout {
	return []Layout{LayoutSplit, LayoutStacked, LayoutFocus}
}

// AssetKind classifies a visual asset.
type AssetKind string

const (
	AssetChart      AssetKind = "chart"
	AssetImage      AssetKind = "image"
	AssetBackground AssetKind = "background"
)

// PresentationRequest is the user request passed into the pipeline.
// It is constructed once from CLI or HTTP input and read-only afterwards.
type PresentationRequest struct {
	Inputs          []string          `json:"inputs"`
	Instructions    string            `json:"instructions,omitempty"`
	DurationMinutes int               `json:"duration_minutes,omitempty"`
	StylePrefs      map[string]string `json:"style_prefs,omitempty"`
	OutputPath      string            `json:"output_path"`
	AssetsDir       string            `json:"assets_dir"`
	UseLLM          bool              `json:"use_llm,omitempty"`
	LLMProvider     string            `json:"llm_provider,omitempty"` // gemini | openai
	LLMModel        string            `json:"llm_model,omitempty"`
	ImageBackend    string            `json:"image_backend,omitempty"` // comfy | gemini
	ImageEndpoint   string            `json:"image_endpoint,omitempty"`
}

// Finding is a short extracted factual statement with provenance.
// Warning findings record input problems that were recovered locally.
type Finding struct {
	Text    string `json:"text"`
	Source  string `json:"source,omitempty"`
	Warning bool   `json:"warning,omitempty"`
}

// ColumnStats summarizes one numeric column of a tabular input.
type ColumnStats struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// TableSummary is the numeric summary of one tabular input.
// Ref is a stable identifier used by AssetSpec.TableRef.
type TableSummary struct {
	Ref     string        `json:"ref"`
	Source  string        `json:"source"`
	Rows    int           `json:"rows"`
	Columns []ColumnStats `json:"columns"`
}

// ContentSummary is the structured understanding of all inputs.
type ContentSummary struct {
	Topics   []string       `json:"topics"`
	Findings []Finding      `json:"findings"`
	Tables   []TableSummary `json:"tables,omitempty"`
	Sources  []string       `json:"sources"`
}

// Table returns the table with the given ref, or nil.
func (s *ContentSummary) Table(ref string) *TableSummary {
	for i := range s.Tables {
		if s.Tables[i].Ref == ref {
			return &s.Tables[i]
		}
	}
	return nil
}

// OutlineSlide is a single planned slide: title as conclusion, 3-5 bullets.
type OutlineSlide struct {
	Title    string     `json:"title"`
	Bullets  []string   `json:"bullets"`
	Visual   VisualHint `json:"visual"`
	TableRef string     `json:"table_ref,omitempty"`
	Sources  []string   `json:"sources,omitempty"`
}

// OutlinePlan is the ordered deck outline plus resolved theme tokens.
type OutlinePlan struct {
	Slides []OutlineSlide    `json:"slides"`
	Theme  map[string]string `json:"theme"`
}

// AssetSpec describes a visual asset to be materialized for a slide.
// Path stays empty until a generator writes the file; an empty Path at
// assembly time means the asset is skipped with a recorded note.
type AssetSpec struct {
	Kind     AssetKind `json:"kind"`
	TableRef string    `json:"table_ref,omitempty"`
	Prompt   string    `json:"prompt,omitempty"`
	Path     string    `json:"path,omitempty"`
}

// Materialized reports whether the asset has a backing file path.
func (a AssetSpec) Materialized() bool {
	return a.Path != ""
}

// SlideDraft is a fully specified slide ready for assembly.
type SlideDraft struct {
	Title   string      `json:"title"`
	Bullets []string    `json:"bullets"`
	Notes   string      `json:"notes,omitempty"`
	Layout  Layout      `json:"layout"`
	Assets  []AssetSpec `json:"assets,omitempty"`
	Sources []string    `json:"sources,omitempty"`
}

// AssemblyResult reports what the assembler produced.
type AssemblyResult struct {
	OutputPath      string   `json:"output_path"`
	PreviewPath     string   `json:"preview_path"`
	HTMLPreviewPath string   `json:"html_preview_path,omitempty"`
	SlidesBuilt     int      `json:"slides_built"`
	Notes           []string `json:"notes,omitempty"`
}
