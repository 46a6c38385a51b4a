package deck

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"autodeck/common"
)

// Run drives the full deck pipeline: analysis, outline planning, slide
// design, asset materialization, assembly. Each stage consumes only the
// output of the previous one.
func Run(req common.PresentationRequest, cfg common.PipelineConfig) (common.AssemblyResult, error) {
	if len(req.Inputs) == 0 {
		return common.AssemblyResult{}, fmt.Errorf("no input files given")
	}
	if req.OutputPath == "" {
		return common.AssemblyResult{}, fmt.Errorf("output path is required")
	}
	if req.DurationMinutes < 0 {
		return common.AssemblyResult{}, fmt.Errorf("duration must not be negative, got %d", req.DurationMinutes)
	}
	// Individual missing inputs degrade to warnings later, but a request
	// where nothing exists fails before any stage runs.
	existing := 0
	for _, input := range req.Inputs {
		if _, err := os.Stat(input); err == nil {
			existing++
		}
	}
	if existing == 0 {
		return common.AssemblyResult{}, fmt.Errorf("none of the %d input path(s) exist", len(req.Inputs))
	}

	log.Printf("Step 1: Analyzing %d input file(s)", len(req.Inputs))
	summary := Analyze(req)
	log.Printf("Analysis produced %d finding(s), %d topic(s), %d table(s)",
		len(summary.Findings), len(summary.Topics), len(summary.Tables))

	textGen := newTextGenerator(req, cfg)
	if textGen != nil {
		defer textGen.Close()
	}

	log.Println("Step 2: Building outline")
	plan := BuildOutline(summary, req.DurationMinutes, req.StylePrefs, PlannerOptions{
		Instructions: req.Instructions,
		TextGen:      textGen,
		Timeout:      cfg.LLMTimeout,
	})
	log.Printf("Outline planned %d slide(s)", len(plan.Slides))

	log.Println("Step 3: Designing slides")
	drafts := DesignSlides(plan)

	log.Println("Step 4: Materializing assets")
	if req.AssetsDir == "" {
		req.AssetsDir = filepath.Join(filepath.Dir(req.OutputPath), "assets")
	}
	drafts = MaterializeAssets(drafts, summary, req, cfg, newImageGenerator(req, cfg))

	log.Println("Step 5: Assembling deck")
	result, err := Assemble(drafts, plan.Theme, req.OutputPath)
	if err != nil {
		return result, fmt.Errorf("assembly failed: %w", err)
	}
	for _, note := range result.Notes {
		log.Printf("Note: %s", note)
	}
	log.Printf("Deck written to %s (%d slides)", result.OutputPath, result.SlidesBuilt)
	return result, nil
}

// newTextGenerator wires the requested LLM provider, or nil when refinement
// is disabled or no credentials are configured. A missing key degrades to
// the heuristic outline rather than failing the run.
func newTextGenerator(req common.PresentationRequest, cfg common.PipelineConfig) common.TextGenerator {
	if !req.UseLLM {
		return nil
	}
	switch req.LLMProvider {
	case "openai":
		if cfg.OpenAIKey == "" {
			log.Println("Warning: OPENAI_API_KEY not set; skipping bullet refinement")
			return nil
		}
		client, err := common.NewOpenAIClient(cfg.OpenAIKey, req.LLMModel, "")
		if err != nil {
			log.Printf("Warning: OpenAI client unavailable: %v", err)
			return nil
		}
		return client
	default:
		if cfg.GeminiKey == "" {
			log.Println("Warning: GEMINI_API_KEY not set; skipping bullet refinement")
			return nil
		}
		client, err := common.NewGeminiClient(context.Background(), cfg.GeminiKey, req.LLMModel)
		if err != nil {
			log.Printf("Warning: Gemini client unavailable: %v", err)
			return nil
		}
		return client
	}
}

// newImageGenerator wires the requested image backend; nil means image
// assets stay unmaterialized and their slides render without them.
func newImageGenerator(req common.PresentationRequest, cfg common.PipelineConfig) ImageGenerator {
	switch req.ImageBackend {
	case "comfy":
		endpoint := req.ImageEndpoint
		if endpoint == "" {
			endpoint = "http://127.0.0.1:8188"
		}
		return NewComfyClient(endpoint)
	case "gemini":
		if cfg.GeminiKey == "" {
			log.Println("Warning: GEMINI_API_KEY not set; image assets will be skipped")
			return nil
		}
		client, err := common.NewGeminiClient(context.Background(), cfg.GeminiKey, "")
		if err != nil {
			log.Printf("Warning: Gemini client unavailable: %v", err)
			return nil
		}
		return &GeminiImageBackend{Client: client, Model: "gemini-2.0-flash-exp"}
	default:
		return nil
	}
}
