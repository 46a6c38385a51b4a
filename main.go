package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"

	"autodeck/common"
	"autodeck/pipelines/deck"
)

// styleFlags collects repeated -style key=value pairs.
type styleFlags map[string]string

func (s styleFlags) String() string {
	pairs := make([]string, 0, len(s))
	for k, v := range s {
		pairs = append(pairs, k+"="+v)
	}
	return strings.Join(pairs, ",")
}

func (s styleFlags) Set(value string) error {
	key, val, ok := strings.Cut(value, "=")
	if !ok || key == "" {
		return fmt.Errorf("style must be key=value, got %q", value)
	}
	s[strings.TrimSpace(key)] = strings.TrimSpace(val)
	return nil
}

func main() {
	styles := styleFlags{}

	instructions := flag.String("m", "", "Instructions guiding the presentation")
	duration := flag.Int("d", 0, "Talk duration in minutes (one slide per minute)")
	output := flag.String("o", "output/presentation.pptx", "Output PPTX path")
	flag.StringVar(instructions, "instructions", "", "Alias for -m")
	flag.IntVar(duration, "duration", 0, "Alias for -d")
	flag.StringVar(output, "output", "output/presentation.pptx", "Alias for -o")
	assetsDir := flag.String("assets-dir", "", "Directory for generated assets (default: assets next to the deck)")
	useLLM := flag.Bool("llm", false, "Refine bullets with an LLM")
	llmProvider := flag.String("llm-provider", "gemini", "LLM provider: 'gemini' or 'openai'")
	llmModel := flag.String("llm-model", "", "Override the provider's default model")
	imageBackend := flag.String("image-backend", "comfy", "Image backend: 'comfy', 'gemini' or 'none'")
	imageEndpoint := flag.String("image-endpoint", "", "ComfyUI endpoint URL")
	listModels := flag.Bool("list-models", false, "List the provider's available models and exit")
	serverMode := flag.Bool("serve", false, "Run as HTTP server")
	port := flag.String("port", ":8080", "Server port (only with -serve)")
	workers := flag.Int("workers", runtime.NumCPU(), "Number of worker goroutines (only with -serve)")
	flag.Var(styles, "style", "Style preference key=value (repeatable), e.g. -style palette=dark")
	flag.Var(styles, "s", "Alias for -style")
	flag.Parse()

	if err := common.LoadEnv(".env"); err != nil {
		log.Println("No .env file found or error reading it")
	}

	config := common.PipelineConfig{
		GeminiKey:       os.Getenv("GEMINI_API_KEY"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		LayoutModelPath: os.Getenv("LAYOUT_MODEL_PATH"),
	}
	config.DefaultTimeouts()

	if *listModels {
		runListModels(*llmProvider, *llmModel, config)
		return
	}

	if *serverMode {
		StartServer(*port, *workers, config)
		return
	}

	inputs := flag.Args()
	if len(inputs) < 1 {
		log.Fatal("Usage: autodeck [flags] <input files...>\n       autodeck -serve [-port=:8080] [-workers=4]")
	}

	req := common.PresentationRequest{
		Inputs:          inputs,
		Instructions:    *instructions,
		DurationMinutes: *duration,
		StylePrefs:      styles,
		OutputPath:      *output,
		AssetsDir:       *assetsDir,
		UseLLM:          *useLLM,
		LLMProvider:     *llmProvider,
		LLMModel:        *llmModel,
		ImageBackend:    *imageBackend,
		ImageEndpoint:   *imageEndpoint,
	}

	result, err := deck.Run(req, config)
	if err != nil {
		log.Fatalf("Pipeline failed: %v", err)
	}

	log.Printf("Pipeline completed successfully! Deck: %s Preview: %s (%d slides)",
		result.OutputPath, result.PreviewPath, result.SlidesBuilt)
}

// runListModels prints the model names the configured provider exposes.
func runListModels(provider, model string, config common.PipelineConfig) {
	ctx := context.Background()

	var (
		lister common.ModelLister
		err    error
	)
	switch provider {
	case "openai":
		if config.OpenAIKey == "" {
			log.Fatal("Please set OPENAI_API_KEY environment variable")
		}
		lister, err = common.NewOpenAIClient(config.OpenAIKey, model, "")
	default:
		if config.GeminiKey == "" {
			log.Fatal("Please set GEMINI_API_KEY environment variable")
		}
		lister, err = common.NewGeminiClient(ctx, config.GeminiKey, model)
	}
	if err != nil {
		log.Fatalf("Failed to create %s client: %v", provider, err)
	}

	models, err := lister.ListModels(ctx)
	if err != nil {
		log.Fatalf("Failed to list models: %v", err)
	}
	for _, name := range models {
		fmt.Println(name)
	}
}
