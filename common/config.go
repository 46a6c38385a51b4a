package common

import (
	"time"

	"github.com/joho/godotenv"
)

// Deck-wide content limits. The outline planner and slide designer both
// enforce these; the assembler can rely on them.
const (
	MinSlides          = 3
	MaxSlides          = 12
	MaxBulletsPerSlide = 5
	MaxBulletLength    = 120
)

// Default theme tokens merged under caller style overrides.
const (
	DefaultFont    = "Calibri"
	DefaultPalette = "light"
	AspectRatio    = "16:9"
)

// PipelineConfig carries run-wide settings resolved from flags and env.
type PipelineConfig struct {
	GeminiKey    string
	OpenAIKey    string
	LLMTimeout   time.Duration
	ImageTimeout time.Duration
	// Path to the DocLayNet ONNX model used for PDF figure extraction.
	// Extraction is skipped when the file does not exist.
	LayoutModelPath string
}

// DefaultTimeouts fills zero timeout fields with the defaults used by the
// original agent (10s text, 15s image).
func (c *PipelineConfig) DefaultTimeouts() {
	if c.LLMTimeout == 0 {
		c.LLMTimeout = 10 * time.Second
	}
	if c.ImageTimeout == 0 {
		c.ImageTimeout = 15 * time.Second
	}
}

// LoadEnv loads environment variables from a .env file when present.
func LoadEnv(filename string) error {
	return godotenv.Load(filename)
}
