package deck

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"autodeck/common"
)

// ImageGenerator is the uniform adapter contract for image backends.
// Implementations return PNG bytes or an error; callers fall back to a
// placeholder so a missing backend never blocks assembly.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// 1x1 transparent PNG, the terminal fallback for image assets.
const placeholderPixel = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR4nGMA" +
	"AQAAAgAB9HFkqQAAAABJRU5ErkJggg=="

// PlaceholderPNG returns the placeholder image bytes.
func PlaceholderPNG() []byte {
	data, _ := base64.StdEncoding.DecodeString(placeholderPixel)
	return data
}

// ComfyClient submits prompts to a ComfyUI endpoint. ComfyUI queues work
// asynchronously, so a successful submission still yields the placeholder;
// the endpoint drops rendered files into its own output directory.
type ComfyClient struct {
	Endpoint string
	HTTP     *http.Client
}

func NewComfyClient(endpoint string) *ComfyClient {
	return &ComfyClient{Endpoint: strings.TrimRight(endpoint, "/"), HTTP: &http.Client{}}
}

func (c *ComfyClient) Generate(ctx context.Context, prompt string) ([]byte, error) {
	if c.Endpoint == "" {
		return PlaceholderPNG(), nil
	}

	payload, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+"/prompt", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("comfy request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		log.Printf("ComfyUI accepted prompt for generation")
	} else {
		log.Printf("Warning: ComfyUI returned status %d; using placeholder", resp.StatusCode)
	}
	return PlaceholderPNG(), nil
}

// GeminiImageBackend adapts the Gemini client's image generation to the
// ImageGenerator contract.
type GeminiImageBackend struct {
	Client *common.GeminiClient
	Model  string
}

func (g *GeminiImageBackend) Generate(ctx context.Context, prompt string) ([]byte, error) {
	return g.Client.GenerateImage(ctx, prompt, g.Model)
}
