package common

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-pro-latest"
const defaultGeminiImageModel = "gemini-1.5-flash-latest"

// GeminiClient adapts the Gemini SDK to the TextGenerator contract and
// additionally supports PNG image generation and model listing.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiClient builds a Gemini client; model may be empty for the default.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key missing; set GEMINI_API_KEY")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = defaultGeminiModel
	}
	m := client.GenerativeModel(model)
	m.SetTemperature(0.7)
	return &GeminiClient{client: client, model: m}, nil
}

// Close releases the underlying connection.
func (g *GeminiClient) Close() {
	g.client.Close()
}

// Generate sends a prompt and returns the concatenated text response.
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}
	return textFromResponse(resp)
}

// GenerateImage asks the image-capable Gemini model for PNG bytes.
func (g *GeminiClient) GenerateImage(ctx context.Context, prompt, imageModel string) ([]byte, error) {
	if imageModel == "" {
		imageModel = defaultGeminiImageModel
	}
	m := g.client.GenerativeModel(imageModel)
	m.ResponseMIMEType = "image/png"

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini image generation error: %w", err)
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if blob, ok := part.(genai.Blob); ok && len(blob.Data) > 0 {
				return blob.Data, nil
			}
		}
	}
	return nil, fmt.Errorf("gemini returned no image data")
}

// ListModels returns the available Gemini model names.
func (g *GeminiClient) ListModels(ctx context.Context) ([]string, error) {
	var names []string
	it := g.client.ListModels(ctx)
	for {
		info, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list gemini models: %w", err)
		}
		names = append(names, info.Name)
	}
	return names, nil
}

func textFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}
