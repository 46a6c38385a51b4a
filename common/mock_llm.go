package common

import (
	"context"
	"strings"
)

// MockGenerator is a deterministic TextGenerator for tests and offline runs.
// It echoes back the bullet lines found in the prompt, trimmed.
type MockGenerator struct {
	// Response overrides the echo behavior when non-empty.
	Response string
	// Fail makes every call return an error to exercise fallback paths.
	Fail bool
	// Calls counts invocations.
	Calls int
}

func (m *MockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.Calls++
	if m.Fail {
		return "", context.DeadlineExceeded
	}
	if m.Response != "" {
		return m.Response, nil
	}
	var sb strings.Builder
	for _, line := range strings.Split(prompt, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "- ") {
			sb.WriteString(trimmed)
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

func (m *MockGenerator) Close() {}
