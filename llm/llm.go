// Package llm defines the text-generation collaborator used by the AI assistant.
package llm

import (
	"context"
	"errors"
)

// Generator turns a prompt into a text completion.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var ErrNotConfigured = errors.New("AI assistant is not configured")

// Unconfigured is used when no API key is supplied; every call fails with ErrNotConfigured.
type Unconfigured struct{}

func (Unconfigured) Generate(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}
