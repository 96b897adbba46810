package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnconfigured(t *testing.T) {
	var g Generator = Unconfigured{}
	_, err := g.Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
