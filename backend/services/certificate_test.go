package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCertificate(t *testing.T) {
	issued := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)

	pdf, err := RenderCertificate("Ada Lovelace", "Go from Zero", issued)
	require.NoError(t, err)
	require.NotEmpty(t, pdf)

	// A real PDF document, not a placeholder.
	assert.Equal(t, "%PDF", string(pdf[:4]))
	assert.Greater(t, len(pdf), 500)
}

func TestStripCodeFence(t *testing.T) {
	cases := map[string]string{
		"[{\"q\":1}]":                          "[{\"q\":1}]",
		"```json\n[{\"q\":1}]\n```":            "[{\"q\":1}]",
		"```\n[{\"q\":1}]\n```":                "[{\"q\":1}]",
		"  ```json\n[{\"q\":1}]\n```  ":        "[{\"q\":1}]",
		"plain text answer without any fence.": "plain text answer without any fence.",
	}

	for in, want := range cases {
		assert.Equal(t, want, stripCodeFence(in))
	}
}
