package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	require.Equal(t, "Running tests: [success: 3 | failed: 1]", describe(3, 1))
}

func TestProgressBar_UpdateFinish(t *testing.T) {
	var buf bytes.Buffer
	bar := newProgressBar(4, &buf)

	bar.Update(2, 5, 1)
	bar.Update(4, 9, 1)
	bar.Finish()

	require.Contains(t, buf.String(), "Running tests:")
}
