package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tryon/internal/domain"
)

func TestResultPath(t *testing.T) {
	assert.Equal(t, filepath.Join("dresses", "gown_result.json"), resultPath(filepath.Join("dresses", "gown.png"), ""))
	assert.Equal(t, "gown_result.json", resultPath("gown.jpeg", ""))
	assert.Equal(t, "out.json", resultPath("gown.png", " out.json "))
}

func TestWriteResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gown_result.json")
	analysis := domain.DressAnalysis{Schema: domain.DressSchema{ID: "ballgown_tulle", Name: "볼가운_튤(망사) 드레스", Line: []string{"볼가운"}}}

	require.NoError(t, writeResult(context.Background(), path, analysis))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "볼가운_튤(망사) 드레스")

	var got domain.DressAnalysis
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, analysis, got)
}
