package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "item.json")

	require.NoError(t, writeJSON(path, map[string]any{"id": "scene"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "scene", decoded["id"])

	// No temporary files are left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteJSONUnserializable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "item.json")

	require.Error(t, writeJSON(path, map[string]any{"bad": func() {}}))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestDocType(t *testing.T) {
	assert.Equal(t, "Feature", docType([]byte(`{"type":"Feature"}`)))
	assert.Equal(t, "Collection", docType([]byte(`{"type":"Collection"}`)))
	assert.Empty(t, docType([]byte(`not json`)))
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()

	item := filepath.Join(dir, "item.json")
	require.NoError(t, os.WriteFile(item, []byte(`{
		"type": "Feature",
		"stac_version": "1.0.0",
		"id": "AMAZONIA_1_WFI_20220811_036_018_L4",
		"geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]},
		"bbox": [0, 0, 1, 1],
		"properties": {"datetime": "2022-08-11T14:01:37Z"},
		"assets": {}
	}`), 0o644))
	require.NoError(t, validateFile(item))

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"type":"Feature","id":""}`), 0o644))
	require.Error(t, validateFile(broken))

	other := filepath.Join(dir, "other.json")
	require.NoError(t, os.WriteFile(other, []byte(`{"type":"FeatureCollection"}`), 0o644))
	assert.ErrorContains(t, validateFile(other), "neither Feature nor Collection")
}
