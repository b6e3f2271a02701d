package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 3), B: 0x40, A: 0xFF})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func outputNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRunSavesIcons(t *testing.T) {
	source := filepath.Join(t.TempDir(), "photo.png")
	writePNG(t, source, 1024, 1024)
	outDir := t.TempDir()

	var stdout, stderr bytes.Buffer
	code := run([]string{"run", "-source", source, "-output-dir", outDir}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "Saved pwa-192x192.png\nSaved pwa-512x512.png\nSaved favicon.ico\n", stdout.String())
	assert.ElementsMatch(t, []string{"pwa-192x192.png", "pwa-512x512.png", "favicon.ico"}, outputNames(t, outDir))
}

func TestRunSourceNotFound(t *testing.T) {
	source := filepath.Join(t.TempDir(), "missing.png")
	outDir := t.TempDir()

	var stdout, stderr bytes.Buffer
	code := run([]string{"run", "-source", source, "-output-dir", outDir}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Equal(t, "Source file not found: "+source+"\n", stdout.String())
	assert.Empty(t, outputNames(t, outDir))
}

func TestRunUndecodableSource(t *testing.T) {
	source := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(source, []byte("plain text pretending to be a png"), 0o644))
	outDir := t.TempDir()

	var stdout, stderr bytes.Buffer
	code := run([]string{"run", "-source", source, "-output-dir", outDir}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Equal(t, 1, strings.Count(stdout.String(), "\n"))
	assert.True(t, strings.HasPrefix(stdout.String(), "Error processing image: "), stdout.String())
	assert.NotContains(t, stdout.String(), "Saved")
	assert.Empty(t, outputNames(t, outDir))
}

func TestRunFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "logo.png")
	writePNG(t, source, 48, 48)
	configOut := filepath.Join(dir, "from-config")
	flagOut := filepath.Join(dir, "from-flag")
	require.NoError(t, os.Mkdir(configOut, 0o755))
	require.NoError(t, os.Mkdir(flagOut, 0o755))
	metricsFile := filepath.Join(dir, "iconresizer.prom")

	configPath := filepath.Join(dir, "iconresizer.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(
		"source: "+source+"\noutput_dir: "+configOut+"\nlog_level: error\nmetrics_file: "+metricsFile+"\n"), 0o644))

	var stdout, stderr bytes.Buffer
	code := run([]string{"run", "-config", configPath, "-output-dir", flagOut}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Empty(t, outputNames(t, configOut))
	assert.Len(t, outputNames(t, flagOut), 3)

	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "iconresizer_icons_written_total")
}

func TestRunUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no command", args: nil, want: "one of the following command expected"},
		{name: "unknown command", args: []string{"serve"}, want: "unknown sub-command: serve"},
		{name: "bad flag", args: []string{"run", "-nope"}, want: "error parsing arguments"},
		{name: "bad log level", args: []string{"run", "-loglvl", "loud"}, want: "log_level"},
		{name: "missing config", args: []string{"run", "-config", "/nonexistent/iconresizer.yaml"}, want: "failed to read config file"},
		{name: "bucket without region", args: []string{"run", "-s3-bucket", "site"}, want: "AWS region"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, 1, run(tt.args, &stdout, &stderr))
			assert.Contains(t, stderr.String(), tt.want)
			assert.Empty(t, stdout.String())
		})
	}
}
