package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aobrainsystems/voxshift/internal/audio"
	"github.com/aobrainsystems/voxshift/internal/testutil"
)

// writeToneWAV writes n constant samples at rate to dir/name.
func writeToneWAV(t *testing.T, dir, name string, rate, n int, v int16) {
	t.Helper()

	samples := make([]int16, n)
	for i := range samples {
		samples[i] = v
	}
	if err := audio.WriteFile(filepath.Join(dir, name), audio.Buffer{SampleRate: rate, Samples: samples}); err != nil {
		t.Fatalf("writing tone WAV: %v", err)
	}
}

func writeManifestJSON(t *testing.T, dir string, entries []map[string]any) string {
	t.Helper()

	data, err := json.Marshal(map[string]any{"segments": entries})
	if err != nil {
		t.Fatalf("marshal manifest: %v", err)
	}

	path := filepath.Join(dir, "segments.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}

	return path
}

func TestComposeCommand(t *testing.T) {
	t.Run("composes manifest segments into an output WAV", func(t *testing.T) {
		dir := t.TempDir()
		writeToneWAV(t, dir, "a.wav", 24000, 24000, 3000)
		writeToneWAV(t, dir, "b.wav", 48000, 24000, -1500)
		manifestPath := writeManifestJSON(t, dir, []map[string]any{
			{"start": 0.0, "end": 1.0, "file": "a.wav"},
			{"start": 1.0, "end": 1.5, "file": "b.wav"},
		})
		outPath := filepath.Join(dir, "out.wav")

		root := NewRootCmd()
		root.SetArgs([]string{
			"compose",
			"--manifest", manifestPath,
			"--out", outPath,
			"--min-duration", "3",
		})
		if err := root.Execute(); err != nil {
			t.Fatalf("compose failed: %v", err)
		}

		data, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("reading output: %v", err)
		}
		testutil.AssertValidWAV(t, data, 24000)
		testutil.AssertWAVDurationApprox(t, data, 24000, 3.0, 3.001)
	})

	t.Run("fails without a manifest flag", func(t *testing.T) {
		root := NewRootCmd()
		root.SetErr(&bytes.Buffer{})
		root.SetOut(&bytes.Buffer{})
		root.SetArgs([]string{"compose"})

		if err := root.Execute(); err == nil {
			t.Fatal("expected error without --manifest")
		}
	})

	t.Run("fails when a segment file is missing", func(t *testing.T) {
		dir := t.TempDir()
		manifestPath := writeManifestJSON(t, dir, []map[string]any{
			{"start": 0.0, "end": 1.0, "file": "missing.wav"},
		})

		root := NewRootCmd()
		root.SetErr(&bytes.Buffer{})
		root.SetOut(&bytes.Buffer{})
		root.SetArgs([]string{"compose", "--manifest", manifestPath, "--out", filepath.Join(dir, "out.wav")})

		if err := root.Execute(); err == nil {
			t.Fatal("expected error for missing segment file")
		}
		if _, err := os.Stat(filepath.Join(dir, "out.wav")); err == nil {
			t.Error("no output file should be written on failure")
		}
	})

	t.Run("fails on an empty manifest", func(t *testing.T) {
		dir := t.TempDir()
		manifestPath := writeManifestJSON(t, dir, nil)

		root := NewRootCmd()
		root.SetErr(&bytes.Buffer{})
		root.SetOut(&bytes.Buffer{})
		root.SetArgs([]string{"compose", "--manifest", manifestPath, "--out", filepath.Join(dir, "out.wav")})

		if err := root.Execute(); err == nil {
			t.Fatal("expected error for empty manifest")
		}
	})
}

func TestInspectCommand(t *testing.T) {
	t.Run("prints WAV properties", func(t *testing.T) {
		dir := t.TempDir()
		writeToneWAV(t, dir, "clip.wav", 16000, 8000, 42)

		var out bytes.Buffer
		root := NewRootCmd()
		root.SetOut(&out)
		root.SetArgs([]string{"inspect", filepath.Join(dir, "clip.wav")})

		if err := root.Execute(); err != nil {
			t.Fatalf("inspect failed: %v", err)
		}

		got := out.String()
		for _, want := range []string{"sample_rate: 16000 Hz", "samples: 8000", "duration: 0.500 s"} {
			if !strings.Contains(got, want) {
				t.Errorf("output missing %q:\n%s", want, got)
			}
		}
	})

	t.Run("fails on a non-WAV file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "junk.wav")
		if err := os.WriteFile(path, []byte("junk"), 0o644); err != nil {
			t.Fatal(err)
		}

		root := NewRootCmd()
		root.SetErr(&bytes.Buffer{})
		root.SetOut(&bytes.Buffer{})
		root.SetArgs([]string{"inspect", path})

		if err := root.Execute(); err == nil {
			t.Fatal("expected error for non-WAV input")
		}
	})
}
