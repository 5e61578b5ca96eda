package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/stopword-filter/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/pkg/config"
)

func testConfig(dataDir, corpusDir string) *config.Config {
	return &config.Config{Stopwords: config.StopwordsConfig{DataDir: dataDir, CorpusDir: corpusDir}}
}

func TestMissingCorpusPrintsHint(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(filepath.Join(dir, "data"), filepath.Join(dir, "no-such-corpus"))

	var stdout, stderr bytes.Buffer
	code := exitCode(&stderr, run(cfg, &stdout))
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.HasPrefix(stderr.String(), "Error: ") || !strings.Contains(stderr.String(), corpus.RemediationHint) {
		t.Errorf("stderr = %q, want error plus remediation hint", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want nothing", stdout.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "data")); !os.IsNotExist(err) {
		t.Error("data dir should not be created when the corpus is missing")
	}
}

func TestWriteFailureHasNoHint(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig(filepath.Join(blocker, "data"), "")

	var stderr bytes.Buffer
	if code := exitCode(&stderr, run(cfg, &bytes.Buffer{})); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.HasPrefix(stderr.String(), "Error: ") {
		t.Errorf("stderr = %q", stderr.String())
	}
	if strings.Contains(stderr.String(), corpus.RemediationHint) {
		t.Error("remediation hint printed for a write failure")
	}
}

func TestGenerateBundled(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "data"), "")

	var stdout, stderr bytes.Buffer
	if code := exitCode(&stderr, run(cfg, &stdout)); code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Successfully generated 14 stopwords files.") {
		t.Errorf("stdout = %q", stdout.String())
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr = %q, want nothing", stderr.String())
	}
}
