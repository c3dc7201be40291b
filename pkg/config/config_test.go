package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

func (s *sample) Validate() error {
	if s.Count < 0 {
		return errors.New("count must be non-negative")
	}
	return nil
}

func TestLoadKeepsUnsetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	_ = os.WriteFile(path, []byte("count: 3\n"), 0o644)

	s := sample{Name: "default", Count: 1}
	if err := Load(path, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "default" || s.Count != 3 {
		t.Errorf("got %+v", s)
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "from-env")
	path := filepath.Join(t.TempDir(), "c.yaml")
	_ = os.WriteFile(path, []byte("name: ${SAMPLE_NAME}\n"), 0o644)

	var s sample
	if err := Load(path, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "from-env" {
		t.Errorf("name = %q", s.Name)
	}
}

func TestLoadValidates(t *testing.T) {
	var s sample
	err := Decode([]byte("count: -1\n"), &s)
	if err == nil || !strings.Contains(err.Error(), "non-negative") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	var s sample
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &s); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadOrDefault(t *testing.T) {
	s := sample{Name: "default", Count: 2}
	found, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"), &s)
	if err != nil || found {
		t.Fatalf("found=%v err=%v", found, err)
	}
	if s.Name != "default" {
		t.Errorf("defaults lost: %+v", s)
	}

	bad := sample{Count: -5}
	if _, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"), &bad); err == nil {
		t.Error("defaults should still be validated")
	}

	path := filepath.Join(t.TempDir(), "c.yaml")
	_ = os.WriteFile(path, []byte("name: [unterminated\n"), 0o644)
	if _, err := LoadOrDefault(path, &s); err == nil {
		t.Error("parse errors should surface")
	}
}
