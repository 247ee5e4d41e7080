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
	Token string `yaml:"token"`
	Dir   string `yaml:"dir"`
}

func (s *sample) Validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("CFG_TEST_TOKEN", "abc")
	t.Setenv("CFG_TEST_EMPTY", "")
	path := writeFile(t, "name: demo\ntoken: ${CFG_TEST_TOKEN}\ndir: ${CFG_TEST_EMPTY:-./out}\n")

	var s sample
	if err := Load(path, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Token != "abc" || s.Dir != "./out" {
		t.Errorf("s = %+v", s)
	}
}

func TestLoad_DefaultIgnoredWhenSet(t *testing.T) {
	t.Setenv("CFG_TEST_DIR", "/data")
	path := writeFile(t, "name: demo\ndir: ${CFG_TEST_DIR:-./out}\n")

	var s sample
	if err := Load(path, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Dir != "/data" {
		t.Errorf("dir = %q", s.Dir)
	}
}

func TestLoad_Validates(t *testing.T) {
	path := writeFile(t, "token: x\n")
	var s sample
	err := Load(path, &s)
	if err == nil || !strings.Contains(err.Error(), "name is required") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	var s sample
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &s); err == nil {
		t.Fatal("missing file should fail")
	}
}
