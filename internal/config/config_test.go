package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
}

func TestLoad_FromWorkingDirectory(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("OCTOEB_TOKEN", "")

	cwd := t.TempDir()
	writeConfig(t, cwd, `[repo]
OWNER=enderlabs
REPO=eventboard
TOKEN=abc123
USER=dev
`)
	t.Chdir(cwd)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Owner != "enderlabs" || cfg.Repo != "eventboard" || cfg.Token != "abc123" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Fork != "enderlabs" {
		t.Errorf("Fork should default to Owner, got %q", cfg.Fork)
	}
	if cfg.DevelopBranch != "develop" || cfg.MasterBranch != "master" {
		t.Errorf("unexpected branch defaults: %+v", cfg)
	}
	if !cfg.RequireQA {
		t.Error("RequireQA should default to true")
	}
}

func TestLoad_RepoFileOverridesHomeFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("OCTOEB_TOKEN", "")
	writeConfig(t, home, `[repo]
OWNER=enderlabs
REPO=eventboard
TOKEN=home-token
`)

	cwd := t.TempDir()
	writeConfig(t, cwd, `[repo]
REPO=otherproject

[flow]
require_qa=false
master_branch=main
`)
	t.Chdir(cwd)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Repo != "otherproject" {
		t.Errorf("Repo = %q, want otherproject", cfg.Repo)
	}
	if cfg.Token != "home-token" {
		t.Errorf("Token = %q, want home-token", cfg.Token)
	}
	if cfg.RequireQA {
		t.Error("RequireQA should be overridden to false")
	}
	if cfg.MasterBranch != "main" {
		t.Errorf("MasterBranch = %q, want main", cfg.MasterBranch)
	}
}

func TestLoad_EnvTokenWins(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, `[repo]
OWNER=enderlabs
REPO=eventboard
TOKEN=file-token
`)
	t.Setenv("OCTOEB_TOKEN", "env-token")
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Token != "env-token" {
		t.Errorf("Token = %q, want env-token", cfg.Token)
	}
}

func TestLoad_MissingConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OCTOEB_TOKEN", "")
	t.Chdir(t.TempDir())

	_, err := Load()
	if !errors.Is(err, ErrConfigurationInvalid) {
		t.Fatalf("expected ErrConfigurationInvalid, got %v", err)
	}
}

func TestValidate_ReportsMissingKeys(t *testing.T) {
	cfg := &Config{Owner: "enderlabs"}
	err := cfg.Validate()
	if !errors.Is(err, ErrConfigurationInvalid) {
		t.Fatalf("expected ErrConfigurationInvalid, got %v", err)
	}
}

func TestLoad_BadRequireQA(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("OCTOEB_TOKEN", "")
	writeConfig(t, home, `[repo]
OWNER=enderlabs
REPO=eventboard
TOKEN=abc

[flow]
require_qa=sometimes
`)
	t.Chdir(t.TempDir())

	_, err := Load()
	if !errors.Is(err, ErrConfigurationInvalid) {
		t.Fatalf("expected ErrConfigurationInvalid, got %v", err)
	}
}
