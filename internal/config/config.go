// Package config loads the tool configuration from .octoebrc, an ini file
// searched for in the working directory, the home directory, and the XDG
// config directory, in that order. The token can also come from the
// OCTOEB_TOKEN environment variable, which wins over any file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/ini.v1"
)

// ErrConfigurationInvalid indicates a missing or unusable configuration.
var ErrConfigurationInvalid = errors.New("configuration invalid")

// FileName is the configuration file looked up in cwd and $HOME.
const FileName = ".octoebrc"

// Config is the resolved repository and policy configuration.
type Config struct {
	// Owner is the account owning the repository releases are cut in.
	Owner string
	// Fork is the account fix branches are pushed to. Defaults to Owner.
	Fork string
	// Repo is the repository name.
	Repo string
	// Token is the platform API token.
	Token string
	// User is the platform login of the operator.
	User string

	// DevelopBranch is the base for release branches. Defaults to develop.
	DevelopBranch string
	// MasterBranch is the stable branch. Defaults to master.
	MasterBranch string
	// RequireQA gates releasing on a merged QA pull request. Defaults on.
	RequireQA bool
}

// Load resolves the configuration. Later files in the search order fill in
// keys earlier files left unset, so a repo-local .octoebrc can override just
// the repo name while the token stays in the home file.
func Load() (*Config, error) {
	cfg := &Config{
		DevelopBranch: "develop",
		MasterBranch:  "master",
		RequireQA:     true,
	}

	paths := searchPaths()
	found := false
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := mergeFile(cfg, path); err != nil {
			return nil, err
		}
		found = true
	}

	if token := os.Getenv("OCTOEB_TOKEN"); token != "" {
		cfg.Token = token
	}

	if !found && cfg.Token == "" {
		return nil, fmt.Errorf("%w: no %s found in %s", ErrConfigurationInvalid, FileName, filepath.Dir(paths[len(paths)-1]))
	}

	if cfg.Fork == "" {
		cfg.Fork = cfg.Owner
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the keys every command needs are present.
func (c *Config) Validate() error {
	var missing []string
	if c.Owner == "" {
		missing = append(missing, "OWNER")
	}
	if c.Repo == "" {
		missing = append(missing, "REPO")
	}
	if c.Token == "" {
		missing = append(missing, "TOKEN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required keys %v in [repo] section", ErrConfigurationInvalid, missing)
	}
	return nil
}

// searchPaths returns candidate config files ordered from lowest to highest
// precedence.
func searchPaths() []string {
	paths := []string{filepath.Join(xdg.ConfigHome, "octoeb", "config")}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, FileName))
	}
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, FileName))
	}
	return paths
}

func mergeFile(cfg *Config, path string) error {
	file, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("%w: parsing %s: %v", ErrConfigurationInvalid, path, err)
	}

	repo := file.Section("repo")
	setIfPresent(repo, "OWNER", &cfg.Owner)
	setIfPresent(repo, "FORK", &cfg.Fork)
	setIfPresent(repo, "REPO", &cfg.Repo)
	setIfPresent(repo, "TOKEN", &cfg.Token)
	setIfPresent(repo, "USER", &cfg.User)

	flow := file.Section("flow")
	setIfPresent(flow, "develop_branch", &cfg.DevelopBranch)
	setIfPresent(flow, "master_branch", &cfg.MasterBranch)
	if flow.HasKey("require_qa") {
		v, err := flow.Key("require_qa").Bool()
		if err != nil {
			return fmt.Errorf("%w: %s: require_qa must be a boolean", ErrConfigurationInvalid, path)
		}
		cfg.RequireQA = v
	}
	return nil
}

func setIfPresent(section *ini.Section, key string, dst *string) {
	if section.HasKey(key) {
		if v := section.Key(key).String(); v != "" {
			*dst = v
		}
	}
}
