package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/smooai/log-viewer-launcher/internal/binary"
)

// ProvisionConfig controls how bundle-log-viewer acquires the binary.
type ProvisionConfig struct {
	// Repo is the release repository as "owner/name".
	Repo string

	// Version pins a release tag. Empty selects the latest release.
	Version string

	// Timeout bounds the download step.
	Timeout time.Duration

	// Retries is how many times a failed download request is retried.
	Retries int

	// Keyring is an OpenPGP keyring path. When set, downloads must carry a
	// valid detached signature. ParseFile resolves it against the config
	// file's directory.
	Keyring string

	SkipDownload bool
	SkipBuild    bool

	// Toolchain is the build tool for the fallback.
	Toolchain string

	// Source is the file the config was read from, empty for defaults.
	Source string
}

// Defaults returns the configuration used when no provision.lua exists.
func Defaults() *ProvisionConfig {
	return &ProvisionConfig{
		Repo:      binary.DefaultOwner + "/" + binary.DefaultRepo,
		Timeout:   binary.DefaultTimeout,
		Retries:   binary.DefaultRetries,
		Toolchain: binary.DefaultToolchain,
	}
}

// Validate checks that the configuration is usable.
func (c *ProvisionConfig) Validate() error {
	if _, _, err := binary.ParseRepo(c.Repo); err != nil {
		return err
	}

	if c.Version != "" {
		if _, err := binary.NormalizeVersion(c.Version); err != nil {
			return err
		}
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}

	if c.Retries < 0 || c.Retries > maxRetries {
		return fmt.Errorf("retries must be between 0 and %d, got %d", maxRetries, c.Retries)
	}

	if strings.TrimSpace(c.Toolchain) == "" {
		return fmt.Errorf("toolchain cannot be empty")
	}

	return nil
}

// Release returns the release selected by Repo and Version.
func (c *ProvisionConfig) Release() (binary.Release, error) {
	owner, repo, err := binary.ParseRepo(c.Repo)
	if err != nil {
		return binary.Release{}, err
	}
	return binary.Release{
		BaseURL: binary.DefaultBaseURL,
		Owner:   owner,
		Repo:    repo,
		Version: c.Version,
	}, nil
}
