package binary

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/smooai/log-viewer-launcher/internal/platform"
)

const (
	// DefaultBaseURL is the artifact host.
	DefaultBaseURL = "https://github.com"
	// DefaultOwner owns the release repository.
	DefaultOwner = "SmooAI"
	// DefaultRepo is the release repository name.
	DefaultRepo = "logger"
)

// Release locates prebuilt assets on the artifact host.
// An empty Version selects the latest release.
type Release struct {
	BaseURL string
	Owner   string
	Repo    string
	Version string
}

// DefaultRelease returns the latest release of the default repository.
func DefaultRelease() Release {
	return Release{
		BaseURL: DefaultBaseURL,
		Owner:   DefaultOwner,
		Repo:    DefaultRepo,
	}
}

// ParseRepo splits "owner/name".
func ParseRepo(s string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("invalid repository %q: expected owner/name", s)
	}
	return owner, repo, nil
}

// NormalizeVersion returns the canonical "vX.Y.Z" tag for v, accepting an
// optional leading "v".
func NormalizeVersion(v string) (string, error) {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("invalid release version %q", v)
	}
	return v, nil
}

// AssetName returns the release asset name for id.
// Pattern: smooai-log-viewer-{os}-{arch}[.exe]
func AssetName(id platform.Identifier) string {
	return fmt.Sprintf("%s-%s%s", BinaryName, id.Key(), id.ExecutableSuffix())
}

// AssetURL returns the download URL for id.
// Latest: {base}/{owner}/{repo}/releases/latest/download/{asset}
// Pinned: {base}/{owner}/{repo}/releases/download/{tag}/{asset}
func (r Release) AssetURL(id platform.Identifier) (string, error) {
	base, err := r.baseURL()
	if err != nil {
		return "", err
	}

	if r.Version == "" {
		return fmt.Sprintf("%s/releases/latest/download/%s", base, AssetName(id)), nil
	}

	tag, err := NormalizeVersion(r.Version)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/releases/download/%s/%s", base, tag, AssetName(id)), nil
}

// SignatureURL returns the URL of the detached signature for id's asset.
func (r Release) SignatureURL(id platform.Identifier) (string, error) {
	assetURL, err := r.AssetURL(id)
	if err != nil {
		return "", err
	}
	return assetURL + ".sig", nil
}

func (r Release) baseURL() (string, error) {
	if r.Owner == "" || r.Repo == "" {
		return "", fmt.Errorf("release repository is required")
	}
	host := strings.TrimRight(r.BaseURL, "/")
	if host == "" {
		host = DefaultBaseURL
	}
	return fmt.Sprintf("%s/%s/%s", host, r.Owner, r.Repo), nil
}
