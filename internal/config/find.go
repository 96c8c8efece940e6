package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Find returns the provision.lua to use, or "" when there is none.
//
// Priority:
// 1. explicit (must exist)
// 2. <project-root>/log-viewer/provision.lua
// 3. smooai-log-viewer/provision.lua under the XDG config dirs
func Find(explicit, projectRoot string) (string, error) {
	if explicit != "" {
		info, err := os.Stat(explicit)
		if err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("config file %s is a directory", explicit)
		}
		return explicit, nil
	}

	if projectRoot != "" {
		candidate := ProjectConfigPath(projectRoot)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	path, err := xdg.SearchConfigFile(filepath.Join(AppName, FileName))
	if err != nil {
		// Not found in any XDG config dir
		return "", nil
	}
	return path, nil
}

// ProjectConfigPath returns <project-root>/log-viewer/provision.lua.
func ProjectConfigPath(projectRoot string) string {
	return filepath.Join(projectRoot, "log-viewer", FileName)
}

// Load finds and parses the provisioning config. With no file present it
// returns Defaults().
func Load(ctx context.Context, parser *Parser, explicit, projectRoot string) (*ProvisionConfig, error) {
	path, err := Find(explicit, projectRoot)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Defaults(), nil
	}
	return parser.ParseFile(ctx, path)
}
