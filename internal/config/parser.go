package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/smooai/log-viewer-launcher/internal/platform"
)

// Parser evaluates provision.lua files for one platform.
type Parser struct {
	platform platform.Identifier
}

// NewParser creates a parser that exposes id as the Lua "platform" table.
func NewParser(id platform.Identifier) *Parser {
	return &Parser{platform: id}
}

// ParseString parses a Lua config from a string. Relative keyring paths are
// left as written. Cancelling ctx aborts a runaway script.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*ProvisionConfig, error) {
	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if err := platform.InjectPlatformTable(L, p.platform); err != nil {
		return nil, fmt.Errorf("inject platform table: %w", err)
	}

	if err := L.DoString(luaCode); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("evaluate config: %w", ctx.Err())
		}
		return nil, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	return extractConfig(L)
}

// ParseFile reads and parses the config at path and resolves a relative
// keyring against the file's directory.
func (p *Parser) ParseFile(ctx context.Context, path string) (*ProvisionConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := p.ParseString(ctx, string(data))
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) && parseErr.Path == "" {
			parseErr.Path = path
		}
		return nil, err
	}

	cfg.Source = path
	if cfg.Keyring != "" && !filepath.IsAbs(cfg.Keyring) {
		cfg.Keyring = filepath.Join(filepath.Dir(path), cfg.Keyring)
	}

	return cfg, nil
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Path    string // Config file, when parsed from disk
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractConfig reads the global "log_viewer" table. A script that does not
// define it yields the defaults.
func extractConfig(L *lua.LState) (*ProvisionConfig, error) {
	config := Defaults()

	global := L.GetGlobal(luaGlobalLogViewer)
	if global.Type() == lua.LTNil {
		return config, nil
	}
	table, ok := global.(*lua.LTable)
	if !ok {
		return nil, &ParseError{
			Message: fmt.Sprintf("invalid '%s' table", luaGlobalLogViewer),
			Detail:  fmt.Sprintf("expected table, got %s", global.Type()),
		}
	}

	if err := rejectUnknownFields(table); err != nil {
		return nil, err
	}

	var err error
	if config.Repo, err = stringField(table, luaFieldRepo, config.Repo); err != nil {
		return nil, err
	}
	if config.Version, err = stringField(table, luaFieldVersion, config.Version); err != nil {
		return nil, err
	}
	if config.Keyring, err = stringField(table, luaFieldKeyring, config.Keyring); err != nil {
		return nil, err
	}
	if config.Toolchain, err = stringField(table, luaFieldToolchain, config.Toolchain); err != nil {
		return nil, err
	}
	if config.SkipDownload, err = boolField(table, luaFieldSkipDownload, config.SkipDownload); err != nil {
		return nil, err
	}
	if config.SkipBuild, err = boolField(table, luaFieldSkipBuild, config.SkipBuild); err != nil {
		return nil, err
	}

	seconds, err := numberField(table, luaFieldTimeout, config.Timeout.Seconds())
	if err != nil {
		return nil, err
	}
	config.Timeout = time.Duration(seconds * float64(time.Second))

	retries, err := numberField(table, luaFieldRetries, float64(config.Retries))
	if err != nil {
		return nil, err
	}
	if retries != float64(int(retries)) {
		return nil, fieldError(luaFieldRetries, fmt.Sprintf("expected an integer, got %v", retries))
	}
	config.Retries = int(retries)

	if err := config.Validate(); err != nil {
		return nil, &ParseError{
			Message: "config validation failed",
			Detail:  err.Error(),
		}
	}

	return config, nil
}

func rejectUnknownFields(table *lua.LTable) error {
	var unknown []string
	table.ForEach(func(key, _ lua.LValue) {
		if name, ok := key.(lua.LString); !ok || !knownFields[string(name)] {
			unknown = append(unknown, key.String())
		}
	})
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return &ParseError{
		Message: fmt.Sprintf("unknown field in '%s'", luaGlobalLogViewer),
		Detail:  strings.Join(unknown, ", "),
	}
}

// The field helpers treat nil as unset, so platform.when(...) can
// conditionally omit a value.

func stringField(table *lua.LTable, name, def string) (string, error) {
	switch v := table.RawGetString(name).(type) {
	case *lua.LNilType:
		return def, nil
	case lua.LString:
		return string(v), nil
	default:
		return "", fieldError(name, fmt.Sprintf("expected string, got %s", v.Type()))
	}
}

func boolField(table *lua.LTable, name string, def bool) (bool, error) {
	switch v := table.RawGetString(name).(type) {
	case *lua.LNilType:
		return def, nil
	case lua.LBool:
		return bool(v), nil
	default:
		return false, fieldError(name, fmt.Sprintf("expected boolean, got %s", v.Type()))
	}
}

func numberField(table *lua.LTable, name string, def float64) (float64, error) {
	switch v := table.RawGetString(name).(type) {
	case *lua.LNilType:
		return def, nil
	case lua.LNumber:
		return float64(v), nil
	default:
		return 0, fieldError(name, fmt.Sprintf("expected number, got %s", v.Type()))
	}
}

func fieldError(name, detail string) *ParseError {
	return &ParseError{
		Message: fmt.Sprintf("invalid field '%s.%s'", luaGlobalLogViewer, name),
		Detail:  detail,
	}
}

// FormatError formats a ParseError for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		return err.Error()
	}

	prefix := parseErr.Message
	if parseErr.Path != "" {
		prefix = parseErr.Path + ": " + prefix
	}

	if verbose {
		return fmt.Sprintf("%s\n\nDetails:\n%s", prefix, parseErr.Detail)
	}

	// Extract the most relevant part of the error
	detail := parseErr.Detail
	if idx := strings.Index(detail, "stack traceback"); idx > 0 {
		detail = strings.TrimSpace(detail[:idx])
	}
	return fmt.Sprintf("%s: %s", prefix, detail)
}
