package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override settings.
const EnvPrefix = "CHATMD_"

const maxFileSize = 1024 * 1024 // 1MB

// Folder granularities for date-organized output.
const (
	GranularityMonth = "month"
	GranularityDay   = "day"
)

// Timestamp precisions for conversation headers and message lines.
const (
	PrecisionMinute = "minute"
	PrecisionSecond = "second"
)

// Settings are the conversion defaults read from the config file and the
// environment. Command-line flags are applied on top by the CLI.
type Settings struct {
	Input             string `koanf:"input"`
	Users             string `koanf:"users"`
	Output            string `koanf:"output"`
	UseFullName       bool   `koanf:"use_full_name"`
	OrganizeByDate    bool   `koanf:"organize_by_date"`
	FolderGranularity string `koanf:"folder_granularity"`
	Precision         string `koanf:"precision"`
	EscapeNames       bool   `koanf:"escape_names"`
	Frontmatter       bool   `koanf:"frontmatter"`
	HTML              bool   `koanf:"html"`
	LogFormat         string `koanf:"log_format"`
}

// Defaults returns the settings used when neither file nor environment set a key.
func Defaults() Settings {
	return Settings{
		Input:             "data/conversations.json",
		Output:            "data/conversations_markdown",
		FolderGranularity: GranularityMonth,
		Precision:         PrecisionMinute,
		EscapeNames:       true,
		LogFormat:         "console",
	}
}

// Load resolves settings with precedence environment > file > defaults.
//
// An empty path means DefaultFile(), which may be absent. An explicit path
// that does not exist is an error.
//
// Environment variables map by dropping the prefix and lowercasing:
//
//	CHATMD_ORGANIZE_BY_DATE=true -> organize_by_date
//	CHATMD_FOLDER_GRANULARITY=day -> folder_granularity
func Load(path string) (*Settings, error) {
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		path = DefaultFile()
	}

	if path != "" {
		content, err := readFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist) && !explicit:
		case err != nil:
			return nil, err
		default:
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	settings := Defaults()
	if err := k.Unmarshal("", &settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &settings, nil
}

// Validate checks the enumerated settings.
func (s *Settings) Validate() error {
	switch s.FolderGranularity {
	case GranularityMonth, GranularityDay:
	default:
		return fmt.Errorf("folder_granularity must be %q or %q, got %q", GranularityMonth, GranularityDay, s.FolderGranularity)
	}

	switch s.Precision {
	case PrecisionMinute, PrecisionSecond:
	default:
		return fmt.Errorf("precision must be %q or %q, got %q", PrecisionMinute, PrecisionSecond, s.Precision)
	}

	switch s.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log_format must be \"console\" or \"json\", got %q", s.LogFormat)
	}

	return nil
}

// readFile reads a config file, rejecting anything larger than maxFileSize.
func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file %s: %w", path, os.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}
