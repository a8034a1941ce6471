package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/gorewood/chatmd/internal/archive"
	"github.com/gorewood/chatmd/internal/config"
	"github.com/gorewood/chatmd/internal/export"
	"github.com/gorewood/chatmd/internal/output"
)

// addInputFlags registers the flags shared by commands that read an archive.
func addInputFlags(cmd *cobra.Command) {
	defaults := config.Defaults()
	cmd.Flags().String("input", defaults.Input, "Conversations JSON file")
	cmd.Flags().String("users", defaults.Users, "Users JSON file for full-name resolution")
}

// addLayoutFlags registers the flags that decide where documents are written.
func addLayoutFlags(cmd *cobra.Command) {
	defaults := config.Defaults()
	cmd.Flags().Bool("organize-by-date", defaults.OrganizeByDate, "Place conversations in date folders")
	cmd.Flags().String("folder-granularity", defaults.FolderGranularity, "Date folder granularity: month or day")
}

// resolveSettings loads file and environment settings, then applies the
// flags the user set explicitly on cmd.
func resolveSettings(cmd *cobra.Command) (*config.Settings, error) {
	settings, err := config.Load(lookupFlag(cmd, "config"))
	if err != nil {
		return nil, output.NewUserErrorWithCause(err.Error(), err)
	}

	flags := cmd.Flags()
	applyString(flags, "input", &settings.Input)
	applyString(flags, "users", &settings.Users)
	applyString(flags, "out", &settings.Output)
	applyString(flags, "folder-granularity", &settings.FolderGranularity)
	applyString(flags, "precision", &settings.Precision)
	applyBool(flags, "use-full-name", &settings.UseFullName)
	applyBool(flags, "organize-by-date", &settings.OrganizeByDate)
	applyBool(flags, "frontmatter", &settings.Frontmatter)
	applyBool(flags, "html", &settings.HTML)
	if flags.Changed("no-escape") {
		noEscape, _ := flags.GetBool("no-escape")
		settings.EscapeNames = !noEscape
	}

	if err := settings.Validate(); err != nil {
		return nil, output.NewUserErrorWithCause(fmt.Sprintf("invalid settings: %v", err), err)
	}
	return settings, nil
}

func applyString(flags *pflag.FlagSet, name string, dst *string) {
	if flags.Changed(name) {
		*dst, _ = flags.GetString(name)
	}
}

func applyBool(flags *pflag.FlagSet, name string, dst *bool) {
	if flags.Changed(name) {
		*dst, _ = flags.GetBool(name)
	}
}

// renderOptions maps resolved settings onto renderer options.
func renderOptions(settings *config.Settings) export.Options {
	return export.Options{
		UseFullName:       settings.UseFullName,
		OrganizeByDate:    settings.OrganizeByDate,
		FolderGranularity: export.Granularity(settings.FolderGranularity),
		Precision:         export.Precision(settings.Precision),
		EscapeNames:       settings.EscapeNames,
		Frontmatter:       settings.Frontmatter,
		HTML:              settings.HTML,
	}
}

// loadArchive reads the conversations file and, when configured, the users
// file. Every failure is an input error.
func loadArchive(settings *config.Settings, logger *zap.Logger) ([]archive.Conversation, *archive.Directory, error) {
	conversations, err := archive.LoadFile(settings.Input)
	if err != nil {
		return nil, nil, inputError(settings.Input, err)
	}
	logger.Debug("loaded conversations", zap.String("path", settings.Input), zap.Int("count", len(conversations)))

	if settings.Users == "" {
		return conversations, nil, nil
	}

	users, err := archive.LoadUsersFile(settings.Users)
	if err != nil {
		return nil, nil, inputError(settings.Users, err)
	}
	directory := archive.NewDirectory(users)
	logger.Debug("loaded users", zap.String("path", settings.Users), zap.Int("count", directory.Len()))

	return conversations, directory, nil
}

func inputError(path string, err error) error {
	var validationErr *archive.ValidationError
	if archive.AsValidationError(err, &validationErr) {
		return output.NewUserErrorWithCause(fmt.Sprintf("invalid archive %s: %v", path, validationErr), err)
	}
	return output.NewUserErrorWithCause(fmt.Sprintf("failed to read %s: %v", path, err), err)
}
