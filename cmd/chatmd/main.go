// Package main provides the entry point for the chatmd CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gorewood/chatmd/internal/config"
	"github.com/gorewood/chatmd/internal/envfile"
	"github.com/gorewood/chatmd/internal/output"
)

// Build info set via ldflags at build time by goreleaser.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// lookupFlag finds a flag on the command or, failing that, on the root's
// persistent flags.
func lookupFlag(cmd *cobra.Command, name string) string {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup(name)
	}
	if flag == nil {
		return ""
	}
	return flag.Value.String()
}

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	return lookupFlag(cmd, "json") == "true"
}

// isVerbose reads the --verbose persistent flag from the command hierarchy.
func isVerbose(cmd *cobra.Command) bool {
	return lookupFlag(cmd, "verbose") == "true"
}

// newPrinter builds a printer for cmd honoring --json and --color.
func newPrinter(cmd *cobra.Command) *output.Printer {
	w := cmd.OutOrStdout()
	color := output.ResolveColorMode(lookupFlag(cmd, "color"), output.IsTTY(w))
	return output.NewPrinter(w, isJSONMode(cmd), color).WithStderr(cmd.ErrOrStderr())
}

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command for the chatmd CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chatmd",
		Short: "Convert exported chat archives to Markdown",
		Long: `chatmd - Convert exported chat archives to browsable Markdown.

chatmd reads the conversations.json (and optional users.json) from a chat
export and writes:
  - conversation_list.md, a table of every conversation, newest first
  - one <uuid>.md per conversation, optionally grouped in date folders
  - optional sanitized .html companions for every document

Settings come from flags, CHATMD_* environment variables, and
config.yaml in the chatmd config directory, in that order.

All commands support --json for structured output.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if isJSONMode(cmd) {
				printer := output.NewPrinter(cmd.OutOrStdout(), true, false)
				err := output.NewUserError("no command specified. Run 'chatmd --help' for usage")
				printer.Error(err)
				return err
			}
			return cmd.Help()
		},
	}

	// Environment variables always take precedence over file values.
	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if err := loadEnvFiles(); err != nil {
			exitErr := output.NewUserErrorWithCause(err.Error(), err)
			newPrinter(cmd).Error(exitErr)
			return exitErr
		}
		return nil
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug diagnostics to stderr")
	cmd.PersistentFlags().String("config", "", "Config file (default: <config dir>/config.yaml)")
	cmd.PersistentFlags().String("color", "auto", "Color output: auto, always, never")

	lipgloss.SetHasDarkBackground(true)

	addCommandGroups(cmd)
	addCommands(cmd)

	return cmd
}

// loadEnvFiles loads env files in priority order. First match for each
// variable wins; environment variables already set always take precedence.
//
// Resolution order:
//  1. $CWD/.env.local
//  2. $CWD/.env
//  3. <config dir>/env
func loadEnvFiles() error {
	paths := []string{".env.local", ".env"}
	if dir := config.Dir(); dir != "" {
		paths = append(paths, filepath.Join(dir, "env"))
	}
	return envfile.LoadAll(paths...)
}

// addCommandGroups defines the command groups for help output.
func addCommandGroups(cmd *cobra.Command) {
	cmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "query", Title: "Query Commands:"})
}

// addCommands adds all subcommands with their group assignments.
func addCommands(cmd *cobra.Command) {
	addGroupedCommand(cmd, newConvertCmd(), "core")
	addGroupedCommand(cmd, newListCmd(), "query")
}

// addGroupedCommand adds a subcommand with a group assignment.
func addGroupedCommand(parent *cobra.Command, child *cobra.Command, groupID string) {
	child.GroupID = groupID
	parent.AddCommand(child)
}
