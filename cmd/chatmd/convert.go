package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/chatmd/internal/config"
	"github.com/gorewood/chatmd/internal/export"
	"github.com/gorewood/chatmd/internal/logging"
	"github.com/gorewood/chatmd/internal/output"
	"github.com/gorewood/chatmd/internal/sink"
)

// newConvertCmd creates the convert command.
func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a chat archive to Markdown documents",
		Long: `Convert a chat archive to a conversation index plus one Markdown
document per conversation.

Re-running over the same output directory overwrites every document.

Examples:
  chatmd convert                                          # data/conversations.json -> data/conversations_markdown
  chatmd convert --input export/conversations.json --out notes/
  chatmd convert --users export/users.json --use-full-name
  chatmd convert --organize-by-date --folder-granularity day
  chatmd convert --frontmatter --html --json              # YAML metadata, HTML companions, JSON summary`,
		Args: cobra.NoArgs,
		RunE: runConvert,
	}

	defaults := config.Defaults()
	addInputFlags(cmd)
	addLayoutFlags(cmd)
	cmd.Flags().String("out", defaults.Output, "Output directory")
	cmd.Flags().Bool("use-full-name", defaults.UseFullName, "Replace sender identifiers with names from --users")
	cmd.Flags().String("precision", defaults.Precision, "Timestamp precision: minute or second")
	cmd.Flags().Bool("no-escape", !defaults.EscapeNames, "Write conversation names without Markdown/HTML escaping")
	cmd.Flags().Bool("frontmatter", defaults.Frontmatter, "Prefix documents with YAML frontmatter")
	cmd.Flags().Bool("html", defaults.HTML, "Also write sanitized .html companions")

	return cmd
}

// runConvert executes the convert command.
func runConvert(cmd *cobra.Command, _ []string) error {
	printer := newPrinter(cmd)

	settings, err := resolveSettings(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}

	logger := logging.New(cmd.ErrOrStderr(), isVerbose(cmd), settings.LogFormat)
	defer func() { _ = logger.Sync() }()

	conversations, users, err := loadArchive(settings, logger)
	if err != nil {
		printer.Error(err)
		return err
	}

	if settings.UseFullName && users == nil && !printer.IsJSON() {
		printer.Warn("--use-full-name has no effect without --users; sender identifiers are kept")
	}

	out := sink.NewDir(settings.Output)
	result, err := export.NewRenderer(renderOptions(settings), users, logger).Render(conversations, out)
	if err != nil {
		printer.Error(err)
		return err
	}

	return printConvertResult(printer, out.Root(), len(conversations), result)
}

// printConvertResult reports what was written.
func printConvertResult(printer *output.Printer, root string, count int, result *export.Result) error {
	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{
			"status":             "ok",
			"output":             root,
			"conversations":      count,
			"index":              result.Index,
			"documents":          result.Documents,
			"html_documents":     result.HTMLDocuments,
			"unresolved_senders": result.Unresolved,
		})
	}

	if err := printer.Success(map[string]any{
		"message": fmt.Sprintf("Converted %d conversation(s) into %s", count, root),
	}); err != nil {
		return err
	}
	printer.KeyValue("Index", result.Index)
	printer.KeyValue("Documents", fmt.Sprintf("%d", len(result.Documents)))
	if len(result.HTMLDocuments) > 0 {
		printer.KeyValue("HTML", fmt.Sprintf("%d", len(result.HTMLDocuments)))
	}
	if len(result.Unresolved) > 0 {
		printer.Warn("%d sender(s) not found in the user directory: %s",
			len(result.Unresolved), strings.Join(result.Unresolved, ", "))
	}
	return nil
}
