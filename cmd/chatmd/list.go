package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/chatmd/internal/archive"
	"github.com/gorewood/chatmd/internal/export"
	"github.com/gorewood/chatmd/internal/logging"
	"github.com/gorewood/chatmd/internal/output"
)

// listDateLayout is the date format used in the list table.
const listDateLayout = "2006-01-02"

// listItem is the JSON shape of one row of the list command.
type listItem struct {
	export.Summary
	Participants []string `json:"participants"`
}

// newListCmd creates the list command.
func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the conversation index without writing files",
		Long: `Show the conversation index in the order conversation_list.md uses:
most recently updated first, same-day conversations in archive order.

With --users, participants are shown by full name.

Examples:
  chatmd list                                         # table of data/conversations.json
  chatmd list --input export/conversations.json --users export/users.json
  chatmd list --organize-by-date --json               # document paths as convert would write them`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	addInputFlags(cmd)
	addLayoutFlags(cmd)

	return cmd
}

// runList executes the list command.
func runList(cmd *cobra.Command, _ []string) error {
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

	items := listItems(conversations, users, renderOptions(settings))
	return printList(printer, items)
}

// listItems summarizes and sorts conversations, attaching resolved
// participant names.
func listItems(conversations []archive.Conversation, users *archive.Directory, opts export.Options) []listItem {
	participants := make(map[string][]string, len(conversations))
	for i := range conversations {
		participants[conversations[i].ID] = export.Participants(&conversations[i], users)
	}

	summaries := export.Summarize(conversations, opts)
	export.SortByUpdated(summaries)

	items := make([]listItem, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, listItem{Summary: summary, Participants: participants[summary.ID]})
	}
	return items
}

func printList(printer *output.Printer, items []listItem) error {
	if printer.IsJSON() {
		return printer.WriteJSON(items)
	}

	if len(items) == 0 {
		printer.Println("No conversations found")
		return nil
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.Updated.Format(listDateLayout),
			item.Created.Format(listDateLayout),
			strconv.Itoa(item.Messages),
			item.Name,
			strings.Join(item.Participants, ", "),
			item.Document,
		})
	}
	printer.Table([]string{"UPDATED", "CREATED", "MESSAGES", "NAME", "PARTICIPANTS", "DOCUMENT"}, rows)
	return nil
}
