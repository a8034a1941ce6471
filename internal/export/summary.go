package export

import (
	"path"
	"sort"
	"time"

	"github.com/gorewood/chatmd/internal/archive"
)

// Summary is the index view of one conversation.
type Summary struct {
	ID       string    `json:"uuid"`
	Name     string    `json:"name"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
	Messages int       `json:"message_count"`
	// Document is the conversation document's name relative to the output root.
	Document string `json:"document"`
}

// Summarize extracts index summaries in input order. Dates are truncated to
// the day; the conversation records keep full precision.
func Summarize(conversations []archive.Conversation, opts Options) []Summary {
	summaries := make([]Summary, 0, len(conversations))
	for i := range conversations {
		conv := &conversations[i]
		summaries = append(summaries, Summary{
			ID:       conv.ID,
			Name:     conv.Name,
			Created:  truncateToDay(conv.CreatedAt),
			Updated:  truncateToDay(conv.UpdatedAt),
			Messages: len(conv.Messages),
			Document: DocumentName(conv, opts),
		})
	}
	return summaries
}

// Participants lists the distinct senders of conv in order of first
// appearance, resolved through users. A nil users keeps raw identifiers.
func Participants(conv *archive.Conversation, users *archive.Directory) []string {
	seen := make(map[string]bool)
	names := []string{}
	for i := range conv.Messages {
		id := conv.Messages[i].Sender
		if seen[id] {
			continue
		}
		seen[id] = true
		names = append(names, users.Resolve(id))
	}
	return names
}

// SortByUpdated orders summaries most recently updated first.
// Summaries updated on the same day keep their relative order.
func SortByUpdated(summaries []Summary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Updated.After(summaries[j].Updated)
	})
}

// FolderName returns the date folder for a conversation, e.g. "2024-03"
// or "2024-03-05" depending on granularity.
func FolderName(conv *archive.Conversation, granularity Granularity) string {
	return conv.UpdatedAt.UTC().Format(granularity.layout())
}

// DocumentName returns the slash-separated name of a conversation's
// Markdown document relative to the output root.
func DocumentName(conv *archive.Conversation, opts Options) string {
	name := conv.ID + MarkdownExt
	if opts.OrganizeByDate {
		return path.Join(FolderName(conv, opts.FolderGranularity), name)
	}
	return name
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
