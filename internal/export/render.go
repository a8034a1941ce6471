package export

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/gorewood/chatmd/internal/archive"
	"github.com/gorewood/chatmd/internal/output"
	"github.com/gorewood/chatmd/internal/sink"
)

// Result lists what a render wrote.
type Result struct {
	Index         string   `json:"index"`
	Documents     []string `json:"documents"`
	HTMLDocuments []string `json:"html_documents,omitempty"`
	Unresolved    []string `json:"unresolved_senders,omitempty"`
}

// Renderer writes an index and one document per conversation to a sink.
type Renderer struct {
	opts   Options
	users  *archive.Directory
	logger *zap.Logger
	html   *HTMLConverter
}

// NewRenderer creates a Renderer. users and logger may be nil.
func NewRenderer(opts Options, users *archive.Directory, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Renderer{opts: opts, users: users, logger: logger}
	if opts.HTML {
		r.html = NewHTMLConverter()
	}
	return r
}

// Render writes a chat archive to out with a default logger.
func Render(conversations []archive.Conversation, users *archive.Directory, out sink.Sink, opts Options) error {
	_, err := NewRenderer(opts, users, nil).Render(conversations, out)
	return err
}

// Render writes the conversation list followed by every conversation
// document in input order. The first write failure aborts the run and is
// returned as a system error.
func (r *Renderer) Render(conversations []archive.Conversation, out sink.Sink) (*Result, error) {
	if err := r.opts.Validate(); err != nil {
		return nil, output.NewUserError(err.Error())
	}

	result := &Result{Index: IndexName}

	summaries := Summarize(conversations, r.opts)
	SortByUpdated(summaries)

	if err := r.write(out, IndexName, []byte(FormatIndex(summaries, r.opts))); err != nil {
		return nil, err
	}
	if r.html != nil {
		page, err := r.html.Convert("Conversation List", formatIndex(summaries, r.opts, HTMLExt))
		if err != nil {
			return nil, output.NewSystemErrorWithCause("failed to render index html", err)
		}
		if err := r.write(out, htmlName(IndexName), page); err != nil {
			return nil, err
		}
		result.HTMLDocuments = append(result.HTMLDocuments, htmlName(IndexName))
	}

	for i := range conversations {
		conv := &conversations[i]
		name, err := r.renderConversation(conv, out, result)
		if err != nil {
			return nil, err
		}
		result.Documents = append(result.Documents, name)
	}

	result.Unresolved = r.unresolvedSenders(conversations)
	return result, nil
}

// renderConversation writes one conversation and its optional HTML companion.
func (r *Renderer) renderConversation(conv *archive.Conversation, out sink.Sink, result *Result) (string, error) {
	name := DocumentName(conv, r.opts)

	content, err := FormatConversation(conv, r.users, r.opts)
	if err != nil {
		return "", output.NewSystemErrorWithCause(fmt.Sprintf("failed to render %s", conv.ID), err)
	}
	if err := r.write(out, name, []byte(content)); err != nil {
		return "", err
	}

	if r.html == nil {
		return name, nil
	}

	plain := r.opts
	plain.Frontmatter = false
	markdown, err := FormatConversation(conv, r.users, plain)
	if err != nil {
		return "", output.NewSystemErrorWithCause(fmt.Sprintf("failed to render %s", conv.ID), err)
	}
	page, err := r.html.Convert(conv.Name, markdown)
	if err != nil {
		return "", output.NewSystemErrorWithCause(fmt.Sprintf("failed to render html for %s", conv.ID), err)
	}
	if err := r.write(out, htmlName(name), page); err != nil {
		return "", err
	}
	result.HTMLDocuments = append(result.HTMLDocuments, htmlName(name))

	return name, nil
}

func (r *Renderer) write(out sink.Sink, name string, data []byte) error {
	if err := out.WriteFile(name, data); err != nil {
		return output.NewSystemErrorWithCause(fmt.Sprintf("failed to write %s: %v", name, err), err)
	}
	r.logger.Debug("wrote document", zap.String("name", name), zap.Int("bytes", len(data)))
	return nil
}

// unresolvedSenders lists senders with no directory entry, in order of first
// appearance. Empty unless full names were requested and a directory is set.
func (r *Renderer) unresolvedSenders(conversations []archive.Conversation) []string {
	if !r.opts.UseFullName || r.users == nil {
		return nil
	}

	seen := make(map[string]bool)
	var missing []string
	for i := range conversations {
		for j := range conversations[i].Messages {
			sender := conversations[i].Messages[j].Sender
			if seen[sender] {
				continue
			}
			seen[sender] = true
			if _, ok := r.users.Lookup(sender); !ok {
				missing = append(missing, sender)
				r.logger.Debug("sender not in user directory", zap.String("sender", sender))
			}
		}
	}
	return missing
}
