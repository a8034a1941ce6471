// Package export renders chat archives as Markdown documents.
//
// A render produces one index plus one document per conversation:
//
//	renderer := export.NewRenderer(export.DefaultOptions(), users, logger)
//	result, err := renderer.Render(conversations, sink.NewDir("out"))
//
// The formatting functions are pure and can be used on their own:
//
//	summaries := export.Summarize(conversations, opts)
//	export.SortByUpdated(summaries)
//	index := export.FormatIndex(summaries, opts)
//	doc, err := export.FormatConversation(&conversations[0], users, opts)
//
// # Index
//
// conversation_list.md holds a table of conversations, most recently updated
// first. Dates are shown as MM-DD-YY. Conversations updated on the same day
// keep their archive order.
//
//	# Conversation List
//
//	| Conversation Name | Last Update | Created |
//	| --- | --- | --- |
//	| [Test &lt;1&gt;](abc.md) | 01-02-24 | 01-01-24 |
//
// # Conversation Documents
//
// Each conversation is written to <uuid>.md, or <folder>/<uuid>.md when
// OrganizeByDate is set (folder is YYYY-MM or YYYY-MM-DD of the update time):
//
//	# Test &lt;1&gt;
//
//	Created: 01/01/24 00:00
//	Updated: 01/02/24 00:00
//
//	01/01/24 00:00 - **u1** :
//	hello
//	    world
//
// Continuation lines of message bodies and attachment contents are indented
// by four spaces. Attachments and Files sections appear only when the
// message has any.
//
// # Names
//
// With EscapeNames set, conversation names are escaped the same way in the
// index and in document titles. Frontmatter, when enabled, keeps the raw name.
package export
