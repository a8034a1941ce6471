// Package archive decodes exported chat archives into validated conversation records.
package archive

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Conversation is one exported chat with its messages in chronological order.
type Conversation struct {
	ID        string    `json:"uuid"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"chat_messages"`
}

// Message is a single chat message.
type Message struct {
	Sender      string       `json:"sender"`
	CreatedAt   time.Time    `json:"created_at"`
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments"`
	Files       []FileRef    `json:"files"`
}

// Attachment is an uploaded document whose text was extracted by the exporter.
type Attachment struct {
	FileName         string `json:"file_name"`
	FileSize         int64  `json:"file_size"`
	ExtractedContent string `json:"extracted_content"`
}

// FileRef is a file attached to a message without extracted content.
type FileRef struct {
	FileName string `json:"file_name"`
}

// User is an account from the export's user list.
type User struct {
	ID       string `json:"uuid"`
	FullName string `json:"full_name"`
}

// ValidationError is returned when a record is missing required fields or
// carries a value that cannot be used.
type ValidationError struct {
	Location string
	Fields   []string
	Message  string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msg := e.Message
	if len(e.Fields) > 0 {
		msg = fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
	}
	if e.Location == "" {
		return msg
	}
	return e.Location + ": " + msg
}

// AsValidationError checks if err is a ValidationError and extracts it.
func AsValidationError(err error, target **ValidationError) bool {
	return errors.As(err, target)
}

// Directory resolves sender identifiers to display names.
type Directory struct {
	names map[string]string
}

// NewDirectory indexes users by identifier. Users without a full name are skipped.
func NewDirectory(users []User) *Directory {
	names := make(map[string]string, len(users))
	for _, user := range users {
		if user.ID == "" || user.FullName == "" {
			continue
		}
		names[user.ID] = user.FullName
	}
	return &Directory{names: names}
}

// Lookup returns the display name for id and whether one was found.
// A nil Directory never finds anything.
func (d *Directory) Lookup(id string) (string, bool) {
	if d == nil {
		return "", false
	}
	name, ok := d.names[id]
	return name, ok
}

// Resolve returns the display name for id, or id itself when unknown.
func (d *Directory) Resolve(id string) string {
	if name, ok := d.Lookup(id); ok {
		return name
	}
	return id
}

// Len returns the number of resolvable identifiers.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.names)
}
