package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// rawConversation mirrors the export format with pointers so absent keys
// can be told apart from empty values.
type rawConversation struct {
	UUID         *string       `json:"uuid"`
	Name         *string       `json:"name"`
	CreatedAt    *string       `json:"created_at"`
	UpdatedAt    *string       `json:"updated_at"`
	ChatMessages *[]rawMessage `json:"chat_messages"`
}

type rawMessage struct {
	CreatedAt   *string         `json:"created_at"`
	Sender      *string         `json:"sender"`
	Text        *string         `json:"text"`
	Attachments []rawAttachment `json:"attachments"`
	Files       []rawFile       `json:"files"`
}

type rawAttachment struct {
	FileName         *string `json:"file_name"`
	FileSize         *int64  `json:"file_size"`
	ExtractedContent string  `json:"extracted_content"`
}

type rawFile struct {
	FileName *string `json:"file_name"`
}

// LoadFile reads and decodes a conversations file.
func LoadFile(path string) ([]Conversation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	return Decode(f)
}

// LoadUsersFile reads and decodes a users file.
func LoadUsersFile(path string) ([]User, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening users file: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	return DecodeUsers(f)
}

// Decode reads a JSON array of conversations and validates every record.
// The first missing required field, unparsable timestamp, unsafe or
// duplicate identifier aborts decoding with a *ValidationError.
func Decode(r io.Reader) ([]Conversation, error) {
	var raws []rawConversation
	if err := decodeArray(r, &raws); err != nil {
		return nil, fmt.Errorf("decoding conversations: %w", err)
	}

	conversations := make([]Conversation, 0, len(raws))
	seen := make(map[string]int, len(raws))
	for i, raw := range raws {
		conv, err := raw.convert(i)
		if err != nil {
			return nil, err
		}
		key := idKey(conv.ID)
		if first, dup := seen[key]; dup {
			return nil, &ValidationError{
				Location: conversationLocation(i, conv.ID),
				Message:  fmt.Sprintf("duplicate uuid (first seen at conversation %d)", first),
			}
		}
		seen[key] = i
		conversations = append(conversations, conv)
	}

	return conversations, nil
}

// DecodeUsers reads a JSON array of users. Entries without a uuid are dropped.
func DecodeUsers(r io.Reader) ([]User, error) {
	var users []User
	if err := decodeArray(r, &users); err != nil {
		return nil, fmt.Errorf("decoding users: %w", err)
	}

	kept := users[:0]
	for _, user := range users {
		if user.ID != "" {
			kept = append(kept, user)
		}
	}
	return kept, nil
}

func (raw *rawConversation) convert(index int) (Conversation, error) {
	id := deref(raw.UUID)
	location := conversationLocation(index, id)

	var missing []string
	missing = requireString(missing, "uuid", raw.UUID)
	missing = requireString(missing, "name", raw.Name)
	missing = requireString(missing, "created_at", raw.CreatedAt)
	missing = requireString(missing, "updated_at", raw.UpdatedAt)
	if raw.ChatMessages == nil {
		missing = append(missing, "chat_messages")
	}
	if len(missing) > 0 {
		return Conversation{}, &ValidationError{Location: location, Fields: missing, Message: "missing required fields"}
	}

	if err := ValidateID(id); err != nil {
		return Conversation{}, &ValidationError{Location: location, Message: err.Error()}
	}

	created, err := ParseTimestamp(*raw.CreatedAt)
	if err != nil {
		return Conversation{}, &ValidationError{Location: location, Fields: []string{"created_at"}, Message: err.Error()}
	}
	updated, err := ParseTimestamp(*raw.UpdatedAt)
	if err != nil {
		return Conversation{}, &ValidationError{Location: location, Fields: []string{"updated_at"}, Message: err.Error()}
	}

	messages := make([]Message, 0, len(*raw.ChatMessages))
	for j, rawMsg := range *raw.ChatMessages {
		msg, err := rawMsg.convert(fmt.Sprintf("%s, message %d", location, j))
		if err != nil {
			return Conversation{}, err
		}
		messages = append(messages, msg)
	}

	return Conversation{
		ID:        id,
		Name:      *raw.Name,
		CreatedAt: created,
		UpdatedAt: updated,
		Messages:  messages,
	}, nil
}

func (raw *rawMessage) convert(location string) (Message, error) {
	var missing []string
	missing = requireString(missing, "created_at", raw.CreatedAt)
	missing = requireString(missing, "sender", raw.Sender)
	missing = requireString(missing, "text", raw.Text)
	if len(missing) > 0 {
		return Message{}, &ValidationError{Location: location, Fields: missing, Message: "missing required fields"}
	}

	created, err := ParseTimestamp(*raw.CreatedAt)
	if err != nil {
		return Message{}, &ValidationError{Location: location, Fields: []string{"created_at"}, Message: err.Error()}
	}

	msg := Message{
		Sender:    *raw.Sender,
		CreatedAt: created,
		Text:      *raw.Text,
	}

	for k, att := range raw.Attachments {
		var attMissing []string
		attMissing = requireString(attMissing, "file_name", att.FileName)
		if att.FileSize == nil {
			attMissing = append(attMissing, "file_size")
		}
		if len(attMissing) > 0 {
			return Message{}, &ValidationError{
				Location: fmt.Sprintf("%s, attachment %d", location, k),
				Fields:   attMissing,
				Message:  "missing required fields",
			}
		}
		msg.Attachments = append(msg.Attachments, Attachment{
			FileName:         *att.FileName,
			FileSize:         *att.FileSize,
			ExtractedContent: att.ExtractedContent,
		})
	}

	for k, file := range raw.Files {
		if file.FileName == nil {
			return Message{}, &ValidationError{
				Location: fmt.Sprintf("%s, file %d", location, k),
				Fields:   []string{"file_name"},
				Message:  "missing required fields",
			}
		}
		msg.Files = append(msg.Files, FileRef{FileName: *file.FileName})
	}

	return msg, nil
}

// ParseTimestamp parses an export timestamp such as
// "2024-01-01T00:00:00.000000Z" and returns it in UTC.
// Fractional seconds are optional and numeric offsets are accepted.
func ParseTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", value)
	}
	return t.UTC(), nil
}

// decodeArray decodes a single JSON value from r into v and rejects
// anything but whitespace after it.
func decodeArray(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after the top-level array")
	}
	return nil
}

// ValidateID checks that a conversation identifier can be used as a file name
// stem. Identifiers that parse as UUIDs must be in canonical hyphenated form;
// braced, urn:uuid: and unhyphenated spellings are rejected.
func ValidateID(id string) error {
	if u, err := uuid.Parse(id); err == nil {
		if u.String() != strings.ToLower(id) {
			return fmt.Errorf("uuid %q is not in canonical form %s", id, u)
		}
		return nil
	}
	if id == "" || id == "." || id == ".." {
		return fmt.Errorf("uuid %q is not a usable file name", id)
	}
	if strings.ContainsAny(id, "/\\\x00") {
		return fmt.Errorf("uuid %q contains a path separator", id)
	}
	return nil
}

// idKey returns the key under which two identifiers name the same document
// on a case-insensitive file system.
func idKey(id string) string {
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return strings.ToLower(id)
}

func conversationLocation(index int, id string) string {
	if id == "" {
		return fmt.Sprintf("conversation %d", index)
	}
	return fmt.Sprintf("conversation %d (%s)", index, id)
}

func requireString(missing []string, field string, value *string) []string {
	if value == nil {
		return append(missing, field)
	}
	return missing
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
