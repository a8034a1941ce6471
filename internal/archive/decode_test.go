package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleArchive = `[
  {
    "uuid": "abc",
    "name": "Test <1>",
    "created_at": "2024-01-01T00:00:00.000000Z",
    "updated_at": "2024-01-02T00:00:00.000000Z",
    "account": {"uuid": "ignored"},
    "chat_messages": [
      {
        "uuid": "m1",
        "created_at": "2024-01-01T00:00:00.000000Z",
        "sender": "u1",
        "text": "hello\nworld",
        "attachments": [],
        "files": []
      },
      {
        "created_at": "2024-01-01T08:30:15.123456Z",
        "sender": "u2",
        "text": "see attached",
        "attachments": [{"file_name": "notes.txt", "file_size": 42, "extracted_content": "line one\nline two"}],
        "files": [{"file_name": "diagram.png"}]
      }
    ]
  }
]`

func TestDecode_Sample(t *testing.T) {
	conversations, err := Decode(strings.NewReader(sampleArchive))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(conversations) != 1 {
		t.Fatalf("got %d conversations, want 1", len(conversations))
	}

	conv := conversations[0]
	if conv.ID != "abc" || conv.Name != "Test <1>" {
		t.Errorf("got id=%q name=%q", conv.ID, conv.Name)
	}
	if want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC); !conv.UpdatedAt.Equal(want) {
		t.Errorf("UpdatedAt = %v, want %v", conv.UpdatedAt, want)
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(conv.Messages))
	}

	first := conv.Messages[0]
	if first.Sender != "u1" || first.Text != "hello\nworld" {
		t.Errorf("first message = %+v", first)
	}
	if len(first.Attachments) != 0 || len(first.Files) != 0 {
		t.Errorf("first message should have no attachments or files: %+v", first)
	}

	second := conv.Messages[1]
	if len(second.Attachments) != 1 || second.Attachments[0].FileSize != 42 {
		t.Errorf("attachments = %+v", second.Attachments)
	}
	if second.Attachments[0].ExtractedContent != "line one\nline two" {
		t.Errorf("extracted content = %q", second.Attachments[0].ExtractedContent)
	}
	if len(second.Files) != 1 || second.Files[0].FileName != "diagram.png" {
		t.Errorf("files = %+v", second.Files)
	}
	if second.CreatedAt.Nanosecond() != 123456000 {
		t.Errorf("fractional seconds lost: %v", second.CreatedAt)
	}
}

func TestDecode_OptionalFieldsMayBeAbsent(t *testing.T) {
	input := `[{"uuid":"a","name":"n","created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z",
		"chat_messages":[{"created_at":"2024-01-01T00:00:00Z","sender":"s","text":""}]}]`

	conversations, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	msg := conversations[0].Messages[0]
	if msg.Attachments != nil || msg.Files != nil {
		t.Errorf("expected nil attachments and files, got %+v", msg)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantLocation string
		wantContains []string
	}{
		{
			name:         "missing conversation fields",
			input:        `[{"uuid":"abc","created_at":"2024-01-01T00:00:00Z"}]`,
			wantLocation: "conversation 0 (abc)",
			wantContains: []string{"missing required fields", "name", "updated_at", "chat_messages"},
		},
		{
			name:         "missing uuid",
			input:        `[{"name":"x","created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z","chat_messages":[]}]`,
			wantLocation: "conversation 0",
			wantContains: []string{"uuid"},
		},
		{
			name: "missing message text",
			input: `[{"uuid":"abc","name":"x","created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z",
				"chat_messages":[{"created_at":"2024-01-01T00:00:00Z","sender":"u1"}]}]`,
			wantLocation: "conversation 0 (abc), message 0",
			wantContains: []string{"text"},
		},
		{
			name:         "unparsable timestamp",
			input:        `[{"uuid":"abc","name":"x","created_at":"yesterday","updated_at":"2024-01-01T00:00:00Z","chat_messages":[]}]`,
			wantLocation: "conversation 0 (abc)",
			wantContains: []string{"invalid timestamp", "created_at"},
		},
		{
			name: "attachment without size",
			input: `[{"uuid":"abc","name":"x","created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z",
				"chat_messages":[{"created_at":"2024-01-01T00:00:00Z","sender":"u1","text":"t","attachments":[{"file_name":"a.txt"}]}]}]`,
			wantLocation: "conversation 0 (abc), message 0, attachment 0",
			wantContains: []string{"file_size"},
		},
		{
			name: "duplicate uuid",
			input: `[{"uuid":"abc","name":"x","created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z","chat_messages":[]},
				{"uuid":"abc","name":"y","created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z","chat_messages":[]}]`,
			wantLocation: "conversation 1 (abc)",
			wantContains: []string{"duplicate uuid"},
		},
		{
			name: "duplicate uuid differing only in case",
			input: `[{"uuid":"Draft-Notes","name":"x","created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z","chat_messages":[]},
				{"uuid":"draft-notes","name":"y","created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z","chat_messages":[]}]`,
			wantLocation: "conversation 1 (draft-notes)",
			wantContains: []string{"duplicate uuid", "conversation 0"},
		},
		{
			name: "duplicate uuid in upper and lower case",
			input: `[{"uuid":"6BA7B810-9DAD-11D1-80B4-00C04FD430C8","name":"x","created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z","chat_messages":[]},
				{"uuid":"6ba7b810-9dad-11d1-80b4-00c04fd430c8","name":"y","created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z","chat_messages":[]}]`,
			wantLocation: "conversation 1 (6ba7b810-9dad-11d1-80b4-00c04fd430c8)",
			wantContains: []string{"duplicate uuid"},
		},
		{
			name:         "urn uuid",
			input:        `[{"uuid":"urn:uuid:6ba7b810-9dad-11d1-80b4-00c04fd430c8","name":"x","created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z","chat_messages":[]}]`,
			wantLocation: "conversation 0 (urn:uuid:6ba7b810-9dad-11d1-80b4-00c04fd430c8)",
			wantContains: []string{"canonical form", "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
		},
		{
			name:         "path traversal uuid",
			input:        `[{"uuid":"../evil","name":"x","created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z","chat_messages":[]}]`,
			wantLocation: "conversation 0 (../evil)",
			wantContains: []string{"path separator"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("Decode() expected error")
			}

			var valErr *ValidationError
			if !AsValidationError(err, &valErr) {
				t.Fatalf("expected *ValidationError, got %T: %v", err, err)
			}
			if valErr.Location != tt.wantLocation {
				t.Errorf("Location = %q, want %q", valErr.Location, tt.wantLocation)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q missing %q", err.Error(), want)
				}
			}
		})
	}
}

func TestDecode_NotAnArray(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"uuid":"abc"}`))
	if err == nil || !strings.Contains(err.Error(), "decoding conversations") {
		t.Errorf("expected decode error, got %v", err)
	}
}

func TestDecode_TrailingData(t *testing.T) {
	const record = `{"uuid":"abc","name":"x","created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z","chat_messages":[]}`

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "trailing whitespace", input: "[" + record + "]\n\t "},
		{name: "trailing garbage", input: "[" + record + "] garbage", wantErr: true},
		{name: "second array", input: "[" + record + "][]", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), "unexpected data after") {
				t.Errorf("error %q should mention trailing data", err.Error())
			}
		})
	}

	if _, err := DecodeUsers(strings.NewReader(`[{"uuid":"u1","full_name":"Ada"}] {}`)); err == nil {
		t.Error("DecodeUsers() expected error for trailing data")
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{input: "2024-01-01T00:00:00.000000Z", want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{input: "2024-03-05T10:20:30Z", want: time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC)},
		{input: "2024-03-05T12:20:30.5+02:00", want: time.Date(2024, 3, 5, 10, 20, 30, 500000000, time.UTC)},
		{input: "2024-03-05", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseTimestamp(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) error = %v", tt.input, err)
			}
			if !got.Equal(tt.want) || got.Location() != time.UTC {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{id: "28f1a1d4-3c1e-4c36-9d7e-0c5c8e1b2a90"},
		{id: "28F1A1D4-3C1E-4C36-9D7E-0C5C8E1B2A90"},
		{id: "{28f1a1d4-3c1e-4c36-9d7e-0c5c8e1b2a90}", wantErr: true},
		{id: "urn:uuid:28f1a1d4-3c1e-4c36-9d7e-0c5c8e1b2a90", wantErr: true},
		{id: "28f1a1d43c1e4c369d7e0c5c8e1b2a90", wantErr: true},
		{id: "abc"},
		{id: "chat_2024-01"},
		{id: "", wantErr: true},
		{id: "..", wantErr: true},
		{id: "a/b", wantErr: true},
		{id: `a\b`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := ValidateID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conversations.json")
	if err := os.WriteFile(path, []byte(sampleArchive), 0o600); err != nil {
		t.Fatal(err)
	}

	conversations, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(conversations) != 1 {
		t.Errorf("got %d conversations, want 1", len(conversations))
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("LoadFile() on missing file expected error")
	}
}

func TestDecodeUsers_And_Directory(t *testing.T) {
	input := `[
		{"uuid": "u1", "full_name": "Ada Lovelace", "email_address": "ada@example.com"},
		{"uuid": "u2", "full_name": ""},
		{"full_name": "No Id"}
	]`

	users, err := DecodeUsers(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeUsers() error = %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("got %d users, want 2 (entry without uuid dropped)", len(users))
	}

	dir := NewDirectory(users)
	if dir.Len() != 1 {
		t.Errorf("Len() = %d, want 1", dir.Len())
	}
	if got := dir.Resolve("u1"); got != "Ada Lovelace" {
		t.Errorf("Resolve(u1) = %q", got)
	}
	if got := dir.Resolve("u2"); got != "u2" {
		t.Errorf("Resolve(u2) = %q, want raw id for empty full name", got)
	}
	if got := dir.Resolve("unknown"); got != "unknown" {
		t.Errorf("Resolve(unknown) = %q, want raw id", got)
	}

	var nilDir *Directory
	if got := nilDir.Resolve("u1"); got != "u1" {
		t.Errorf("nil directory Resolve = %q, want raw id", got)
	}
}
