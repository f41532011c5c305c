package notes

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Note is the canonical API object. Every note handed out by this module
// has all four fields populated; timestamps serialize as RFC 3339 strings.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Patch carries the fields of a partial update. A nil field means
// "leave unchanged" - only set fields are sent over the wire or merged
// into a stored note.
type Patch struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// IsEmpty reports whether the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil
}

// rawNote mirrors the wire shape without any guarantees about what the
// service actually sent. Fields are captured loosely so that irregular
// payloads survive decoding and can be coerced afterwards.
type rawNote struct {
	ID        json.RawMessage `json:"id"`
	Title     json.RawMessage `json:"title"`
	Content   json.RawMessage `json:"content"`
	UpdatedAt json.RawMessage `json:"updatedAt"`
}

// Normalize coerces a single remote-origin JSON object into a canonical
// Note: id passed through as-is, missing or null title/content replaced
// with empty strings, updatedAt parsed as RFC 3339 or replaced with the
// current time. Locally-stored notes are constructed canonical and never
// pass through here.
func Normalize(data []byte) (*Note, error) {
	var raw rawNote
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error JSON-decoding note: %w", err)
	}
	return fromRaw(&raw), nil
}

// NormalizeList coerces a remote-origin JSON array, applying the same
// guarantees to every member.
func NormalizeList(data []byte) ([]*Note, error) {
	var raws []*rawNote
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("error JSON-decoding note list: %w", err)
	}
	result := make([]*Note, 0, len(raws))
	for _, raw := range raws {
		if raw == nil {
			continue
		}
		result = append(result, fromRaw(raw))
	}
	return result, nil
}

func fromRaw(raw *rawNote) *Note {
	return &Note{
		ID:        coerceID(raw.ID),
		Title:     coerceString(raw.Title),
		Content:   coerceString(raw.Content),
		UpdatedAt: coerceTime(raw.UpdatedAt),
	}
}

// coerceID keeps whatever identifier the service assigned. Some backends
// hand out numeric ids; those are kept as their literal text.
func coerceID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// coerceString keeps string values and replaces anything else - absent,
// null, numbers, whole objects - with the empty string, so an irregular
// member never sinks a whole payload.
func coerceString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

func coerceTime(raw json.RawMessage) time.Time {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}
