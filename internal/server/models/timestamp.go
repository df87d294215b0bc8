package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Layouts accepted for stored timestamps. Documents written by earlier
// versions of the app carry ISO-8601 local times without a zone offset.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses s with the first matching layout. Values without a
// zone are read in the server's local time.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func decodeTimestamp(raw json.RawMessage) (*time.Time, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	if s == "" {
		return nil, nil
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (f *HealthFile) UnmarshalJSON(b []byte) error {
	type plain HealthFile
	aux := struct {
		*plain
		UploadedAt json.RawMessage `json:"uploaded_at"`
	}{plain: (*plain)(f)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	t, err := decodeTimestamp(aux.UploadedAt)
	if err != nil {
		return fmt.Errorf("uploaded_at: %w", err)
	}
	if t != nil {
		f.UploadedAt = *t
	}
	return nil
}

func (u *User) UnmarshalJSON(b []byte) error {
	type plain User
	aux := struct {
		*plain
		CreatedAt json.RawMessage `json:"created_at"`
		UpdatedAt json.RawMessage `json:"updated_at"`
	}{plain: (*plain)(u)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	created, err := decodeTimestamp(aux.CreatedAt)
	if err != nil {
		return fmt.Errorf("created_at: %w", err)
	}
	if created != nil {
		u.CreatedAt = *created
	}
	updated, err := decodeTimestamp(aux.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updated_at: %w", err)
	}
	u.UpdatedAt = updated
	return nil
}
