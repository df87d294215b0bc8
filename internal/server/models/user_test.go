package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestProfile_Complete(t *testing.T) {
	tests := []struct {
		name string
		p    Profile
		want bool
	}{
		{"empty", Profile{}, false},
		{"age only", Profile{Age: ptr(30)}, false},
		{"empty strings", Profile{Age: ptr(30), Sex: ptr(""), Race: ptr("")}, false},
		{"all set", Profile{Age: ptr(30), Sex: ptr("female"), Race: ptr("asian")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.Complete())
		})
	}
}

func TestUser_JSONShape(t *testing.T) {
	u := User{
		Name:      "Alice",
		Email:     "a@x.com",
		Password:  "hash",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	b, err := json.Marshal(u)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))

	assert.Equal(t, "Alice", raw["name"])
	assert.Equal(t, "a@x.com", raw["email"])
	assert.Contains(t, raw, "age")
	assert.Nil(t, raw["age"])
	assert.Nil(t, raw["sex"])
	assert.Nil(t, raw["race"])
	assert.Equal(t, "2024-01-02T03:04:05Z", raw["created_at"])
	assert.NotContains(t, raw, "updated_at")
}
