package users

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONRepo(t *testing.T) (*JSONRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "users.json")
	return NewJSONRepository(path), path
}

func alice() *models.User {
	return &models.User{
		Name:      "Alice",
		Email:     "a@x.com",
		Password:  "hash",
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestJSONRepository_CreateAndGet(t *testing.T) {
	repo, _ := newJSONRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, alice()))

	got, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(alice(), got))
}

func TestJSONRepository_CreateDuplicateKeepsExisting(t *testing.T) {
	repo, path := newJSONRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, alice()))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	dup := alice()
	dup.Name = "Mallory"
	dup.Password = "other"
	err = repo.Create(ctx, dup)
	require.ErrorIs(t, err, common.ErrorAlreadyExists)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestJSONRepository_GetUnknown(t *testing.T) {
	repo, _ := newJSONRepo(t)

	_, err := repo.GetByEmail(context.Background(), "ghost@x.com")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestJSONRepository_UpdateProfileOverwritesOnlyProfileFields(t *testing.T) {
	repo, _ := newJSONRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, alice()))

	at := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	p := models.Profile{Age: common.Ptr(42), Sex: common.Ptr("female"), Race: nil}

	got, err := repo.UpdateProfile(ctx, "a@x.com", p, at)
	require.NoError(t, err)

	want := alice()
	want.Profile = p
	want.UpdatedAt = &at
	assert.Empty(t, cmp.Diff(want, got))

	stored, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(want, stored))
}

func TestJSONRepository_UpdateProfileUnknownLeavesDocumentUnchanged(t *testing.T) {
	repo, path := newJSONRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, alice()))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = repo.UpdateProfile(ctx, "ghost@x.com", models.Profile{Age: common.Ptr(30)}, time.Now())
	require.ErrorIs(t, err, common.ErrorNotFound)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestJSONRepository_ReadsDocumentWrittenByHand(t *testing.T) {
	repo, path := newJSONRepo(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(`{
  "b@x.com": {
    "name": "Bob",
    "email": "b@x.com",
    "password": "h",
    "age": 70,
    "sex": null,
    "race": null,
    "created_at": "2024-01-01T00:00:00Z"
  }
}`), 0o600))

	got, err := repo.GetByEmail(context.Background(), "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.Name)
	assert.Equal(t, 70, *got.Age)
	assert.Nil(t, got.Sex)
	assert.Nil(t, got.UpdatedAt)
}

func TestJSONRepository_LoadsZonelessTimestamps(t *testing.T) {
	repo, path := newJSONRepo(t)
	ctx := context.Background()

	doc := `{
  "a@x.com": {
    "name": "Alice",
    "email": "a@x.com",
    "password": "hash",
    "age": null,
    "sex": null,
    "race": null,
    "created_at": "2024-01-01T12:00:00.123456",
    "updated_at": "2024-01-02T09:00:00.5"
  }
}`
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	got, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.True(t, time.Date(2024, 1, 1, 12, 0, 0, 123_456_000, time.Local).Equal(got.CreatedAt))
	require.NotNil(t, got.UpdatedAt)

	updated, err := repo.UpdateProfile(ctx, "a@x.com", models.Profile{Age: common.Ptr(40)}, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 40, *updated.Age)
	assert.True(t, got.CreatedAt.Equal(updated.CreatedAt), "created_at survives a rewrite")
}
