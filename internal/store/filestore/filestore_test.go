package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minimarket/storefront/internal/models"
	"github.com/minimarket/storefront/internal/store"
)

func newTestStore(t *testing.T) *Store {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestOpen_SeedsCollections(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	for _, name := range []string{"users.json", "items.json", "carts.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, "expected %s to exist", name)
	}

	items, err := s.ListItems(context.Background(), store.Filter{})
	require.NoError(t, err)
	require.Len(t, items, 4)

	_, err = s.GetUserByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestOpen_DoesNotReseedExistingData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.CreateItem(ctx, &models.Item{ID: "x1", Name: "Lamp", Price: 499, Category: "home"}))

	s2, err := Open(dir)
	require.NoError(t, err)
	items, err := s2.ListItems(ctx, store.Filter{})
	require.NoError(t, err)
	assert.Len(t, items, 5)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := models.User{ID: "u1", Username: "alice", PasswordHash: "hash"}
	require.NoError(t, s.CreateUser(ctx, &u))

	dup := models.User{ID: "u2", Username: "alice", PasswordHash: "other"}
	err := s.CreateUser(ctx, &dup)
	assert.ErrorIs(t, err, store.ErrUsernameTaken)

	got, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
}

// The API model hides the hash from JSON, but the file on disk must
// keep it or login breaks after a restart.
func TestCreateUser_PersistsPasswordHash(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(dir)
	require.NoError(t, err)
	u := models.User{ID: "u1", Username: "alice", PasswordHash: "$2a$10$fakehash"}
	require.NoError(t, s.CreateUser(ctx, &u))

	raw, err := os.ReadFile(filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "passwordHash")

	s2, err := Open(dir)
	require.NoError(t, err)
	got, err := s2.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$fakehash", got.PasswordHash)
}

func TestListItems_ConjunctiveFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	min, max := 1000.0, 3000.0
	items, err := s.ListItems(ctx, store.Filter{Category: "electronics", MinPrice: &min, MaxPrice: &max})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Headphones", items[0].Name)

	// Same filter with a price band the item falls outside of.
	max = 1200.0
	items, err = s.ListItems(ctx, store.Filter{Category: "electronics", MinPrice: &min, MaxPrice: &max})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListItems_QueryMatchesNameAndDescription(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	items, err := s.ListItems(ctx, store.Filter{Query: "MUG"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Coffee Mug", items[0].Name)

	items, err = s.ListItems(ctx, store.Filter{Query: "ceramic"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Coffee Mug", items[0].Name)
}

func TestUpdateItem_Partial(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	price := 999.0
	item, err := s.UpdateItem(ctx, "3", store.ItemPatch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 999.0, item.Price)
	assert.Equal(t, "Headphones", item.Name)

	_, err = s.UpdateItem(ctx, "missing", store.ItemPatch{Price: &price})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	removed, err := s.DeleteItem(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, "Coffee Mug", removed.Name)

	_, err = s.GetItem(ctx, "4")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.DeleteItem(ctx, "4")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCart_RoundtripAndUnknownUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entries, err := s.LoadCart(ctx, "ghost")
	require.NoError(t, err)
	assert.Empty(t, entries)

	want := []models.CartEntry{{ItemID: "1", Qty: 2}, {ItemID: "3", Qty: 1}}
	require.NoError(t, s.SaveCart(ctx, "u1", want))

	got, err := s.LoadCart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, s.SaveCart(ctx, "u1", nil))
	got, err = s.LoadCart(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpen_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	_, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "items.json"), []byte("{not json"), 0o644))
	_, err = Open(dir)
	assert.ErrorContains(t, err, "items.json")
}
