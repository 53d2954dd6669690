package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minimarket/storefront/internal/models"
)

func seedCatalog(env *testEnv) {
	env.seedItem("1", "T-Shirt", 199, "clothing")
	env.seedItem("2", "Jeans", 799, "clothing")
	env.seedItem("3", "Headphones", 1299, "electronics")
	env.seedItem("4", "Coffee Mug", 149, "home")
}

func TestListItems_NoFilter(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(env)

	rec := env.do(http.MethodGet, "/items", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	items := decodeJSON[[]models.Item](t, rec)
	assert.Len(t, items, 4)
}

func TestListItems_ConjunctiveQueryParams(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(env)

	rec := env.do(http.MethodGet, "/items?category=electronics&minPrice=1000&maxPrice=3000", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	items := decodeJSON[[]models.Item](t, rec)
	require.Len(t, items, 1)
	assert.Equal(t, "Headphones", items[0].Name)
}

func TestListItems_BadPriceParam(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(env)

	rec := env.do(http.MethodGet, "/items?minPrice=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetItem(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(env)

	rec := env.do(http.MethodGet, "/items/3", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	item := decodeJSON[models.Item](t, rec)
	assert.Equal(t, "Headphones", item.Name)

	rec = env.do(http.MethodGet, "/items/999", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateItem_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]any{"name": "Lamp", "price": 499}

	rec := env.do(http.MethodPost, "/items", body, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	token, _ := env.signup("admin", "password")
	rec = env.do(http.MethodPost, "/items", body, token)
	require.Equal(t, http.StatusOK, rec.Code)

	item := decodeJSON[models.Item](t, rec)
	assert.Equal(t, "Lamp", item.Name)
	assert.Equal(t, "general", item.Category)
	assert.NotEmpty(t, item.ID)
}

func TestCreateItem_Validation(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signup("admin", "password")

	for _, body := range []map[string]any{
		{"price": 499},
		{"name": "Lamp"},
		{"name": "Lamp", "price": -1},
	} {
		rec := env.do(http.MethodPost, "/items", body, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestUpdateItem(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(env)
	token, _ := env.signup("admin", "password")

	rec := env.do(http.MethodPut, "/items/4", map[string]any{"price": 179}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	item := decodeJSON[models.Item](t, rec)
	assert.Equal(t, 179.0, item.Price)
	assert.Equal(t, "Coffee Mug", item.Name)

	rec = env.do(http.MethodPut, "/items/999", map[string]any{"price": 1}, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteItem(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(env)
	token, _ := env.signup("admin", "password")

	rec := env.do(http.MethodDelete, "/items/4", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[map[string]models.Item](t, rec)
	assert.Equal(t, "Coffee Mug", resp["removed"].Name)

	rec = env.do(http.MethodGet, "/items/4", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
