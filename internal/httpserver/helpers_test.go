package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/minimarket/storefront/internal/auth"
	"github.com/minimarket/storefront/internal/cart"
	"github.com/minimarket/storefront/internal/catalog"
	"github.com/minimarket/storefront/internal/models"
	"github.com/minimarket/storefront/internal/store/gormstore"
	"github.com/minimarket/storefront/internal/tokens"
)

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	Store  *gormstore.Store
	Issuer *tokens.Issuer
	Auth   *auth.Service
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	s, err := gormstore.New(db)
	require.NoError(t, err)

	issuer := &tokens.Issuer{Secret: []byte("test-secret")}
	authSvc := &auth.Service{Users: s, Carts: s, Tokens: issuer}

	e := echo.New()
	Register(e, &Deps{
		Auth:             &AuthHandler{Svc: authSvc},
		Items:            &ItemsHandler{Svc: &catalog.Service{Items: s}},
		Cart:             &CartHandler{Engine: &cart.Engine{Items: s, Carts: s}},
		Tokens:           issuer,
		CatalogAdminAuth: true,
	})

	return &testEnv{T: t, E: e, Store: s, Issuer: issuer, Auth: authSvc}
}

// do runs a request through the full router, middleware included.
func (env *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	env.T.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(env.T, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) signup(username, password string) (string, *models.User) {
	env.T.Helper()

	token, user, err := env.Auth.Signup(context.Background(), username, password)
	require.NoError(env.T, err)
	return token, user
}

func (env *testEnv) seedItem(id, name string, price float64, category string) {
	env.T.Helper()

	require.NoError(env.T, env.Store.CreateItem(context.Background(), &models.Item{
		ID: id, Name: name, Price: price, Category: category,
	}))
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
