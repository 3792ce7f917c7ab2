package router

import (
	"net/http"
	"testing"
	"time"

	"account-service/internal/database"
	"account-service/internal/repository"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestSetupRoutes(t *testing.T) {
	e := echo.New()
	Setup(e, &database.FakeDB{}, &repository.FakeStore{}, time.Hour)

	got := map[string]struct{}{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = struct{}{}
	}

	expected := []string{
		http.MethodGet + " /healthz",
		http.MethodPost + " /api/auth/login",
		http.MethodPost + " /api/users",
		http.MethodGet + " /api/users",
		http.MethodGet + " /api/users/search",
		http.MethodGet + " /api/users/:user_id",
		http.MethodPut + " /api/users/:user_id",
		http.MethodDelete + " /api/users/:user_id",
		http.MethodGet + " /api/users/me",
		http.MethodPatch + " /api/users/me/password",
	}

	require.Equal(t, len(expected), len(got))
	for _, k := range expected {
		_, ok := got[k]
		require.True(t, ok, "missing route %s", k)
	}
}
