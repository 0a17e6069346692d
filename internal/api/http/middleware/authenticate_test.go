package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apicontext "github.com/adarshalexbalmuchu/nextnode/internal/api/http/context"
	"github.com/adarshalexbalmuchu/nextnode/internal/testutil"
)

type tokenServiceStub struct {
	userID uuid.UUID
	err    error
}

func (s *tokenServiceStub) GetUserID(_ context.Context, _ string) (uuid.UUID, error) {
	return s.userID, s.err
}

func newRequest(authorization string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/posts", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthenticate_Require(t *testing.T) {
	cm := apicontext.NewManager()

	t.Run("injects the user id for a valid token", func(t *testing.T) {
		userID := uuid.New()
		m := NewAuthenticate(&tokenServiceStub{userID: userID}, cm, testutil.MakeNoopLogger())

		var seen uuid.UUID
		handler := m.Require(func(c echo.Context) error {
			got, ok := cm.GetUserIDFromContext(c.Request().Context())
			require.True(t, ok)
			seen = got
			return c.NoContent(http.StatusOK)
		})

		c, rec := newRequest("Bearer valid-token")
		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, seen)
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		m := NewAuthenticate(&tokenServiceStub{userID: uuid.New()}, cm, testutil.MakeNoopLogger())

		handler := m.Require(func(c echo.Context) error {
			t.Fatal("handler must not run")
			return nil
		})

		c, _ := newRequest("")
		err := handler(c)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})

	t.Run("rejects an invalid token", func(t *testing.T) {
		m := NewAuthenticate(&tokenServiceStub{err: assert.AnError}, cm, testutil.MakeNoopLogger())

		handler := m.Require(func(c echo.Context) error {
			t.Fatal("handler must not run")
			return nil
		})

		c, _ := newRequest("Bearer expired-token")
		err := handler(c)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})
}

func TestAuthenticate_Optional(t *testing.T) {
	cm := apicontext.NewManager()

	t.Run("lets anonymous requests through", func(t *testing.T) {
		m := NewAuthenticate(&tokenServiceStub{err: assert.AnError}, cm, testutil.MakeNoopLogger())

		handler := m.Optional(func(c echo.Context) error {
			_, ok := cm.GetUserIDFromContext(c.Request().Context())
			assert.False(t, ok)
			return c.NoContent(http.StatusOK)
		})

		c, rec := newRequest("")
		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("resolves a presented token", func(t *testing.T) {
		userID := uuid.New()
		m := NewAuthenticate(&tokenServiceStub{userID: userID}, cm, testutil.MakeNoopLogger())

		handler := m.Optional(func(c echo.Context) error {
			got, ok := cm.GetUserIDFromContext(c.Request().Context())
			require.True(t, ok)
			assert.Equal(t, userID, got)
			return c.NoContent(http.StatusOK)
		})

		c, _ := newRequest("Bearer valid-token")
		require.NoError(t, handler(c))
	})

	t.Run("still rejects an invalid presented token", func(t *testing.T) {
		m := NewAuthenticate(&tokenServiceStub{err: assert.AnError}, cm, testutil.MakeNoopLogger())

		handler := m.Optional(func(c echo.Context) error {
			t.Fatal("handler must not run")
			return nil
		})

		c, _ := newRequest("Bearer garbage")
		err := handler(c)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})
}
