package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"app/internal/middleware"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func sessionEcho(c echo.Context) error {
	sessionID, _ := c.Get(middleware.CtxSessionIDKey).(string)
	return c.String(http.StatusOK, sessionID)
}

func TestSession_FirstTouch_IssuesCookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := middleware.Session()(sessionEcho)
	assert.NoError(t, h(c))

	//払い出されたIDはUUIDで、cookieとcontextが一致する
	sessionID := rec.Body.String()
	_, err := uuid.Parse(sessionID)
	assert.NoError(t, err)

	cookies := rec.Result().Cookies()
	found := false
	for _, ck := range cookies {
		if ck.Name == middleware.SessionCookieName {
			assert.Equal(t, sessionID, ck.Value)
			found = true
		}
	}
	assert.True(t, found, "cartSessionId cookie not set")
}

func TestSession_ExistingCookie_IsReused(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "session-abc"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := middleware.Session()(sessionEcho)
	assert.NoError(t, h(c))

	//既存IDをそのまま使い、新しいcookieは発行しない
	assert.Equal(t, "session-abc", rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())
}
