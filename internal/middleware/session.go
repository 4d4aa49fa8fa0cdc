package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	CtxSessionIDKey   = "cart_session_id" // string
	SessionCookieName = "cartSessionId"
)

// Session は匿名セッションIDを払い出す。
// 初回アクセスでUUIDを発行してcookieに固定し、以後は同じIDを返し続ける。
func Session() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err == nil && cookie.Value != "" {
				c.Set(CtxSessionIDKey, cookie.Value)
				return next(c)
			}

			//初回はここで採番して固定する
			sessionID := uuid.NewString()
			c.SetCookie(&http.Cookie{
				Name:     SessionCookieName,
				Value:    sessionID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			c.Set(CtxSessionIDKey, sessionID)

			return next(c)
		}
	}
}
