// Package session identifies the visitor owning a cart. Each browser gets a
// UUID in a cookie on first contact; the cart and checkout endpoints key all
// state by it. This replaces the original widget's ambient module-level cart.
package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	CookieName = "cartSession"
	contextKey = "sessionID"
)

const cookieTTL = 365 * 24 * time.Hour

func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sid string
			if ck, err := c.Cookie(CookieName); err == nil && ck.Value != "" {
				sid = ck.Value
			} else {
				sid = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     CookieName,
					Value:    sid,
					Path:     "/",
					Expires:  time.Now().Add(cookieTTL),
					HttpOnly: true,
				})
			}
			c.Set(contextKey, sid)
			return next(c)
		}
	}
}

func FromContext(c echo.Context) string {
	sid, _ := c.Get(contextKey).(string)
	return sid
}
