// Package admin gates the order-statistics panel behind the shared team
// password. With only ADMIN_PASSWORD set this is a plain string compare and
// explicitly not a security boundary; ADMIN_PASSWORD_HASH upgrades the
// compare to bcrypt. Either way the reward is a short-lived JWT cookie so
// the admin endpoints don't re-send the password on every request.
package admin

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const CookieName = "adminToken"

const tokenTTL = 2 * time.Hour

type Gate struct {
	JWTSecret    []byte
	Password     string
	PasswordHash string
}

func HashPassword(password string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

func (g *Gate) Check(password string) bool {
	if g.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(g.PasswordHash), []byte(password)) == nil
	}
	return g.Password != "" && password == g.Password
}

func (g *Gate) IssueToken() (string, *http.Cookie, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.JWTSecret)
	if err != nil {
		return "", nil, err
	}
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		Expires:  now.Add(tokenTTL),
		HttpOnly: true,
	}
	return signed, cookie, nil
}

func (g *Gate) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing admin token")
		}

		token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return g.JWTSecret, nil
		})
		if err != nil || !token.Valid {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid admin token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || claims["role"] != "admin" {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
		}

		return next(c)
	}
}
