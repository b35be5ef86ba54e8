package httpapi

import (
	"net/http"

	"github.com/mkravets/vidstream/internal/services"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

func sessionCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}

func setSessionCookies(w http.ResponseWriter, pair *services.TokenPair) {
	http.SetCookie(w, sessionCookie(accessTokenCookie, pair.AccessToken, 0))
	http.SetCookie(w, sessionCookie(refreshTokenCookie, pair.RefreshToken, 0))
}

func clearSessionCookies(w http.ResponseWriter) {
	http.SetCookie(w, sessionCookie(accessTokenCookie, "", -1))
	http.SetCookie(w, sessionCookie(refreshTokenCookie, "", -1))
}
