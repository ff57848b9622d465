package config

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

const playerCookie = "player"

type Cookies struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
	jwt      *JWT
}

func NewCookies(j *JWT) (*Cookies, error) {
	cookies := &Cookies{
		Domain:   os.Getenv("COOKIES_DOMAIN"),
		Secure:   !Development(),
		SameSite: http.SameSiteStrictMode,
		jwt:      j,
	}

	if secureStr, ok := os.LookupEnv("COOKIES_SECURE"); ok {
		cookies.Secure = secureStr != "0"
	}

	if sameSiteStr, ok := os.LookupEnv("COOKIES_SAMESITE"); ok {
		switch strings.ToUpper(sameSiteStr) {
		case "DEFAULT":
			cookies.SameSite = http.SameSiteDefaultMode
		case "LAX":
			cookies.SameSite = http.SameSiteLaxMode
		case "STRICT":
			cookies.SameSite = http.SameSiteStrictMode
		case "NONE":
			cookies.SameSite = http.SameSiteNoneMode
		default:
			return nil, fmt.Errorf("invalid COOKIES_SAMESITE %q", sameSiteStr)
		}
	}

	return cookies, nil
}

// Issue signs a fresh token for slotId and sets it as the player cookie.
func (c *Cookies) Issue(w http.ResponseWriter, slotId string) error {
	token, err := c.jwt.Sign(NewPlayerClaims(slotId, c.jwt.Lifetime()))
	if err != nil {
		return fmt.Errorf("unable to sign player token: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     playerCookie,
		Path:     "/",
		Value:    token,
		Expires:  time.Now().Add(c.jwt.Lifetime()),
		HttpOnly: true,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
	return nil
}

func (c *Cookies) ParsePlayerClaims(r *http.Request) (*PlayerClaims, error) {
	cookie, err := r.Cookie(playerCookie)
	if err != nil {
		return nil, err
	}
	token, err := c.jwt.ParseWithClaims(cookie.Value, &PlayerClaims{})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*PlayerClaims)
	if !ok || claims.SlotId == "" {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}
