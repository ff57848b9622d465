package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// PlayerClaims identify a save slot. Players are anonymous; the subject is
// a random slot id.
type PlayerClaims struct {
	SlotId string `json:"slot_id"`
	jwt.RegisteredClaims
}

func NewPlayerClaims(slotId string, lifetime time.Duration) *PlayerClaims {
	now := time.Now()
	return &PlayerClaims{
		SlotId: slotId,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
}

type JWT struct {
	secret        []byte
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
}

func loadSecret() ([]byte, error) {
	secret, ok := os.LookupEnv("PLAYER_TOKEN_SECRET")
	if ok {
		return []byte(secret), nil
	}
	secretPath, ok := os.LookupEnv("PLAYER_TOKEN_SECRET_FILE")
	if !ok {
		return nil, fmt.Errorf("no PLAYER_TOKEN_SECRET or PLAYER_TOKEN_SECRET_FILE env variable set")
	}
	data, err := os.ReadFile(secretPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read player token secret: %w", err)
	}
	return []byte(strings.TrimSpace(string(data))), nil
}

func NewJWT(secret []byte) (*JWT, error) {
	if len(secret) < 16 {
		return nil, fmt.Errorf("player token secret must be at least 16 bytes")
	}
	j := &JWT{
		secret:        secret,
		signingMethod: jwt.SigningMethodHS256,
		// a saved game expires after three days; the slot outlives it
		tokenLifetime: time.Hour * 24 * 30,
	}
	return j, nil
}

func LoadJWT() (*JWT, error) {
	secret, err := loadSecret()
	if err != nil {
		return nil, err
	}
	return NewJWT(secret)
}

func (j *JWT) Lifetime() time.Duration {
	return j.tokenLifetime
}

func (j *JWT) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.secret)
}

func (j *JWT) ParseWithClaims(tokenString string, claims jwt.Claims) (*jwt.Token, error) {
	return jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return j.secret, nil
		},
		jwt.WithValidMethods([]string{j.signingMethod.Alg()}),
	)
}
