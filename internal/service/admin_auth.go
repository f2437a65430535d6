package service

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAdminTokenInvalid = errors.New("admin token invalid")
	ErrAdminJWTInvalid   = errors.New("admin jwt invalid")
)

// AdminAuthService canjea el token de administracion por un JWT de corta vida.
type AdminAuthService struct {
	secret    []byte
	token     string // comparacion en tiempo constante
	tokenHash string // hash bcrypt, tiene prioridad si esta configurado
	accessTTL time.Duration
	issuer    string
}

func NewAdminAuthService(secret, token, tokenHash string, accessTTL time.Duration) *AdminAuthService {
	if accessTTL <= 0 {
		accessTTL = 1 * time.Hour
	}
	return &AdminAuthService{
		secret:    []byte(secret),
		token:     strings.TrimSpace(token),
		tokenHash: strings.TrimSpace(tokenHash),
		accessTTL: accessTTL,
		issuer:    "whichcharacter",
	}
}

// Login valida el token presentado y emite un JWT firmado.
func (s *AdminAuthService) Login(presented string) (string, error) {
	presented = strings.TrimSpace(presented)
	if presented == "" {
		return "", ErrAdminTokenInvalid
	}

	if s.tokenHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(s.tokenHash), []byte(presented)); err != nil {
			return "", ErrAdminTokenInvalid
		}
	} else if s.token == "" || subtle.ConstantTimeCompare([]byte(s.token), []byte(presented)) != 1 {
		return "", ErrAdminTokenInvalid
	}

	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   "admin",
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify valida un JWT emitido por Login.
func (s *AdminAuthService) Verify(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrAdminJWTInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return ErrAdminJWTInvalid
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject != "admin" {
		return ErrAdminJWTInvalid
	}
	return nil
}
