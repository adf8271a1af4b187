package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alexivanou/tourbook-api/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the only role allowed on back-office routes
const RoleAdmin = "admin"

type contextKey int

const adminIDKey contextKey = iota

// Claims is the payload of an admin bearer token
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 admin token for adminID valid for ttl
func IssueToken(secret string, adminID int64, ttl time.Duration) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, errors.New("jwt secret is empty")
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(adminID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Authenticator verifies admin bearer tokens
type Authenticator struct {
	secret []byte
}

// NewAuthenticator creates an authenticator for tokens signed with secret
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Verify parses a raw token and returns the admin id in its subject
func (a *Authenticator) Verify(raw string) (int64, error) {
	if len(a.secret) == 0 {
		return 0, errors.New("jwt secret is empty")
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return 0, err
	}
	if claims.Role != RoleAdmin {
		return 0, fmt.Errorf("role %q is not allowed", claims.Role)
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid subject %q", claims.Subject)
	}
	return id, nil
}

// RequireAdmin rejects requests without a valid admin bearer token and puts
// the admin id in the request context.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			unauthorized(w, "missing bearer token")
			return
		}
		id, err := a.Verify(strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")))
		if err != nil {
			unauthorized(w, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithAdminID(r.Context(), id)))
	})
}

// WithAdminID returns a copy of ctx carrying the authenticated admin id
func WithAdminID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, adminIDKey, id)
}

// AdminIDFromContext returns the admin id set by RequireAdmin
func AdminIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(adminIDKey).(int64)
	return id, ok
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("WWW-Authenticate", `Bearer realm="tourbook"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{Error: msg, Kind: "unauthorized"})
}
