package auth

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/naijaprep/naijaprep-cbt/internal/rbac"
)

type AuthService struct{ hmac []byte }

func NewAuthService(secret string) *AuthService { return &AuthService{hmac: []byte(secret)} }

type Claims struct {
	Sub  string `json:"sub"`
	Role string `json:"role"` // "candidate" or "admin"
	jwt.RegisteredClaims
}

func (a *AuthService) IssueJWT(sub, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Sub:  sub,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "naijaprep-cbt",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(8 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(a.hmac)
}

func (a *AuthService) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.hmac, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	c, _ := token.Claims.(*Claims)
	return c, nil
}

// AdminFallback lets the configured admin log in before any users row
// exists (fresh offline installs).
type AdminFallback struct {
	Username string
	PassHash string // bcrypt
}

// LoginHandler validates credentials against the users table (bcrypt) and
// issues a JWT carrying the stored role.
// POST /auth/login {"username": "...", "password": "..."}
func LoginHandler(a *AuthService, db *sql.DB, fallback AdminFallback) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		var id, role, hash string
		err := db.QueryRowContext(r.Context(),
			`SELECT id, role, password_hash FROM users WHERE username=$1`,
			req.Username).Scan(&id, &role, &hash)
		switch {
		case err == nil:
			if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
				return
			}
		case errors.Is(err, sql.ErrNoRows):
			if req.Username != fallback.Username ||
				bcrypt.CompareHashAndPassword([]byte(fallback.PassHash), []byte(req.Password)) != nil {
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
				return
			}
			id, role = fallback.Username, "admin"
		default:
			http.Error(w, "login unavailable", http.StatusInternalServerError)
			return
		}
		tok, err := a.IssueJWT(id, role)
		if err != nil {
			http.Error(w, "issue token", 500)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": tok})
	}
}

// JWTMiddleware validates the bearer token and attaches subject and role to
// the request context for RBAC guards downstream.
func JWTMiddleware(a *AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, "missing bearer", http.StatusUnauthorized)
				return
			}
			c, err := a.Parse(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				http.Error(w, "bad token", http.StatusUnauthorized)
				return
			}
			ctx := rbac.WithSubject(r.Context(), c.Sub)
			ctx = rbac.WithRole(ctx, c.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
