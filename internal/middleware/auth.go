package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/FlagBrew/local-pokedex/internal/models"
	"github.com/apex/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lrstanley/chix"
)

// Claims is the bearer token payload. The subject is the acting user id
// that ends up in the audit columns.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

type Auth struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewAuth(cfg *models.AuthConfig) *Auth {
	return &Auth{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		now:    time.Now,
	}
}

// Issue signs a token for userID carrying roles, valid for ttl.
func (a *Auth) Issue(userID string, roles []string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}

	now := a.now()
	claims := Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Parse validates a signed token and returns its claims.
func (a *Auth) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.secret, nil
	},
		jwt.WithIssuer(a.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

type contextKey string

const claimsKey contextKey = "claims"

// Authenticate rejects requests without a valid bearer token and stores the
// claims on the request context.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			chix.JSON(w, r, http.StatusUnauthorized, chix.M{"error": "missing authorization header"})
			return
		}

		scheme, raw, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || raw == "" {
			chix.JSON(w, r, http.StatusUnauthorized, chix.M{"error": "invalid authorization format"})
			return
		}

		claims, err := a.Parse(raw)
		if err != nil {
			log.FromContext(r.Context()).WithError(err).Debug("rejected bearer token")
			chix.JSON(w, r, http.StatusUnauthorized, chix.M{"error": "invalid or expired token"})
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

// RequireRole only lets through requests whose claims include role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r.Context())
			if claims == nil {
				chix.JSON(w, r, http.StatusUnauthorized, chix.M{"error": "authentication required"})
				return
			}

			if !slices.Contains(claims.Roles, role) {
				chix.JSON(w, r, http.StatusForbidden, chix.M{"error": "insufficient permissions"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func GetClaims(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey).(*Claims)
	return claims
}

// UserID returns the authenticated user id, or "" when unauthenticated.
func UserID(ctx context.Context) string {
	if claims := GetClaims(ctx); claims != nil {
		return claims.Subject
	}
	return ""
}

// WithClaims attaches claims to ctx, as Authenticate does.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}
