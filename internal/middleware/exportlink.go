package middleware

import (
	"errors"
	"net/http"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const exportAudience = "nps-export"

var (
	// ErrLinksDisabled is returned when no signing secret is configured.
	ErrLinksDisabled = errors.New("export links disabled")
	// ErrInvalidLink covers malformed, tampered and expired tokens.
	ErrInvalidLink = errors.New("invalid export link")
)

type exportClaims struct {
	jwt.RegisteredClaims
}

// ExportLinks signs and verifies short-lived tokens for CSV download URLs.
// A link is a shareable URL that stops working after its TTL; it is not an
// access control, since GET /api/export serves the same file without a token.
type ExportLinks struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewExportLinks(secret string, ttl time.Duration) *ExportLinks {
	return &ExportLinks{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (l *ExportLinks) Enabled() bool { return l != nil && len(l.secret) > 0 }

// Sign issues a token valid for the configured TTL.
func (l *ExportLinks) Sign() (string, time.Time, error) {
	if !l.Enabled() {
		return "", time.Time{}, ErrLinksDisabled
	}
	now := l.now()
	exp := now.Add(l.ttl)
	claims := exportClaims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Audience:  jwt.ClaimStrings{exportAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(l.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, exp, nil
}

func (l *ExportLinks) Verify(token string) error {
	if !l.Enabled() {
		return ErrLinksDisabled
	}
	t, err := jwt.ParseWithClaims(token, &exportClaims{},
		func(*jwt.Token) (interface{}, error) { return l.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(exportAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(l.now),
	)
	if err != nil || !t.Valid {
		return ErrInvalidLink
	}
	return nil
}

// RequireExportLink rejects requests whose "token" query parameter does not verify.
func RequireExportLink(l *ExportLinks, reject func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := l.Verify(r.URL.Query().Get("token")); err != nil {
				reject(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
