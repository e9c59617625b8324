package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/miapp/portal/internal/api/metrics"
)

// SessionCookie names the cookie that binds a browser to its session record.
const SessionCookie = "portal_sid"

const ctxSessionID = "session_id"

const defaultCookieTTL = 30 * 24 * time.Hour

var errInvalidSessionToken = errors.New("invalid session token")

// sessionClaims carries the session id in the sid claim.
type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionCodec signs and verifies session ids as HS256 tokens. The token
// only proves the id was issued by this server, not who holds it.
type SessionCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionCodec returns a codec signing with secret. A non-positive ttl
// uses 30 days.
func NewSessionCodec(secret string, ttl time.Duration) *SessionCodec {
	if ttl <= 0 {
		ttl = defaultCookieTTL
	}
	return &SessionCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Encode returns the signed token carrying sessionID.
func (sc *SessionCodec) Encode(sessionID string) (string, error) {
	now := sc.now()
	claims := sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sc.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(sc.secret)
}

// Decode verifies token and returns the session id it carries.
func (sc *SessionCodec) Decode(token string) (string, error) {
	claims := &sessionClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return sc.secret, nil
	}, jwt.WithTimeFunc(sc.now))
	if err != nil || !tkn.Valid || claims.SessionID == "" {
		return "", errInvalidSessionToken
	}
	return claims.SessionID, nil
}

// Session resolves the session id from the cookie, minting a fresh one when
// the cookie is missing, expired or forged, and stores it in the context.
func Session(codec *SessionCodec, secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
				if sid, err := codec.Decode(cookie.Value); err == nil {
					c.Set(ctxSessionID, sid)
					return next(c)
				}
			}

			sid := uuid.NewString()
			token, err := codec.Encode(sid)
			if err != nil {
				return err
			}

			c.SetCookie(&http.Cookie{
				Name:     SessionCookie,
				Value:    token,
				Path:     "/",
				Expires:  codec.now().Add(codec.ttl),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
			metrics.SessionsMintedTotal.Inc()

			c.Set(ctxSessionID, sid)
			return next(c)
		}
	}
}

// SessionID returns the id the Session middleware resolved, or "".
func SessionID(c echo.Context) string {
	sid, _ := c.Get(ctxSessionID).(string)
	return sid
}
