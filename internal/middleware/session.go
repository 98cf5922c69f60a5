package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultSessionCookie = "ECOSYSTEM_VISITOR"

// SessionData is the payload of the signed visitor cookie. The visitor id
// keys the preference store.
type SessionData struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	// internal dirty flag; not serialized
	dirty bool `json:"-"`
}

// SessionOptions configure Sessions. An empty SigningKey yields a
// process-ephemeral key.
type SessionOptions struct {
	CookieName string
	SigningKey string
	Secure     bool
	MaxAge     time.Duration
	Logger     *zap.Logger
}

// Sessions issues and verifies visitor cookies.
type Sessions struct {
	name   string
	key    []byte
	secure bool
	maxAge time.Duration
}

// NewSessions builds the session middleware from opts.
func NewSessions(opts SessionOptions) (*Sessions, error) {
	s := &Sessions{
		name:   opts.CookieName,
		key:    []byte(opts.SigningKey),
		secure: opts.Secure,
		maxAge: opts.MaxAge,
	}
	if s.name == "" {
		s.name = defaultSessionCookie
	}
	if s.maxAge <= 0 {
		s.maxAge = 365 * 24 * time.Hour
	}
	if len(s.key) == 0 {
		s.key = make([]byte, 32)
		if _, err := rand.Read(s.key); err != nil {
			return nil, fmt.Errorf("generate session signing key: %w", err)
		}
		if opts.Logger != nil {
			opts.Logger.Warn("session: using ephemeral signing key; set session.signing_key to keep visitors across restarts")
		}
	}
	return s, nil
}

// Middleware loads or initializes the visitor session and stores it in the
// request context. New sessions are written just before the first byte of
// the response.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sd, fromCookie := s.read(r)
		if sd.ID == "" {
			sd.ID = randID()
			sd.CreatedAt = time.Now().UTC()
			sd.UpdatedAt = sd.CreatedAt
			sd.dirty = true
		}
		ctx := context.WithValue(r.Context(), ctxKeySession, sd)
		rw := NewResponseRecorder(w)
		rw.SetBeforeWrite(func(w http.ResponseWriter) {
			if sd.dirty || !fromCookie {
				s.write(w, sd)
			}
		})
		next.ServeHTTP(rw, r.WithContext(ctx))
		// If nothing was written yet (e.g., HEAD), persist cookie now
		if !rw.Wrote() && (sd.dirty || !fromCookie) {
			s.write(w, sd)
		}
	})
}

// GetSession returns session data from context
func GetSession(r *http.Request) *SessionData {
	if sd := sessionFrom(r.Context()); sd != nil {
		return sd
	}
	return &SessionData{}
}

func sessionFrom(ctx context.Context) *SessionData {
	sd, _ := ctx.Value(ctxKeySession).(*SessionData)
	return sd
}

// VisitorID returns the visitor id of the current session, or "".
func VisitorID(ctx context.Context) string {
	if sd := sessionFrom(ctx); sd != nil {
		return sd.ID
	}
	return ""
}

// MarkDirty flags the session for writing at end of request
func (sd *SessionData) MarkDirty() { sd.dirty = true; sd.UpdatedAt = time.Now().UTC() }

func (s *Sessions) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, s.key)
	mac.Write(payload)
	return mac.Sum(nil)
}

// read parses and verifies the session cookie
func (s *Sessions) read(r *http.Request) (*SessionData, bool) {
	c, err := r.Cookie(s.name)
	if err != nil || c.Value == "" {
		return &SessionData{}, false
	}
	parts := strings.Split(c.Value, ".")
	if len(parts) != 2 {
		return &SessionData{}, false
	}
	payloadB, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return &SessionData{}, false
	}
	sigB, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return &SessionData{}, false
	}
	if !hmac.Equal(sigB, s.sign(payloadB)) {
		return &SessionData{}, false
	}
	var sd SessionData
	if err := json.Unmarshal(payloadB, &sd); err != nil || sd.ID == "" {
		return &SessionData{}, false
	}
	return &sd, true
}

func (s *Sessions) write(w http.ResponseWriter, sd *SessionData) {
	b, _ := json.Marshal(sd)
	val := base64.RawURLEncoding.EncodeToString(b) + "." + base64.RawURLEncoding.EncodeToString(s.sign(b))
	// httpOnly to prevent JS access
	http.SetCookie(w, &http.Cookie{
		Name:     s.name,
		Value:    val,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.maxAge / time.Second),
	})
	sd.dirty = false
}

// helpers
func randID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
