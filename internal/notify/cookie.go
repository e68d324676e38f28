package notify

import (
	"encoding/base64"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
)

// DefaultCookieName names the cookie holding pending messages.
const DefaultCookieName = "flash"

const pendingKey = "notify.pending"

// CookieStore keeps pending messages in a client cookie.  Messages added in
// the current request are also kept on the echo context so a page rendered
// by the same request shows them.
type CookieStore struct {
	Name   string
	Secure bool
}

// NewCookieStore returns a CookieStore using DefaultCookieName.
func NewCookieStore(secure bool) *CookieStore {
	return &CookieStore{Name: DefaultCookieName, Secure: secure}
}

func (s *CookieStore) Add(c echo.Context, m Message) error {
	pending, _ := c.Get(pendingKey).([]Message)
	pending = append(pending, m)
	c.Set(pendingKey, pending)

	value, err := encodeMessages(pending)
	if err != nil {
		return err
	}
	c.SetCookie(s.cookie(value, 0))
	return nil
}

func (s *CookieStore) Pop(c echo.Context) ([]Message, error) {
	var out []Message
	if ck, err := c.Cookie(s.Name); err == nil && ck.Value != "" {
		// A tampered or stale cookie is dropped, not reported.
		if in, err := decodeMessages(ck.Value); err == nil {
			out = append(out, in...)
		}
		c.SetCookie(s.cookie("", -1))
	}
	if pending, ok := c.Get(pendingKey).([]Message); ok && len(pending) > 0 {
		out = append(out, pending...)
		c.Set(pendingKey, []Message(nil))
		c.SetCookie(s.cookie("", -1))
	}
	return out, nil
}

func (s *CookieStore) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     s.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func encodeMessages(msgs []Message) (string, error) {
	b, err := json.Marshal(msgs)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func decodeMessages(v string) ([]Message, error) {
	b, err := base64.RawURLEncoding.DecodeString(v)
	if err != nil {
		return nil, err
	}
	var msgs []Message
	if err := json.Unmarshal(b, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}
