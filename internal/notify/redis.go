package notify

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// SessionCookieName names the cookie holding the flash session id.
const SessionCookieName = "flash_sid"

const sessionKey = "notify.sid"

// RedisStore keeps pending messages server side in a Redis list per visitor.
// The visitor is identified by a random session id cookie.
type RedisStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	secure bool
}

// NewRedisStore returns a store writing to rdb.  Lists expire after ttl
// without a read.
func NewRedisStore(rdb *redis.Client, ttl time.Duration, secure bool) *RedisStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisStore{rdb: rdb, ttl: ttl, prefix: "flash:", secure: secure}
}

func (s *RedisStore) Add(c echo.Context, m Message) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	key := s.prefix + s.sessionID(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 500*time.Millisecond)
	defer cancel()
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.RPush(ctx, key, b)
		p.Expire(ctx, key, s.ttl)
		return nil
	})
	return err
}

func (s *RedisStore) Pop(c echo.Context) ([]Message, error) {
	ck, err := c.Cookie(SessionCookieName)
	if err != nil || ck.Value == "" {
		if sid, ok := c.Get(sessionKey).(string); ok {
			return s.pop(c.Request().Context(), sid)
		}
		return nil, nil
	}
	return s.pop(c.Request().Context(), ck.Value)
}

func (s *RedisStore) pop(parent context.Context, sid string) ([]Message, error) {
	key := s.prefix + sid
	ctx, cancel := context.WithTimeout(parent, 500*time.Millisecond)
	defer cancel()

	var lr *redis.StringSliceCmd
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		lr = p.LRange(ctx, key, 0, -1)
		p.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]Message, 0, len(lr.Val()))
	for _, raw := range lr.Val() {
		var m Message
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// sessionID returns the visitor's session id, issuing a new one when the
// request carries none.
func (s *RedisStore) sessionID(c echo.Context) string {
	if sid, ok := c.Get(sessionKey).(string); ok {
		return sid
	}
	if ck, err := c.Cookie(SessionCookieName); err == nil {
		if _, perr := uuid.Parse(ck.Value); perr == nil {
			c.Set(sessionKey, ck.Value)
			return ck.Value
		}
	}
	sid := uuid.NewString()
	c.Set(sessionKey, sid)
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sid
}
