package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

func NewClient(addr, password string, db int) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// OTPThrottle is a fixed-window counter of OTP issuances per email.
type OTPThrottle struct {
	client goredis.Cmdable
	limit  int64
	window time.Duration
	prefix string
}

func NewOTPThrottle(client goredis.Cmdable, limit int, window time.Duration) *OTPThrottle {
	return &OTPThrottle{
		client: client,
		limit:  int64(limit),
		window: window,
		prefix: "otp:issue:",
	}
}

// Allow counts one issuance for email and reports whether it fits in the
// current window.
func (t *OTPThrottle) Allow(ctx context.Context, email string) (bool, error) {
	key := t.key(email)
	pipe := t.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, t.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("otp throttle: %w", err)
	}
	return incr.Val() <= t.limit, nil
}

func (t *OTPThrottle) key(email string) string {
	return t.prefix + strings.ToLower(strings.TrimSpace(email))
}
