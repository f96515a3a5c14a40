package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/hireboard/pkg/response"
)

// KeyFunc maps a request to the counter it is charged against.
type KeyFunc func(c *gin.Context) string

// AllowFunc returns true for requests that skip the limiter.
type AllowFunc func(*gin.Context) bool

func ipFromCtx(c *gin.Context) string {
	if ip := ClientIP(c); ip != "" {
		return ip
	}
	return "unknown"
}

// routeOf prefers the matched route template so /jobs/1 and /jobs/2 share a
// counter.
func routeOf(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

func KeyByIP() KeyFunc {
	return func(c *gin.Context) string { return "rl:ip:" + ipFromCtx(c) }
}

func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string { return "rl:path:" + routeOf(c) + ":ip:" + ipFromCtx(c) }
}

// KeyByAccount limits authenticated callers per account and role, anonymous
// callers per IP. Place it after Auth.
func KeyByAccount() KeyFunc {
	return func(c *gin.Context) string {
		if uid := c.GetString(CtxAccountID); uid != "" {
			return "rl:acct:" + string(RoleFrom(c)) + ":" + uid
		}
		return "rl:acct:anon:ip:" + ipFromCtx(c)
	}
}

// maxPeek bounds how much of a JSON body KeyByJSONField buffers.
const maxPeek = 64 << 10

// KeyByJSONField charges requests per route and per value of a top-level
// string field in the JSON body, case-insensitively. The body is restored
// for the handler. Requests without the field are keyed by IP.
func KeyByJSONField(field string) KeyFunc {
	return func(c *gin.Context) string {
		v := strings.ToLower(strings.TrimSpace(peekJSONField(c, field)))
		if v == "" {
			return "rl:path:" + routeOf(c) + ":ip:" + ipFromCtx(c)
		}
		return "rl:path:" + routeOf(c) + ":" + field + ":" + v
	}
}

func peekJSONField(c *gin.Context, field string) string {
	body := c.Request.Body
	if body == nil || body == http.NoBody {
		return ""
	}
	head, err := io.ReadAll(io.LimitReader(body, maxPeek))
	c.Request.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), body), body}
	if err != nil {
		return ""
	}

	var doc map[string]json.RawMessage
	if json.Unmarshal(head, &doc) != nil {
		return ""
	}
	var s string
	if raw, ok := doc[field]; !ok || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// One round trip: count the hit, start the window on the first one and
// report the time left in it.
var fixedWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

type windowState struct {
	hits    int
	resetIn time.Duration
}

func charge(ctx context.Context, rdb *redis.Client, key string, span time.Duration) (windowState, error) {
	reply, err := fixedWindow.Run(ctx, rdb, []string{key}, span.Milliseconds()).Int64Slice()
	if err != nil {
		return windowState{}, err
	}
	if len(reply) != 2 {
		return windowState{}, fmt.Errorf("rate limit script: unexpected reply %v", reply)
	}
	st := windowState{hits: int(reply[0])}
	if reply[1] > 0 {
		st.resetIn = time.Duration(reply[1]) * time.Millisecond
	}
	return st, nil
}

func (st windowState) left(limit int) int {
	return max(limit-st.hits, 0)
}

// resetSeconds rounds up so a client never retries before the window ends.
func (st windowState) resetSeconds() int {
	return int((st.resetIn + time.Second - 1) / time.Second)
}

func (st windowState) setHeaders(c *gin.Context, limit int) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(st.left(limit)))
	c.Header("X-RateLimit-Reset", strconv.Itoa(st.resetSeconds()))
}

// RateLimit admits limit requests per key per fixed window of span, counted
// in Redis. OPTIONS and allowed requests pass uncounted. A nil client turns
// it into a no-op and Redis errors let the request through.
func RateLimit(rdb *redis.Client, limit int, span time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || limit <= 0 || span <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}

		st, err := charge(c.Request.Context(), rdb, keyFn(c), span)
		if err != nil {
			c.Next()
			return
		}
		st.setHeaders(c, limit)
		if st.hits <= limit {
			c.Next()
			return
		}
		if secs := st.resetSeconds(); secs > 0 {
			c.Header("Retry-After", strconv.Itoa(secs))
		}
		response.Abort(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
	}
}
