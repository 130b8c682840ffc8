package ratelimit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// slidingWindowScript counts a request against two adjacent fixed windows,
// weighting the previous window by how far the current one has progressed.
// It returns the remaining budget, or -1 when the request must be refused.
const slidingWindowScript = `
local current_key  = KEYS[1]
local previous_key = KEYS[2]
local tokens       = tonumber(ARGV[1])
local now          = tonumber(ARGV[2])
local window       = tonumber(ARGV[3])

local current  = tonumber(redis.call("GET", current_key) or "0")
local previous = tonumber(redis.call("GET", previous_key) or "0")

local weight = 1 - ((now % window) / window)
if previous * weight + current >= tokens then
  return -1
end

local count = redis.call("INCR", current_key)
if count == 1 then
  redis.call("PEXPIRE", current_key, window * 2)
end
return tokens - math.floor(previous * weight + count)
`

// Upstash counts requests in Upstash Redis over its REST API, so the budget
// holds across instances. A backend failure is returned to the caller;
// policy for that (we fail open) lives in the handler.
type Upstash struct {
	url    string
	token  string
	limit  int
	window time.Duration
	http   *http.Client
	logger *slog.Logger
	now    func() time.Time
}

type UpstashConfig struct {
	URL    string
	Token  string
	Limit  int
	Window time.Duration
}

func NewUpstash(cfg UpstashConfig, logger *slog.Logger) *Upstash {
	if cfg.Limit <= 0 {
		cfg.Limit = 10
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Upstash{
		url:    cfg.URL,
		token:  cfg.Token,
		limit:  cfg.Limit,
		window: cfg.Window,
		http:   &http.Client{Timeout: 5 * time.Second},
		logger: logger,
		now:    time.Now,
	}
}

func (u *Upstash) Allow(ctx context.Context, id string) (Result, error) {
	nowMs := u.now().UnixMilli()
	windowMs := u.window.Milliseconds()
	cur := nowMs / windowMs
	reset := (cur + 1) * windowMs

	currentKey := fmt.Sprintf("ratelimit:%s:%d", id, cur)
	previousKey := fmt.Sprintf("ratelimit:%s:%d", id, cur-1)

	remaining, err := u.eval(ctx, currentKey, previousKey, nowMs, windowMs)
	if err != nil {
		return Result{}, err
	}

	if remaining < 0 {
		return Result{Allowed: false, Limit: u.limit, Remaining: 0, Reset: reset}, nil
	}
	return Result{Allowed: true, Limit: u.limit, Remaining: remaining, Reset: reset}, nil
}

// eval runs the sliding-window script through the Upstash REST endpoint.
func (u *Upstash) eval(ctx context.Context, currentKey, previousKey string, nowMs, windowMs int64) (int, error) {
	cmd := []any{
		"EVAL", slidingWindowScript, "2", currentKey, previousKey,
		strconv.Itoa(u.limit), strconv.FormatInt(nowMs, 10), strconv.FormatInt(windowMs, 10),
	}
	body, err := json.Marshal(cmd)
	if err != nil {
		return 0, fmt.Errorf("encode command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+u.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("upstash request: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			u.logger.Warn("ratelimit.upstash.body_close_error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return 0, fmt.Errorf("upstash status %d: %s", resp.StatusCode, raw)
	}

	var out struct {
		Result int    `json:"result"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return 0, fmt.Errorf("decode upstash response: %w", err)
	}
	if out.Error != "" {
		return 0, fmt.Errorf("upstash error: %s", out.Error)
	}
	return out.Result, nil
}
