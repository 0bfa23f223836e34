// client/client.go
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxBody = 8 << 20

type requestIDKey struct{}

// WithRequestID makes the client forward id as X-Request-ID instead of
// minting a fresh one.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Config configures an APIClient.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second; 0 disables limiting
	HTTP      *http.Client
	Logger    *zap.Logger
}

// APIClient talks to the supply-chain REST backend. It never retries: a
// failed call is returned to the caller, who decides what the user sees.
type APIClient struct {
	base    *url.URL
	http    *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

// New validates cfg and builds a client.
func New(cfg Config) (*APIClient, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("api base url is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", cfg.BaseURL)
	}
	hc := cfg.HTTP
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	c := &APIClient{base: base, http: hc, log: log}
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c, nil
}

// call performs one request and returns the normalized envelope. Every
// failure comes back as *APIError.
func (c *APIClient) call(ctx context.Context, method, path, token string, body any) (Envelope, error) {
	fail := func(kind error, status int, msg string) (Envelope, error) {
		return Envelope{}, &APIError{Kind: kind, Status: status, Method: method, Path: path, Message: msg}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fail(ErrNetwork, 0, err.Error())
		}
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return Envelope{}, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, reader)
	if err != nil {
		return Envelope{}, fmt.Errorf("build request: %w", err)
	}
	reqID := RequestID(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("backend call failed", zap.String("method", method), zap.String("path", path),
			zap.String("request_id", reqID), zap.Error(err))
		return fail(ErrNetwork, 0, "Không thể kết nối tới máy chủ")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fail(ErrNetwork, resp.StatusCode, "Phản hồi từ máy chủ bị gián đoạn")
	}
	env := parseEnvelope(raw)
	c.log.Debug("backend call", zap.String("method", method), zap.String("path", path),
		zap.Int("status", resp.StatusCode), zap.Duration("took", time.Since(start)),
		zap.String("request_id", reqID))

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fail(ErrUnauthorized, resp.StatusCode, orDefault(env.Message, "Phiên đăng nhập đã hết hạn"))
	case resp.StatusCode >= 400 && resp.StatusCode < 500 && env.flagged && !env.Success:
		// the backend rejected the request and said why
		return fail(ErrBusiness, resp.StatusCode, orDefault(env.Message, http.StatusText(resp.StatusCode)))
	case resp.StatusCode >= 300:
		return fail(ErrNetwork, resp.StatusCode, orDefault(env.Message, http.StatusText(resp.StatusCode)))
	case !env.Success:
		return fail(ErrBusiness, resp.StatusCode, orDefault(env.Message, "Yêu cầu không thành công"))
	}
	return env, nil
}

// Ping reports whether the backend answers HTTP at all.
func (c *APIClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.base.String()+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Kind: ErrNetwork, Method: http.MethodHead, Path: "/", Message: err.Error()}
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return &APIError{Kind: ErrNetwork, Status: resp.StatusCode, Method: http.MethodHead, Path: "/", Message: resp.Status}
	}
	return nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
