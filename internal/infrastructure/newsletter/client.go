package newsletter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mcare/storefront/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxErrorBody caps how much of an error response is kept for logging
const maxErrorBody = 512

// Client submits newsletter signups to the upstream provider.
// There is no retry: one attempt per submission.
type Client struct {
	httpClient  *http.Client
	endpoint    string
	rateLimiter *rate.Limiter
	logger      *zap.Logger
	debug       bool
}

// NewClient creates a newsletter client. perHour bounds upstream calls;
// zero or less disables the limiter.
func NewClient(endpoint string, timeout time.Duration, perHour int, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if perHour > 0 {
		// rate.Limit is events per second
		limiter = rate.NewLimiter(rate.Limit(float64(perHour)/3600), 10)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		endpoint:    endpoint,
		rateLimiter: limiter,
		logger:      logger.Named("newsletter"),
	}
}

// SetDebug toggles verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

func (c *Client) debugLog(msg string, fields ...zap.Field) {
	if c.debug {
		c.logger.Debug(msg, fields...)
	}
}

// Subscribe posts {"email": ...} to the endpoint. Any non-2xx status or transport
// failure is reported as domain.ErrNewsletterFailure.
func (c *Client) Subscribe(ctx context.Context, email string) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
	}

	payload, err := json.Marshal(domain.SubscribeRequest{Email: email})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", domain.ErrNewsletterFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "mcare-storefront/1.0")

	c.debugLog("posting signup", zap.String("endpoint", c.endpoint))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNewsletterFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := readLimitedBody(resp.Body, maxErrorBody)
		c.debugLog("signup rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return fmt.Errorf("%w: status %d", domain.ErrNewsletterFailure, resp.StatusCode)
	}

	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}
