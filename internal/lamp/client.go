package lamp

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/jmcrae/lampctl/internal/logging"
)

const (
	// DefaultTimeout is the HTTP request timeout for every lamp call
	DefaultTimeout = 5 * time.Second

	// MinTimerMinutes is the lowest accepted timer value (0 cancels the timer)
	MinTimerMinutes = 0

	// MaxTimerMinutes is the highest accepted timer value (12 hours)
	MaxTimerMinutes = 720
)

// Client is an HTTP client for a network-attached lamp.
//
// Every operation is a single best-effort GET against the lamp's built-in
// web server. There are no retries and no client-side state: the device
// tracks its own timer. Calls are strictly sequential; the Client never
// holds more than one in-flight request.
type Client struct {
	// Address is the lamp host as given by the caller (IP or hostname)
	Address string

	// BaseURL is the lamp base URL (e.g. "http://192.168.1.100")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client
}

// NewClient creates a client for the lamp at the given address.
// address: IP or hostname, without scheme (e.g. "192.168.1.100")
func NewClient(address string) *Client {
	return &Client{
		Address:    address,
		BaseURL:    "http://" + address,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// TurnOn turns the lamp on (GET /on)
func (c *Client) TurnOn(ctx context.Context) error {
	_, err := c.get(ctx, "on", nil)
	return err
}

// TurnOff turns the lamp off (GET /off)
func (c *Client) TurnOff(ctx context.Context) error {
	_, err := c.get(ctx, "off", nil)
	return err
}

// Status queries the lamp state (GET /status).
//
// On success the body is decoded as a Status. A missing or undecodable body
// is not an error: the call succeeded, there is just no structured data, and
// (nil, nil) is returned.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	body, err := c.get(ctx, "status", nil)
	if err != nil {
		return nil, err
	}
	return ParseStatus(body), nil
}

// SetTimer sets or cancels the auto-off timer (GET /timeout?minutes=N).
//
// minutes is silently clamped to [0, 720]; 0 cancels the timer, any positive
// value turns the lamp on with an auto-off after that many minutes. The
// clamped value actually sent to the device is returned so callers can
// report it.
func (c *Client) SetTimer(ctx context.Context, minutes int) (int, error) {
	minutes = ClampMinutes(minutes)

	params := url.Values{}
	params.Set("minutes", strconv.Itoa(minutes))

	_, err := c.get(ctx, "timeout", params)
	return minutes, err
}

// ClampMinutes clamps a timer value to the device's accepted range
func ClampMinutes(minutes int) int {
	if minutes < MinTimerMinutes {
		return MinTimerMinutes
	}
	if minutes > MaxTimerMinutes {
		return MaxTimerMinutes
	}
	return minutes
}

// get performs a single GET against the lamp and returns the response body.
// Any transport failure or non-2xx status yields a *DeviceError.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := c.BaseURL + "/" + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	logging.Debug("lamp request",
		zap.String("address", c.Address),
		zap.String("url", reqURL),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &DeviceError{
			Type:    ErrTypeUnknown,
			Message: "failed to create request",
			Address: c.Address,
			Err:     err,
		}
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		classified := ClassifyNetworkError(err, c.Address)
		logging.Debug("lamp request failed",
			zap.String("address", c.Address),
			zap.String("url", reqURL),
			zap.Error(err),
		)
		return nil, classified
	}
	defer func() { _ = resp.Body.Close() }()

	logging.Debug("lamp response",
		zap.String("address", c.Address),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewHTTPError(resp.StatusCode, c.Address)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		// The call itself succeeded; a truncated body is treated like no body
		return nil, nil
	}

	return body, nil
}
