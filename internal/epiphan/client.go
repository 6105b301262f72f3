package epiphan

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avops/captrack/internal/redunlive"
)

// Config holds the admin-interface credentials and the per-request
// timeout shared by every device client.
type Config struct {
	User     string
	Password string
	Timeout  time.Duration
}

// Client talks to one device's admin CGI interface. Parameters are
// read through get_params.cgi and written through set_params.cgi,
// using HTTP basic auth.
type Client struct {
	baseURL    string
	user       string
	password   string
	httpClient *http.Client
}

var _ redunlive.StatusClient = (*Client)(nil)

// NewClient creates a client for the device at address. Addresses
// without a scheme get http.
func NewClient(address string, cfg Config) *Client {
	baseURL := strings.TrimSuffix(address, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		user:       cfg.User,
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewFactory returns a client factory for the status mapper, sharing
// one credential set across all devices.
func NewFactory(cfg Config) redunlive.ClientFactory {
	return func(address string) redunlive.StatusClient {
		return NewClient(address, cfg)
	}
}

// GetParams reads the named parameters from a device channel. The
// result contains only the parameters the device reported.
func (c *Client) GetParams(ctx context.Context, channel string, params []string) (map[string]string, error) {
	endpoint := fmt.Sprintf("%s/admin/channel%s/get_params.cgi?%s",
		c.baseURL, channel, strings.Join(params, "&"))

	body, err := c.do(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return parseParams(body), nil
}

// SetParams writes parameter values on a device channel.
func (c *Client) SetParams(ctx context.Context, channel string, params map[string]string) error {
	values := url.Values{}
	for name, value := range params {
		values.Set(name, value)
	}
	endpoint := fmt.Sprintf("%s/admin/channel%s/set_params.cgi?%s",
		c.baseURL, channel, values.Encode())

	_, err := c.do(ctx, endpoint)
	return err
}

func (c *Client) do(ctx context.Context, endpoint string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("epiphan: building request: %w", err)
	}
	req.SetBasicAuth(c.user, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("epiphan: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort close

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("epiphan: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("epiphan: %w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return string(body), nil
}

// parseParams decodes the device's line-oriented response format, one
// "name = value" pair per line.
func parseParams(body string) map[string]string {
	params := make(map[string]string)
	for _, line := range strings.Split(body, "\n") {
		name, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		params[name] = strings.TrimSpace(value)
	}
	return params
}
