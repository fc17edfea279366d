package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/core/ports"
	"orderwizard/internal/pkg/errs"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 64 << 10
)

// Config points the client at the backend.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the order backend. One Client serves every wizard.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, errs.NewValueIsInvalidErrorWithCause("baseURL", fmt.Errorf("%q is not an absolute URL", cfg.BaseURL))
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger.With("component", "backend_client"),
	}, nil
}

// Gateways returns the client behind every gateway port.
func (c *Client) Gateways() ports.Gateways {
	return ports.Gateways{
		Clients:        clientDirectory{c},
		Branches:       branchDirectory{c},
		PriceList:      catalogService{c},
		ReferenceData:  catalogService{c},
		Pricing:        pricingService{c},
		Discounts:      discountService{c},
		CompletionDate: completionDateService{c},
		Payments:       paymentService{c},
		Sessions:       sessionService{c},
		Orders:         orderService{c},
	}
}

// call describes one request. A non-zero session marks a session endpoint, where
// 404 means the backend no longer knows the session.
type call struct {
	op      string
	method  string
	path    string
	query   url.Values
	body    any
	session kernel.UUID
	// param names the id a 404 refers to on non-session endpoints.
	param string
	id    string
}

// errorBody is what the backend sends with a non-2xx status.
type errorBody struct {
	Message string `json:"message"`
	Field   string `json:"field"`
	Value   string `json:"value"`
}

func (c *Client) do(ctx context.Context, rq call, out any) error {
	req, err := c.newRequest(ctx, rq)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "Backend call failed", "operation", rq.op, "error", err)
		return errs.NewRemoteUnavailableError(rq.op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errs.NewRemoteUnavailableError(rq.op, fmt.Errorf("decode response: %w", err))
		}
		return nil
	}

	return c.statusError(ctx, rq, resp)
}

func (c *Client) newRequest(ctx context.Context, rq call) (*http.Request, error) {
	u := c.baseURL.JoinPath(rq.path)
	if len(rq.query) > 0 {
		u.RawQuery = rq.query.Encode()
	}

	var body io.Reader
	if rq.body != nil {
		raw, err := json.Marshal(rq.body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", rq.op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, rq.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rq.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) statusError(ctx context.Context, rq call, resp *http.Response) error {
	var body errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err := json.Unmarshal(raw, &body); err != nil || body.Message == "" {
		body.Message = strings.TrimSpace(string(raw))
	}
	if body.Message == "" {
		body.Message = resp.Status
	}
	cause := errors.New(body.Message)

	switch code := resp.StatusCode; {
	case code == http.StatusTooManyRequests || code >= http.StatusInternalServerError:
		c.logger.WarnContext(ctx, "Backend unavailable", "operation", rq.op, "status", code)
		return errs.NewRemoteUnavailableError(rq.op, fmt.Errorf("status %d: %w", code, cause))

	case code == http.StatusGone:
		return errs.NewFatalSessionError(rq.session.String(), body.Message)

	case code == http.StatusNotFound:
		if !rq.session.IsZero() {
			return errs.NewFatalSessionError(rq.session.String(), body.Message)
		}
		param, id := rq.param, rq.id
		if param == "" {
			param = rq.op
		}
		return errs.NewObjectNotFoundErrorWithCause(param, id, cause)

	case code == http.StatusConflict:
		field := body.Field
		if field == "" {
			field = rq.op
		}
		return errs.NewConflictErrorWithCause(field, body.Value, cause)

	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		field := body.Field
		if field == "" {
			field = "request"
		}
		return errs.NewValueIsInvalidErrorWithCause(field, cause)
	}

	return fmt.Errorf("%s: unexpected status %d: %w", rq.op, resp.StatusCode, cause)
}
