package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// Client sends one composed request to a language model and returns the text
// content of its reply. Implementations never retry.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Request is a provider-neutral completion request.
type Request struct {
	System          string
	Prompt          string
	MaxOutputTokens int
}

// Config selects and configures a provider.
type Config struct {
	Provider        string
	APIKey          string
	Model           string
	BaseURL         string
	Timeout         time.Duration
	MaxOutputTokens int
}

var (
	ErrServiceUnavailable = errors.New("matching service unavailable")
	ErrServiceTimeout     = errors.New("matching service timeout")
	ErrMalformedReply     = errors.New("matching service reply malformed")
	ErrNotConfigured      = errors.New("matching service not configured")
)

// NotConfigured returns a Client that fails every call with ErrNotConfigured.
func NotConfigured(reason string) Client {
	return unconfigured{reason: reason}
}

type unconfigured struct {
	reason string
}

func (u unconfigured) Complete(ctx context.Context, req Request) (string, error) {
	return "", fmt.Errorf("%w: %s", ErrNotConfigured, u.reason)
}

// IsTimeout reports whether err is a deadline or network timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Reason maps an error to a short label for logs and metrics.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, ErrServiceTimeout):
		return "timeout"
	case errors.Is(err, ErrMalformedReply):
		return "malformed_reply"
	case errors.Is(err, ErrServiceUnavailable):
		return "unavailable"
	case IsTimeout(err):
		return "timeout"
	default:
		return "unavailable"
	}
}
