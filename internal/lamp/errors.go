package lamp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a generic network-level error
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates the lamp did not respond within the request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the lamp refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a hostname resolution failure
	ErrTypeDNS
	// ErrTypeHTTP indicates the lamp answered with a non-2xx status code
	ErrTypeHTTP
	// ErrTypeInterrupted indicates the request was cancelled by the user
	ErrTypeInterrupted
	// ErrTypeUnknown indicates an unexpected error
	ErrTypeUnknown
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeInterrupted:
		return "Interrupted"
	case ErrTypeUnknown:
		return "Unknown Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// DeviceError represents an error that occurred while talking to the lamp
type DeviceError struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Address    string    // Lamp address (for diagnostics)
	Err        error     // Underlying error (if any)
}

// Error implements the error interface
func (e *DeviceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *DeviceError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError analyzes an error from an HTTP call and returns a
// DeviceError with a more specific error type
func ClassifyNetworkError(err error, address string) *DeviceError {
	if err == nil {
		return nil
	}

	// User-initiated cancellation takes precedence over everything else:
	// a cancelled request often surfaces as a wrapped context error
	if errors.Is(err, context.Canceled) {
		return &DeviceError{
			Type:    ErrTypeInterrupted,
			Message: "request cancelled",
			Err:     err,
			Address: address,
		}
	}

	if os.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return &DeviceError{
			Type:    ErrTypeTimeout,
			Message: "request timed out",
			Err:     err,
			Address: address,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &DeviceError{
			Type:    ErrTypeDNS,
			Message: fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:     err,
			Address: address,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return &DeviceError{
				Type:    ErrTypeConnectionRefused,
				Message: "lamp refused connection",
				Err:     err,
				Address: address,
			}
		}
		if errors.Is(opErr.Err, syscall.EHOSTUNREACH) || errors.Is(opErr.Err, syscall.ENETUNREACH) {
			return &DeviceError{
				Type:    ErrTypeNetwork,
				Message: "lamp unreachable",
				Err:     err,
				Address: address,
			}
		}
	}

	// url.Error wraps the transport error; classify what it carries
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		classified := ClassifyNetworkError(urlErr.Err, address)
		classified.Err = err
		return classified
	}

	return &DeviceError{
		Type:    ErrTypeNetwork,
		Message: "network error occurred",
		Err:     err,
		Address: address,
	}
}

// NewHTTPError creates an error for a non-2xx response from the lamp
func NewHTTPError(statusCode int, address string) *DeviceError {
	return &DeviceError{
		Type:       ErrTypeHTTP,
		Message:    fmt.Sprintf("unexpected status code: %d", statusCode),
		StatusCode: statusCode,
		Address:    address,
	}
}

// IsNetworkError checks if an error is a transport-level error (network,
// timeout, connection refused, or DNS)
func IsNetworkError(err error) bool {
	var devErr *DeviceError
	if errors.As(err, &devErr) {
		return devErr.Type == ErrTypeNetwork ||
			devErr.Type == ErrTypeTimeout ||
			devErr.Type == ErrTypeConnectionRefused ||
			devErr.Type == ErrTypeDNS
	}
	return false
}

// IsHTTPError checks if an error is a non-2xx response error
func IsHTTPError(err error) bool {
	var devErr *DeviceError
	if errors.As(err, &devErr) {
		return devErr.Type == ErrTypeHTTP
	}
	return false
}

// IsInterrupted checks if an error is a user-initiated cancellation
func IsInterrupted(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	var devErr *DeviceError
	if errors.As(err, &devErr) {
		return devErr.Type == ErrTypeInterrupted
	}
	return false
}

// ShortMessage returns a concise, user-friendly error message
func ShortMessage(err error) string {
	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		return err.Error()
	}

	switch devErr.Type {
	case ErrTypeTimeout:
		return fmt.Sprintf("lamp at %s is not responding (timeout)", devErr.Address)
	case ErrTypeConnectionRefused:
		return fmt.Sprintf("lamp at %s refused the connection", devErr.Address)
	case ErrTypeDNS:
		return fmt.Sprintf("cannot resolve lamp address %s", devErr.Address)
	case ErrTypeNetwork:
		return fmt.Sprintf("could not connect to lamp at %s", devErr.Address)
	case ErrTypeHTTP:
		return fmt.Sprintf("lamp at %s returned HTTP %d", devErr.Address, devErr.StatusCode)
	case ErrTypeInterrupted:
		return "operation cancelled"
	default:
		return devErr.Message
	}
}

// Hint returns user-friendly troubleshooting advice for an error
func Hint(err error) string {
	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		return "An unexpected error occurred. Please try again."
	}

	switch devErr.Type {
	case ErrTypeTimeout:
		return strings.Join([]string{
			"The lamp did not respond in time.",
			"  • Check that the lamp is powered on",
			"  • Verify you are on the same network as the lamp",
			"  • Move closer to the lamp to improve signal strength",
		}, "\n")

	case ErrTypeConnectionRefused:
		return strings.Join([]string{
			"The lamp refused the connection.",
			"  • Verify the IP address is correct",
			"  • The lamp's web server may still be booting - wait a few seconds",
		}, "\n")

	case ErrTypeDNS:
		return strings.Join([]string{
			"Could not resolve the lamp hostname.",
			"  • Use the IP address instead of a hostname",
			"  • Check that you're on the same network as the lamp",
		}, "\n")

	case ErrTypeNetwork:
		hint := []string{"Make sure the IP address is correct and the lamp is online."}
		if devErr.Address != "" {
			hint = append(hint, "  • Try pinging the lamp: ping "+devErr.Address)
		}
		hint = append(hint,
			"  • Check that the lamp is powered on",
			"  • Verify your WiFi connection")
		return strings.Join(hint, "\n")

	case ErrTypeHTTP:
		if devErr.StatusCode >= 500 {
			return fmt.Sprintf("The lamp returned an error (HTTP %d). Try power-cycling it.", devErr.StatusCode)
		}
		return fmt.Sprintf("The lamp returned HTTP %d. Its firmware may not support this command.", devErr.StatusCode)

	default:
		return "An error occurred. Please check the error message for details."
	}
}
