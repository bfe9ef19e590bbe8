package googlebooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

var (
	ErrNoAPIKey   = errors.New("googlebooks: api key not configured")
	ErrTimeout    = errors.New("googlebooks: timeout")
	ErrConnection = errors.New("googlebooks: connection failed")
	ErrMalformed  = errors.New("googlebooks: malformed payload")
)

// HTTPError is a non-200 answer from the upstream. Message carries the
// upstream's own error.message when the body had one.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return "googlebooks: status " + strconv.Itoa(e.Status) + ": " + e.Message
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func newHTTPError(status int, body []byte) *HTTPError {
	e := &HTTPError{Status: status, Message: "APIエラー: " + strconv.Itoa(status)}
	if len(strings.TrimSpace(string(body))) == 0 {
		return e
	}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error.Message != "" {
		e.Message = eb.Error.Message
	}
	return e
}

// classify maps a transport error onto the package sentinels.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var dnsErr *net.DNSError
	var opErr *net.OpError
	if errors.As(err, &dnsErr) || errors.As(err, &opErr) {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return err
}
