package trading

import (
	"errors"
	"fmt"

	"github.com/praizykolluri46/binance-bot/internal/infra/binance"
)

// ErrSymbolNotFound is returned by RulesProvider when the exchange does not
// list the requested symbol. The submission path treats it as a hard
// validation failure.
var ErrSymbolNotFound = errors.New("symbol not found")

// ValidationError rejects a malformed order intent before any network call.
// It is never retried and never reaches the exchange.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// GatewayError wraps any failure surfaced by the exchange: rejected orders,
// rate limits, malformed responses, transport errors. Code and Message are
// populated when the exchange answered with an error body.
type GatewayError struct {
	Op      string
	Code    int64
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: exchange error %d: %s", e.Op, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// asGatewayError lifts a client error into a GatewayError, preserving the
// exchange code/message when present.
func asGatewayError(op string, err error) *GatewayError {
	var apiErr *binance.APIError
	if errors.As(err, &apiErr) {
		return &GatewayError{Op: op, Code: apiErr.Code, Message: apiErr.Message, Err: err}
	}
	return &GatewayError{Op: op, Err: err}
}
