package convert

import (
	"errors"
	"fmt"
)

// ErrInvalidOptions marks a request rejected locally before any network
// call, from option validation.
var ErrInvalidOptions = errors.New("convert: invalid options")

// ConversionError is a non-success answer from the convert endpoint. Message
// is the server's JSON error field when present, else the HTTP status text.
type ConversionError struct {
	StatusCode int
	Message    string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert: %s (status %d)", e.Message, e.StatusCode)
}
