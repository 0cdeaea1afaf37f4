package portal

import (
	"errors"
	"fmt"

	"parkbridge/internal/pkg/errs"
)

var (
	// ErrAuth marks credential failures (401/403, or a repeat after the
	// transparent re-login). Callers must treat it as needs-reauth, not
	// transient.
	ErrAuth = errs.New("portal authentication failed")

	// ErrConnection marks network failures and timeouts; transient.
	ErrConnection = errs.New("cannot connect to parking portal")
)

// ResponseError is any other non-success response, with the body kept for
// diagnostics.
type ResponseError struct {
	Status int
	Body   string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("unexpected portal response %d", e.Status)
}

// ResponseStatus returns the HTTP status carried by err, if any.
func ResponseStatus(err error) (int, bool) {
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr.Status, true
	}
	return 0, false
}
