package im

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelybo/matter-rs/pkg/datamodel"
)

// ErrTimeout indicates a command handler exceeded its deadline.
var ErrTimeout = errors.New("im: timeout")

// StatusError carries an explicit IM status through an error return.
// Cluster code uses it when none of the data-model sentinels fit.
type StatusError struct {
	Status Status
}

// NewStatusError wraps a status code as an error. StatusSuccess is not a
// valid argument; a successful operation returns a nil error.
func NewStatusError(s Status) *StatusError {
	return &StatusError{Status: s}
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("im: status %s", e.Status)
}

// ErrorToStatus maps an error to an IM status code.
// This follows the Matter spec mapping of errors to status codes.
func ErrorToStatus(err error) Status {
	if err == nil {
		return StatusSuccess
	}

	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}

	switch {
	case errors.Is(err, datamodel.ErrEndpointNotFound):
		return StatusUnsupportedEndpoint
	case errors.Is(err, datamodel.ErrClusterNotFound):
		return StatusUnsupportedCluster
	case errors.Is(err, datamodel.ErrAttributeNotFound):
		return StatusUnsupportedAttribute
	case errors.Is(err, datamodel.ErrUnsupportedAttribute):
		return StatusUnsupportedAttribute
	case errors.Is(err, datamodel.ErrCommandNotFound):
		return StatusUnsupportedCommand
	case errors.Is(err, datamodel.ErrAccessDenied):
		return StatusUnsupportedAccess
	case errors.Is(err, datamodel.ErrUnsupportedWrite):
		return StatusUnsupportedWrite
	case errors.Is(err, datamodel.ErrUnsupportedRead):
		return StatusUnsupportedRead
	case errors.Is(err, datamodel.ErrConstraintError):
		return StatusConstraintError
	case errors.Is(err, datamodel.ErrInvalidDataType):
		return StatusInvalidDataType
	case errors.Is(err, datamodel.ErrInvalidData):
		return StatusInvalidCommand
	case errors.Is(err, datamodel.ErrBusy):
		return StatusBusy
	case errors.Is(err, ErrTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	default:
		return StatusFailure
	}
}
