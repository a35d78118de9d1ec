// Package im implements the Interaction Model dispatch surface: routing
// attribute reads, attribute writes and command invocations from a request
// path to the registered cluster, and mapping outcomes to IM status codes.
package im

import "fmt"

// Status is an Interaction Model status code.
// Spec: Section 8.10
type Status uint8

const (
	StatusSuccess              Status = 0x00
	StatusFailure              Status = 0x01
	StatusInvalidSubscription  Status = 0x7d
	StatusUnsupportedAccess    Status = 0x7e
	StatusUnsupportedEndpoint  Status = 0x7f
	StatusInvalidAction        Status = 0x80
	StatusUnsupportedCommand   Status = 0x81
	StatusInvalidCommand       Status = 0x85
	StatusUnsupportedAttribute Status = 0x86
	StatusConstraintError      Status = 0x87
	StatusUnsupportedWrite     Status = 0x88
	StatusResourceExhausted    Status = 0x89
	StatusNotFound             Status = 0x8b
	StatusInvalidDataType      Status = 0x8d
	StatusUnsupportedRead      Status = 0x8f
	StatusDataVersionMismatch  Status = 0x92
	StatusTimeout              Status = 0x94
	StatusBusy                 Status = 0x9c
	StatusUnsupportedCluster   Status = 0xc3
)

// IsSuccess returns true for StatusSuccess.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess
}

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusFailure:
		return "Failure"
	case StatusInvalidSubscription:
		return "InvalidSubscription"
	case StatusUnsupportedAccess:
		return "UnsupportedAccess"
	case StatusUnsupportedEndpoint:
		return "UnsupportedEndpoint"
	case StatusInvalidAction:
		return "InvalidAction"
	case StatusUnsupportedCommand:
		return "UnsupportedCommand"
	case StatusInvalidCommand:
		return "InvalidCommand"
	case StatusUnsupportedAttribute:
		return "UnsupportedAttribute"
	case StatusConstraintError:
		return "ConstraintError"
	case StatusUnsupportedWrite:
		return "UnsupportedWrite"
	case StatusResourceExhausted:
		return "ResourceExhausted"
	case StatusNotFound:
		return "NotFound"
	case StatusInvalidDataType:
		return "InvalidDataType"
	case StatusUnsupportedRead:
		return "UnsupportedRead"
	case StatusDataVersionMismatch:
		return "DataVersionMismatch"
	case StatusTimeout:
		return "Timeout"
	case StatusBusy:
		return "Busy"
	case StatusUnsupportedCluster:
		return "UnsupportedCluster"
	default:
		return fmt.Sprintf("Status(0x%02x)", uint8(s))
	}
}
