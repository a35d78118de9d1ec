package datamodel

import "errors"

// Errors returned by datamodel operations.
var (
	// ErrEndpointNotFound indicates the requested endpoint does not exist.
	ErrEndpointNotFound = errors.New("endpoint not found")

	// ErrTooManyEndpoints indicates the node's endpoint capacity is exhausted.
	ErrTooManyEndpoints = errors.New("too many endpoints")

	// ErrClusterNotFound indicates the requested cluster does not exist.
	ErrClusterNotFound = errors.New("cluster not found")

	// ErrClusterExists indicates a cluster with the same ID already exists.
	ErrClusterExists = errors.New("cluster already exists")

	// ErrTooManyClusters indicates the endpoint's cluster capacity is exhausted.
	ErrTooManyClusters = errors.New("too many clusters")

	// ErrAttributeNotFound indicates the requested attribute does not exist.
	ErrAttributeNotFound = errors.New("attribute not found")

	// ErrAttributeExists indicates an attribute with the same ID already exists.
	ErrAttributeExists = errors.New("attribute already exists")

	// ErrTooManyAttributes indicates the cluster's attribute capacity is exhausted.
	ErrTooManyAttributes = errors.New("too many attributes")

	// ErrCommandNotFound indicates the command is not supported by the cluster.
	ErrCommandNotFound = errors.New("command not found")

	// ErrAccessDenied indicates insufficient privileges for the operation.
	ErrAccessDenied = errors.New("access denied")

	// ErrUnsupportedRead indicates the attribute does not support read access.
	ErrUnsupportedRead = errors.New("unsupported read")

	// ErrUnsupportedWrite indicates the attribute does not support write access.
	ErrUnsupportedWrite = errors.New("unsupported write")

	// ErrUnsupportedAttribute indicates the attribute is not served by the cluster.
	ErrUnsupportedAttribute = errors.New("unsupported attribute")

	// ErrInvalidDataType indicates a value variant mismatch.
	ErrInvalidDataType = errors.New("invalid data type")

	// ErrConstraintError indicates a range or bound violation.
	ErrConstraintError = errors.New("constraint error")

	// ErrInvalidData indicates inconsistent attribute metadata.
	ErrInvalidData = errors.New("invalid attribute definition")

	// ErrBusy indicates the cluster is busy with a conflicting operation.
	ErrBusy = errors.New("resource busy")
)
