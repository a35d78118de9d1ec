package tlv

import "errors"

// Errors returned by TLV encoding and decoding.
var (
	// ErrInvalidDataType indicates a typed extractor was used on an element
	// of a different type, or a value does not fit the requested width.
	ErrInvalidDataType = errors.New("tlv: invalid data type")

	// ErrInvalidElementType indicates an unknown element type in the control octet.
	ErrInvalidElementType = errors.New("tlv: invalid element type")

	// ErrNotContainer indicates Enter was called on a non-container element.
	ErrNotContainer = errors.New("tlv: element is not a container")

	// ErrUnexpectedEnd indicates the encoding ended inside an element or container.
	ErrUnexpectedEnd = errors.New("tlv: unexpected end of data")

	// ErrTrailingData indicates extra bytes after the top-level element.
	ErrTrailingData = errors.New("tlv: trailing data after element")

	// ErrUnsupportedTag indicates a tag form this decoder does not handle.
	ErrUnsupportedTag = errors.New("tlv: unsupported tag form")

	// ErrContainerMismatch indicates EndContainer without a matching start.
	ErrContainerMismatch = errors.New("tlv: container mismatch")

	// ErrInvalidUTF8 indicates a UTF-8 string element with invalid contents.
	ErrInvalidUTF8 = errors.New("tlv: invalid utf-8 string")
)
