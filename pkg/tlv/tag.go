package tlv

// TagControl represents the tag form as encoded in the upper 3 bits
// of the control octet (Spec A.7.2).
//
// The data model exchanges anonymous and context-specific tags only;
// profile-qualified forms are rejected by the decoder.
type TagControl int

const (
	TagControlAnonymous TagControl = 0 // no tag, 0 octets
	TagControlContext   TagControl = 1 // context-specific, 1 octet
)

// Tag represents a TLV tag.
type Tag struct {
	control TagControl
	number  uint8
}

// Anonymous returns a new anonymous tag.
func Anonymous() Tag {
	return Tag{control: TagControlAnonymous}
}

// ContextTag returns a new context-specific tag with the given tag number.
func ContextTag(number uint8) Tag {
	return Tag{control: TagControlContext, number: number}
}

// Control returns the tag control form.
func (t Tag) Control() TagControl {
	return t.control
}

// IsAnonymous returns true if this is an anonymous tag.
func (t Tag) IsAnonymous() bool {
	return t.control == TagControlAnonymous
}

// IsContext returns true if this is a context-specific tag.
func (t Tag) IsContext() bool {
	return t.control == TagControlContext
}

// Number returns the context tag number. Zero for anonymous tags.
func (t Tag) Number() uint8 {
	return t.number
}

// Size returns the size in bytes of the encoded tag field.
func (t Tag) Size() int {
	if t.control == TagControlContext {
		return 1
	}
	return 0
}
