package datamodel

// Attribute is one addressable datum within a cluster: a value plus its
// access and quality metadata. Attributes are value objects; mutation goes
// through the owning cluster base, which keeps writes type-preserving.
type Attribute struct {
	// ID is the attribute identifier, unique within its cluster.
	ID AttributeID

	// Value is the current value; TypeCustom marks a cluster-provided reader.
	Value AttrValue

	// Access holds the supported interactions and required privileges.
	Access Access

	// Quality holds the attribute quality flags.
	Quality Quality
}

// NewAttribute creates an attribute after validating that its access and
// quality bits are consistent. A Fixed attribute cannot carry the Write bit.
func NewAttribute(id AttributeID, value AttrValue, access Access, quality Quality) (Attribute, error) {
	if quality.Has(QualityFixed) && access.Has(AccessWrite) {
		return Attribute{}, ErrInvalidData
	}
	return Attribute{
		ID:      id,
		Value:   value,
		Access:  access,
		Quality: quality,
	}, nil
}

// IsReadable returns true if the attribute supports reads.
func (a Attribute) IsReadable() bool {
	return a.Access.Has(AccessRead)
}

// IsWritable returns true if the attribute supports writes.
func (a Attribute) IsWritable() bool {
	return a.Access.Has(AccessWrite) && !a.Quality.Has(QualityFixed)
}

// IsPersistent returns true if successful writes should reach the
// external store.
func (a Attribute) IsPersistent() bool {
	return a.Quality.Has(QualityPersistent)
}
