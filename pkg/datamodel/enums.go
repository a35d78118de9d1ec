package datamodel

// Privilege defines access privilege levels for subject checks.
// Spec: Section 7.6
type Privilege int

const (
	// PrivilegeUnknown indicates an uninitialized or invalid privilege.
	PrivilegeUnknown Privilege = iota

	// PrivilegeView allows read access to attributes.
	PrivilegeView

	// PrivilegeOperate allows read/write/invoke access for normal operations.
	PrivilegeOperate

	// PrivilegeManage allows configuration and management operations.
	PrivilegeManage

	// PrivilegeAdminister allows full administrative control.
	PrivilegeAdminister
)

// String returns a human-readable name for the privilege level.
func (p Privilege) String() string {
	switch p {
	case PrivilegeView:
		return "View"
	case PrivilegeOperate:
		return "Operate"
	case PrivilegeManage:
		return "Manage"
	case PrivilegeAdminister:
		return "Administer"
	default:
		return "Unknown"
	}
}

// IsValid returns true if the privilege is a defined value.
func (p Privilege) IsValid() bool {
	return p >= PrivilegeView && p <= PrivilegeAdminister
}

// Access defines the access bits of an attribute: which interactions it
// supports and the minimum privilege each requires.
type Access uint16

const (
	// AccessRead allows the attribute to be read.
	AccessRead Access = 1 << iota

	// AccessWrite allows the attribute to be written.
	AccessWrite

	// AccessInvoke marks the attribute as invokable through command paths.
	AccessInvoke

	// AccessNeedView requires View privilege.
	AccessNeedView

	// AccessNeedOperate requires Operate privilege.
	AccessNeedOperate

	// AccessNeedManage requires Manage privilege.
	AccessNeedManage

	// AccessNeedAdmin requires Administer privilege.
	AccessNeedAdmin
)

// Common access combinations, named after the spec's shorthand.
const (
	// AccessRV is readable with View privilege.
	AccessRV = AccessRead | AccessNeedView

	// AccessRWVO is readable with View and writable with Operate privilege.
	AccessRWVO = AccessRead | AccessWrite | AccessNeedView | AccessNeedOperate

	// AccessRWVM is readable with View and writable with Manage privilege.
	AccessRWVM = AccessRead | AccessWrite | AccessNeedView | AccessNeedManage

	// AccessRWVA is readable with View and writable with Administer privilege.
	AccessRWVA = AccessRead | AccessWrite | AccessNeedView | AccessNeedAdmin
)

// Has returns true if the access bits contain the specified bit(s).
func (a Access) Has(bits Access) bool {
	return a&bits == bits
}

// ReadPrivilege returns the minimum privilege required to read.
func (a Access) ReadPrivilege() Privilege {
	// Reads are granted at the lowest required level.
	if a.Has(AccessNeedView) {
		return PrivilegeView
	}
	if a.Has(AccessNeedOperate) {
		return PrivilegeOperate
	}
	if a.Has(AccessNeedManage) {
		return PrivilegeManage
	}
	if a.Has(AccessNeedAdmin) {
		return PrivilegeAdminister
	}
	return PrivilegeView
}

// WritePrivilege returns the minimum privilege required to write.
func (a Access) WritePrivilege() Privilege {
	// Writes are granted at the highest required level.
	if a.Has(AccessNeedAdmin) {
		return PrivilegeAdminister
	}
	if a.Has(AccessNeedManage) {
		return PrivilegeManage
	}
	return PrivilegeOperate
}

// String returns a human-readable representation of the access bits.
func (a Access) String() string {
	if a == 0 {
		return "None"
	}

	var result string
	if a.Has(AccessRead) {
		result += "R"
	}
	if a.Has(AccessWrite) {
		result += "W"
	}
	if a.Has(AccessInvoke) {
		result += "I"
	}
	if a.Has(AccessNeedView) {
		result += "V"
	}
	if a.Has(AccessNeedOperate) {
		result += "O"
	}
	if a.Has(AccessNeedManage) {
		result += "M"
	}
	if a.Has(AccessNeedAdmin) {
		result += "A"
	}
	return result
}

// Quality defines quality flags for attributes.
// Spec: Section 7.7
type Quality uint8

// QualityNone marks an attribute with no quality flags.
const QualityNone Quality = 0

const (
	// QualityPersistent indicates data persisted across restarts (N quality).
	QualityPersistent Quality = 1 << iota

	// QualityNullable indicates the data type is nullable (X quality).
	QualityNullable

	// QualityFixed indicates read-only data that never changes (F quality).
	QualityFixed

	// QualityScene indicates the attribute is part of a scene (S quality).
	QualityScene

	// QualityReportable indicates the attribute supports reporting (P quality).
	QualityReportable
)

// Has returns true if the quality flags contain the specified flag(s).
func (q Quality) Has(flags Quality) bool {
	return q&flags == flags
}

// String returns a human-readable representation of the quality flags.
func (q Quality) String() string {
	if q == 0 {
		return "None"
	}

	var result string
	if q.Has(QualityPersistent) {
		result += "N"
	}
	if q.Has(QualityNullable) {
		result += "X"
	}
	if q.Has(QualityFixed) {
		result += "F"
	}
	if q.Has(QualityScene) {
		result += "S"
	}
	if q.Has(QualityReportable) {
		result += "P"
	}
	return result
}
