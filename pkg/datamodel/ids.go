package datamodel

// Fundamental ID types used throughout the data model.
type (
	// EndpointID is a 16-bit endpoint identifier.
	EndpointID uint16

	// ClusterID is a 32-bit cluster identifier.
	ClusterID uint32

	// AttributeID is a 16-bit attribute identifier, widened for the
	// global attribute range.
	AttributeID uint32

	// CommandID is a 32-bit command identifier.
	CommandID uint32

	// DeviceTypeID is a 32-bit device type identifier.
	DeviceTypeID uint32

	// DataVersion is a 32-bit version number for cluster attribute data.
	DataVersion uint32
)

// RootEndpointID is reserved for the root node endpoint. Endpoints added
// through Node.AddEndpoint are numbered from 1.
const RootEndpointID EndpointID = 0

// System attribute IDs are synthesised by the cluster base rather than
// stored (feature map, cluster revision, discovery lists).
// Spec: Section 7.13, Table 93
const (
	// SystemAttrIDMin is the first ID of the reserved system range.
	SystemAttrIDMin AttributeID = 0xF000

	// SystemAttrIDMax is the last ID of the reserved system range.
	SystemAttrIDMax AttributeID = 0xFFFE

	// GlobalAttrGeneratedCommandList (0xFFF8) lists generated command IDs.
	GlobalAttrGeneratedCommandList AttributeID = 0xFFF8

	// GlobalAttrAcceptedCommandList (0xFFF9) lists accepted command IDs.
	GlobalAttrAcceptedCommandList AttributeID = 0xFFF9

	// GlobalAttrAttributeList (0xFFFB) lists all supported attribute IDs.
	GlobalAttrAttributeList AttributeID = 0xFFFB

	// GlobalAttrFeatureMap (0xFFFC) indicates supported optional features.
	GlobalAttrFeatureMap AttributeID = 0xFFFC

	// GlobalAttrClusterRevision (0xFFFD) indicates the cluster revision.
	GlobalAttrClusterRevision AttributeID = 0xFFFD
)

// IsSystemAttribute returns true if the attribute ID falls in the reserved
// system range synthesised by the cluster base.
func IsSystemAttribute(id AttributeID) bool {
	return id >= SystemAttrIDMin && id <= SystemAttrIDMax
}

// ConcreteClusterPath identifies a specific cluster instance on an endpoint.
type ConcreteClusterPath struct {
	Endpoint EndpointID
	Cluster  ClusterID
}

// ConcreteAttributePath identifies a specific attribute within a cluster.
type ConcreteAttributePath struct {
	Endpoint  EndpointID
	Cluster   ClusterID
	Attribute AttributeID
}

// ClusterPath returns the cluster path portion.
func (p ConcreteAttributePath) ClusterPath() ConcreteClusterPath {
	return ConcreteClusterPath{Endpoint: p.Endpoint, Cluster: p.Cluster}
}

// ConcreteCommandPath identifies a specific command within a cluster.
type ConcreteCommandPath struct {
	Endpoint EndpointID
	Cluster  ClusterID
	Command  CommandID
}

// ClusterPath returns the cluster path portion.
func (p ConcreteCommandPath) ClusterPath() ConcreteClusterPath {
	return ConcreteClusterPath{Endpoint: p.Endpoint, Cluster: p.Cluster}
}

// DeviceTypeEntry describes a device type present on an endpoint.
type DeviceTypeEntry struct {
	// DeviceType is the device type identifier.
	DeviceType DeviceTypeID

	// Revision is the device type revision.
	Revision uint16
}
