package datamodel

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"sync/atomic"

	"github.com/angelybo/matter-rs/pkg/tlv"
)

// MaxAttributesPerCluster bounds the attribute list of one cluster instance.
const MaxAttributesPerCluster = 32

// DefaultClusterRevision is the revision a fresh cluster base reports.
const DefaultClusterRevision uint16 = 1

// DirtyFunc records that a persistent attribute changed. The node injects
// it at construction; implementations must be non-blocking best effort.
type DirtyFunc func(endpoint EndpointID, cluster ClusterID, attr AttributeID, value AttrValue)

// ClusterBase provides common storage and behavior for cluster
// implementations: the attribute list, the feature map and revision words,
// the data version, and the dirty marker toward the external store.
// Embed it in a concrete cluster to satisfy the structural half of
// ClusterType.
type ClusterBase struct {
	id          ClusterID
	endpointID  EndpointID
	revision    uint16
	featureMap  uint32
	dataVersion atomic.Uint32

	mu    sync.RWMutex
	attrs []Attribute

	onDirty DirtyFunc
}

// NewClusterBase creates a cluster base with FeatureMap 0, revision 1 and
// an empty attribute list. The data version starts at a random value.
func NewClusterBase(id ClusterID) *ClusterBase {
	cb := &ClusterBase{
		id:       id,
		revision: DefaultClusterRevision,
	}
	cb.dataVersion.Store(randomDataVersion())
	return cb
}

// bind attaches the base to its endpoint and the node's dirty callback.
// Called by Node.AddCluster during registration.
func (c *ClusterBase) bind(endpointID EndpointID, onDirty DirtyFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endpointID = endpointID
	c.onDirty = onDirty
}

// ID returns the cluster ID.
func (c *ClusterBase) ID() ClusterID {
	return c.id
}

// EndpointID returns the endpoint this cluster is registered under.
// Zero before registration.
func (c *ClusterBase) EndpointID() EndpointID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.endpointID
}

// ClusterRevision returns the cluster revision.
func (c *ClusterBase) ClusterRevision() uint16 {
	return c.revision
}

// SetClusterRevision sets the cluster revision. For initialization only.
func (c *ClusterBase) SetClusterRevision(rev uint16) {
	c.revision = rev
}

// FeatureMap returns the feature map word.
func (c *ClusterBase) FeatureMap() uint32 {
	return c.featureMap
}

// SetFeatureMap sets the feature map bits. For initialization only.
func (c *ClusterBase) SetFeatureMap(features uint32) {
	c.featureMap = features
}

// DataVersion returns the current data version.
func (c *ClusterBase) DataVersion() DataVersion {
	return DataVersion(c.dataVersion.Load())
}

// IncrementDataVersion increments the data version. The base calls this on
// every successful attribute write.
func (c *ClusterBase) IncrementDataVersion() {
	c.dataVersion.Add(1)
}

// AddAttribute appends an attribute to the cluster.
// Returns ErrAttributeExists for a duplicate ID.
func (c *ClusterBase) AddAttribute(a Attribute) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.attrs) >= MaxAttributesPerCluster {
		return ErrTooManyAttributes
	}
	if c.indexOf(a.ID) >= 0 {
		return ErrAttributeExists
	}

	c.attrs = append(c.attrs, a)
	return nil
}

// AddAttributes appends several attributes; it stops at the first failure.
func (c *ClusterBase) AddAttributes(attrs ...Attribute) error {
	for _, a := range attrs {
		if err := c.AddAttribute(a); err != nil {
			return err
		}
	}
	return nil
}

// Attribute returns a copy of the attribute with the given ID.
func (c *ClusterBase) Attribute(id AttributeID) (Attribute, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := c.indexOf(id)
	if i < 0 {
		return Attribute{}, ErrAttributeNotFound
	}
	return c.attrs[i], nil
}

// AttributeIDs returns the user attribute IDs in registration order.
func (c *ClusterBase) AttributeIDs() []AttributeID {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]AttributeID, len(c.attrs))
	for i := range c.attrs {
		ids[i] = c.attrs[i].ID
	}
	return ids
}

// ReadAttributeValue returns the stored value of the attribute.
func (c *ClusterBase) ReadAttributeValue(id AttributeID) (AttrValue, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := c.indexOf(id)
	if i < 0 {
		return AttrValue{}, ErrAttributeNotFound
	}
	return c.attrs[i].Value, nil
}

// WriteAttributeValue stores a new value. The write is type-preserving:
// the variant must match the stored one. Fixed attributes reject writes.
// A successful write bumps the data version and, for persistent
// attributes, records the dirty marker.
func (c *ClusterBase) WriteAttributeValue(id AttributeID, v AttrValue) error {
	c.mu.Lock()

	i := c.indexOf(id)
	if i < 0 {
		c.mu.Unlock()
		return ErrAttributeNotFound
	}

	a := &c.attrs[i]
	if a.Quality.Has(QualityFixed) {
		c.mu.Unlock()
		return ErrUnsupportedWrite
	}
	if v.Type() != a.Value.Type() {
		c.mu.Unlock()
		return ErrInvalidDataType
	}

	a.Value = v
	persistent := a.IsPersistent()
	onDirty := c.onDirty
	endpoint := c.endpointID
	c.mu.Unlock()

	c.IncrementDataVersion()
	if persistent && onDirty != nil {
		onDirty(endpoint, c.id, id, v)
	}
	return nil
}

// WriteAttributeFromTLV decodes the element as the attribute's stored
// variant and writes it. Variant mismatch yields ErrInvalidDataType,
// range overflow ErrConstraintError.
func (c *ClusterBase) WriteAttributeFromTLV(id AttributeID, el *tlv.Element) error {
	cur, err := c.ReadAttributeValue(id)
	if err != nil {
		return err
	}

	v, err := DecodeValue(cur.Type(), el)
	if err != nil {
		return err
	}
	return c.WriteAttributeValue(id, v)
}

// ReadGlobalAttribute synthesises the system attributes from the base and
// the cluster's command metadata. Returns true if the attribute ID was a
// system attribute (whether or not encoding succeeded).
func (c *ClusterBase) ReadGlobalAttribute(id AttributeID, w *tlv.Writer, accepted []CommandEntry) (bool, error) {
	if !IsSystemAttribute(id) {
		return false, nil
	}

	switch id {
	case GlobalAttrClusterRevision:
		return true, w.PutUint(tlv.Anonymous(), uint64(c.revision))

	case GlobalAttrFeatureMap:
		return true, w.PutUint(tlv.Anonymous(), uint64(c.featureMap))

	case GlobalAttrAttributeList:
		if err := w.StartArray(tlv.Anonymous()); err != nil {
			return true, err
		}
		for _, attrID := range c.AttributeIDs() {
			if err := w.PutUint(tlv.Anonymous(), uint64(attrID)); err != nil {
				return true, err
			}
		}
		for _, attrID := range globalAttributeIDs {
			if err := w.PutUint(tlv.Anonymous(), uint64(attrID)); err != nil {
				return true, err
			}
		}
		return true, w.EndContainer()

	case GlobalAttrAcceptedCommandList:
		if err := w.StartArray(tlv.Anonymous()); err != nil {
			return true, err
		}
		for _, cmd := range accepted {
			if err := w.PutUint(tlv.Anonymous(), uint64(cmd.ID)); err != nil {
				return true, err
			}
		}
		return true, w.EndContainer()

	case GlobalAttrGeneratedCommandList:
		if err := w.StartArray(tlv.Anonymous()); err != nil {
			return true, err
		}
		return true, w.EndContainer()

	default:
		return true, ErrUnsupportedAttribute
	}
}

// globalAttributeIDs are reported by every cluster's AttributeList.
var globalAttributeIDs = []AttributeID{
	GlobalAttrGeneratedCommandList,
	GlobalAttrAcceptedCommandList,
	GlobalAttrAttributeList,
	GlobalAttrFeatureMap,
	GlobalAttrClusterRevision,
}

// indexOf returns the position of the attribute or -1. Caller holds c.mu.
func (c *ClusterBase) indexOf(id AttributeID) int {
	for i := range c.attrs {
		if c.attrs[i].ID == id {
			return i
		}
	}
	return -1
}

// randomDataVersion generates a random initial data version.
func randomDataVersion() uint32 {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Fallback to a fixed value if random fails
		return 1
	}
	return binary.LittleEndian.Uint32(buf[:])
}
