package datamodel

import (
	"context"
	"sync"

	"github.com/angelybo/matter-rs/pkg/tlv"
)

// ClusterType is the capability contract every concrete cluster satisfies.
// The node and dispatcher treat registered clusters uniformly through it.
type ClusterType interface {
	// Base returns the cluster's structural storage.
	Base() *ClusterBase

	// AcceptedCommands returns metadata for the commands the cluster accepts,
	// used for dispatch resolution, access checks and discovery.
	AcceptedCommands() []CommandEntry

	// ReadAttribute encodes an attribute value into the writer. The default
	// path delegates to the base with access checks; clusters override it
	// for Custom attributes and asynchronously updated state.
	ReadAttribute(ctx context.Context, req ReadAttributeRequest, w *tlv.Writer) error

	// WriteAttribute decodes and stores an attribute value.
	WriteAttribute(ctx context.Context, req WriteAttributeRequest, el *tlv.Element) error

	// HandleCommand executes one command against the cluster. A nil error
	// means success; the dispatcher maps errors to IM statuses.
	HandleCommand(ctx context.Context, req *CommandRequest) error
}

// CommandEntry describes an accepted command's metadata.
type CommandEntry struct {
	// ID is the command identifier.
	ID CommandID

	// InvokePrivilege is the minimum privilege required to invoke.
	InvokePrivilege Privilege
}

// NewCommandEntry creates a command entry.
func NewCommandEntry(id CommandID, invokePriv Privilege) CommandEntry {
	return CommandEntry{ID: id, InvokePrivilege: invokePriv}
}

// FindCommand searches a command list for a specific command ID.
// Returns nil if not found.
func FindCommand(list []CommandEntry, id CommandID) *CommandEntry {
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	return nil
}

// SubjectDescriptor carries the authenticated subject of a request.
// A nil subject marks an internal operation that bypasses access checks.
// Full multi-fabric ACL evaluation plugs in here; this data model gates on
// the resolved privilege only.
type SubjectDescriptor struct {
	// NodeID is the operational node ID of the subject.
	NodeID uint64

	// FabricIndex identifies the fabric the subject belongs to.
	FabricIndex uint8

	// Privilege is the subject's granted privilege against this node.
	Privilege Privilege
}

// Allows returns true if the subject may perform an operation requiring
// the given privilege.
func (s *SubjectDescriptor) Allows(required Privilege) bool {
	if s == nil {
		return true
	}
	return s.Privilege >= required
}

// ReadAttributeRequest contains parameters for reading an attribute.
type ReadAttributeRequest struct {
	// Path identifies the attribute to read.
	Path ConcreteAttributePath

	// Subject is the requesting subject; nil for internal operations.
	Subject *SubjectDescriptor
}

// WriteAttributeRequest contains parameters for writing an attribute.
type WriteAttributeRequest struct {
	// Path identifies the attribute to write.
	Path ConcreteAttributePath

	// Subject is the requesting subject; nil for internal operations.
	Subject *SubjectDescriptor
}

// CommandRequest contains parameters for invoking a command.
type CommandRequest struct {
	// Path identifies the command to invoke.
	Path ConcreteCommandPath

	// Data is the decoded command payload, iterated positionally.
	// May be nil for commands without fields.
	Data *tlv.Element

	// Subject is the requesting subject; nil for internal operations.
	Subject *SubjectDescriptor

	// Trans is the completion handle for the interaction.
	Trans *Transaction
}

// Transaction is the completion handle a command handler marks when its
// work is done.
type Transaction struct {
	mu        sync.Mutex
	completed bool
}

// NewTransaction returns a fresh, incomplete transaction.
func NewTransaction() *Transaction {
	return &Transaction{}
}

// Complete marks the handler finished.
func (t *Transaction) Complete() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.completed = true
}

// Completed returns true once the handler marked the transaction done.
func (t *Transaction) Completed() bool {
	if t == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completed
}

// ReadAttributeDefault is the default read path: system attributes are
// synthesised from the base, others are access-checked and encoded from
// storage. Clusters with Custom attributes or async state wrap it.
func (c *ClusterBase) ReadAttributeDefault(req ReadAttributeRequest, w *tlv.Writer, accepted []CommandEntry) error {
	if handled, err := c.ReadGlobalAttribute(req.Path.Attribute, w, accepted); handled {
		return err
	}

	a, err := c.Attribute(req.Path.Attribute)
	if err != nil {
		return err
	}
	if !a.IsReadable() {
		return ErrUnsupportedRead
	}
	if !req.Subject.Allows(a.Access.ReadPrivilege()) {
		return ErrAccessDenied
	}
	if a.Value.IsCustom() {
		// The cluster advertises a custom reader but did not override.
		return ErrUnsupportedAttribute
	}
	return a.Value.Encode(w)
}

// WriteAttributeDefault is the default write path: access-checked,
// type-preserving decode into the base.
func (c *ClusterBase) WriteAttributeDefault(req WriteAttributeRequest, el *tlv.Element) error {
	a, err := c.Attribute(req.Path.Attribute)
	if err != nil {
		return err
	}
	if !a.IsWritable() {
		return ErrUnsupportedWrite
	}
	if !req.Subject.Allows(a.Access.WritePrivilege()) {
		return ErrAccessDenied
	}
	return c.WriteAttributeFromTLV(req.Path.Attribute, el)
}
