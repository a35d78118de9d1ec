// Package onoff implements the On/Off cluster (0x0006).
//
// The On/Off cluster provides commands and attributes to control an
// on/off state, such as a light switch or power outlet.
package onoff

import (
	"context"
	"sync"

	"github.com/pion/logging"

	"github.com/angelybo/matter-rs/pkg/datamodel"
	"github.com/angelybo/matter-rs/pkg/tlv"
)

// Cluster constants.
const (
	ClusterID       datamodel.ClusterID = 0x0006
	ClusterRevision uint16              = 4
)

// Attribute IDs.
const (
	AttrOnOff datamodel.AttributeID = 0x0000
)

// Command IDs.
const (
	CmdOff    datamodel.CommandID = 0x00
	CmdOn     datamodel.CommandID = 0x01
	CmdToggle datamodel.CommandID = 0x02
)

// CommandCallback observes a handled command and the resulting state.
// Callbacks run on the invoking goroutine, in registration order.
type CommandCallback func(endpoint datamodel.EndpointID, cmd datamodel.CommandID, on bool)

// Config provides dependencies for the On/Off cluster.
type Config struct {
	// State is shared with the hardware task (optional). When the
	// hardware reports a change out-of-band, reads reflect it before
	// the stored attribute catches up.
	State *State

	// InitialOnOff is the initial state if nothing was restored.
	InitialOnOff bool

	// LoggerFactory is the factory for creating loggers.
	// Defaults to the pion default factory if nil.
	LoggerFactory logging.LoggerFactory
}

// Cluster implements the On/Off cluster (0x0006).
type Cluster struct {
	base  *datamodel.ClusterBase
	state *State

	mu        sync.Mutex
	callbacks []CommandCallback

	log logging.LeveledLogger
}

// New creates a new On/Off cluster.
func New(cfg Config) (*Cluster, error) {
	base := datamodel.NewClusterBase(ClusterID)
	base.SetClusterRevision(ClusterRevision)

	a, err := datamodel.NewAttribute(AttrOnOff,
		datamodel.BoolValue(cfg.InitialOnOff),
		datamodel.AccessRV,
		datamodel.QualityPersistent|datamodel.QualityReportable)
	if err != nil {
		return nil, err
	}
	if err := base.AddAttribute(a); err != nil {
		return nil, err
	}

	loggerFactory := cfg.LoggerFactory
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}

	return &Cluster{
		base:  base,
		state: cfg.State,
		log:   loggerFactory.NewLogger("onoff"),
	}, nil
}

// Base implements datamodel.ClusterType.
func (c *Cluster) Base() *datamodel.ClusterBase {
	return c.base
}

// AcceptedCommands implements datamodel.ClusterType.
func (c *Cluster) AcceptedCommands() []datamodel.CommandEntry {
	return []datamodel.CommandEntry{
		datamodel.NewCommandEntry(CmdOff, datamodel.PrivilegeOperate),
		datamodel.NewCommandEntry(CmdOn, datamodel.PrivilegeOperate),
		datamodel.NewCommandEntry(CmdToggle, datamodel.PrivilegeOperate),
	}
}

// OnCommand registers a callback invoked after each handled command.
func (c *Cluster) OnCommand(cb CommandCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callbacks = append(c.callbacks, cb)
}

// IsOn returns the stored on/off state.
func (c *Cluster) IsOn() bool {
	v, err := c.base.ReadAttributeValue(AttrOnOff)
	if err != nil {
		return false
	}
	on, err := v.Bool()
	if err != nil {
		return false
	}
	return on
}

// Set stores a new on/off state. The write is conditional: if the state
// already matches, nothing changes and no dirty marker is recorded.
// Returns true if the state changed.
func (c *Cluster) Set(on bool) (bool, error) {
	if c.IsOn() == on {
		c.consumeFresh()
		return false, nil
	}
	if err := c.base.WriteAttributeValue(AttrOnOff, datamodel.BoolValue(on)); err != nil {
		return false, err
	}
	c.consumeFresh()
	return true, nil
}

// ReadAttribute implements datamodel.ClusterType. A fresh hardware
// update is folded into the stored attribute before the read.
func (c *Cluster) ReadAttribute(ctx context.Context, req datamodel.ReadAttributeRequest, w *tlv.Writer) error {
	if req.Path.Attribute == AttrOnOff {
		c.syncFromState()
	}
	return c.base.ReadAttributeDefault(req, w, c.AcceptedCommands())
}

// WriteAttribute implements datamodel.ClusterType. OnOff itself is
// read-only; writes arrive only through commands.
func (c *Cluster) WriteAttribute(ctx context.Context, req datamodel.WriteAttributeRequest, el *tlv.Element) error {
	return c.base.WriteAttributeDefault(req, el)
}

// HandleCommand implements datamodel.ClusterType.
func (c *Cluster) HandleCommand(ctx context.Context, req *datamodel.CommandRequest) error {
	var (
		target bool
		err    error
	)

	switch req.Path.Command {
	case CmdOff:
		target = false
		_, err = c.Set(false)
	case CmdOn:
		target = true
		_, err = c.Set(true)
	case CmdToggle:
		// Unconditional negation. A non-boolean stored value reads
		// as false, so a toggle lands on true.
		target = !c.IsOn()
		err = c.base.WriteAttributeValue(AttrOnOff, datamodel.BoolValue(target))
		c.consumeFresh()
	default:
		return datamodel.ErrCommandNotFound
	}
	if err != nil {
		return err
	}

	c.notify(req.Path.Endpoint, req.Path.Command, target)
	req.Trans.Complete()
	return nil
}

// notify runs the registered callbacks in order, containing panics so a
// broken observer cannot fail the command.
func (c *Cluster) notify(endpoint datamodel.EndpointID, cmd datamodel.CommandID, on bool) {
	c.mu.Lock()
	callbacks := make([]CommandCallback, len(c.callbacks))
	copy(callbacks, c.callbacks)
	c.mu.Unlock()

	for _, cb := range callbacks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.log.Errorf("command callback panic: %v", r)
				}
			}()
			cb(endpoint, cmd, on)
		}()
	}
}

// syncFromState folds a fresh hardware update into the stored attribute.
func (c *Cluster) syncFromState() {
	if c.state == nil {
		return
	}
	on, fresh := c.state.take()
	if !fresh {
		return
	}
	if c.IsOn() != on {
		if err := c.base.WriteAttributeValue(AttrOnOff, datamodel.BoolValue(on)); err != nil {
			c.log.Errorf("state sync: %v", err)
		}
	}
}

// consumeFresh discards a pending hardware update once a command has
// written the attribute.
func (c *Cluster) consumeFresh() {
	if c.state != nil {
		c.state.take()
	}
}
