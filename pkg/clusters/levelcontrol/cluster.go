// Package levelcontrol implements the Level Control cluster (0x0008).
//
// The Level Control cluster provides commands to move a device between
// levels, such as a dimmable light, with optional timed transitions and
// coupling to a companion On/Off cluster.
package levelcontrol

import (
	"context"
	"sync"
	"time"

	"github.com/pion/logging"

	"github.com/angelybo/matter-rs/pkg/datamodel"
	"github.com/angelybo/matter-rs/pkg/tlv"
)

// Cluster constants.
const (
	ClusterID       datamodel.ClusterID = 0x0008
	ClusterRevision uint16              = 5
)

// Attribute IDs.
const (
	AttrCurrentLevel        datamodel.AttributeID = 0x0000
	AttrRemainingTime       datamodel.AttributeID = 0x0001
	AttrMinLevel            datamodel.AttributeID = 0x0002
	AttrMaxLevel            datamodel.AttributeID = 0x0003
	AttrOptions             datamodel.AttributeID = 0x000F
	AttrOnLevel             datamodel.AttributeID = 0x0011
	AttrStartUpCurrentLevel datamodel.AttributeID = 0x4000
)

// Command IDs.
const (
	CmdMoveToLevel            datamodel.CommandID = 0x00
	CmdMove                   datamodel.CommandID = 0x01
	CmdStep                   datamodel.CommandID = 0x02
	CmdStop                   datamodel.CommandID = 0x03
	CmdMoveToLevelWithOnOff   datamodel.CommandID = 0x04
	CmdMoveWithOnOff          datamodel.CommandID = 0x05
	CmdStepWithOnOff          datamodel.CommandID = 0x06
	CmdStopWithOnOff          datamodel.CommandID = 0x07
	CmdMoveToClosestFrequency datamodel.CommandID = 0x08
)

// Move and step modes.
const (
	MoveModeUp   uint8 = 0
	MoveModeDown uint8 = 1
)

// OptionsExecuteIfOff lets non-coupled commands run while the device is
// off.
const OptionsExecuteIfOff uint8 = 1 << 0

// Level bounds.
const (
	DefaultMinLevel uint8 = 0
	DefaultMaxLevel uint8 = 254
)

// defaultMoveRate is the rate, in units per second, used when a Move
// command carries rate 0.
const defaultMoveRate = 50

// transitionUnit is the wire unit of transition times (tenths of a
// second).
const transitionUnit = 100 * time.Millisecond

// immediateTransition is the wire value requesting no transition.
const immediateTransition uint16 = 0xFFFF

// OnOffCompanion couples level changes to an On/Off cluster on the same
// endpoint. The *WithOnOff commands drive it.
type OnOffCompanion interface {
	// Set stores a new on/off state, reporting whether it changed.
	Set(on bool) (bool, error)

	// IsOn returns the current on/off state.
	IsOn() bool
}

// Config provides dependencies for the Level Control cluster.
type Config struct {
	// OnOff is the companion cluster driven by the *WithOnOff
	// commands (optional).
	OnOff OnOffCompanion

	// InitialLevel is the level if nothing was restored.
	InitialLevel uint8

	// TickInterval is the animation step period.
	// Defaults to DefaultTickInterval if 0.
	TickInterval time.Duration

	// LoggerFactory is the factory for creating loggers.
	// Defaults to the pion default factory if nil.
	LoggerFactory logging.LoggerFactory
}

// Cluster implements the Level Control cluster (0x0008).
type Cluster struct {
	base  *datamodel.ClusterBase
	onOff OnOffCompanion

	mu        sync.Mutex
	level     uint8
	remaining uint16

	anim *animator

	log logging.LeveledLogger
}

// New creates a new Level Control cluster.
func New(cfg Config) (*Cluster, error) {
	base := datamodel.NewClusterBase(ClusterID)
	base.SetClusterRevision(ClusterRevision)

	level := clampLevel(cfg.InitialLevel)

	type attrSpec struct {
		id      datamodel.AttributeID
		value   datamodel.AttrValue
		access  datamodel.Access
		quality datamodel.Quality
	}
	specs := []attrSpec{
		{AttrCurrentLevel, datamodel.Uint8Value(level), datamodel.AccessRV, datamodel.QualityPersistent | datamodel.QualityReportable},
		{AttrRemainingTime, datamodel.Uint16Value(0), datamodel.AccessRV, datamodel.QualityNone},
		{AttrMinLevel, datamodel.Uint8Value(DefaultMinLevel), datamodel.AccessRV, datamodel.QualityFixed},
		{AttrMaxLevel, datamodel.Uint8Value(DefaultMaxLevel), datamodel.AccessRV, datamodel.QualityFixed},
		{AttrOptions, datamodel.Uint8Value(0), datamodel.AccessRWVO, datamodel.QualityNone},
		{AttrOnLevel, datamodel.Uint8Value(0), datamodel.AccessRWVO, datamodel.QualityNone},
		{AttrStartUpCurrentLevel, datamodel.Uint8Value(level), datamodel.AccessRWVM, datamodel.QualityPersistent},
	}
	for _, s := range specs {
		a, err := datamodel.NewAttribute(s.id, s.value, s.access, s.quality)
		if err != nil {
			return nil, err
		}
		if err := base.AddAttribute(a); err != nil {
			return nil, err
		}
	}

	loggerFactory := cfg.LoggerFactory
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}
	log := loggerFactory.NewLogger("levelcontrol")

	c := &Cluster{
		base:  base,
		onOff: cfg.OnOff,
		level: level,
		log:   log,
	}
	c.anim = newAnimator(c, cfg.TickInterval, log)
	return c, nil
}

// Base implements datamodel.ClusterType.
func (c *Cluster) Base() *datamodel.ClusterBase {
	return c.base
}

// AcceptedCommands implements datamodel.ClusterType.
func (c *Cluster) AcceptedCommands() []datamodel.CommandEntry {
	return []datamodel.CommandEntry{
		datamodel.NewCommandEntry(CmdMoveToLevel, datamodel.PrivilegeOperate),
		datamodel.NewCommandEntry(CmdMove, datamodel.PrivilegeOperate),
		datamodel.NewCommandEntry(CmdStep, datamodel.PrivilegeOperate),
		datamodel.NewCommandEntry(CmdStop, datamodel.PrivilegeOperate),
		datamodel.NewCommandEntry(CmdMoveToLevelWithOnOff, datamodel.PrivilegeOperate),
		datamodel.NewCommandEntry(CmdMoveWithOnOff, datamodel.PrivilegeOperate),
		datamodel.NewCommandEntry(CmdStepWithOnOff, datamodel.PrivilegeOperate),
		datamodel.NewCommandEntry(CmdStopWithOnOff, datamodel.PrivilegeOperate),
		datamodel.NewCommandEntry(CmdMoveToClosestFrequency, datamodel.PrivilegeOperate),
	}
}

// CurrentLevel returns the live level, including mid-transition values.
func (c *Cluster) CurrentLevel() uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.level
}

// RemainingTime returns the remaining transition time in tenths of a
// second.
func (c *Cluster) RemainingTime() uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Close stops any running transition. The cluster ignores commands
// after Close only in the sense that no animation goroutine remains;
// it is intended for shutdown.
func (c *Cluster) Close() {
	c.anim.stop()
}

// ReadAttribute implements datamodel.ClusterType. The live transition
// state is folded into the stored attributes before the read.
func (c *Cluster) ReadAttribute(ctx context.Context, req datamodel.ReadAttributeRequest, w *tlv.Writer) error {
	switch req.Path.Attribute {
	case AttrCurrentLevel, AttrRemainingTime:
		c.syncStored()
	}
	return c.base.ReadAttributeDefault(req, w, c.AcceptedCommands())
}

// WriteAttribute implements datamodel.ClusterType.
func (c *Cluster) WriteAttribute(ctx context.Context, req datamodel.WriteAttributeRequest, el *tlv.Element) error {
	return c.base.WriteAttributeDefault(req, el)
}

// HandleCommand implements datamodel.ClusterType.
func (c *Cluster) HandleCommand(ctx context.Context, req *datamodel.CommandRequest) error {
	var err error

	switch req.Path.Command {
	case CmdMoveToLevel:
		err = c.handleMoveToLevel(req.Data, false)
	case CmdMoveToLevelWithOnOff:
		err = c.handleMoveToLevel(req.Data, true)
	case CmdMove:
		err = c.handleMove(req.Data, false)
	case CmdMoveWithOnOff:
		err = c.handleMove(req.Data, true)
	case CmdStep:
		err = c.handleStep(req.Data, false)
	case CmdStepWithOnOff:
		err = c.handleStep(req.Data, true)
	case CmdStop, CmdStopWithOnOff:
		c.handleStop()
	case CmdMoveToClosestFrequency:
		// Frequency control is not supported; the command is accepted
		// and has no effect.
	default:
		return datamodel.ErrCommandNotFound
	}
	if err != nil {
		return err
	}

	req.Trans.Complete()
	return nil
}

// handleMoveToLevel decodes [level, transitionTime] and starts the
// transition.
func (c *Cluster) handleMoveToLevel(data *tlv.Element, withOnOff bool) error {
	fields, err := commandFields(data)
	if err != nil {
		return err
	}

	level, err := fieldUint8(fields, 0, true)
	if err != nil {
		return err
	}
	tt, err := fieldUint16(fields, 1, false)
	if err != nil {
		return err
	}

	if !c.shouldExecute(withOnOff) {
		return nil
	}

	target := clampLevel(level)
	c.coupleOn(withOnOff, target)
	c.anim.start(target, transitionDuration(tt), func() {
		c.coupleOff(withOnOff, target)
	})
	return nil
}

// handleMove decodes [moveMode, rate] and starts a bounded move toward
// the relevant limit.
func (c *Cluster) handleMove(data *tlv.Element, withOnOff bool) error {
	fields, err := commandFields(data)
	if err != nil {
		return err
	}

	mode, err := fieldUint8(fields, 0, true)
	if err != nil {
		return err
	}
	rate, err := fieldUint8(fields, 1, false)
	if err != nil {
		return err
	}
	if mode != MoveModeUp && mode != MoveModeDown {
		return datamodel.ErrConstraintError
	}
	if rate == 0 {
		rate = defaultMoveRate
	}

	if !c.shouldExecute(withOnOff) {
		return nil
	}

	target := DefaultMaxLevel
	if mode == MoveModeDown {
		target = DefaultMinLevel
	}

	distance := levelDistance(c.CurrentLevel(), target)
	duration := time.Duration(distance) * time.Second / time.Duration(rate)

	c.coupleOn(withOnOff, target)
	c.anim.start(target, duration, func() {
		c.coupleOff(withOnOff, target)
	})
	return nil
}

// handleStep decodes [stepMode, stepSize, transitionTime] and moves by
// the clamped step.
func (c *Cluster) handleStep(data *tlv.Element, withOnOff bool) error {
	fields, err := commandFields(data)
	if err != nil {
		return err
	}

	mode, err := fieldUint8(fields, 0, true)
	if err != nil {
		return err
	}
	size, err := fieldUint8(fields, 1, true)
	if err != nil {
		return err
	}
	tt, err := fieldUint16(fields, 2, false)
	if err != nil {
		return err
	}
	if mode != MoveModeUp && mode != MoveModeDown {
		return datamodel.ErrConstraintError
	}

	if !c.shouldExecute(withOnOff) {
		return nil
	}

	target := stepLevel(c.CurrentLevel(), mode, size)
	c.coupleOn(withOnOff, target)
	c.anim.start(target, transitionDuration(tt), func() {
		c.coupleOff(withOnOff, target)
	})
	return nil
}

// handleStop cancels any running transition and zeroes RemainingTime.
func (c *Cluster) handleStop() {
	c.anim.stop()

	c.mu.Lock()
	c.remaining = 0
	c.mu.Unlock()
	c.syncStored()
}

// shouldExecute implements the ExecuteIfOff gate: non-coupled commands
// are ignored while the companion reports off, unless the Options bit
// allows them.
func (c *Cluster) shouldExecute(withOnOff bool) bool {
	if withOnOff || c.onOff == nil {
		return true
	}
	if c.onOff.IsOn() {
		return true
	}
	v, err := c.base.ReadAttributeValue(AttrOptions)
	if err != nil {
		return false
	}
	opts, err := v.Uint8()
	if err != nil {
		return false
	}
	return opts&OptionsExecuteIfOff != 0
}

// coupleOn turns the companion on before a coupled move to a non-zero
// level.
func (c *Cluster) coupleOn(withOnOff bool, target uint8) {
	if !withOnOff || c.onOff == nil || target == DefaultMinLevel {
		return
	}
	if _, err := c.onOff.Set(true); err != nil {
		c.log.Errorf("companion on: %v", err)
	}
}

// coupleOff turns the companion off once a coupled move reached the
// minimum level.
func (c *Cluster) coupleOff(withOnOff bool, target uint8) {
	if !withOnOff || c.onOff == nil || target != DefaultMinLevel {
		return
	}
	if _, err := c.onOff.Set(false); err != nil {
		c.log.Errorf("companion off: %v", err)
	}
}

// setLevel records a new live level. Called by the animator.
func (c *Cluster) setLevel(level uint8, remaining uint16) {
	c.mu.Lock()
	c.level = level
	c.remaining = remaining
	c.mu.Unlock()
}

// syncStored folds the live level and remaining time into the stored
// attributes.
func (c *Cluster) syncStored() {
	c.mu.Lock()
	level, remaining := c.level, c.remaining
	c.mu.Unlock()

	if v, err := c.base.ReadAttributeValue(AttrCurrentLevel); err == nil {
		if cur, err := v.Uint8(); err == nil && cur != level {
			if err := c.base.WriteAttributeValue(AttrCurrentLevel, datamodel.Uint8Value(level)); err != nil {
				c.log.Errorf("level sync: %v", err)
			}
		}
	}
	if v, err := c.base.ReadAttributeValue(AttrRemainingTime); err == nil {
		if cur, err := v.Uint16(); err == nil && cur != remaining {
			if err := c.base.WriteAttributeValue(AttrRemainingTime, datamodel.Uint16Value(remaining)); err != nil {
				c.log.Errorf("remaining time sync: %v", err)
			}
		}
	}
}

// transitionDuration converts a wire transition time to a duration.
// Zero and 0xFFFF request an immediate change.
func transitionDuration(tt uint16) time.Duration {
	if tt == 0 || tt == immediateTransition {
		return 0
	}
	return time.Duration(tt) * transitionUnit
}

// clampLevel bounds a level to [DefaultMinLevel, DefaultMaxLevel].
func clampLevel(level uint8) uint8 {
	if level > DefaultMaxLevel {
		return DefaultMaxLevel
	}
	if level < DefaultMinLevel {
		return DefaultMinLevel
	}
	return level
}

// stepLevel applies a step with clamped arithmetic, so an over-long
// step saturates at the bound instead of wrapping.
func stepLevel(current uint8, mode, size uint8) uint8 {
	if mode == MoveModeUp {
		if current > DefaultMaxLevel-size {
			return DefaultMaxLevel
		}
		return current + size
	}
	if current < DefaultMinLevel+size {
		return DefaultMinLevel
	}
	return current - size
}

// levelDistance returns the absolute distance between two levels.
func levelDistance(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

// commandFields collects the positional fields of a command payload.
// A nil payload yields no fields; a struct payload yields its children
// in order.
func commandFields(data *tlv.Element) ([]*tlv.Element, error) {
	if data == nil {
		return nil, nil
	}
	it, err := data.Enter()
	if err != nil {
		return nil, datamodel.ErrInvalidData
	}
	var fields []*tlv.Element
	for {
		el, ok := it.Next()
		if !ok {
			break
		}
		fields = append(fields, el)
	}
	return fields, nil
}

// fieldUint8 extracts positional field i as a uint8. Required fields
// must be present; optional missing fields read as 0.
func fieldUint8(fields []*tlv.Element, i int, required bool) (uint8, error) {
	if i >= len(fields) {
		if required {
			return 0, datamodel.ErrInvalidData
		}
		return 0, nil
	}
	v, err := fields[i].Uint8()
	if err != nil {
		return 0, datamodel.ErrInvalidDataType
	}
	return v, nil
}

// fieldUint16 extracts positional field i as a uint16.
func fieldUint16(fields []*tlv.Element, i int, required bool) (uint16, error) {
	if i >= len(fields) {
		if required {
			return 0, datamodel.ErrInvalidData
		}
		return 0, nil
	}
	v, err := fields[i].Uint16()
	if err != nil {
		return 0, datamodel.ErrInvalidDataType
	}
	return v, nil
}
