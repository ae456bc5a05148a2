// Package input implements the per-subscription Input object and the
// registry that scans a federate core for pending updates, decodes them
// through the value codec and unit bridge, runs change detection, and
// dispatches typed and notification callbacks.
package input

import (
	"time"

	"github.com/beroset/HELICS/codec"
	herrors "github.com/beroset/HELICS/errors"
	"github.com/beroset/HELICS/federate"
	"github.com/beroset/HELICS/units"
	"github.com/beroset/HELICS/value"
)

// target is one publication bound to an Input via AddTarget. Each target
// gets its own Core handle so several simultaneously-connected publications
// can each deliver a raw buffer independently; Reduce combines them.
type target struct {
	name           string
	handle         federate.Handle
	injectionType  string
	injectionUnits string
	unitsLoaded    bool
}

// Input is a federate's typed subscription: conversion policy, change
// detection, multi-target reduction, and callback dispatch for one declared
// interface. Input is not safe for concurrent use — the value-federate
// layer is called from a single goroutine per federate; only the Core
// implementations underneath it may run their own background goroutines.
type Input struct {
	core   federate.Core
	handle federate.Handle
	owner  *Registry

	name        string
	localName   string
	displayName string
	info        string

	targetType    value.Type
	hasTargetType bool
	isCustom      bool
	customName    string
	customCodec   CustomCodec
	customCompare CustomComparator
	customSchema  *customSchema
	customStored  any
	hasCustom     bool

	targets []target
	policy  Policy

	outputUnits      string
	reportSaturation bool

	stored    value.Value
	hasStored bool

	hasDefault   bool
	defaultValue value.Value

	hasUpdate bool

	changeDetect bool
	minDelta     float64

	callback     *TypedCallback
	notification func(t value.SimTime)

	lastUpdateTime value.SimTime
	lastRaw        []byte

	closed          bool
	shapeFrozen     bool
	executionActive bool

	lastErr         error
	errorCount      int
	unitConversions int
	createdAt       time.Time
	lastCheck       time.Time
}

// NewInput declares a new input named name against core, registering its
// primary handle immediately. The target type starts unknown and is
// inferred from the first successfully decoded publication unless
// SetTargetType is called first.
func NewInput(core federate.Core, name string) *Input {
	return &Input{
		core:        core,
		handle:      core.Register(name),
		name:        name,
		displayName: name,
		policy:      Passthrough,
		createdAt:   time.Now(),
	}
}

// Name returns the input's declared name.
func (in *Input) Name() string { return in.name }

// SetLocalName sets the input's federate-local alias.
func (in *Input) SetLocalName(name string) error {
	if in.shapeFrozen {
		return herrors.WrapLifecycle(herrors.ErrShapeFrozen, "input", "SetLocalName", in.name)
	}
	in.localName = name
	return nil
}

// SetDisplayName sets the human-readable name shown in diagnostics.
func (in *Input) SetDisplayName(name string) error {
	if in.shapeFrozen {
		return herrors.WrapLifecycle(herrors.ErrShapeFrozen, "input", "SetDisplayName", in.name)
	}
	in.displayName = name
	return nil
}

// SetInfo attaches an opaque informational string to the input.
func (in *Input) SetInfo(info string) { in.info = info }

// SetTargetType declares in's primary target type before shape freeze. Once
// set (or once inferred from a publication) it cannot be changed.
func (in *Input) SetTargetType(t value.Type) error {
	if in.shapeFrozen {
		return herrors.WrapLifecycle(herrors.ErrShapeFrozen, "input", "SetTargetType", in.name)
	}
	if in.isCustom {
		return herrors.WrapConfig(herrors.ErrUnknownType, "input", "SetTargetType", "input already declared custom")
	}
	in.targetType = t
	in.hasTargetType = true
	return nil
}

// CustomOption configures a custom (non-primary) target type at
// SetCustomType time.
type CustomOption func(*Input)

// WithComparator installs cmp as the change-detection comparator for a
// custom-typed input. Without one, every publication is treated as changed,
// per the custom-type design note.
func WithComparator(cmp CustomComparator) CustomOption {
	return func(in *Input) { in.customCompare = cmp }
}

// WithSchema attaches a compiled JSON Schema that validates every raw
// buffer before it reaches the codec.
func WithSchema(s *customSchema) CustomOption {
	return func(in *Input) { in.customSchema = s }
}

// SetCustomType declares in as a non-primary "custom" type identified by
// typeName, decoded by codec rather than the tagged-value container.
func (in *Input) SetCustomType(typeName string, dec CustomCodec, opts ...CustomOption) error {
	if in.shapeFrozen {
		return herrors.WrapLifecycle(herrors.ErrShapeFrozen, "input", "SetCustomType", in.name)
	}
	if in.callback != nil {
		return herrors.WrapConfig(herrors.ErrCallbackMismatch, "input", "SetCustomType", "a typed callback is already installed")
	}
	in.isCustom = true
	in.customName = typeName
	in.customCodec = dec
	in.changeDetect = false
	for _, opt := range opts {
		opt(in)
	}
	return nil
}

// FreezeShape marks the end of the input's structural configuration:
// target type, name, units, and target list may no longer change. Called
// once the federate's initializing phase completes.
func (in *Input) FreezeShape() { in.shapeFrozen = true }

// MarkExecuting records that the federate has left initialization; after
// this, SetDefault is rejected.
func (in *Input) MarkExecuting() { in.executionActive = true }

// SetDefault installs value as the tagged value returned by readers before
// any publication arrives. It also pushes the encoded default down to the
// core so a late-connecting publisher's federate sees the same default a
// local reader would.
func (in *Input) SetDefault(v value.Value) error {
	if in.executionActive {
		return herrors.WrapLifecycle(herrors.ErrExecutionStarted, "input", "SetDefault", in.name)
	}
	in.defaultValue = v
	in.hasDefault = true
	if !in.hasTargetType && !in.isCustom {
		in.targetType = v.Type()
		in.hasTargetType = true
	}
	in.core.SetDefaultRaw(in.handle, codec.Encode(v))
	return nil
}

// SetMinimumChange sets the change-detection delta. d >= 0 enables
// detection with that threshold; d < 0 disables detection and forgets the
// stored delta.
func (in *Input) SetMinimumChange(d float64) {
	if d < 0 {
		in.changeDetect = false
		in.minDelta = 0
		return
	}
	in.changeDetect = true
	in.minDelta = d
}

// EnableChangeDetection toggles change detection while preserving whatever
// delta SetMinimumChange last configured.
func (in *Input) EnableChangeDetection(flag bool) { in.changeDetect = flag }

// SetCallback installs cb as the input's single typed callback. Calling it
// again replaces the previous callback; custom-typed inputs reject any
// typed callback since their values never pass through the tagged
// container.
func (in *Input) SetCallback(cb TypedCallback) error {
	if in.isCustom {
		return errCustomCallback
	}
	in.callback = &cb
	return nil
}

// SetNotificationCallback installs fn to run whenever a scan finds this
// input updated. It receives the update's simulation time but not the
// decoded value.
func (in *Input) SetNotificationCallback(fn func(t value.SimTime)) {
	in.notification = fn
}

// AddTarget binds the publication named name to this input. A second
// AddTarget call turns a single-target input into a multi-input; the
// configured Policy governs how their values combine.
func (in *Input) AddTarget(name string) error {
	if in.shapeFrozen {
		return herrors.WrapLifecycle(herrors.ErrShapeFrozen, "input", "AddTarget", in.name)
	}
	for _, t := range in.targets {
		if t.name == name {
			return nil
		}
	}
	h := in.core.Register(name)
	if err := in.core.AddTarget(in.handle, name); err != nil {
		return herrors.WrapConfig(err, "input", "AddTarget", name)
	}
	in.targets = append(in.targets, target{name: name, handle: h})
	if in.owner != nil {
		in.owner.trackHandle(h, in)
	}
	return nil
}

// RemoveTarget detaches the publication named name; its Core handle is left
// registered since another input may still reference the same publication
// name.
func (in *Input) RemoveTarget(name string) error {
	if in.shapeFrozen {
		return herrors.WrapLifecycle(herrors.ErrShapeFrozen, "input", "RemoveTarget", in.name)
	}
	for i, t := range in.targets {
		if t.name == name {
			if err := in.core.RemoveTarget(in.handle, name); err != nil {
				return herrors.WrapConfig(err, "input", "RemoveTarget", name)
			}
			if in.owner != nil {
				in.owner.untrackHandle(t.handle, in)
			}
			in.targets = append(in.targets[:i], in.targets[i+1:]...)
			return nil
		}
	}
	return nil
}

// SetPolicy sets the multi-input reduction policy applied when more than
// one target is bound.
func (in *Input) SetPolicy(p Policy) { in.policy = p }

// SetOutputUnits declares the units values should be converted to before
// storage. It must be commensurable with whatever injection units the
// core eventually reports; incommensurability is only discoverable once a
// publication actually arrives (lazy source info), so it surfaces as a
// per-input error at that point rather than here.
func (in *Input) SetOutputUnits(u string) error {
	if in.shapeFrozen {
		return herrors.WrapLifecycle(herrors.ErrShapeFrozen, "input", "SetOutputUnits", in.name)
	}
	in.outputUnits = u
	return nil
}

// SetReportSaturation controls whether an integer-typed target that
// saturates during unit conversion records an ArithmeticError (retrievable
// via LastError) instead of silently clamping. Off by default, matching the
// silent-unless-opted-in behavior most inputs never need.
func (in *Input) SetReportSaturation(report bool) error {
	if in.shapeFrozen {
		return herrors.WrapLifecycle(herrors.ErrShapeFrozen, "input", "SetReportSaturation", in.name)
	}
	in.reportSaturation = report
	return nil
}

// SetOption forwards an opaque option to the core for this input's primary
// handle.
func (in *Input) SetOption(code, val int) { in.core.SetOption(in.handle, code, val) }

// GetOption reads back an opaque option from the core.
func (in *Input) GetOption(code int) int { return in.core.GetOption(in.handle, code) }

// CheckUpdate returns true iff a new value is observable under the current
// change-detection policy, eagerly materializing it into the stored value
// as a side effect. When assume is false it first asks the core whether
// any bound target has a pending buffer; when true (the registry's scan
// already knows this) that check is skipped.
func (in *Input) CheckUpdate(assume bool) bool {
	if in.closed {
		return in.hasUpdate
	}
	if !assume && !in.anyTargetPending() {
		return in.hasUpdate
	}
	return in.process()
}

func (in *Input) anyTargetPending() bool {
	for _, t := range in.targets {
		if in.core.IsUpdated(t.handle) {
			return true
		}
	}
	return false
}

// IsUpdated is the side-effect-free form of CheckUpdate. It consults the
// core's own pending flag for each bound target — the const form may
// therefore report true for a buffer that would later fail to decode or be
// filtered out by change detection; only CheckUpdate is authoritative.
func (in *Input) IsUpdated() bool {
	if in.closed {
		return in.hasUpdate
	}
	if in.anyTargetPending() {
		return true
	}
	return in.hasUpdate
}

// ClearUpdate clears the has-update flag without consuming any pending
// core buffer.
func (in *Input) ClearUpdate() { in.hasUpdate = false }

// process performs the decode/bridge/change-detect/store pipeline described
// in §4.6 for this input alone; it is what both CheckUpdate and the
// registry's scan ultimately call.
func (in *Input) process() bool {
	in.lastCheck = time.Now()
	if in.isCustom {
		return in.processCustom()
	}

	var decoded []value.Value
	for i := range in.targets {
		t := &in.targets[i]
		if !in.core.IsUpdated(t.handle) {
			continue
		}
		raw, ok := in.core.GetRaw(t.handle)
		if !ok {
			continue
		}
		v, err := codec.Decode(raw)
		if err != nil {
			in.recordError(herrors.WrapDecode(err, in.name, len(raw)))
			continue
		}
		if !t.unitsLoaded {
			t.injectionType = in.core.GetInjectionType(t.handle)
			t.injectionUnits = in.core.GetInjectionUnits(t.handle)
			t.unitsLoaded = true
		}
		bridge, err := units.Bridge(t.injectionUnits, in.outputUnits)
		if err != nil {
			in.recordError(err)
			continue
		}
		if bridge != units.Identity {
			in.unitConversions++
		}
		v = in.applyUnitBridge(v, bridge)
		decoded = append(decoded, v)
		in.lastUpdateTime = in.core.GetLastUpdateTime(t.handle)
		in.lastRaw = raw
	}
	if len(decoded) == 0 {
		return in.hasUpdate
	}

	reduced, err := Reduce(in.policy, decoded)
	if err != nil {
		in.recordError(err)
		return in.hasUpdate
	}
	if !in.hasTargetType {
		in.targetType = reduced.Type()
		in.hasTargetType = true
	}
	converted := reduced.Convert(in.targetType)

	changed := true
	if in.changeDetect {
		if in.hasStored {
			changed = Changed(in.stored, converted, in.minDelta)
		} else if in.hasDefault {
			changed = Changed(in.defaultValue.Convert(in.targetType), converted, in.minDelta)
		}
	}
	if changed {
		in.stored = converted
		in.hasStored = true
		in.hasUpdate = true
	} else {
		in.hasUpdate = false
	}
	return in.hasUpdate
}

func (in *Input) processCustom() bool {
	var raw []byte
	var ok bool
	for i := range in.targets {
		t := &in.targets[i]
		if !in.core.IsUpdated(t.handle) {
			continue
		}
		r, present := in.core.GetRaw(t.handle)
		if !present {
			continue
		}
		raw, ok = r, true
		in.lastUpdateTime = in.core.GetLastUpdateTime(t.handle)
	}
	if !ok {
		return in.hasUpdate
	}
	if err := in.customSchema.validate(raw); err != nil {
		in.recordError(herrors.WrapDecode(err, in.name, len(raw)))
		return in.hasUpdate
	}
	decoded, err := in.customCodec.DecodeCustom(raw)
	if err != nil {
		in.recordError(herrors.WrapDecode(err, in.name, len(raw)))
		return in.hasUpdate
	}
	in.lastRaw = raw
	changed := true
	if in.customCompare != nil && in.hasCustom {
		changed = !in.customCompare(in.customStored, decoded)
	}
	in.customStored = decoded
	in.hasCustom = true
	in.hasUpdate = changed
	return changed
}

// applyUnitBridge converts v through bridge. For an Int target, ApplyInt can
// saturate the rounded result against the int64 range; recordError only
// captures that as an ArithmeticError when the input has opted in via
// SetReportSaturation; otherwise the clamped value is used as-is.
func (in *Input) applyUnitBridge(v value.Value, bridge units.Map) value.Value {
	switch v.Type() {
	case value.Double:
		return value.NewDouble(bridge.Apply(v.AsDouble()))
	case value.Int:
		x := v.AsInt()
		converted, saturated := bridge.ApplyInt(x)
		if saturated && in.reportSaturation {
			in.recordError(herrors.NewArithmeticError(in.name, bridge.Apply(float64(x)), converted))
		}
		return value.NewInt(converted)
	case value.Time:
		return value.NewTime(value.SimTimeFromSeconds(bridge.Apply(v.AsTime().Seconds())))
	case value.Vector:
		return value.NewVector(bridge.ApplyVector(v.AsVector()))
	default:
		return v
	}
}

func (in *Input) recordError(err error) {
	in.lastErr = err
	in.errorCount++
}

// LastError returns the most recently recorded decode or configuration
// error discovered during a scan, or nil if none.
func (in *Input) LastError() error { return in.lastErr }

// Value returns the input's current stored value, or its default if no
// publication has arrived yet, or the type's zero value if neither exists.
func (in *Input) Value() value.Value {
	if in.hasStored {
		return in.stored
	}
	if in.hasDefault {
		return in.defaultValue
	}
	t := in.targetType
	if !in.hasTargetType {
		t = value.Double
	}
	return value.Zero(t)
}

// ValueAs returns the stored value converted to t.
func (in *Input) ValueAs(t value.Type) value.Value { return in.Value().Convert(t) }

// ValueRef returns a borrowed pointer to the stored value, valid until the
// next call that mutates it (CheckUpdate, or a registry scan).
func (in *Input) ValueRef() *value.Value { return &in.stored }

// CustomValue returns the last value decoded by a custom-typed input's
// codec.
func (in *Input) CustomValue() (any, bool) { return in.customStored, in.hasCustom }

// Char implements the "read a single character" convenience: the first
// byte of the stored value's string form, or 0 for an empty string.
func (in *Input) Char() byte {
	s := in.Value().Convert(value.String).AsString()
	if s == "" {
		return 0
	}
	return s[0]
}

// RawValue returns the most recently received raw buffer and whether one
// has ever arrived.
func (in *Input) RawValue() ([]byte, bool) { return in.lastRaw, in.lastRaw != nil }

// RawSize returns the byte length of the most recently received raw
// buffer.
func (in *Input) RawSize() int { return len(in.lastRaw) }

// StringSize returns the length the stored value would have if converted
// to a string.
func (in *Input) StringSize() int { return len(in.Value().Convert(value.String).AsString()) }

// VectorSize returns the length the stored value would have if converted
// to a double vector.
func (in *Input) VectorSize() int { return len(in.Value().Convert(value.Vector).AsVector()) }

// Close severs the input from the federate core. It is idempotent; reads
// after Close continue to return the last stored value.
func (in *Input) Close() {
	if in.closed {
		return
	}
	in.closed = true
	in.core.CloseInterface(in.handle)
	for _, t := range in.targets {
		in.core.CloseInterface(t.handle)
	}
}
