package input

import (
	"sort"
	"time"

	"github.com/beroset/HELICS/federate"
	"github.com/beroset/HELICS/health"
	"github.com/beroset/HELICS/metric"
)

// dispatchRecord is one input's outcome from a scan, queued so callbacks
// run in registration order only after every input has been decoded — a
// callback must never see a sibling input still mid-update.
type dispatchRecord struct {
	order int
	in    *Input
}

// Registry owns every Input declared by a federate and drives the §4.6
// per-cycle scan: ask the core for pending handles, decode and store each
// affected input, then dispatch callbacks in registration order.
type Registry struct {
	core federate.Core

	byName      map[string]*Input
	handleOwner map[federate.Handle][]*Input
	order       []*Input

	metrics *metric.InputMetrics

	lastScanAt       time.Time
	lastScanDuration time.Duration
}

// RegistryOption configures optional collaborators on a Registry.
type RegistryOption func(*Registry)

// WithMetrics attaches a metrics collector; the registry increments its
// counters during Scan. Passing nil (the default) disables metrics.
func WithMetrics(m *metric.InputMetrics) RegistryOption {
	return func(r *Registry) { r.metrics = m }
}

// NewRegistry returns an empty Registry backed by core.
func NewRegistry(core federate.Core, opts ...RegistryOption) *Registry {
	r := &Registry{
		core:        core,
		byName:      make(map[string]*Input),
		handleOwner: make(map[federate.Handle][]*Input),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewInput declares a new input named name, tracked by this registry so its
// primary handle participates in Scan.
func (r *Registry) NewInput(name string) *Input {
	in := NewInput(r.core, name)
	in.owner = r
	r.byName[name] = in
	r.order = append(r.order, in)
	r.trackHandle(in.handle, in)
	return in
}

// Lookup returns the input named name, if declared.
func (r *Registry) Lookup(name string) (*Input, bool) {
	in, ok := r.byName[name]
	return in, ok
}

func (r *Registry) trackHandle(h federate.Handle, in *Input) {
	r.handleOwner[h] = append(r.handleOwner[h], in)
}

func (r *Registry) untrackHandle(h federate.Handle, in *Input) {
	owners := r.handleOwner[h]
	for i, o := range owners {
		if o == in {
			r.handleOwner[h] = append(owners[:i], owners[i+1:]...)
			return
		}
	}
}

// Scan performs one federate time-advance's worth of update processing:
// it asks the core for pending handles, decodes and stores the affected
// inputs, then dispatches typed and notification callbacks in the inputs'
// registration order. Per input per cycle, at most one typed callback
// fires, followed by at most one notification callback.
func (r *Registry) Scan() {
	start := time.Now()
	defer func() {
		r.lastScanAt = time.Now()
		r.lastScanDuration = time.Since(start)
	}()

	touched := make(map[*Input]bool)
	for _, h := range r.core.PendingUpdates() {
		for _, in := range r.handleOwner[h] {
			touched[in] = true
		}
	}
	if len(touched) == 0 {
		return
	}

	var records []dispatchRecord
	for i, in := range r.order {
		if !touched[in] {
			continue
		}
		before := in.errorCount
		beforeConversions := in.unitConversions
		updated := in.CheckUpdate(true)
		hadError := in.errorCount > before
		if hadError {
			r.recordDecodeError(in)
		}
		if in.unitConversions > beforeConversions {
			r.recordUnitConversion(in)
		}
		if updated && (in.callback != nil || in.notification != nil) {
			records = append(records, dispatchRecord{order: i, in: in})
		} else if !updated && !hadError && in.changeDetect {
			r.recordSuppressed(in)
		}
	}

	sort.SliceStable(records, func(i, j int) bool { return records[i].order < records[j].order })
	for _, rec := range records {
		in := rec.in
		if in.callback != nil {
			in.callback.dispatch(in.stored, in.lastUpdateTime)
			r.recordDispatch(in)
		}
		if in.notification != nil {
			in.notification(in.lastUpdateTime)
			r.recordDispatch(in)
		}
	}
}

func (r *Registry) recordDecodeError(in *Input) {
	if r.metrics != nil {
		r.metrics.DecodeErrors.WithLabelValues(in.name).Inc()
	}
}

func (r *Registry) recordSuppressed(in *Input) {
	if r.metrics != nil {
		r.metrics.ChangeSuppressed.WithLabelValues(in.name).Inc()
	}
}

func (r *Registry) recordDispatch(in *Input) {
	if r.metrics != nil {
		r.metrics.CallbackDispatch.WithLabelValues(in.name).Inc()
	}
}

func (r *Registry) recordUnitConversion(in *Input) {
	if r.metrics != nil {
		r.metrics.UnitConversions.WithLabelValues(in.name).Inc()
	}
}

// Health reports an aggregate health.Status for the registry: how many
// inputs are declared, how many currently carry a pending decode error,
// and how long the last scan took.
func (r *Registry) Health() health.Status {
	total := len(r.order)
	withErrors := 0
	for _, in := range r.order {
		if in.lastErr != nil {
			withErrors++
		}
	}
	snapshot := health.InputHealth{
		Healthy:    withErrors == 0,
		ErrorCount: withErrors,
		LastCheck:  r.lastScanAt,
		// Uptime is repurposed here to carry the last scan's wall-clock
		// duration rather than a process uptime, since InputHealth has no
		// dedicated duration field for this registry-level use.
		Uptime: r.lastScanDuration,
	}
	if withErrors > 0 {
		snapshot.LastError = "decode or unit-bridge errors pending on one or more inputs"
	}
	status := health.FromComponentHealth("input-registry", snapshot)
	status.Metrics.MessagesProcessed = int64(total)
	return status
}
