package federate

import (
	"sync"

	"github.com/google/uuid"

	"github.com/beroset/HELICS/value"
)

// LocalCore is an in-process reference implementation of Core, backed by
// plain maps guarded by a mutex. Test code drives it directly via Publish to
// simulate a publication arriving; it has no network transport of its own.
type LocalCore struct {
	mu sync.RWMutex

	byName map[string]Handle

	raw        map[Handle][]byte
	pending    map[Handle]bool
	closed     map[Handle]bool
	lastUpdate map[Handle]value.SimTime

	injectionType  map[Handle]string
	injectionUnits map[Handle]string
	extractionType map[Handle]string
	extractionUnit map[Handle]string

	targets map[Handle][]string
	options map[Handle]map[int]int
	notify  map[Handle]NotificationFunc
}

// NewLocalCore returns an empty LocalCore.
func NewLocalCore() *LocalCore {
	return &LocalCore{
		byName:         make(map[string]Handle),
		raw:            make(map[Handle][]byte),
		pending:        make(map[Handle]bool),
		closed:         make(map[Handle]bool),
		lastUpdate:     make(map[Handle]value.SimTime),
		injectionType:  make(map[Handle]string),
		injectionUnits: make(map[Handle]string),
		extractionType: make(map[Handle]string),
		extractionUnit: make(map[Handle]string),
		targets:        make(map[Handle][]string),
		options:        make(map[Handle]map[int]int),
		notify:         make(map[Handle]NotificationFunc),
	}
}

// Register returns the handle for name, creating one if this is the first
// call for that name.
func (c *LocalCore) Register(name string) Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	if h, ok := c.byName[name]; ok {
		return h
	}
	h := Handle(uuid.NewString())
	c.byName[name] = h
	c.options[h] = make(map[int]int)
	return h
}

// Publish simulates a new publication arriving on h's connected
// publication(s): it records raw as the latest bytes, marks h pending, and
// invokes the installed notification callback, if any. injectionType and
// injectionUnits are recorded lazily only on the first call: injection type
// and units are read from the core the first time a value arrives, not at
// construction.
func (c *LocalCore) Publish(h Handle, raw []byte, injectionType, injectionUnits string, t value.SimTime) {
	c.mu.Lock()
	if c.closed[h] {
		c.mu.Unlock()
		return
	}
	c.raw[h] = raw
	c.pending[h] = true
	c.lastUpdate[h] = t
	if _, ok := c.injectionType[h]; !ok {
		c.injectionType[h] = injectionType
		c.injectionUnits[h] = injectionUnits
	}
	cb := c.notify[h]
	c.mu.Unlock()

	if cb != nil {
		cb(h, t)
	}
}

// SetExtraction configures the extraction type/units an Input has requested
// for h; test helper, since this layer is the only thing that ever sets
// extraction metadata on a LocalCore.
func (c *LocalCore) SetExtraction(h Handle, extractionType, extractionUnits string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.extractionType[h] = extractionType
	c.extractionUnit[h] = extractionUnits
}

// PendingUpdates returns every handle with an unread raw buffer.
func (c *LocalCore) PendingUpdates() []Handle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Handle, 0, len(c.pending))
	for h, p := range c.pending {
		if p && !c.closed[h] {
			out = append(out, h)
		}
	}
	return out
}

// GetRaw returns the latest raw buffer for h. Reading clears h's pending
// flag: once the registry has fetched the bytes, they are no longer a
// "pending" update.
func (c *LocalCore) GetRaw(h Handle) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.raw[h]
	c.pending[h] = false
	return raw, ok
}

// IsUpdated peeks at h's pending flag without consuming it, for
// Input.CheckUpdate(assume=false)'s core consultation.
func (c *LocalCore) IsUpdated(h Handle) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pending[h] && !c.closed[h]
}

func (c *LocalCore) GetInjectionType(h Handle) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.injectionType[h]
}

func (c *LocalCore) GetInjectionUnits(h Handle) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.injectionUnits[h]
}

func (c *LocalCore) GetExtractionType(h Handle) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.extractionType[h]
}

func (c *LocalCore) GetExtractionUnits(h Handle) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.extractionUnit[h]
}

func (c *LocalCore) GetLastUpdateTime(h Handle) value.SimTime {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdate[h]
}

func (c *LocalCore) AddTarget(h Handle, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.targets[h] {
		if t == name {
			return nil
		}
	}
	c.targets[h] = append(c.targets[h], name)
	return nil
}

func (c *LocalCore) RemoveTarget(h Handle, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	targets := c.targets[h]
	for i, t := range targets {
		if t == name {
			c.targets[h] = append(targets[:i], targets[i+1:]...)
			return nil
		}
	}
	return nil
}

// Targets returns the publication names currently bound to h, in
// registration order — used by the multi-input reducer.
func (c *LocalCore) Targets(h Handle) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.targets[h]))
	copy(out, c.targets[h])
	return out
}

func (c *LocalCore) SetOption(h Handle, code int, val int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.options[h] == nil {
		c.options[h] = make(map[int]int)
	}
	c.options[h][code] = val
}

func (c *LocalCore) GetOption(h Handle, code int) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.options[h][code]
}

func (c *LocalCore) SetDefaultRaw(h Handle, raw []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.raw[h] = raw
}

func (c *LocalCore) SetInputNotification(h Handle, cb NotificationFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notify[h] = cb
}

func (c *LocalCore) CloseInterface(h Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed[h] = true
	c.pending[h] = false
}
