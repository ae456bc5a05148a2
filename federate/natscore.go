package federate

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"

	"github.com/nats-io/nats.go/jetstream"

	herrors "github.com/beroset/HELICS/errors"
	"github.com/beroset/HELICS/natsclient"
	"github.com/beroset/HELICS/pkg/retry"
	"github.com/beroset/HELICS/value"
)

// metaSuffix marks the companion KV entry carrying a handle's injection
// type/units, written once by whichever side publishes first. Kept separate
// from the value entry so a watcher can tell payload updates from metadata
// updates by key shape alone.
const metaSuffix = "__meta"

type handleMeta struct {
	Type  string `json:"type"`
	Units string `json:"units"`
}

// NATSCore is a Core backed by a NATS JetStream key-value bucket: one key
// per handle holds the latest raw value, and a companion "<handle>__meta"
// key holds its injection type/units. Writes and the initial watch setup
// go through pkg/retry with exponential backoff, since both are calls
// against an external collaborator that can see transient failures;
// jetstream.KeyWatcher then drives the change feed PendingUpdates reads
// from.
type NATSCore struct {
	kv     *natsclient.KVStore
	bucket jetstream.KeyValue

	retryConfig retry.Config

	mu             sync.RWMutex
	byName         map[string]Handle
	raw            map[Handle][]byte
	pending        map[Handle]bool
	closed         map[Handle]bool
	lastUpdate     map[Handle]value.SimTime
	injectionType  map[Handle]string
	injectionUnits map[Handle]string
	extractionType map[Handle]string
	extractionUnit map[Handle]string
	targets        map[Handle][]string
	options        map[Handle]map[int]int
	notify         map[Handle]NotificationFunc

	watchCancel context.CancelFunc
}

// NewNATSCore creates a NATSCore using bucket for storage, and starts a
// background watcher that feeds every key change into the in-memory pending
// state PendingUpdates/GetRaw/IsUpdated report from. Call Close to stop the
// watcher.
func NewNATSCore(ctx context.Context, client *natsclient.Client, bucket jetstream.KeyValue) (*NATSCore, error) {
	c := &NATSCore{
		kv:             client.NewKVStore(bucket),
		bucket:         bucket,
		retryConfig:    herrors.DefaultRetryConfig().ToRetryConfig(),
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

	watchCtx, cancel := context.WithCancel(ctx)
	var watcher jetstream.KeyWatcher
	err := retry.Do(ctx, c.retryConfig, func() error {
		w, watchErr := c.kv.Watch(watchCtx, ">")
		if watchErr != nil {
			return watchErr
		}
		watcher = w
		return nil
	})
	if err != nil {
		cancel()
		return nil, herrors.WrapTransient(err, "NATSCore", "NewNATSCore", "watch bucket")
	}
	c.watchCancel = cancel
	go c.watchLoop(watcher)

	return c, nil
}

func (c *NATSCore) watchLoop(watcher jetstream.KeyWatcher) {
	defer watcher.Stop()
	for entry := range watcher.Updates() {
		if entry == nil {
			continue // nil marks "caught up with initial state", not a real update
		}
		c.applyEntry(entry)
	}
}

func (c *NATSCore) applyEntry(entry jetstream.KeyValueEntry) {
	key := entry.Key()
	if isMetaKey(key) {
		c.applyMeta(handleForMetaKey(key), entry.Value())
		return
	}

	h := Handle(key)
	t := value.SimTime(entry.Created().UnixNano())

	c.mu.Lock()
	if c.closed[h] {
		c.mu.Unlock()
		return
	}
	c.raw[h] = entry.Value()
	c.pending[h] = true
	c.lastUpdate[h] = t
	cb := c.notify[h]
	c.mu.Unlock()

	if cb != nil {
		cb(h, t)
	}
}

func (c *NATSCore) applyMeta(h Handle, raw []byte) {
	var m handleMeta
	if json.Unmarshal(raw, &m) != nil {
		return
	}
	c.mu.Lock()
	if _, ok := c.injectionType[h]; !ok {
		c.injectionType[h] = m.Type
		c.injectionUnits[h] = m.Units
	}
	c.mu.Unlock()
}

func isMetaKey(key string) bool {
	return len(key) > len(metaSuffix) && key[len(key)-len(metaSuffix):] == metaSuffix
}

func handleForMetaKey(key string) Handle {
	return Handle(key[:len(key)-len(metaSuffix)])
}

// Publish writes raw to h's key and, the first time, meta to h's companion
// key. Test code uses this the same way LocalCore.Publish is used;
// in production this write is done by the other federate's outbound side.
func (c *NATSCore) Publish(ctx context.Context, h Handle, raw []byte, injectionType, injectionUnits string) error {
	putErr := retry.Do(ctx, c.retryConfig, func() error {
		_, err := c.kv.Put(ctx, string(h), raw)
		return err
	})
	if putErr != nil {
		return herrors.WrapTransient(putErr, "NATSCore", "Publish", "put value")
	}

	c.mu.RLock()
	_, known := c.injectionType[h]
	c.mu.RUnlock()
	if known {
		return nil
	}

	meta, err := json.Marshal(handleMeta{Type: injectionType, Units: injectionUnits})
	if err != nil {
		return herrors.WrapTransient(err, "NATSCore", "Publish", "marshal metadata")
	}

	createErr := retry.Do(ctx, c.retryConfig, func() error {
		_, err := c.kv.Create(ctx, string(h)+metaSuffix, meta)
		return retry.NonRetryableIf(err, errIsKeyExists)
	})
	if createErr != nil && !errIsKeyExists(createErr) {
		return herrors.WrapTransient(createErr, "NATSCore", "Publish", "put metadata")
	}
	return nil
}

func errIsKeyExists(err error) bool {
	return stderrors.Is(err, natsclient.ErrKVKeyExists)
}

// Close stops the background watcher. It does not close the underlying
// client or bucket, which this NATSCore does not own.
func (c *NATSCore) Close() {
	if c.watchCancel != nil {
		c.watchCancel()
	}
}

func (c *NATSCore) Register(name string) Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	if h, ok := c.byName[name]; ok {
		return h
	}
	h := Handle(name)
	c.byName[name] = h
	c.options[h] = make(map[int]int)
	return h
}

func (c *NATSCore) PendingUpdates() []Handle {
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

func (c *NATSCore) GetRaw(h Handle) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.raw[h]
	c.pending[h] = false
	return raw, ok
}

func (c *NATSCore) IsUpdated(h Handle) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pending[h] && !c.closed[h]
}

func (c *NATSCore) GetInjectionType(h Handle) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.injectionType[h]
}

func (c *NATSCore) GetInjectionUnits(h Handle) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.injectionUnits[h]
}

func (c *NATSCore) GetExtractionType(h Handle) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.extractionType[h]
}

func (c *NATSCore) GetExtractionUnits(h Handle) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.extractionUnit[h]
}

// SetExtraction configures the extraction type/units an Input has requested
// for h; purely local bookkeeping, never written to the bucket.
func (c *NATSCore) SetExtraction(h Handle, extractionType, extractionUnits string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.extractionType[h] = extractionType
	c.extractionUnit[h] = extractionUnits
}

func (c *NATSCore) GetLastUpdateTime(h Handle) value.SimTime {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdate[h]
}

func (c *NATSCore) AddTarget(h Handle, name string) error {
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

func (c *NATSCore) RemoveTarget(h Handle, name string) error {
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

func (c *NATSCore) Targets(h Handle) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.targets[h]))
	copy(out, c.targets[h])
	return out
}

func (c *NATSCore) SetOption(h Handle, code int, val int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.options[h] == nil {
		c.options[h] = make(map[int]int)
	}
	c.options[h][code] = val
}

func (c *NATSCore) GetOption(h Handle, code int) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.options[h][code]
}

func (c *NATSCore) SetDefaultRaw(h Handle, raw []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.raw[h] = raw
}

func (c *NATSCore) SetInputNotification(h Handle, cb NotificationFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notify[h] = cb
}

func (c *NATSCore) CloseInterface(h Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed[h] = true
	c.pending[h] = false
}

var _ Core = (*NATSCore)(nil)
