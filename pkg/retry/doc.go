// Package retry provides simple exponential backoff retry logic for transient failures.
//
// # Overview
//
// This package offers a minimal retry mechanism with exponential backoff, designed to handle
// transient failures reaching an external collaborator such as a NATS JetStream KV bucket:
// connection drops during watcher setup, or a put/create racing a reconnect.
//
// # core Functions
//
//   - Do: Execute function with retry and exponential backoff
//   - DoWithResult: Execute function with retry, returns both result and error
//   - NonRetryableIf: mark an error non-retryable when a caller-supplied
//     predicate matches it, e.g. a KV Create losing a race to another writer
//
// # Configuration Presets
//
//   - DefaultConfig(): 3 attempts, 100ms-5s delay (normal operations)
//   - Quick(): 10 attempts, 50ms-1s delay (component startup)
//   - Persistent(): 30 attempts, 200ms-10s delay (critical resources)
//
// # Usage Examples
//
// Retrying a KV write against the federate core, the way NATSCore.Publish does:
//
//	err := retry.Do(ctx, cfg, func() error {
//	    _, err := kv.Put(ctx, key, raw)
//	    return err
//	})
//
// Creating a handle's metadata entry, the way NATSCore.Publish does,
// marking an expected conflict as non-retryable via a predicate so it
// short-circuits immediately instead of burning the attempt budget on a
// foregone conclusion:
//
//	err := retry.Do(ctx, cfg, func() error {
//	    _, err := kv.Create(ctx, key, meta)
//	    return retry.NonRetryableIf(err, func(e error) bool {
//	        return errors.Is(e, natsclient.ErrKVKeyExists)
//	    })
//	})
//
// Custom configuration:
//
//	cfg := retry.Config{
//	    MaxAttempts:  5,
//	    InitialDelay: 200 * time.Millisecond,
//	    MaxDelay:     10 * time.Second,
//	    Multiplier:   2.0,
//	    AddJitter:    true,
//	}
//	err := retry.Do(ctx, cfg, operation)
//
// # Design Philosophy
//
// This package is intentionally minimal:
//
//   - No circuit breakers (use service mesh or separate package)
//   - No metrics collection (use instrumentation at call site)
//   - No complex error classification (caller decides what to retry)
//   - Just exponential backoff with jitter
//
// # Context Cancellation
//
// All retry operations respect context cancellation and will immediately stop retrying
// when the context is cancelled, either during operation execution or during backoff delay.
//
// # Thread Safety
//
// All functions are safe for concurrent use. The jitter mechanism uses a thread-safe
// random source to avoid contention.
package retry
