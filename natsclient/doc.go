// Package natsclient provides the NATS JetStream connection and KV-bucket
// access that federate.NATSCore is built on: connect, create or open a KV
// bucket, and hand out a KVStore for the handle reads/writes/watches that
// drive a NATSCore's pending-update feed.
//
// # Connection Lifecycle
//
// A Client tracks connection state through Disconnected → Connecting →
// Connected → Reconnecting → Connected as the underlying *nats.Conn's own
// reconnect logic runs; Status and IsHealthy reflect it.
//
// # Basic Usage
//
//	client, err := natsclient.NewClient("nats://localhost:4222")
//	if err != nil {
//	    return err
//	}
//	if err := client.Connect(ctx); err != nil {
//	    return err
//	}
//	defer client.Close(ctx)
//
//	bucket, err := client.CreateKeyValueBucket(ctx, jetstream.KeyValueConfig{
//	    Bucket: "config", History: 5, Replicas: 3,
//	})
//	kv := client.NewKVStore(bucket)
//	_, err = kv.Put(ctx, "bus1.voltage", raw)
//
// # Design Decisions
//
// Context-first API: every I/O operation takes context.Context as its first
// parameter.
//
// Testcontainers over mocks: integration tests use a real NATS server via
// testcontainers-go rather than mocking the protocol, which would risk
// missing real edge cases.
package natsclient
