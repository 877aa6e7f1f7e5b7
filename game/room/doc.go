// Package room provides room state and the process-wide room registry.
//
// The room package implements:
//   - Room: one game session with two seats, an engine instance, and
//     per-seat capture lists
//   - Registry: thread-safe mapping from room identifier to Room with
//     create-on-first-join and delete-on-empty lifecycle
//
// Concurrency:
//
// Room embeds a mutex but its methods do not lock; the caller locks the
// room around each complete action (validate, mutate, snapshot) so that
// near-simultaneous actions on the same room are serialized. The registry
// guards only its own map. Lock order is registry before room; the
// registry marks a room closed under both locks when it deletes it, and
// Bind refuses closed rooms so a join racing a teardown retries against a
// fresh room instead of seating into a dead one.
//
// Usage:
//
//	reg := room.NewRegistry()
//	r := reg.GetOrCreate("r1")
//	r.Lock()
//	seat, err := r.Bind(connID)
//	r.Unlock()
package room
