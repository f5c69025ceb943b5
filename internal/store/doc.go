// Package store archives algorithm runs in SQLite.
//
// A run records the algorithm name, the parameters it was configured with and
// the outputs it produced. Named-value stores produced by a run can be kept
// alongside it, one row per descriptor.
//
// # Ordering
//
// Runs carry a seq assigned at write time. Listings are ordered by seq, then
// id, so two reads of the same archive always agree.
//
// # Encoding
//
// Every value is stored as canonical JSON (see value.MarshalCanonical):
// {"type": <tag>, "value": <payload>} with sorted keys and NFC strings.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
