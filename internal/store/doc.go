// Package store provides the SQLite-backed artifact ledger.
//
// The ledger records every emit run with the content hash of each artifact
// it wrote, left unchanged or pruned. The emitter reads the latest run of an
// output root to find artifacts that are no longer produced.
//
// # Critical Patterns
//
// Logical ordering:
//   - Runs are ordered by seq INTEGER (assigned inside the write transaction),
//     never by timestamps
//   - All queries include ORDER BY seq ASC or name COLLATE BINARY ASC
//
// Content identity:
//   - Artifact hashes come from ir.ArtifactHash (SHA-256 with domain separation)
//   - Run IDs are UUIDv7 in production and sequential in tests
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
