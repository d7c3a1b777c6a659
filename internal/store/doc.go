// Package store provides a SQLite-backed cache of inferred result types.
//
// Inferring a result type is pure: the same schema, query and evaluator
// settings always produce the same type. The store keeps each result under
// the content hashes of its inputs so repeated CLI runs skip the walk.
//
// Tables:
//   - schemas: schema bodies keyed by typesys.SchemaHash
//   - inferences: result types keyed by (schema_hash, query_hash, options_key)
//
// Writes are idempotent (ON CONFLICT DO NOTHING). Rows carry a logical seq
// rather than a timestamp, and every listing orders by seq ASC, id ASC.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
