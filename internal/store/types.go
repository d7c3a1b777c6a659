package store

import "github.com/roach88/groqtype/internal/typesys"

// Inference is one cached result type.
type Inference struct {
	// ID is a UUIDv7 assigned on first write.
	ID string

	SchemaHash string
	QueryHash  string

	// OptionsKey identifies the evaluator settings the result was inferred
	// under. See OptionsKey.
	OptionsKey string

	Result typesys.Type

	// ResultHash is typesys.Hash(Result), checked on read.
	ResultHash string

	Seq int64
}
