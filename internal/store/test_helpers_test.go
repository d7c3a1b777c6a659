package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/groqtype/internal/testutil"
	"github.com/roach88/groqtype/internal/typesys"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// writeTestSchema stores the blog schema under hash.
func writeTestSchema(t *testing.T, s *Store, hash string, seq int64) {
	t.Helper()
	if err := s.WriteSchema(context.Background(), hash, testutil.BlogSchema(), seq); err != nil {
		t.Fatalf("WriteSchema() failed: %v", err)
	}
}

// createTestInference creates an inference with minimal required fields.
func createTestInference(schemaHash, queryHash string, result typesys.Type, seq int64) Inference {
	return Inference{
		SchemaHash: schemaHash,
		QueryHash:  queryHash,
		OptionsKey: "test-options",
		Result:     result,
		Seq:        seq,
	}
}
