package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/groqtype/internal/typesys"
)

// WriteSchema records a schema body under its hash.
// Uses ON CONFLICT(hash) DO NOTHING for idempotency - the first body wins.
func (s *Store) WriteSchema(ctx context.Context, hash string, schema typesys.Schema, seq int64) error {
	body, err := typesys.MarshalSchemaJSON(schema)
	if err != nil {
		return fmt.Errorf("write schema: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO schemas (hash, body, seq)
		VALUES (?, ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`, hash, string(body), seq)
	if err != nil {
		return fmt.Errorf("write schema: %w", err)
	}
	return nil
}

// WriteInference inserts an inference record.
// Returns the ID and whether a new record was inserted.
//
// A record for the same (schema, query, options) triple is never replaced:
// if one exists, its ID is returned with inserted=false. An empty inf.ID is
// filled with a fresh UUIDv7.
//
// Note: The schema referenced by SchemaHash must exist (foreign key constraint).
func (s *Store) WriteInference(ctx context.Context, inf Inference) (id string, inserted bool, err error) {
	if inf.Result == nil {
		return "", false, fmt.Errorf("write inference: nil result")
	}
	result, err := typesys.MarshalJSON(inf.Result)
	if err != nil {
		return "", false, fmt.Errorf("write inference: %w", err)
	}
	if inf.ResultHash == "" {
		inf.ResultHash = typesys.Hash(inf.Result)
	}
	if inf.ID == "" {
		inf.ID = uuid.Must(uuid.NewV7()).String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("write inference: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	res, err := tx.ExecContext(ctx, `
		INSERT INTO inferences
		(id, schema_hash, query_hash, options_key, result, result_hash, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		inf.ID,
		inf.SchemaHash,
		inf.QueryHash,
		inf.OptionsKey,
		string(result),
		inf.ResultHash,
		inf.Seq,
	)
	if err != nil {
		return "", false, fmt.Errorf("write inference: insert: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return "", false, fmt.Errorf("write inference: rows affected: %w", err)
	}

	if rowsAffected > 0 {
		id, inserted = inf.ID, true
	} else {
		err = tx.QueryRowContext(ctx, `
			SELECT id FROM inferences
			WHERE schema_hash = ? AND query_hash = ? AND options_key = ?
		`, inf.SchemaHash, inf.QueryHash, inf.OptionsKey).Scan(&id)
		if err != nil {
			return "", false, fmt.Errorf("write inference: select existing: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("write inference: commit: %w", err)
	}

	return id, inserted, nil
}

// DeleteSchema removes a schema and, through the foreign key, every
// inference recorded against it. Returns the number of inferences removed.
func (s *Store) DeleteSchema(ctx context.Context, hash string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("delete schema: begin tx: %w", err)
	}
	defer tx.Rollback()

	var count int64
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM inferences WHERE schema_hash = ?`, hash).Scan(&count); err != nil {
		return 0, fmt.Errorf("delete schema: count: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM schemas WHERE hash = ?`, hash); err != nil {
		return 0, fmt.Errorf("delete schema: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("delete schema: commit: %w", err)
	}
	return count, nil
}
