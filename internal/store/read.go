package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/groqtype/internal/typesys"
)

// ErrCorrupt is returned when a stored result no longer matches its hash.
var ErrCorrupt = errors.New("stored result does not match its hash")

// ReadSchema returns the schema stored under hash.
// Returns (schema, false, nil) if no schema is stored under hash.
func (s *Store) ReadSchema(ctx context.Context, hash string) (typesys.Schema, bool, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM schemas WHERE hash = ?`, hash).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return typesys.Schema{}, false, nil
	}
	if err != nil {
		return typesys.Schema{}, false, fmt.Errorf("read schema: %w", err)
	}

	schema, err := typesys.ParseSchema([]byte(body))
	if err != nil {
		return typesys.Schema{}, false, fmt.Errorf("read schema %s: %w", hash, err)
	}
	return schema, true, nil
}

// LookupInference returns the inference recorded for the triple.
// Returns (inference, false, nil) if none is recorded.
func (s *Store) LookupInference(ctx context.Context, schemaHash, queryHash, optionsKey string) (Inference, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, schema_hash, query_hash, options_key, result, result_hash, seq
		FROM inferences
		WHERE schema_hash = ? AND query_hash = ? AND options_key = ?
	`, schemaHash, queryHash, optionsKey)

	inf, err := scanInference(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Inference{}, false, nil
	}
	if err != nil {
		return Inference{}, false, err
	}
	return inf, true, nil
}

// ListInferences returns every inference recorded against a schema.
// Results ordered by seq ASC, id ASC.
func (s *Store) ListInferences(ctx context.Context, schemaHash string) ([]Inference, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, schema_hash, query_hash, options_key, result, result_hash, seq
		FROM inferences
		WHERE schema_hash = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, schemaHash)
	if err != nil {
		return nil, fmt.Errorf("query inferences: %w", err)
	}
	defer rows.Close()

	inferences := []Inference{}
	for rows.Next() {
		inf, err := scanInference(rows)
		if err != nil {
			return nil, err
		}
		inferences = append(inferences, inf)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inferences: %w", err)
	}

	return inferences, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanInference(row rowScanner) (Inference, error) {
	var (
		inf    Inference
		result string
	)
	err := row.Scan(&inf.ID, &inf.SchemaHash, &inf.QueryHash, &inf.OptionsKey, &result, &inf.ResultHash, &inf.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return Inference{}, err
	}
	if err != nil {
		return Inference{}, fmt.Errorf("scan inference: %w", err)
	}

	inf.Result, err = typesys.ParseType([]byte(result))
	if err != nil {
		return Inference{}, fmt.Errorf("decode inference %s: %w", inf.ID, err)
	}
	if typesys.Hash(inf.Result) != inf.ResultHash {
		return Inference{}, fmt.Errorf("inference %s: %w", inf.ID, ErrCorrupt)
	}
	return inf, nil
}
