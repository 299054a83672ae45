package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/irreptables/internal/table"
)

const selectRecord = `
	SELECT identity, sg, spinor, name, nsym, irreps, body_size, checksum, batch_id, seq
	FROM tables`

// GetTable returns the most recently stored version of a table, parsed
// back from its user encoding. The body checksum is verified before
// parsing. Returns ErrNotFound if the catalog has no such table.
func (s *Store) GetTable(ctx context.Context, number int, spinor bool) (*table.Table, Record, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx, selectRecord+`
		WHERE sg = ? AND spinor = ?
		ORDER BY seq DESC
		LIMIT 1
	`, number, boolToInt(spinor)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, Record{}, fmt.Errorf("get table SG=%d %s: %w", number, table.SpinLabel(spinor), ErrNotFound)
	}
	if err != nil {
		return nil, Record{}, fmt.Errorf("get table: %w", err)
	}

	text, err := s.GetText(ctx, rec.Identity)
	if err != nil {
		return nil, Record{}, err
	}
	t, err := table.ReadUser(bytes.NewReader(text), number, spinor)
	if err != nil {
		return nil, Record{}, fmt.Errorf("get table %s: %w", rec.Identity, err)
	}
	return t, rec, nil
}

// GetText returns the verified user-format text of a stored version.
func (s *Store) GetText(ctx context.Context, identity string) ([]byte, error) {
	var body []byte
	var checksum string
	err := s.db.QueryRowContext(ctx, `
		SELECT body, checksum FROM tables WHERE identity = ?
	`, identity).Scan(&body, &checksum)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get text %s: %w", identity, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get text: %w", err)
	}

	text, err := s.dec.DecodeAll(body, nil)
	if err != nil {
		return nil, fmt.Errorf("get text %s: decompress: %w", identity, err)
	}
	got, err := Checksum(text)
	if err != nil {
		return nil, err
	}
	if got != checksum {
		return nil, &ChecksumError{Identity: identity, Want: checksum, Got: got}
	}
	return text, nil
}

// ListTables returns every stored version ordered by space group, spinor
// flag and then write order.
//
// Returns an empty slice (not nil) if the catalog is empty.
func (s *Store) ListTables(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, selectRecord+`
		ORDER BY sg ASC, spinor ASC, seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}
	return records, nil
}

// ListBatch returns the versions written by one batch in write order.
func (s *Store) ListBatch(ctx context.Context, batchID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, selectRecord+`
		WHERE batch_id = ?
		ORDER BY seq ASC
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query batch: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batch: %w", err)
	}
	return records, nil
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var spinor int
	err := row.Scan(
		&rec.Identity,
		&rec.Number,
		&spinor,
		&rec.Name,
		&rec.Nsym,
		&rec.Irreps,
		&rec.Size,
		&rec.Checksum,
		&rec.BatchID,
		&rec.Seq,
	)
	if err != nil {
		return Record{}, err
	}
	rec.Spinor = spinor != 0
	return rec, nil
}
