package store

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/irreptables/internal/table"
)

// Batch groups the tables written by one import.
type Batch struct {
	ID     string `json:"id"`
	Seq    int64  `json:"seq"`
	Source string `json:"source"`
}

// Record describes one stored table version.
type Record struct {
	Identity string `json:"identity"`
	Number   int    `json:"sg"`
	Spinor   bool   `json:"spinor"`
	Name     string `json:"name"`
	Nsym     int    `json:"nsym"`
	Irreps   int    `json:"irreps"`
	Size     int    `json:"size"` // uncompressed body size in bytes
	Checksum string `json:"checksum"`
	BatchID  string `json:"batch_id"`
	Seq      int64  `json:"seq"`
}

// NewBatch registers a new import batch. source records where the tables
// came from, e.g. the root URL of a directory import.
func (s *Store) NewBatch(ctx context.Context, source string) (Batch, error) {
	b := Batch{ID: s.ids.Generate(), Source: source}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO batches (id, seq, source)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM batches), ?)
		RETURNING seq
	`, b.ID, b.Source).Scan(&b.Seq)
	if err != nil {
		return Batch{}, fmt.Errorf("new batch: %w", err)
	}
	s.logger.Debug("batch created", "batch", b.ID, "source", source)
	return b, nil
}

// PutTable stores t in the user encoding under batch. Storing a table whose
// text is already in the catalog is a no-op that returns the existing
// record; created reports whether a new version was written.
func (s *Store) PutTable(ctx context.Context, t *table.Table, batch Batch) (rec Record, created bool, err error) {
	var buf bytes.Buffer
	if _, err := t.WriteTo(&buf); err != nil {
		return Record{}, false, fmt.Errorf("put table: %w", err)
	}
	text := buf.Bytes()

	rec = Record{
		Identity: TableIdentity(text),
		Number:   t.Number,
		Spinor:   t.Spinor,
		Name:     t.Name,
		Nsym:     t.Nsym,
		Irreps:   len(t.Irreps()),
		Size:     len(text),
		BatchID:  batch.ID,
	}
	rec.Checksum, err = Checksum(text)
	if err != nil {
		return Record{}, false, fmt.Errorf("put table: %w", err)
	}
	body := s.enc.EncodeAll(text, nil)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, false, fmt.Errorf("put table: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO tables
		(identity, sg, spinor, name, nsym, irreps, body, body_size, checksum, batch_id, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM tables))
		ON CONFLICT(identity) DO NOTHING
	`,
		rec.Identity,
		rec.Number,
		boolToInt(rec.Spinor),
		rec.Name,
		rec.Nsym,
		rec.Irreps,
		body,
		rec.Size,
		rec.Checksum,
		rec.BatchID,
	)
	if err != nil {
		return Record{}, false, fmt.Errorf("put table: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Record{}, false, fmt.Errorf("put table: %w", err)
	}

	stored, err := scanRecord(tx.QueryRowContext(ctx, selectRecord+` WHERE identity = ?`, rec.Identity))
	if err != nil {
		return Record{}, false, fmt.Errorf("put table: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Record{}, false, fmt.Errorf("put table: %w", err)
	}

	s.logger.Debug("table stored",
		"sg", rec.Number, "spinor", rec.Spinor, "identity", rec.Identity,
		"created", n > 0, "bytes", rec.Size, "compressed", len(body))
	return stored, n > 0, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

var _ rowScanner = (*sql.Row)(nil)
