package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/playperu/jurybot/internal/festival"
)

// DocStore keeps the document as JSONB in the documents table.
type DocStore struct {
	db *sql.DB
}

func NewDocStore(db *sql.DB) *DocStore {
	return &DocStore{db: db}
}

func (s *DocStore) Save(ctx context.Context, doc festival.Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (id, data, updated_at) VALUES (?, jsonb(?), ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		DocumentID, string(data), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

func (s *DocStore) Load(ctx context.Context) (festival.Document, bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM documents WHERE id = ?`, DocumentID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return festival.Document{}, false, nil
	}
	if err != nil {
		return festival.Document{}, false, fmt.Errorf("loading document: %w", err)
	}
	doc, err := Decode([]byte(data))
	if err != nil {
		return festival.Document{}, false, err
	}
	return doc, true, nil
}
