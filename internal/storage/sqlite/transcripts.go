package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lukebdev/termlink/internal/core"
)

// TranscriptRepo mirrors every recorded conversation turn to sqlite.
// Observability only: nothing reads transcripts back on the request
// path, so a failed write costs a log line, not a reply.
type TranscriptRepo struct {
	db *sql.DB
}

func NewTranscriptRepo(db *sql.DB) *TranscriptRepo {
	return &TranscriptRepo{db: db}
}

func (r *TranscriptRepo) Name() string { return "transcripts" }

func (r *TranscriptRepo) Record(ctx context.Context, conversationID string, entry core.HistoryEntry) error {
	query := `INSERT INTO transcripts (conversation_id, author, text, created_at) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, conversationID, entry.Author, entry.Text, entry.At); err != nil {
		return fmt.Errorf("failed to insert transcript row: %w", err)
	}
	return nil
}

// Recent returns the last limit turns of a conversation in
// chronological order. Used by the operator inspection command.
func (r *TranscriptRepo) Recent(ctx context.Context, conversationID string, limit int) ([]core.HistoryEntry, error) {
	query := `SELECT author, text, created_at FROM transcripts WHERE conversation_id = ? ORDER BY id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transcripts: %w", err)
	}
	defer rows.Close()

	var entries []core.HistoryEntry
	for rows.Next() {
		var e core.HistoryEntry
		if err := rows.Scan(&e.Author, &e.Text, &e.At); err != nil {
			return nil, fmt.Errorf("failed to scan transcript row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}
