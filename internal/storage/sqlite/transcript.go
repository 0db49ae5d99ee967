package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/verdictbot/internal/core"
)

// TranscriptRepo is the append-only audit log of turns and verdicts.
type TranscriptRepo struct {
	db *sql.DB
}

func NewTranscriptRepo(db *sql.DB) *TranscriptRepo {
	return &TranscriptRepo{db: db}
}

func (r *TranscriptRepo) Append(ctx context.Context, entry core.TranscriptEntry) error {
	query := `INSERT INTO transcript (session_id, role, content, winner) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, entry.SessionID, entry.Role, entry.Content, entry.Winner); err != nil {
		return fmt.Errorf("failed to insert transcript entry: %w", err)
	}
	return nil
}

func (r *TranscriptRepo) Recent(ctx context.Context, sessionID string, limit int) ([]core.TranscriptEntry, error) {
	query := `SELECT id, session_id, role, content, winner, created_at
		FROM transcript WHERE session_id = ? ORDER BY id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transcript: %w", err)
	}
	defer rows.Close()

	var entries []core.TranscriptEntry
	for rows.Next() {
		var e core.TranscriptEntry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Role, &e.Content, &e.Winner, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transcript entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Newest-first from the query; flip back to chronological order.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}
