package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/dispatch-service/internal/domain"
)

// NoteRepository stores the append-only audit log. There is deliberately no
// update or delete: notes are immutable once written.
type NoteRepository interface {
	Append(ctx context.Context, note *domain.DispatchNote) error
	ListByDispatch(ctx context.Context, dispatchID string) ([]domain.DispatchNote, error)
}

type noteRepository struct {
	pool *pgxpool.Pool
}

// NewNoteRepository builds repository.
func NewNoteRepository(pool *pgxpool.Pool) NoteRepository {
	return &noteRepository{pool: pool}
}

func (r *noteRepository) Append(ctx context.Context, note *domain.DispatchNote) error {
	const query = `
        INSERT INTO dispatch_notes (dispatch_id, category, author, body)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return querier(ctx, r.pool).QueryRow(ctx, query,
		note.DispatchID,
		note.Category,
		note.Author,
		note.Body,
	).Scan(&note.ID, &note.CreatedAt)
}

func (r *noteRepository) ListByDispatch(ctx context.Context, dispatchID string) ([]domain.DispatchNote, error) {
	const query = `
        SELECT id, dispatch_id, category, author, body, created_at
        FROM dispatch_notes WHERE dispatch_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := querier(ctx, r.pool).Query(ctx, query, dispatchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.DispatchNote
	for rows.Next() {
		var note domain.DispatchNote
		if err := rows.Scan(
			&note.ID,
			&note.DispatchID,
			&note.Category,
			&note.Author,
			&note.Body,
			&note.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, note)
	}
	return result, rows.Err()
}
