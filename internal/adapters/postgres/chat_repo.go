package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/motospirit/internal/core/domain"
)

// ChatRepo implements ports.ChatRepository.
type ChatRepo struct {
	db *DB
}

func NewChatRepo(db *DB) *ChatRepo { return &ChatRepo{db: db} }

func (r *ChatRepo) History(ctx context.Context) ([]domain.ChatMessage, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT role, text FROM chat_messages ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.Role, &m.Text); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *ChatRepo) Append(ctx context.Context, msgs ...domain.ChatMessage) error {
	batch := &pgx.Batch{}
	for _, m := range msgs {
		batch.Queue(`INSERT INTO chat_messages (role, text) VALUES ($1, $2)`, m.Role, m.Text)
	}
	return r.exec(ctx, batch)
}

// Reset replaces the whole conversation with seed.
func (r *ChatRepo) Reset(ctx context.Context, seed domain.ChatMessage) error {
	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM chat_messages`)
	batch.Queue(`INSERT INTO chat_messages (role, text) VALUES ($1, $2)`, seed.Role, seed.Text)
	return r.exec(ctx, batch)
}

func (r *ChatRepo) exec(ctx context.Context, batch *pgx.Batch) error {
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}
