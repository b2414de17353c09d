package repository

import (
	"context"
	"encoding/json"
	"time"

	"mathduel_backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MatchRepository struct {
	db *pgxpool.Pool
}

func NewMatchRepository(db *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{db: db}
}

// сохраняет запись об завершенной партии
func (r *MatchRepository) Create(ctx context.Context, m *domain.MatchRecord) error {
	var details []byte
	if m.Details != nil {
		var err error
		details, err = json.Marshal(m.Details)
		if err != nil {
			return err
		}
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO match_history (user_id, opponent_id, opponent_name, mode, operation, win_condition, result, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, m.UserID, m.OpponentID, m.OpponentName, m.Mode, m.Operation, m.WinCondition, m.Result, details).
		Scan(&m.ID, &m.CreatedAt)
}

// возвращает историю партий пользователя, новые первыми
func (r *MatchRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.MatchRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, opponent_id, opponent_name, mode, operation, win_condition, result, details, created_at
		FROM match_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.MatchRecord, 0, limit)
	for rows.Next() {
		var m domain.MatchRecord
		var details []byte
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.OpponentID, &m.OpponentName, &m.Mode,
			&m.Operation, &m.WinCondition, &m.Result, &details, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &m.Details); err != nil {
				return nil, err
			}
		}
		records = append(records, m)
	}
	return records, rows.Err()
}

// общее число сохраненных партий
func (r *MatchRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM match_history`).Scan(&n)
	return n, err
}

// число партий с указанного момента
func (r *MatchRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM match_history WHERE created_at >= $1
	`, since).Scan(&n)
	return n, err
}
