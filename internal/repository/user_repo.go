package repository

import (
	"context"

	"mathduel_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// получает пользователя по внутреннему id
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, tg_id, username, first_name, created_at, wins, losses, draws
		FROM users
		WHERE id = $1
	`, id)

	var u domain.User
	if err := row.Scan(
		&u.ID, &u.TgID, &u.Username, &u.FirstName, &u.CreatedAt, &u.Wins, &u.Losses, &u.Draws,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// получает пользователя по telegram id
func (r *UserRepository) GetByTgID(ctx context.Context, tgID int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, tg_id, username, first_name, created_at, wins, losses, draws
		FROM users
		WHERE tg_id = $1
	`, tgID)

	var u domain.User
	if err := row.Scan(
		&u.ID, &u.TgID, &u.Username, &u.FirstName, &u.CreatedAt, &u.Wins, &u.Losses, &u.Draws,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// создает пользователя при первом входе или обновляет имя из telegram
func (r *UserRepository) UpsertFromTelegram(ctx context.Context, tgID int64, username, firstName string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (tg_id, username, first_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (tg_id) DO UPDATE
		SET username = EXCLUDED.username, first_name = EXCLUDED.first_name
		RETURNING id, tg_id, username, first_name, created_at, wins, losses, draws
	`, tgID, username, firstName)

	var u domain.User
	if err := row.Scan(
		&u.ID, &u.TgID, &u.Username, &u.FirstName, &u.CreatedAt, &u.Wins, &u.Losses, &u.Draws,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

// инкрементирует счетчик побед/поражений/ничьих по итогу партии
func (r *UserRepository) IncrementResult(ctx context.Context, userID int64, result domain.MatchResult) error {
	var column string
	switch result {
	case domain.ResultWin, domain.ResultOpponentLeft:
		column = "wins"
	case domain.ResultLose:
		column = "losses"
	case domain.ResultDraw:
		column = "draws"
	default:
		return nil
	}

	_, err := r.db.Exec(ctx, `
		UPDATE users SET `+column+` = `+column+` + 1 WHERE id = $1
	`, userID)
	return err
}

// возвращает топ игроков по числу побед
func (r *UserRepository) GetTopByWins(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, username, first_name, wins, losses, draws
		FROM users
		ORDER BY wins DESC, losses ASC, id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.LeaderboardEntry, 0, limit)
	rank := 0
	for rows.Next() {
		rank++
		e := domain.LeaderboardEntry{Rank: rank}
		if err := rows.Scan(&e.UserID, &e.Username, &e.FirstName, &e.Wins, &e.Losses, &e.Draws); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// возвращает позицию пользователя в рейтинге по победам
func (r *UserRepository) GetUserRank(ctx context.Context, userID int64) (int, error) {
	var rank int
	err := r.db.QueryRow(ctx, `
		SELECT position FROM (
			SELECT id, ROW_NUMBER() OVER (ORDER BY wins DESC, losses ASC, id ASC) AS position
			FROM users
		) ranked
		WHERE id = $1
	`, userID).Scan(&rank)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	return rank, err
}

// общее число зарегистрированных пользователей
func (r *UserRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
