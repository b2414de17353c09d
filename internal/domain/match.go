package domain

import "time"

// Режим партии
type MatchMode string

const (
	ModePvP     MatchMode = "pvp"
	ModeHotSeat MatchMode = "hotseat"
)

// Итог партии с точки зрения пользователя
type MatchResult string

const (
	ResultWin          MatchResult = "win"
	ResultLose         MatchResult = "lose"
	ResultDraw         MatchResult = "draw"
	ResultOpponentLeft MatchResult = "opponent_left"
)

type MatchRecord struct {
	ID           int64          `db:"id" json:"id"`
	UserID       int64          `db:"user_id" json:"user_id"`
	OpponentID   *int64         `db:"opponent_id" json:"opponent_id,omitempty"`
	OpponentName string         `db:"opponent_name" json:"opponent_name"`
	Mode         MatchMode      `db:"mode" json:"mode"`
	Operation    string         `db:"operation" json:"operation"`
	WinCondition string         `db:"win_condition" json:"win_condition"`
	Result       MatchResult    `db:"result" json:"result"`
	Details      map[string]any `db:"details" json:"details,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}
