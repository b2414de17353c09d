package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"mathduel_backend/internal/domain"
	"mathduel_backend/internal/game"
	"mathduel_backend/internal/logger"
	"mathduel_backend/internal/metrics"
	"mathduel_backend/internal/repository"

	"github.com/google/uuid"
)

var ErrNoSession = errors.New("нет активной партии")

// HotSeatSession хранит локальную партию за одним устройством
type HotSeatSession struct {
	ID        string
	UserID    int64
	Match     *game.Match
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MatchService управляет hot-seat партиями и записью истории
type MatchService struct {
	matches  *repository.MatchRepository
	users    *repository.UserRepository
	sessions map[int64]*HotSeatSession // userID -> session
	mu       sync.RWMutex
}

func NewMatchService(matches *repository.MatchRepository, users *repository.UserRepository) *MatchService {
	s := &MatchService{
		matches:  matches,
		users:    users,
		sessions: make(map[int64]*HotSeatSession),
	}

	// горутина для очистки заброшенных партий
	go s.cleanupExpiredSessions()

	return s
}

// StartSession создает новую hot-seat партию, заменяя прежнюю если была
func (s *MatchService) StartSession(userID int64) *HotSeatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &HotSeatSession{
		ID:        uuid.New().String()[:8],
		UserID:    userID,
		Match:     game.NewMatch(nil),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.sessions[userID] = sess
	return sess
}

// Session возвращает активную партию пользователя
func (s *MatchService) Session(userID int64) (*HotSeatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return nil, ErrNoSession
	}
	return sess, nil
}

func (s *MatchService) touch(sess *HotSeatSession) {
	s.mu.Lock()
	sess.UpdatedAt = time.Now()
	s.mu.Unlock()
}

// Configure применяет настройки партии и запускает жеребьевку
func (s *MatchService) Configure(userID int64, cfg game.Config) (game.Snapshot, error) {
	sess, err := s.Session(userID)
	if err != nil {
		return game.Snapshot{}, err
	}

	if err := sess.Match.SubmitConfiguration(cfg); err != nil {
		return sess.Match.Snapshot(), err
	}
	s.touch(sess)
	metrics.MatchesStarted.WithLabelValues(string(domain.ModeHotSeat), string(cfg.Operation)).Inc()
	return sess.Match.Snapshot(), nil
}

// CoinResolved сообщает итог анимации жеребьевки.
// Невозможные в текущей фазе события молча игнорируются: возвращаем
// актуальное состояние, чтобы клиент мог пересинхронизироваться.
func (s *MatchService) CoinResolved(userID int64, face game.Face) (game.Snapshot, error) {
	sess, err := s.Session(userID)
	if err != nil {
		return game.Snapshot{}, err
	}

	if err := sess.Match.CoinFlipResolved(face); err != nil && !errors.Is(err, game.ErrIllegalTransition) {
		return sess.Match.Snapshot(), err
	}
	s.touch(sess)
	return sess.Match.Snapshot(), nil
}

// Spin запрашивает вращение колеса
func (s *MatchService) Spin(userID int64, wheel int) (*game.WheelSpin, game.Snapshot, error) {
	sess, err := s.Session(userID)
	if err != nil {
		return nil, game.Snapshot{}, err
	}

	spin, err := sess.Match.RequestSpin(wheel)
	if err != nil && !errors.Is(err, game.ErrIllegalTransition) {
		return nil, sess.Match.Snapshot(), err
	}
	s.touch(sess)
	return spin, sess.Match.Snapshot(), nil
}

// WheelSettled сообщает об остановке колеса
func (s *MatchService) WheelSettled(userID int64, wheel int) (game.Snapshot, error) {
	sess, err := s.Session(userID)
	if err != nil {
		return game.Snapshot{}, err
	}

	if err := sess.Match.WheelSettled(wheel); err != nil && !errors.Is(err, game.ErrIllegalTransition) {
		return sess.Match.Snapshot(), err
	}
	s.touch(sess)
	return sess.Match.Snapshot(), nil
}

// SelectCell обрабатывает выбор ячейки активным игроком
func (s *MatchService) SelectCell(ctx context.Context, userID int64, row, col int) (*game.ClaimResult, game.Snapshot, error) {
	sess, err := s.Session(userID)
	if err != nil {
		return nil, game.Snapshot{}, err
	}

	res, err := sess.Match.CellSelected(row, col)
	if err != nil && !errors.Is(err, game.ErrIllegalTransition) {
		return nil, sess.Match.Snapshot(), err
	}
	s.touch(sess)

	if res != nil {
		metrics.ClaimsTotal.WithLabelValues(strconv.FormatBool(res.Correct)).Inc()
		if res.GameOver {
			s.recordFinished(ctx, sess, res)
		}
	}
	return res, sess.Match.Snapshot(), nil
}

// CommitHandoff подтверждает передачу хода после неверного ответа
func (s *MatchService) CommitHandoff(userID int64) (game.Snapshot, error) {
	sess, err := s.Session(userID)
	if err != nil {
		return game.Snapshot{}, err
	}

	if err := sess.Match.CommitTurnHandoff(); err != nil && !errors.Is(err, game.ErrIllegalTransition) {
		return sess.Match.Snapshot(), err
	}
	s.touch(sess)
	return sess.Match.Snapshot(), nil
}

// Restart сбрасывает партию к экрану настроек
func (s *MatchService) Restart(userID int64) (game.Snapshot, error) {
	sess, err := s.Session(userID)
	if err != nil {
		return game.Snapshot{}, err
	}

	sess.Match.Restart()
	s.touch(sess)
	return sess.Match.Snapshot(), nil
}

// записывает завершенную hot-seat партию в историю владельца сессии
func (s *MatchService) recordFinished(ctx context.Context, sess *HotSeatSession, res *game.ClaimResult) {
	snap := sess.Match.Snapshot()

	outcome := "draw"
	result := domain.ResultDraw
	var winnerName string
	if !res.Draw {
		outcome = string(res.Winner)
		if snap.Config != nil {
			if res.Winner == game.Player1 {
				winnerName = snap.Config.Player1Name
			} else {
				winnerName = snap.Config.Player2Name
			}
		}
		// владелец сессии всегда сидит за первым игроком
		if res.Winner == game.Player1 {
			result = domain.ResultWin
		} else {
			result = domain.ResultLose
		}
	}
	metrics.MatchesFinished.WithLabelValues(string(domain.ModeHotSeat), outcome).Inc()

	record := &domain.MatchRecord{
		UserID: sess.UserID,
		Mode:   domain.ModeHotSeat,
		Result: result,
		Details: map[string]any{
			"winner_name": winnerName,
			"score1":      snap.Score1,
			"score2":      snap.Score2,
		},
	}
	if snap.Config != nil {
		record.Operation = string(snap.Config.Operation)
		record.WinCondition = string(snap.Config.WinCondition)
		record.OpponentName = snap.Config.Player2Name
	}

	if s.matches == nil {
		return
	}
	if err := s.matches.Create(ctx, record); err != nil {
		logger.Error("не удалось сохранить партию", "error", err, "session", sess.ID)
	}
	if s.users != nil {
		if err := s.users.IncrementResult(ctx, sess.UserID, result); err != nil {
			logger.Error("не удалось обновить счетчики пользователя", "error", err)
		}
	}
}

// ActiveSessionsCount возвращает число активных hot-seat партий
func (s *MatchService) ActiveSessionsCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// удаляет партии без активности дольше часа
func (s *MatchService) cleanupExpiredSessions() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for userID, sess := range s.sessions {
			if now.Sub(sess.UpdatedAt) > time.Hour {
				delete(s.sessions, userID)
			}
		}
		s.mu.Unlock()
	}
}
