package service

import (
	"context"
	"time"

	"mathduel_backend/internal/repository"
)

// Сводка для админского бота
type Stats struct {
	Users        int64
	Matches      int64
	MatchesToday int64
}

type StatsService struct {
	users   *repository.UserRepository
	matches *repository.MatchRepository
	duels   *MatchService
}

func NewStatsService(users *repository.UserRepository, matches *repository.MatchRepository, duels *MatchService) *StatsService {
	return &StatsService{users: users, matches: matches, duels: duels}
}

// Collect собирает текущую сводку по базе
func (s *StatsService) Collect(ctx context.Context) (*Stats, error) {
	users, err := s.users.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	matches, err := s.matches.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	midnight := time.Now().Truncate(24 * time.Hour)
	today, err := s.matches.CountSince(ctx, midnight)
	if err != nil {
		return nil, err
	}

	return &Stats{
		Users:        users,
		Matches:      matches,
		MatchesToday: today,
	}, nil
}

// ActiveHotSeat возвращает число активных локальных партий
func (s *StatsService) ActiveHotSeat() int {
	if s.duels == nil {
		return 0
	}
	return s.duels.ActiveSessionsCount()
}
