package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"mathduel_backend/internal/logger"
	"mathduel_backend/internal/repository"
	"mathduel_backend/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// StatsBot отвечает администраторам сводкой по игре через Telegram
type StatsBot struct {
	bot      *tgbotapi.BotAPI
	stats    *service.StatsService
	users    *repository.UserRepository
	adminIDs []int64 // Telegram ID пользователей с правами админа
	stopCh   chan struct{}
	wg       sync.WaitGroup
	log      *slog.Logger
}

// NewStatsBot создаёт нового бота статистики
func NewStatsBot(token string, stats *service.StatsService, users *repository.UserRepository, adminIDs []int64) (*StatsBot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log := logger.With("component", "stats_bot")
	log.Info("stats bot authorized", "username", bot.Self.UserName)

	return &StatsBot{
		bot:      bot,
		stats:    stats,
		users:    users,
		adminIDs: adminIDs,
		stopCh:   make(chan struct{}),
		log:      log,
	}, nil
}

// Start запускает прослушивание команд
func (b *StatsBot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.bot.GetUpdatesChan(u)
	b.log.Info("starting bot update loop")

	for {
		select {
		case <-b.stopCh:
			b.log.Info("stopping bot update loop")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}

			// Проверка является ли пользователь админом
			if !b.isAdmin(update.Message.From.ID) {
				continue
			}

			b.wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer b.wg.Done()
				b.handleCommand(msg)
			}(update.Message)
		}
	}
}

// Stop останавливает бота и дожидается обработчиков
func (b *StatsBot) Stop() {
	close(b.stopCh)
	b.bot.StopReceivingUpdates()
	b.wg.Wait()
}

func (b *StatsBot) isAdmin(tgID int64) bool {
	for _, id := range b.adminIDs {
		if id == tgID {
			return true
		}
	}
	return false
}

func (b *StatsBot) handleCommand(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch msg.Command() {
	case "stats":
		b.sendStats(ctx, msg.Chat.ID)
	case "top":
		b.sendTop(ctx, msg.Chat.ID)
	case "help", "start":
		b.reply(msg.Chat.ID, "Команды:\n/stats - сводка по игре\n/top - топ игроков по победам")
	default:
		b.reply(msg.Chat.ID, "Неизвестная команда. /help")
	}
}

func (b *StatsBot) sendStats(ctx context.Context, chatID int64) {
	stats, err := b.stats.Collect(ctx)
	if err != nil {
		b.log.Error("failed to collect stats", "error", err)
		b.reply(chatID, "Не удалось собрать статистику")
		return
	}

	text := fmt.Sprintf(
		"📊 Статистика\n\nПользователей: %d\nПартий всего: %d\nПартий сегодня: %d\nАктивных hot-seat: %d",
		stats.Users, stats.Matches, stats.MatchesToday, b.stats.ActiveHotSeat(),
	)
	b.reply(chatID, text)
}

func (b *StatsBot) sendTop(ctx context.Context, chatID int64) {
	top, err := b.users.GetTopByWins(ctx, 10)
	if err != nil {
		b.log.Error("failed to load top", "error", err)
		b.reply(chatID, "Не удалось получить топ")
		return
	}

	var sb strings.Builder
	sb.WriteString("🏆 Топ игроков\n\n")
	for _, e := range top {
		name := e.FirstName
		if name == "" {
			name = e.Username
		}
		sb.WriteString(fmt.Sprintf("%d. %s — %d побед\n", e.Rank, name, e.Wins))
	}
	if len(top) == 0 {
		sb.WriteString("пока пусто")
	}
	b.reply(chatID, sb.String())
}

func (b *StatsBot) reply(chatID int64, text string) {
	m := tgbotapi.NewMessage(chatID, text)
	if _, err := b.bot.Send(m); err != nil {
		b.log.Error("failed to send message", "error", err)
	}
}
