package game

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// Player - идентификатор одного из двух игроков матча
type Player string

const (
	Player1 Player = "player1"
	Player2 Player = "player2"
	NoOne   Player = "" // клетка не занята / победитель не определен
)

// Other возвращает противоположного игрока
func (p Player) Other() Player {
	if p == Player1 {
		return Player2
	}
	return Player1
}

// Operation - арифметическая операция, выбирается один раз на матч
type Operation string

const (
	OpAdd      Operation = "add"
	OpSubtract Operation = "subtract"
	OpMultiply Operation = "multiply"
	OpDivide   Operation = "divide"
)

func (o Operation) Valid() bool {
	switch o {
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		return true
	}
	return false
}

// WinCondition - условие победы, выбирается один раз на матч
type WinCondition string

const (
	WinFirstToFive  WinCondition = "first_to_5"
	WinConnectThree WinCondition = "connect_3"
	WinMostOnFull   WinCondition = "most_on_full"
)

func (w WinCondition) Valid() bool {
	switch w {
	case WinFirstToFive, WinConnectThree, WinMostOnFull:
		return true
	}
	return false
}

// Phase - фаза матча. Активный игрок хранится отдельным полем,
// фаза не кодирует в себе чей сейчас ход
type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhaseCoinFlip Phase = "coin_flip"
	PhaseSpin1    Phase = "spin1"
	PhaseSpin2    Phase = "spin2"
	PhaseAnswer   Phase = "answer"
	PhaseGameOver Phase = "game_over"
)

// Face - сторона монеты при розыгрыше первого хода
type Face string

const (
	FaceHeads Face = "heads"
	FaceTails Face = "tails"
)

func (f Face) Valid() bool {
	return f == FaceHeads || f == FaceTails
}

var (
	// два игрока выбрали один цвет / операция или условие победы не распознаны
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// событие недопустимо в текущей фазе - транспорт молча игнорирует
	ErrIllegalTransition = errors.New("illegal transition")
	// деление с ненулевым остатком - по построению генератора недостижимо
	ErrUndefinedResult = errors.New("no integer result")
)

// Config - настройки матча, передаются один раз при старте игры.
// Цвета и имена игроков движку не нужны, они проносятся в снапшот как есть
type Config struct {
	Operation    Operation    `json:"operation"`
	WinCondition WinCondition `json:"win_condition"`
	Player1Color string       `json:"player1_color"`
	Player2Color string       `json:"player2_color"`
	Player1Name  string       `json:"player1_name"`
	Player2Name  string       `json:"player2_name"`
}

// Validate проверяет конфигурацию перед переходом Setup -> CoinFlip
func (c Config) Validate() error {
	if !c.Operation.Valid() || !c.WinCondition.Valid() {
		return ErrInvalidConfiguration
	}
	if c.Player1Color == "" || c.Player1Color == c.Player2Color {
		return ErrInvalidConfiguration
	}
	return nil
}

// RandSource - источник случайности для генератора операндов и монетки.
// В проде криптографический, в тестах подменяется детерминированным
type RandSource interface {
	// Intn возвращает случайное число в [0, n)
	Intn(n int) int
}

type cryptoSource struct{}

func (cryptoSource) Intn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// NewCryptoSource возвращает криптографически безопасный источник
func NewCryptoSource() RandSource {
	return cryptoSource{}
}
