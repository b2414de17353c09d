package game

import "sync"

// Cell - координаты клетки поля
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// ClaimResult - итог выбора клетки в фазе ответа
type ClaimResult struct {
	Correct  bool   `json:"correct"`
	Expected int    `json:"expected"`
	Cell     Cell   `json:"cell"`
	GameOver bool   `json:"game_over"`
	Winner   Player `json:"winner,omitempty"`
	Draw     bool   `json:"draw,omitempty"`
}

// Match - конечный автомат одного матча. Все переходы выполняются в ответ
// на дискретные внешние события; недопустимые события возвращают
// ErrIllegalTransition, который транспорт молча отбрасывает
type Match struct {
	mu  sync.RWMutex
	rng RandSource
	gen *OperandGenerator

	cfg    *Config
	phase  Phase
	active Player
	board  *Board
	round  *Round

	coinTarget Face

	// защелка вращения: спин принят, колесо еще не остановилось.
	// Повторный запрос на активное колесо игнорируется, очереди нет
	spinPending [WheelCount]bool
	lastSpin    *WheelSpin

	rejected        *Cell
	awaitingHandoff bool

	winner Player
	draw   bool
}

// NewMatch создает матч в фазе Setup. nil rng означает криптографический
// источник; тесты передают детерминированный
func NewMatch(rng RandSource) *Match {
	if rng == nil {
		rng = NewCryptoSource()
	}
	return &Match{
		rng:   rng,
		gen:   NewOperandGenerator(rng),
		phase: PhaseSetup,
	}
}

// SubmitConfiguration выполняет переход Setup -> CoinFlip.
// Совпадающие цвета игроков отклоняются, фаза Setup сохраняется
func (m *Match) SubmitConfiguration(cfg Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhaseSetup {
		return ErrIllegalTransition
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	m.cfg = &cfg
	m.board = NewBoard(cfg.Operation)
	m.coinTarget = flipCoin(m.rng)
	m.phase = PhaseCoinFlip
	return nil
}

// CoinTarget - сторона, на которую презентация анимирует монету
func (m *Match) CoinTarget() Face {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.coinTarget
}

// CoinFlipResolved принимает исход анимации монеты и выполняет переход
// CoinFlip -> Spin1(начинающий игрок) с подготовкой первого раунда.
// Исход жеребьевки выбран заранее, клиент лишь подтверждает анимацию:
// сообщение о другой стороне отбрасывается
func (m *Match) CoinFlipResolved(face Face) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhaseCoinFlip || face != m.coinTarget {
		return ErrIllegalTransition
	}

	m.active = StartingPlayerFor(face)
	m.startRoundLocked()
	return nil
}

// RequestSpin запускает вращение колеса активного хода. Возвращает
// параметры анимации; повторный запрос во время вращения,
// чужое колесо или чужая фаза - ErrIllegalTransition
func (m *Match) RequestSpin(wheel int) (*WheelSpin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.wheelActiveLocked(wheel) {
		return nil, ErrIllegalTransition
	}
	if m.spinPending[wheel-1] || m.round.Revealed(wheel) {
		return nil, ErrIllegalTransition
	}

	m.spinPending[wheel-1] = true
	spin := SpinFor(m.round, wheel, m.rng)
	m.lastSpin = &spin
	return &spin, nil
}

// WheelSettled фиксирует остановку колеса на целевом значении:
// операнд раскрывается, фаза продвигается (Spin1 -> Spin2 -> Answer)
func (m *Match) WheelSettled(wheel int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.wheelActiveLocked(wheel) || !m.spinPending[wheel-1] {
		return ErrIllegalTransition
	}

	m.spinPending[wheel-1] = false
	m.round.Reveal(wheel)

	if wheel == 1 {
		m.phase = PhaseSpin2
	} else {
		m.phase = PhaseAnswer
	}
	return nil
}

// CellSelected обрабатывает выбор клетки в фазе ответа. Верный ответ
// захватывает клетку, проверяет победу и немедленно передает ход;
// неверный - запоминает отклоненную клетку и ждет CommitTurnHandoff
func (m *Match) CellSelected(row, col int) (*ClaimResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhaseAnswer || m.awaitingHandoff {
		return nil, ErrIllegalTransition
	}
	if !m.board.InBounds(row, col) || m.board.Owner(row, col) != NoOne {
		// занятые клетки не должны приходить из презентации - игнорируем
		return nil, ErrIllegalTransition
	}

	res := &ClaimResult{Cell: Cell{Row: row, Col: col}}
	correct, expected := ValidateClaim(
		m.board.Value(row, col), m.cfg.Operation, *m.round.Operand1, *m.round.Operand2)
	res.Correct = correct
	res.Expected = expected

	if !correct {
		// остаток хода теряется, но передача произойдет после того,
		// как презентация доиграет анимацию отказа
		m.rejected = &res.Cell
		m.awaitingHandoff = true
		return res, nil
	}

	m.board.ApplyClaim(row, col, m.active)

	winner, over := EvaluateWin(m.board, m.active, m.cfg.WinCondition)
	if !over && m.board.IsFull() {
		// поле заполнено без победителя при first_to_5/connect_3 - ничья
		over = true
		winner = NoOne
	}

	if over {
		m.winner = winner
		m.draw = winner == NoOne
		m.phase = PhaseGameOver
		m.round = nil
		res.GameOver = true
		res.Winner = winner
		res.Draw = m.draw
		return res, nil
	}

	m.active = m.active.Other()
	m.startRoundLocked()
	return res, nil
}

// CommitTurnHandoff завершает передачу хода после неверного ответа.
// Вызывается презентацией по окончании анимации отказа; сам движок
// никаких задержек не отсчитывает
func (m *Match) CommitTurnHandoff() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.awaitingHandoff {
		return ErrIllegalTransition
	}

	m.active = m.active.Other()
	m.startRoundLocked()
	return nil
}

// Restart возвращает матч в Setup из любой фазы: поле, счет, раунд
// и конфигурация сбрасываются; незавершенное вращение отбрасывается
func (m *Match) Restart() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cfg = nil
	m.phase = PhaseSetup
	m.active = NoOne
	m.board = nil
	m.round = nil
	m.coinTarget = ""
	m.spinPending = [WheelCount]bool{}
	m.lastSpin = nil
	m.rejected = nil
	m.awaitingHandoff = false
	m.winner = NoOne
	m.draw = false
}

// Phase возвращает текущую фазу
func (m *Match) Phase() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phase
}

// ActivePlayer возвращает игрока, чей сейчас ход
func (m *Match) ActivePlayer() Player {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// GameOver сообщает, завершен ли матч, и кем (NoOne при ничьей)
func (m *Match) GameOver() (over bool, winner Player, draw bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phase == PhaseGameOver, m.winner, m.draw
}

// вызывающий держит m.mu
func (m *Match) startRoundLocked() {
	m.round = m.gen.NewRound(m.cfg.Operation)
	m.spinPending = [WheelCount]bool{}
	m.lastSpin = nil
	m.rejected = nil
	m.awaitingHandoff = false
	m.phase = PhaseSpin1
}

// вызывающий держит m.mu
func (m *Match) wheelActiveLocked(wheel int) bool {
	switch wheel {
	case 1:
		return m.phase == PhaseSpin1
	case 2:
		return m.phase == PhaseSpin2
	}
	return false
}

// Snapshot - полное состояние матча для презентации; отправляется
// после каждого перехода
type Snapshot struct {
	Phase           Phase      `json:"phase"`
	ActivePlayer    Player     `json:"active_player,omitempty"`
	Config          *Config    `json:"config,omitempty"`
	CoinTarget      Face       `json:"coin_target,omitempty"`
	Operand1        *int       `json:"operand1"`
	Operand2        *int       `json:"operand2"`
	WheelTargets    []int      `json:"wheel_targets,omitempty"`
	Wheel1Faces     []int      `json:"wheel1_faces,omitempty"`
	Wheel2Faces     []int      `json:"wheel2_faces,omitempty"`
	TableNumber     int        `json:"table_number,omitempty"`
	Spin            *WheelSpin `json:"spin,omitempty"`
	Layout          [][]int    `json:"layout,omitempty"`
	Owners          [][]string `json:"owners,omitempty"`
	RejectedCell    *Cell      `json:"rejected_cell,omitempty"`
	AwaitingHandoff bool       `json:"awaiting_handoff,omitempty"`
	Score1          int        `json:"score1"`
	Score2          int        `json:"score2"`
	Winner          Player     `json:"winner,omitempty"`
	Draw            bool       `json:"draw,omitempty"`
}

// Snapshot собирает сериализуемое состояние для клиента
func (m *Match) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Snapshot{
		Phase:           m.phase,
		ActivePlayer:    m.active,
		Config:          m.cfg,
		CoinTarget:      m.coinTarget,
		Spin:            m.lastSpin,
		RejectedCell:    m.rejected,
		AwaitingHandoff: m.awaitingHandoff,
		Winner:          m.winner,
		Draw:            m.draw,
	}

	if m.board != nil {
		s.Layout = m.board.LayoutMatrix()
		s.Owners = m.board.OwnerMatrix()
		s.Score1 = m.board.CountFor(Player1)
		s.Score2 = m.board.CountFor(Player2)
	}

	if m.round != nil {
		s.Operand1 = m.round.Operand1
		s.Operand2 = m.round.Operand2
		s.WheelTargets = []int{m.round.Target1, m.round.Target2}
		s.Wheel1Faces = m.round.Wheel1Faces[:]
		s.Wheel2Faces = m.round.Wheel2Faces[:]
		s.TableNumber = m.round.TableNumber
	}

	return s
}
