package game

import (
	"errors"
	"testing"
)

// scriptSource выдает заранее заданные значения, после исчерпания - нули.
// Позволяет прогонять сценарии матча детерминированно
type scriptSource struct {
	vals []int
}

func (s *scriptSource) Intn(n int) int {
	if len(s.vals) == 0 {
		return 0
	}
	v := s.vals[0]
	s.vals = s.vals[1:]
	if v >= n {
		v = v % n
	}
	return v
}

func multiplyConfig() Config {
	return Config{
		Operation:    OpMultiply,
		WinCondition: WinFirstToFive,
		Player1Color: "red",
		Player2Color: "blue",
		Player1Name:  "Аня",
		Player2Name:  "Боря",
	}
}

// сценарий из одного полного хода: монетка -> два вращения -> верный ответ
func TestMatchFullTurnMultiply(t *testing.T) {
	// 0 - монета выпадает орлом; 6 и 7 - операнды 7 и 8
	m := NewMatch(&scriptSource{vals: []int{0, 6, 7}})

	if err := m.SubmitConfiguration(multiplyConfig()); err != nil {
		t.Fatalf("конфигурация отклонена: %v", err)
	}
	if m.Phase() != PhaseCoinFlip {
		t.Fatalf("ожидалась фаза coin_flip, получили %s", m.Phase())
	}
	if m.CoinTarget() != FaceHeads {
		t.Fatalf("монета должна была выпасть орлом")
	}

	if err := m.CoinFlipResolved(FaceHeads); err != nil {
		t.Fatalf("исход монеты отклонен: %v", err)
	}
	if m.Phase() != PhaseSpin1 || m.ActivePlayer() != Player1 {
		t.Fatalf("орел должен отдавать первый ход player1: фаза=%s игрок=%s", m.Phase(), m.ActivePlayer())
	}

	spin, err := m.RequestSpin(1)
	if err != nil {
		t.Fatalf("вращение первого колеса отклонено: %v", err)
	}
	if spin.Target != 7 {
		t.Fatalf("целевое значение первого колеса %d, ожидалось 7", spin.Target)
	}
	if err := m.WheelSettled(1); err != nil {
		t.Fatalf("остановка первого колеса отклонена: %v", err)
	}
	if m.Phase() != PhaseSpin2 {
		t.Fatalf("после первого колеса ожидалась фаза spin2, получили %s", m.Phase())
	}

	spin, err = m.RequestSpin(2)
	if err != nil {
		t.Fatalf("вращение второго колеса отклонено: %v", err)
	}
	if spin.Target != 8 {
		t.Fatalf("целевое значение второго колеса %d, ожидалось 8", spin.Target)
	}
	if err := m.WheelSettled(2); err != nil {
		t.Fatalf("остановка второго колеса отклонена: %v", err)
	}

	snap := m.Snapshot()
	if snap.Phase != PhaseAnswer || snap.Operand1 == nil || snap.Operand2 == nil {
		t.Fatalf("фаза ответа не достигнута или операнды скрыты: %+v", snap)
	}
	if *snap.Operand1 != 7 || *snap.Operand2 != 8 {
		t.Fatalf("раскрыты операнды (%d,%d), ожидались (7,8)", *snap.Operand1, *snap.Operand2)
	}

	// клетка со значением 56 на поле умножения
	res, err := m.CellSelected(3, 0)
	if err != nil {
		t.Fatalf("выбор клетки отклонен: %v", err)
	}
	if !res.Correct || res.Expected != 56 {
		t.Fatalf("верный ответ не засчитан: %+v", res)
	}

	snap = m.Snapshot()
	if snap.Owners[3][0] != string(Player1) {
		t.Fatalf("клетка не закреплена за player1: %q", snap.Owners[3][0])
	}
	if snap.Phase != PhaseSpin1 || snap.ActivePlayer != Player2 {
		t.Fatalf("ход не передан player2: фаза=%s игрок=%s", snap.Phase, snap.ActivePlayer)
	}
	if snap.Operand1 != nil || snap.Operand2 != nil {
		t.Fatalf("операнды прошлого раунда не сброшены")
	}
}

func TestSubmitConfigurationSameColor(t *testing.T) {
	m := NewMatch(&scriptSource{})

	cfg := multiplyConfig()
	cfg.Player2Color = cfg.Player1Color

	if err := m.SubmitConfiguration(cfg); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("одинаковые цвета должны отклоняться, получили %v", err)
	}
	// фаза Setup сохраняется, можно отправить исправленную конфигурацию
	if m.Phase() != PhaseSetup {
		t.Fatalf("после отказа фаза должна остаться setup, получили %s", m.Phase())
	}
	if err := m.SubmitConfiguration(multiplyConfig()); err != nil {
		t.Fatalf("исправленная конфигурация отклонена: %v", err)
	}
}

func TestTailsStartsPlayer2(t *testing.T) {
	m := NewMatch(&scriptSource{vals: []int{1}})
	if err := m.SubmitConfiguration(multiplyConfig()); err != nil {
		t.Fatalf("конфигурация отклонена: %v", err)
	}
	if m.CoinTarget() != FaceTails {
		t.Fatalf("монета должна была выпасть решкой")
	}
	if err := m.CoinFlipResolved(FaceTails); err != nil {
		t.Fatalf("исход монеты отклонен: %v", err)
	}
	if m.ActivePlayer() != Player2 {
		t.Fatalf("решка должна отдавать первый ход player2")
	}
}

// исход жеребьевки выбирает матч, а не клиент: сообщение с другой
// стороной монеты не должно менять начинающего игрока
func TestCoinFlipWrongFaceRejected(t *testing.T) {
	m := NewMatch(&scriptSource{vals: []int{0}}) // монета выпадает орлом
	if err := m.SubmitConfiguration(multiplyConfig()); err != nil {
		t.Fatalf("конфигурация отклонена: %v", err)
	}
	if m.CoinTarget() != FaceHeads {
		t.Fatalf("монета должна была выпасть орлом")
	}

	if err := m.CoinFlipResolved(FaceTails); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("чужая сторона монеты должна отклоняться, получили %v", err)
	}
	if m.Phase() != PhaseCoinFlip || m.ActivePlayer() != NoOne {
		t.Fatalf("отклоненная монета изменила состояние: фаза=%s игрок=%q", m.Phase(), m.ActivePlayer())
	}

	// верная сторона по-прежнему принимается
	if err := m.CoinFlipResolved(FaceHeads); err != nil {
		t.Fatalf("исход монеты отклонен: %v", err)
	}
	if m.ActivePlayer() != Player1 {
		t.Fatalf("орел должен отдавать первый ход player1")
	}
}

func TestIncorrectAnswerHandoff(t *testing.T) {
	m := NewMatch(&scriptSource{vals: []int{0, 6, 7}}) // операнды 7 и 8
	mustReachAnswer(t, m)

	// клетка (0,0) на поле умножения несет 7, а не 56
	res, err := m.CellSelected(0, 0)
	if err != nil {
		t.Fatalf("выбор клетки отклонен: %v", err)
	}
	if res.Correct {
		t.Fatalf("неверный ответ засчитан")
	}

	snap := m.Snapshot()
	if snap.RejectedCell == nil || snap.RejectedCell.Row != 0 || snap.RejectedCell.Col != 0 {
		t.Fatalf("отклоненная клетка не запомнена: %+v", snap.RejectedCell)
	}
	if snap.Owners[0][0] != "" {
		t.Fatalf("клетка захвачена несмотря на неверный ответ")
	}

	// до commitTurnHandoff повторные клики игнорируются
	if _, err := m.CellSelected(3, 0); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("клик во время ожидания передачи хода должен игнорироваться, получили %v", err)
	}

	if err := m.CommitTurnHandoff(); err != nil {
		t.Fatalf("передача хода отклонена: %v", err)
	}

	snap = m.Snapshot()
	if snap.Phase != PhaseSpin1 || snap.ActivePlayer != Player2 {
		t.Fatalf("ход не передан: фаза=%s игрок=%s", snap.Phase, snap.ActivePlayer)
	}
	if snap.Operand1 != nil || snap.Operand2 != nil {
		t.Fatalf("данные раунда не очищены при передаче хода")
	}
	if snap.RejectedCell != nil {
		t.Fatalf("отклоненная клетка не сброшена после передачи хода")
	}
}

func TestSpinLatch(t *testing.T) {
	m := NewMatch(&scriptSource{})
	mustStartTurn(t, m)

	// остановка без запроса вращения игнорируется
	if err := m.WheelSettled(1); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("остановка незапущенного колеса должна игнорироваться, получили %v", err)
	}

	if _, err := m.RequestSpin(1); err != nil {
		t.Fatalf("первое вращение отклонено: %v", err)
	}
	// повторный запрос во время вращения игнорируется - защелка, не очередь
	if _, err := m.RequestSpin(1); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("повторный запрос вращения должен игнорироваться, получили %v", err)
	}
	// второе колесо вне своей фазы игнорируется
	if _, err := m.RequestSpin(2); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("вращение второго колеса в фазе spin1 должно игнорироваться, получили %v", err)
	}
}

func TestEventsOutsidePhaseIgnored(t *testing.T) {
	m := NewMatch(&scriptSource{})

	// до конфигурации ни одно игровое событие не допустимо
	if err := m.CoinFlipResolved(FaceHeads); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("монета до конфигурации: %v", err)
	}
	if _, err := m.RequestSpin(1); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("вращение до конфигурации: %v", err)
	}
	if _, err := m.CellSelected(0, 0); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("клик по клетке до конфигурации: %v", err)
	}
	if err := m.CommitTurnHandoff(); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("передача хода до конфигурации: %v", err)
	}

	mustStartTurn(t, m)
	// клик по клетке вне фазы ответа игнорируется
	if _, err := m.CellSelected(0, 0); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("клик по клетке в фазе spin1: %v", err)
	}
}

// полная партия first_to_5: player1 отвечает верно пять раз,
// player2 между ними ошибается и теряет ход
func TestFirstToFiveFullGame(t *testing.T) {
	// скрипт: монета, затем на каждый ход по четыре значения -
	// два операнда и два угла вращения
	m := NewMatch(&scriptSource{vals: []int{
		0, // орел - начинает player1
		6, 7, 0, 0, // player1: 7*8=56 -> (3,0)
		0, 0, 0, 0, // player2: 1*1, ответит неверно
		8, 9, 0, 0, // player1: 9*10=90 -> (0,3)
		0, 0, 0, 0, // player2
		0, 2, 0, 0, // player1: 1*3=3 -> (0,4)
		0, 0, 0, 0, // player2
		1, 1, 0, 0, // player1: 2*2=4 -> (3,5)
		0, 0, 0, 0, // player2
		4, 4, 0, 0, // player1: 5*5=25 -> (3,3)
	}})

	if err := m.SubmitConfiguration(multiplyConfig()); err != nil {
		t.Fatalf("конфигурация отклонена: %v", err)
	}
	if err := m.CoinFlipResolved(FaceHeads); err != nil {
		t.Fatalf("исход монеты отклонен: %v", err)
	}

	p1Cells := []Cell{{3, 0}, {0, 3}, {0, 4}, {3, 5}, {3, 3}}
	var last *ClaimResult

	for i, cell := range p1Cells {
		last = playAnswer(t, m, cell.Row, cell.Col, true)

		if i == len(p1Cells)-1 {
			break
		}
		// player2 отвечает неверно в свободную клетку (0,0)=7 и теряет ход
		playAnswer(t, m, 0, 0, false)
		if err := m.CommitTurnHandoff(); err != nil {
			t.Fatalf("передача хода отклонена: %v", err)
		}
	}

	if !last.GameOver || last.Winner != Player1 {
		t.Fatalf("пятая клетка не принесла победу player1: %+v", last)
	}
	over, winner, draw := m.GameOver()
	if !over || winner != Player1 || draw {
		t.Fatalf("итог матча неверен: over=%v winner=%s draw=%v", over, winner, draw)
	}
	if m.Phase() != PhaseGameOver {
		t.Fatalf("ожидалась фаза game_over, получили %s", m.Phase())
	}
}

// заполнение поля без выполненного условия победы завершает матч ничьей
func TestFullBoardWithoutWinnerIsDraw(t *testing.T) {
	for _, wc := range []WinCondition{WinFirstToFive, WinConnectThree} {
		t.Run(string(wc), func(t *testing.T) {
			m := NewMatch(&scriptSource{vals: []int{0, 6, 7}}) // орел, операнды 7 и 8
			cfg := multiplyConfig()
			cfg.WinCondition = wc
			if err := m.SubmitConfiguration(cfg); err != nil {
				t.Fatalf("конфигурация отклонена: %v", err)
			}
			if err := m.CoinFlipResolved(FaceHeads); err != nil {
				t.Fatalf("исход монеты отклонен: %v", err)
			}
			for _, wheel := range []int{1, 2} {
				if _, err := m.RequestSpin(wheel); err != nil {
					t.Fatalf("вращение колеса %d отклонено: %v", wheel, err)
				}
				if err := m.WheelSettled(wheel); err != nil {
					t.Fatalf("остановка колеса %d отклонена: %v", wheel, err)
				}
			}

			// отдаем player2 все клетки кроме (3,0), чтобы верный ответ
			// player1 заполнил поле последним
			for row := 0; row < BoardRows; row++ {
				for col := 0; col < BoardCols; col++ {
					if row == 3 && col == 0 {
						continue
					}
					m.board.ApplyClaim(row, col, Player2)
				}
			}

			res, err := m.CellSelected(3, 0)
			if err != nil {
				t.Fatalf("выбор клетки отклонен: %v", err)
			}
			if !res.Correct || !res.GameOver || !res.Draw || res.Winner != NoOne {
				t.Fatalf("ожидалась ничья на заполненном поле: %+v", res)
			}
			over, winner, draw := m.GameOver()
			if !over || winner != NoOne || !draw {
				t.Fatalf("итог матча неверен: over=%v winner=%q draw=%v", over, winner, draw)
			}
			if m.Phase() != PhaseGameOver {
				t.Fatalf("ожидалась фаза game_over, получили %s", m.Phase())
			}
		})
	}
}

// playAnswer прокручивает оба колеса активного игрока и кликает клетку,
// проверяя ожидаемую корректность ответа
func playAnswer(t *testing.T, m *Match, row, col int, wantCorrect bool) *ClaimResult {
	t.Helper()
	for _, wheel := range []int{1, 2} {
		if _, err := m.RequestSpin(wheel); err != nil {
			t.Fatalf("вращение колеса %d отклонено: %v", wheel, err)
		}
		if err := m.WheelSettled(wheel); err != nil {
			t.Fatalf("остановка колеса %d отклонена: %v", wheel, err)
		}
	}
	res, err := m.CellSelected(row, col)
	if err != nil {
		t.Fatalf("выбор клетки (%d,%d) отклонен: %v", row, col, err)
	}
	if res.Correct != wantCorrect {
		t.Fatalf("клетка (%d,%d): correct=%v, ожидалось %v (expected=%d)",
			row, col, res.Correct, wantCorrect, res.Expected)
	}
	return res
}

func TestRestartClearsEverything(t *testing.T) {
	m := NewMatch(&scriptSource{vals: []int{0, 6, 7}})
	mustReachAnswer(t, m)

	if _, err := m.CellSelected(3, 0); err != nil {
		t.Fatalf("выбор клетки отклонен: %v", err)
	}

	m.Restart()

	snap := m.Snapshot()
	if snap.Phase != PhaseSetup {
		t.Fatalf("после рестарта ожидалась фаза setup, получили %s", snap.Phase)
	}
	if snap.Config != nil || snap.Layout != nil || snap.Operand1 != nil {
		t.Fatalf("рестарт не очистил состояние: %+v", snap)
	}
	if snap.Score1 != 0 || snap.Score2 != 0 {
		t.Fatalf("счет не сброшен: %d:%d", snap.Score1, snap.Score2)
	}

	// матч снова принимает конфигурацию
	if err := m.SubmitConfiguration(multiplyConfig()); err != nil {
		t.Fatalf("конфигурация после рестарта отклонена: %v", err)
	}
}

// mustStartTurn доводит матч до фазы spin1 первого хода
func mustStartTurn(t *testing.T, m *Match) {
	t.Helper()
	if err := m.SubmitConfiguration(multiplyConfig()); err != nil {
		t.Fatalf("конфигурация отклонена: %v", err)
	}
	if err := m.CoinFlipResolved(m.CoinTarget()); err != nil {
		t.Fatalf("исход монеты отклонен: %v", err)
	}
}

// mustReachAnswer доводит матч до фазы ответа первого хода
func mustReachAnswer(t *testing.T, m *Match) {
	t.Helper()
	mustStartTurn(t, m)
	for _, wheel := range []int{1, 2} {
		if _, err := m.RequestSpin(wheel); err != nil {
			t.Fatalf("вращение колеса %d отклонено: %v", wheel, err)
		}
		if err := m.WheelSettled(wheel); err != nil {
			t.Fatalf("остановка колеса %d отклонена: %v", wheel, err)
		}
	}
}
