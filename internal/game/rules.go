package game

// CorrectAnswer вычисляет результат операции над парой операндов.
// Для деления с ненулевым остатком возвращается ErrUndefinedResult -
// генератор таких пар не выдает, но валидация обязана быть определена
func CorrectAnswer(op Operation, a, b int) (int, error) {
	switch op {
	case OpAdd:
		return a + b, nil
	case OpSubtract:
		return a - b, nil
	case OpMultiply:
		return a * b, nil
	case OpDivide:
		if b == 0 || a%b != 0 {
			return 0, ErrUndefinedResult
		}
		return a / b, nil
	}
	return 0, ErrUndefinedResult
}

// ValidateClaim сверяет значение выбранной клетки с ожидаемым результатом.
// Неответ (нецелое деление) считается неверным ответом, а не ошибкой
func ValidateClaim(cellValue int, op Operation, a, b int) (correct bool, expected int) {
	want, err := CorrectAnswer(op, a, b)
	if err != nil {
		return false, 0
	}
	return cellValue == want, want
}

// направления поиска цепочки: вправо, вниз, по диагонали вниз-вправо
// и по диагонали вверх-вправо
var connectDirs = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {-1, 1}}

const connectLength = 3

// EvaluateWin проверяет условие победы для игрока после захвата клетки.
// Возвращает победителя (NoOne при ничьей) и флаг окончания игры
func EvaluateWin(b *Board, p Player, wc WinCondition) (winner Player, over bool) {
	switch wc {
	case WinFirstToFive:
		if b.CountFor(p) >= 5 {
			return p, true
		}
	case WinConnectThree:
		if hasConnect(b, p, connectLength) {
			return p, true
		}
	case WinMostOnFull:
		// оценивается только по заполненному полю
		if !b.IsFull() {
			return NoOne, false
		}
		c1, c2 := b.CountFor(Player1), b.CountFor(Player2)
		switch {
		case c1 > c2:
			return Player1, true
		case c2 > c1:
			return Player2, true
		default:
			// ничья: победителя нет, но игра окончена
			return NoOne, true
		}
	}
	return NoOne, false
}

// hasConnect ищет цепочку длиной n клеток игрока в любом из четырех направлений
func hasConnect(b *Board, p Player, n int) bool {
	for r := 0; r < BoardRows; r++ {
		for c := 0; c < BoardCols; c++ {
			if b.Owner(r, c) != p {
				continue
			}
			for _, d := range connectDirs {
				if runFrom(b, p, r, c, d[0], d[1]) >= n {
					return true
				}
			}
		}
	}
	return false
}

func runFrom(b *Board, p Player, row, col, dr, dc int) int {
	n := 0
	for b.InBounds(row, col) && b.Owner(row, col) == p {
		n++
		row += dr
		col += dc
	}
	return n
}
