package game

// Размер игрового поля: 6 строк на 7 столбцов
const (
	BoardRows = 6
	BoardCols = 7
)

// Layout - неизменяемая матрица значений-ответов для одной операции
type Layout [BoardRows][BoardCols]int

// Фиксированные раскладки поля. Каждое значение достижимо генератором
// соответствующей операции. У умножения поле - это ровно 42 различных
// произведения пар 1..10; у остальных операций множество результатов
// меньше 42, поэтому значения повторяются
var (
	multiplyLayout = Layout{
		{7, 54, 12, 90, 3, 28, 45},
		{100, 16, 63, 5, 36, 9, 72},
		{21, 80, 2, 48, 15, 64, 30},
		{56, 10, 42, 25, 81, 4, 49},
		{18, 70, 6, 35, 24, 60, 1},
		{40, 8, 27, 50, 14, 32, 20},
	}

	addLayout = Layout{
		{5, 13, 9, 17, 2, 11, 19},
		{14, 7, 20, 4, 16, 10, 6},
		{12, 18, 3, 15, 8, 13, 5},
		{9, 2, 16, 11, 19, 7, 14},
		{17, 10, 6, 20, 12, 4, 18},
		{3, 15, 8, 10, 14, 12, 8},
	}

	// разность может быть нулевой (равные операнды), поэтому ноль на поле есть
	subtractLayout = Layout{
		{3, 7, 0, 5, 9, 2, 6},
		{8, 1, 4, 6, 0, 7, 3},
		{5, 9, 2, 8, 4, 1, 0},
		{6, 3, 7, 1, 5, 9, 2},
		{0, 8, 4, 2, 6, 3, 8},
		{1, 5, 9, 7, 1, 4, 2},
	}

	divideLayout = Layout{
		{4, 9, 1, 6, 10, 3, 7},
		{2, 8, 5, 10, 1, 7, 4},
		{6, 3, 9, 2, 8, 5, 10},
		{1, 7, 4, 8, 3, 6, 9},
		{5, 10, 2, 7, 6, 1, 3},
		{8, 4, 9, 5, 2, 5, 2},
	}
)

// LayoutFor возвращает раскладку поля для операции
func LayoutFor(op Operation) Layout {
	switch op {
	case OpAdd:
		return addLayout
	case OpSubtract:
		return subtractLayout
	case OpDivide:
		return divideLayout
	default:
		return multiplyLayout
	}
}

// Board - раскладка плюс состояние захвата клеток.
// Мутируется только через ApplyClaim, занятая клетка не перезаписывается
type Board struct {
	layout Layout
	owners [BoardRows][BoardCols]Player
}

// NewBoard создает чистое поле для операции
func NewBoard(op Operation) *Board {
	return &Board{layout: LayoutFor(op)}
}

// InBounds проверяет координаты клетки
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < BoardRows && col >= 0 && col < BoardCols
}

// Value возвращает число в клетке
func (b *Board) Value(row, col int) int {
	return b.layout[row][col]
}

// Owner возвращает игрока, занявшего клетку, или NoOne
func (b *Board) Owner(row, col int) Player {
	return b.owners[row][col]
}

// ApplyClaim помечает клетку игроком. Повторный вызов по занятой клетке -
// no-op: возвращает false и ничего не меняет
func (b *Board) ApplyClaim(row, col int, p Player) bool {
	if !b.InBounds(row, col) {
		return false
	}
	if b.owners[row][col] != NoOne {
		return false
	}
	b.owners[row][col] = p
	return true
}

// CountFor считает клетки, занятые игроком
func (b *Board) CountFor(p Player) int {
	n := 0
	for r := 0; r < BoardRows; r++ {
		for c := 0; c < BoardCols; c++ {
			if b.owners[r][c] == p {
				n++
			}
		}
	}
	return n
}

// IsFull сообщает, остались ли свободные клетки
func (b *Board) IsFull() bool {
	for r := 0; r < BoardRows; r++ {
		for c := 0; c < BoardCols; c++ {
			if b.owners[r][c] == NoOne {
				return false
			}
		}
	}
	return true
}

// LayoutMatrix возвращает раскладку для сериализации клиенту
func (b *Board) LayoutMatrix() [][]int {
	out := make([][]int, BoardRows)
	for r := 0; r < BoardRows; r++ {
		out[r] = make([]int, BoardCols)
		for c := 0; c < BoardCols; c++ {
			out[r][c] = b.layout[r][c]
		}
	}
	return out
}

// OwnerMatrix возвращает состояние захвата для сериализации клиенту,
// пустая строка - клетка свободна
func (b *Board) OwnerMatrix() [][]string {
	out := make([][]string, BoardRows)
	for r := 0; r < BoardRows; r++ {
		out[r] = make([]string, BoardCols)
		for c := 0; c < BoardCols; c++ {
			out[r][c] = string(b.owners[r][c])
		}
	}
	return out
}
