package game

import (
	"errors"
	"testing"
)

func TestCorrectAnswer(t *testing.T) {
	cases := []struct {
		op   Operation
		a, b int
		want int
	}{
		{OpAdd, 7, 8, 15},
		{OpAdd, 1, 1, 2},
		{OpSubtract, 9, 4, 5},
		{OpSubtract, 6, 6, 0},
		{OpMultiply, 7, 8, 56},
		{OpMultiply, 10, 10, 100},
		{OpDivide, 56, 8, 7},
		{OpDivide, 10, 1, 10},
	}

	for _, tc := range cases {
		got, err := CorrectAnswer(tc.op, tc.a, tc.b)
		if err != nil {
			t.Fatalf("%s(%d,%d): неожиданная ошибка %v", tc.op, tc.a, tc.b, err)
		}
		if got != tc.want {
			t.Fatalf("%s(%d,%d) = %d, ожидалось %d", tc.op, tc.a, tc.b, got, tc.want)
		}
	}
}

func TestCorrectAnswerUndefinedDivision(t *testing.T) {
	// нецелое частное и деление на ноль должны быть определены как ошибка,
	// а не паника - защитный путь для валидации
	if _, err := CorrectAnswer(OpDivide, 7, 2); !errors.Is(err, ErrUndefinedResult) {
		t.Fatalf("ожидался ErrUndefinedResult для 7/2, получили %v", err)
	}
	if _, err := CorrectAnswer(OpDivide, 7, 0); !errors.Is(err, ErrUndefinedResult) {
		t.Fatalf("ожидался ErrUndefinedResult для деления на ноль, получили %v", err)
	}
}

func TestValidateClaim(t *testing.T) {
	if ok, expected := ValidateClaim(56, OpMultiply, 7, 8); !ok || expected != 56 {
		t.Fatalf("верный ответ отклонен: ok=%v expected=%d", ok, expected)
	}
	if ok, _ := ValidateClaim(54, OpMultiply, 7, 8); ok {
		t.Fatalf("неверный ответ принят")
	}
	// нецелое деление считается неверным ответом, не ошибкой
	if ok, _ := ValidateClaim(3, OpDivide, 7, 2); ok {
		t.Fatalf("неопределенный результат деления принят как верный")
	}
}

func TestEvaluateWinFirstToFive(t *testing.T) {
	b := NewBoard(OpMultiply)
	// четыре клетки - еще не победа
	for i := 0; i < 4; i++ {
		b.ApplyClaim(i, i, Player1)
	}
	if w, over := EvaluateWin(b, Player1, WinFirstToFive); over || w != NoOne {
		t.Fatalf("4 клетки: победа объявлена преждевременно (winner=%s over=%v)", w, over)
	}

	b.ApplyClaim(4, 4, Player1)
	if w, over := EvaluateWin(b, Player1, WinFirstToFive); !over || w != Player1 {
		t.Fatalf("5 клеток: победа не объявлена (winner=%s over=%v)", w, over)
	}
}

func TestEvaluateWinConnectThree(t *testing.T) {
	cases := []struct {
		name  string
		cells []Cell
	}{
		{"горизонталь", []Cell{{2, 1}, {2, 2}, {2, 3}}},
		{"вертикаль", []Cell{{1, 5}, {2, 5}, {3, 5}}},
		{"диагональ вниз-вправо", []Cell{{0, 0}, {1, 1}, {2, 2}}},
		{"диагональ вверх-вправо", []Cell{{5, 0}, {4, 1}, {3, 2}}},
	}

	for _, tc := range cases {
		b := NewBoard(OpAdd)
		for _, c := range tc.cells {
			b.ApplyClaim(c.Row, c.Col, Player2)
		}
		if w, over := EvaluateWin(b, Player2, WinConnectThree); !over || w != Player2 {
			t.Fatalf("%s: цепочка из трех не обнаружена", tc.name)
		}
	}
}

func TestEvaluateWinConnectThreeNoRun(t *testing.T) {
	b := NewBoard(OpAdd)
	// две подряд и разрыв чужой клеткой
	b.ApplyClaim(0, 0, Player1)
	b.ApplyClaim(0, 1, Player1)
	b.ApplyClaim(0, 2, Player2)
	b.ApplyClaim(0, 3, Player1)
	if w, over := EvaluateWin(b, Player1, WinConnectThree); over || w != NoOne {
		t.Fatalf("ложная цепочка: winner=%s over=%v", w, over)
	}
}

func TestEvaluateWinMostOnFull(t *testing.T) {
	b := NewBoard(OpDivide)
	b.ApplyClaim(0, 0, Player1)
	// поле не заполнено - условие не оценивается
	if _, over := EvaluateWin(b, Player1, WinMostOnFull); over {
		t.Fatalf("most_on_full сработал на незаполненном поле")
	}

	// заполняем: player1 получает 22 клетки, player2 - 20
	n := 1
	for r := 0; r < BoardRows; r++ {
		for c := 0; c < BoardCols; c++ {
			if b.Owner(r, c) != NoOne {
				continue
			}
			p := Player1
			if n%2 == 0 {
				p = Player2
			}
			b.ApplyClaim(r, c, p)
			n++
		}
	}

	if w, over := EvaluateWin(b, Player2, WinMostOnFull); !over || w != Player1 {
		t.Fatalf("ожидалась победа player1 по большинству, получили winner=%s over=%v", w, over)
	}
}

func TestEvaluateWinMostOnFullTie(t *testing.T) {
	b := NewBoard(OpDivide)
	// ровно пополам: 21 на 21
	n := 0
	for r := 0; r < BoardRows; r++ {
		for c := 0; c < BoardCols; c++ {
			p := Player1
			if n >= 21 {
				p = Player2
			}
			b.ApplyClaim(r, c, p)
			n++
		}
	}

	w, over := EvaluateWin(b, Player1, WinMostOnFull)
	if !over {
		t.Fatalf("ничья должна завершать игру")
	}
	if w != NoOne {
		t.Fatalf("при ничьей победителя быть не должно, получили %s", w)
	}
}
