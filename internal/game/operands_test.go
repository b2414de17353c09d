package game

import (
	"math/rand"
	"testing"
)

func testRNG(seed int64) RandSource {
	return rand.New(rand.NewSource(seed))
}

func TestNewRoundAddMultiplyRange(t *testing.T) {
	gen := NewOperandGenerator(testRNG(1))

	for _, op := range []Operation{OpAdd, OpMultiply} {
		for i := 0; i < 200; i++ {
			r := gen.NewRound(op)
			if r.Target1 < 1 || r.Target1 > 10 || r.Target2 < 1 || r.Target2 > 10 {
				t.Fatalf("%s: операнды вне диапазона 1..10: %d, %d", op, r.Target1, r.Target2)
			}
			if _, err := r.ExpectedResult(); err != nil {
				t.Fatalf("%s: результат не определен: %v", op, err)
			}
		}
	}
}

func TestNewRoundSubtractNonNegative(t *testing.T) {
	gen := NewOperandGenerator(testRNG(2))

	for i := 0; i < 500; i++ {
		r := gen.NewRound(OpSubtract)
		if r.Target1 < r.Target2 {
			t.Fatalf("уменьшаемое меньше вычитаемого: %d - %d", r.Target1, r.Target2)
		}
		got, err := r.ExpectedResult()
		if err != nil || got < 0 {
			t.Fatalf("отрицательная или неопределенная разность: %d, %v", got, err)
		}
	}
}

func TestNewRoundDivideInvariants(t *testing.T) {
	gen := NewOperandGenerator(testRNG(3))

	for i := 0; i < 500; i++ {
		r := gen.NewRound(OpDivide)

		if r.TableNumber < 1 || r.TableNumber > 10 {
			t.Fatalf("табличное число вне диапазона: %d", r.TableNumber)
		}
		if r.Target2 != r.TableNumber {
			t.Fatalf("второй операнд %d не равен табличному числу %d", r.Target2, r.TableNumber)
		}
		if r.Target1%r.Target2 != 0 {
			t.Fatalf("делимое %d не кратно делителю %d", r.Target1, r.Target2)
		}

		q, err := r.ExpectedResult()
		if err != nil {
			t.Fatalf("деление по построению должно быть целым: %v", err)
		}
		if q < 1 || q > 10 {
			t.Fatalf("частное вне диапазона 1..10: %d", q)
		}

		// первое колесо несет десять кратных табличного числа - все различны
		seen := make(map[int]bool)
		for j, f := range r.Wheel1Faces {
			if f != r.TableNumber*(j+1) {
				t.Fatalf("грань %d первого колеса: %d, ожидалось %d", j, f, r.TableNumber*(j+1))
			}
			if seen[f] {
				t.Fatalf("повторная грань %d на первом колесе", f)
			}
			seen[f] = true
		}
	}
}

func TestRoundReveal(t *testing.T) {
	gen := NewOperandGenerator(testRNG(4))
	r := gen.NewRound(OpMultiply)

	if r.Operand1 != nil || r.Operand2 != nil {
		t.Fatalf("операнды раскрыты до остановки колес")
	}

	r.Reveal(1)
	if r.Operand1 == nil || *r.Operand1 != r.Target1 {
		t.Fatalf("первый операнд раскрыт неверно")
	}
	if r.Operand2 != nil {
		t.Fatalf("второй операнд раскрыт преждевременно")
	}

	r.Reveal(2)
	if r.Operand2 == nil || *r.Operand2 != r.Target2 {
		t.Fatalf("второй операнд раскрыт неверно")
	}
}

func TestSpinForLandsOnTarget(t *testing.T) {
	gen := NewOperandGenerator(testRNG(5))
	rng := testRNG(6)

	for i := 0; i < 100; i++ {
		r := gen.NewRound(OpDivide)
		for _, wheel := range []int{1, 2} {
			spin := SpinFor(r, wheel, rng)
			faces := r.Wheel1Faces
			target := r.Target1
			if wheel == 2 {
				faces = r.Wheel2Faces
				target = r.Target2
			}
			if faces[spin.SegmentIndex] != target {
				t.Fatalf("сегмент %d не несет целевое значение %d", spin.SegmentIndex, target)
			}
			if spin.Angle < spinRotations*360 {
				t.Fatalf("угол %f меньше минимальных оборотов", spin.Angle)
			}
		}
	}
}
