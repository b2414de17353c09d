package game

// Диапазон операндов: колеса несут по десять граней
const (
	operandMin = 1
	operandMax = 10
	WheelCount = 2
	FaceCount  = 10
)

// Round - данные одного хода: заранее выбранные целевые значения обоих
// колес, их наборы граней и раскрытые операнды. Раунд создается заново
// в начале каждого хода и отбрасывается при передаче хода
type Round struct {
	Operation Operation

	// целевые значения, к которым презентация анимирует колеса
	Target1 int
	Target2 int

	// грани колес; у деления первое колесо несет кратные табличного числа
	Wheel1Faces [FaceCount]int
	Wheel2Faces [FaceCount]int

	// табличное число деления, фиксировано на весь ход; 0 для иных операций
	TableNumber int

	// операнды раскрываются по мере остановки колес, до того - nil
	Operand1 *int
	Operand2 *int
}

// Reveal раскрывает операнд остановившегося колеса
func (r *Round) Reveal(wheel int) {
	switch wheel {
	case 1:
		v := r.Target1
		r.Operand1 = &v
	case 2:
		v := r.Target2
		r.Operand2 = &v
	}
}

// Revealed сообщает, остановилось ли уже колесо
func (r *Round) Revealed(wheel int) bool {
	if wheel == 1 {
		return r.Operand1 != nil
	}
	return r.Operand2 != nil
}

// ExpectedResult - правильный ответ раунда. Не кэшируется: всегда
// пересчитывается тем же правилом, что и валидация
func (r *Round) ExpectedResult() (int, error) {
	return CorrectAnswer(r.Operation, r.Target1, r.Target2)
}

// OperandGenerator выбирает скрытые операнды хода до того,
// как колеса визуально остановятся
type OperandGenerator struct {
	rng RandSource
}

func NewOperandGenerator(rng RandSource) *OperandGenerator {
	if rng == nil {
		rng = NewCryptoSource()
	}
	return &OperandGenerator{rng: rng}
}

// NewRound готовит скрытую пару операндов очередного хода:
//   - multiply/add: два независимых равномерных числа 1..10;
//   - subtract: два числа 1..10, большее становится уменьшаемым -
//     результат неотрицателен;
//   - divide: табличное число t (1..10) фиксируется на ход, первое колесо
//     несет кратные t·1..t·10, операнд1 = t·m, операнд2 = t -
//     частное всегда целое в 1..10
func (g *OperandGenerator) NewRound(op Operation) *Round {
	r := &Round{Operation: op}
	r.Wheel1Faces = defaultFaces()
	r.Wheel2Faces = defaultFaces()

	switch op {
	case OpSubtract:
		a := g.draw()
		b := g.draw()
		if b > a {
			a, b = b, a
		}
		r.Target1, r.Target2 = a, b

	case OpDivide:
		t := g.draw()
		m := g.draw()
		r.TableNumber = t
		for i := 0; i < FaceCount; i++ {
			r.Wheel1Faces[i] = t * (i + 1)
		}
		r.Target1 = t * m
		r.Target2 = t

	default: // add, multiply
		r.Target1 = g.draw()
		r.Target2 = g.draw()
	}

	return r
}

func (g *OperandGenerator) draw() int {
	return operandMin + g.rng.Intn(operandMax-operandMin+1)
}

func defaultFaces() [FaceCount]int {
	var f [FaceCount]int
	for i := range f {
		f[i] = i + 1
	}
	return f
}
