package game

// WheelSpin - параметры анимации одного вращения: колесо всегда
// останавливается на заранее выбранном целевом значении, фронтенд
// лишь доигрывает движение до рассчитанного угла
type WheelSpin struct {
	Wheel        int     `json:"wheel"`
	Target       int     `json:"target"`
	SegmentIndex int     `json:"segment_index"`
	Angle        float64 `json:"angle"`
}

// количество полных оборотов перед остановкой
const spinRotations = 5

// SpinFor рассчитывает финальный угол вращения колеса для раунда.
// Каждый сегмент занимает 360/FaceCount градусов; внутри сегмента
// добавляется случайное смещение, чтобы остановки выглядели живыми
func SpinFor(r *Round, wheel int, rng RandSource) WheelSpin {
	faces := r.Wheel1Faces
	target := r.Target1
	if wheel == 2 {
		faces = r.Wheel2Faces
		target = r.Target2
	}

	idx := 0
	for i, f := range faces {
		if f == target {
			idx = i
			break
		}
	}

	segmentAngle := 360.0 / float64(FaceCount)
	baseAngle := float64(idx) * segmentAngle

	// смещение внутри сегмента с точностью 0.01 градуса
	offset := float64(rng.Intn(int(segmentAngle*100))) / 100.0

	return WheelSpin{
		Wheel:        wheel,
		Target:       target,
		SegmentIndex: idx,
		Angle:        float64(spinRotations*360) + baseAngle + offset,
	}
}
