package game

// flipCoin выбирает сторону монеты: честные 50 на 50
func flipCoin(rng RandSource) Face {
	if rng.Intn(2) == 0 {
		return FaceHeads
	}
	return FaceTails
}

// StartingPlayerFor отображает выпавшую сторону на начинающего игрока
func StartingPlayerFor(face Face) Player {
	if face == FaceTails {
		return Player2
	}
	return Player1
}
