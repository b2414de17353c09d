package service

import (
	"errors"
	"os"
	"time"

	"mathduel_backend/internal/logger"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// InitJWT загружает секрет для подписи токенов из окружения
func InitJWT() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Fatal("JWT_SECRET не задан")
	}
	jwtSecret = []byte(secret)
}

// GenerateJWT выдает токен сессии для пользователя
func GenerateJWT(userID int64) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseJWT проверяет подпись и срок токена, возвращает id пользователя
func ParseJWT(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("неожиданный метод подписи")
		}
		return jwtSecret, nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, errors.New("невалидный токен")
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, errors.New("в токене нет sub")
	}
	return int64(sub), nil
}
