package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// init_data старше часа считаем просроченной - защита от replay
	initDataMaxAge = time.Hour
	// допустимая рассинхронизация часов клиента и сервера
	initDataClockSkew = 5 * time.Minute
)

// ValidateTelegramInitData проверяет HMAC-подпись Telegram WebApp init_data
// и свежесть auth_date. Возвращает разобранные параметры без поля hash
func ValidateTelegramInitData(initData, botToken string) (url.Values, bool) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, false
	}

	hash := values.Get("hash")
	if hash == "" {
		return nil, false
	}
	values.Del("hash")

	var dataCheck []string
	for k, v := range values {
		dataCheck = append(dataCheck, k+"="+strings.Join(v, ""))
	}
	sort.Strings(dataCheck)
	dataString := strings.Join(dataCheck, "\n")

	provided, err := hex.DecodeString(hash)
	if err != nil {
		return nil, false
	}
	if !hmac.Equal(computeInitDataHash(dataString, botToken), provided) {
		return nil, false
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, false
	}
	now := time.Now().Unix()
	if now-authDate > int64(initDataMaxAge.Seconds()) || authDate-now > int64(initDataClockSkew.Seconds()) {
		return nil, false
	}

	return values, true
}

// Telegram WebApp подписывает data-check-string двойным HMAC:
// сначала bot token ключом "WebAppData", затем сама строка
func computeInitDataHash(dataString, botToken string) []byte {
	secretKey := hmac.New(sha256.New, []byte("WebAppData"))
	secretKey.Write([]byte(botToken))
	h := hmac.New(sha256.New, secretKey.Sum(nil))
	h.Write([]byte(dataString))
	return h.Sum(nil)
}
