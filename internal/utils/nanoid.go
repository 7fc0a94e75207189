package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const requestIDSize = 16

// NewRequestID генерирует короткий идентификатор запроса для логов.
func NewRequestID() (string, error) {
	return gonanoid.New(requestIDSize)
}
