package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultSkip  = 0
	defaultLimit = 100
)

// parsePagination читает skip/limit. Нечисловые и отрицательные значения — ошибка.
func parsePagination(c *gin.Context) (skip, limit int, err error) {
	skip, limit = defaultSkip, defaultLimit
	if sStr, ok := c.GetQuery("skip"); ok {
		if skip, err = strconv.Atoi(sStr); err != nil || skip < 0 {
			return 0, 0, fmt.Errorf("invalid skip")
		}
	}
	if lStr, ok := c.GetQuery("limit"); ok {
		if limit, err = strconv.Atoi(lStr); err != nil || limit < 0 {
			return 0, 0, fmt.Errorf("invalid limit")
		}
	}
	return skip, limit, nil
}
