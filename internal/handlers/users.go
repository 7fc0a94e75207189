package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"usersapi/internal/services"
)

const (
	msgUserNotFound = "User not found"
	msgEmailTaken   = "Email already registered"
)

var validate = validator.New()

type CreateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// UpdateUserRequest — применяются только переданные поля.
type UpdateUserRequest struct {
	Name  OptionalString `json:"name" swaggertype:"string"`
	Email OptionalString `json:"email" swaggertype:"string"`
}

// CreateUser godoc
// @Summary Создать пользователя
// @Tags users
// @Accept json
// @Produce json
// @Param input body CreateUserRequest true "данные"
// @Success 201 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Router /api/users [post]
func CreateUser(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var r CreateUserRequest
		if err := c.ShouldBindJSON(&r); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindError(err)})
			return
		}
		u, err := users.Create(c.Request.Context(), r.Name, normalizeEmail(r.Email))
		if err != nil {
			userError(c, err)
			return
		}
		c.JSON(http.StatusCreated, u)
	}
}

// ListUsers godoc
// @Summary Список пользователей
// @Tags users
// @Produce json
// @Param skip query int false "смещение" default(0)
// @Param limit query int false "лимит" default(100)
// @Success 200 {array} models.User
// @Failure 400 {object} ErrorResponse
// @Router /api/users [get]
func ListUsers(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		skip, limit, err := parsePagination(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		list, err := users.List(c.Request.Context(), skip, limit)
		if err != nil {
			userError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GetUser godoc
// @Summary Получить пользователя
// @Tags users
// @Produce json
// @Param id path string true "ID"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/users/{id} [get]
func GetUser(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := userID(c)
		if !ok {
			return
		}
		u, err := users.Get(c.Request.Context(), id)
		if err != nil {
			userError(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

// UpdateUser godoc
// @Summary Изменить пользователя
// @Description Частичное обновление: непереданные поля не меняются
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "ID"
// @Param input body UpdateUserRequest true "данные"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/users/{id} [put]
func UpdateUser(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := userID(c)
		if !ok {
			return
		}
		var r UpdateUserRequest
		if err := c.ShouldBindJSON(&r); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
			return
		}
		var patch services.UserPatch
		if r.Name.Set {
			if r.Name.Null {
				c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid name"})
				return
			}
			patch.Name = &r.Name.Value
		}
		if r.Email.Set {
			if r.Email.Null || validate.Var(r.Email.Value, "required,email") != nil {
				c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid email"})
				return
			}
			email := normalizeEmail(r.Email.Value)
			patch.Email = &email
		}
		u, err := users.Update(c.Request.Context(), id, patch)
		if err != nil {
			userError(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

// DeleteUser godoc
// @Summary Удалить пользователя
// @Tags users
// @Param id path string true "ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/users/{id} [delete]
func DeleteUser(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := userID(c)
		if !ok {
			return
		}
		if err := users.Delete(c.Request.Context(), id); err != nil {
			userError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func userID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func userError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: msgUserNotFound})
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgEmailTaken})
	default:
		log.Printf("request %s: %v", c.GetString(requestIDKey), err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "db error"})
	}
}

// normalizeEmail приводит домен к нижнему регистру; локальная часть не меняется.
func normalizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// bindError превращает ошибку валидации в короткое сообщение вида "invalid email".
func bindError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return "invalid " + strings.ToLower(verrs[0].Field())
	}
	return "invalid json"
}
