package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"usersapi/internal/db"
	"usersapi/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// UserPatch — частичное обновление: nil означает «поле не передано».
type UserPatch struct {
	Name  *string
	Email *string
}

func (p UserPatch) changes() map[string]any {
	m := map[string]any{}
	if p.Name != nil {
		m["name"] = *p.Name
	}
	if p.Email != nil {
		m["email"] = *p.Email
	}
	return m
}

// UserService выполняет CRUD над пользователями, каждая операция — отдельная транзакция.
type UserService struct {
	gdb *gorm.DB
}

func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{gdb: gdb}
}

func (s *UserService) Create(ctx context.Context, name, email string) (*models.User, error) {
	u := models.User{Name: name, Email: email}
	err := db.WithSession(ctx, s.gdb, func(tx *gorm.DB) error {
		if err := tx.Create(&u).Error; err != nil {
			return err
		}
		// created_at заполняет БД, перечитываем запись
		return tx.Take(&u, "id = ?", u.ID).Error
	})
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

// List отдаёт записи в порядке хранения (фактически — порядке вставки).
// created_at в SQLite имеет секундную точность, поэтому по нему не сортируем.
func (s *UserService) List(ctx context.Context, skip, limit int) ([]models.User, error) {
	users := make([]models.User, 0)
	err := db.WithSession(ctx, s.gdb, func(tx *gorm.DB) error {
		return tx.Offset(skip).Limit(limit).Find(&users).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := db.WithSession(ctx, s.gdb, func(tx *gorm.DB) error {
		return tx.Take(&u, "id = ?", models.UUID(id)).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, patch UserPatch) (*models.User, error) {
	var u models.User
	err := db.WithSession(ctx, s.gdb, func(tx *gorm.DB) error {
		if err := tx.Take(&u, "id = ?", models.UUID(id)).Error; err != nil {
			return err
		}
		changes := patch.changes()
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(&u).Updates(changes).Error; err != nil {
			return err
		}
		return tx.Take(&u, "id = ?", u.ID).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrUserNotFound
		case isDuplicate(err):
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &u, nil
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	err := db.WithSession(ctx, s.gdb, func(tx *gorm.DB) error {
		res := tx.Where("id = ?", models.UUID(id)).Delete(&models.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *UserService) Count(ctx context.Context) (int64, error) {
	var n int64
	err := db.WithSession(ctx, s.gdb, func(tx *gorm.DB) error {
		return tx.Model(&models.User{}).Count(&n).Error
	})
	return n, err
}

// isDuplicate распознаёт нарушение уникальности. TranslateError покрывает
// оба драйвера; проверка текста — на случай непереведённой ошибки.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "SQLSTATE 23505")
}
