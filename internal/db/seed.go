package db

import (
	"context"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"

	"usersapi/internal/models"
)

// SeedUsers заполняет пустую таблицу users n тестовыми пользователями.
// Если в таблице уже есть записи, ничего не делает.
func SeedUsers(ctx context.Context, db *gorm.DB, n int, seed int64) error {
	return WithSession(ctx, db, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 || n <= 0 {
			return nil
		}

		faker := gofakeit.New(seed)
		seen := make(map[string]struct{}, n)
		list := make([]models.User, 0, n)
		for len(list) < n {
			email := strings.ToLower(faker.Email())
			if _, dup := seen[email]; dup {
				continue
			}
			seen[email] = struct{}{}
			list = append(list, models.User{Name: faker.Name(), Email: email})
		}
		return tx.CreateInBatches(&list, 100).Error
	})
}
