package models

import (
	"time"

	"gorm.io/gorm"
)

// User — единственная сущность сервиса. CreatedAt проставляет сама БД.
type User struct {
	ID        UUID      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Email     string    `gorm:"type:text;uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;autoCreateTime:false;<-:create" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID.IsNil() {
		u.ID = NewUUID()
	}
	return
}
