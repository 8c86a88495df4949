package model

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// ユーザーは論理削除のみ（物理削除しない）
type User struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName string         `gorm:"type:varchar(50);not null" json:"first_name"`
	LastName  string         `gorm:"type:varchar(50);not null" json:"last_name"`
	Username  string         `gorm:"type:varchar(20);uniqueIndex;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Phone     string         `gorm:"type:varchar(20)" json:"phone"`
	Role      Role           `gorm:"type:varchar(20);not null;default:'customer'" json:"role"`
	LastLogin *time.Time     `json:"last_login,omitempty"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
