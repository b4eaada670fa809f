package model

import "time"

// User 用户模型 (本服务只读)
type User struct {
	ID              string    `gorm:"primaryKey;column:user_id;size:36"`
	Name            string    `gorm:"column:name;size:255"`
	Email           string    `gorm:"column:email;size:255;uniqueIndex"`
	IsEmailVerified bool      `gorm:"column:is_email_verified;default:false"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "user" }
