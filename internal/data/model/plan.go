package model

import "time"

// Plan 套餐模型 (本服务只读)
type Plan struct {
	ID           string    `gorm:"primaryKey;column:plan_id;size:36"`
	Slug         string    `gorm:"column:slug;size:64;uniqueIndex"`
	Name         string    `gorm:"column:name;size:128"`
	Description  string    `gorm:"column:description"`
	Price        int64     `gorm:"column:price"` // 最小货币单位 (分)
	DurationDays int       `gorm:"column:duration_days"`
	Features     string    `gorm:"column:features;type:json"` // JSON 数组
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Plan) TableName() string { return "plan" }
