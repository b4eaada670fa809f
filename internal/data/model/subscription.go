package model

import "time"

// Subscription 订阅模型
type Subscription struct {
	ID        string     `gorm:"primaryKey;column:subscription_id;size:36"`
	UserID    string     `gorm:"column:user_id;size:36;index:idx_user_id;index:idx_user_status"`
	PlanID    string     `gorm:"column:plan_id;size:36"`
	Status    string     `gorm:"column:status;size:16;index:idx_user_status"` // pending, active, canceled, expired
	StartDate *time.Time `gorm:"column:start_date"`
	EndDate   *time.Time `gorm:"column:end_date"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Subscription) TableName() string { return "subscription" }
