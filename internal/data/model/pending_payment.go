package model

import "time"

// PendingPayment 待支付意向模型
type PendingPayment struct {
	ID                 string    `gorm:"primaryKey;column:pending_payment_id;size:36"`
	Email              string    `gorm:"column:email;size:255;index:idx_email"`
	Name               string    `gorm:"column:name;size:255"`
	PlanID             string    `gorm:"column:plan_id;size:36"`
	Status             string    `gorm:"column:status;size:16;index:idx_status_expires"` // pending, completed, expired, failed
	GatewayOrderID     string    `gorm:"column:gateway_order_id;size:64"`
	GatewayChargeID    string    `gorm:"column:gateway_charge_id;size:64"`
	ProcessedWebhookID string    `gorm:"column:processed_webhook_id;size:64"`
	ExpiresAt          time.Time `gorm:"column:expires_at;index:idx_status_expires"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (PendingPayment) TableName() string { return "pending_payment" }
