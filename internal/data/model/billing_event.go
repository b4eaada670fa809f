package model

import "time"

// BillingEvent 账单事件模型 (追加写)
type BillingEvent struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement;column:billing_event_id"`
	ReferenceID   string    `gorm:"column:reference_id;size:36;index:idx_reference_id"`
	ReferenceType string    `gorm:"column:reference_type;size:32"`
	OrderID       string    `gorm:"column:order_id;size:64"`
	Status        string    `gorm:"column:status;size:16"`
	Action        string    `gorm:"column:action;size:32"`
	Source        string    `gorm:"column:source;size:32"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (BillingEvent) TableName() string { return "billing_event" }
