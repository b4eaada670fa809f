package biz

import (
	"context"
	"time"
)

// Subscription 订阅记录
type Subscription struct {
	ID        string
	UserID    string
	PlanID    string
	Status    string // pending, active, canceled, expired
	StartDate *time.Time
	EndDate   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SubscriptionRepo 订阅仓库接口
type SubscriptionRepo interface {
	// GetSubscription 按 ID 查询, 不存在返回 (nil, nil)
	GetSubscription(ctx context.Context, id string) (*Subscription, error)
	// GetActiveByUser 查询用户当前的活跃订阅, 不存在返回 (nil, nil)
	GetActiveByUser(ctx context.Context, userID string) (*Subscription, error)
	// ActivateFromPending 条件激活: 仅当当前状态为 pending 时写入 active 和起止时间,
	// 返回是否真正更新了行。零行受影响说明另一条路径已经完成激活。
	ActivateFromPending(ctx context.Context, id string, startDate, endDate time.Time) (bool, error)
}
