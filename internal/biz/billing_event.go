package biz

import (
	"context"
	"time"
)

// BillingEvent 状态转移审计记录 (追加写)
type BillingEvent struct {
	ID            uint64
	ReferenceID   string // 订阅或待支付意向 ID
	ReferenceType string // subscription, pending_payment
	OrderID       string
	Status        string
	Action        string // activated, completed, failed, expired, swept
	Source        string // checkout, webhook, reconciler, sweeper
	CreatedAt     time.Time
}

// BillingEventRepo 账单事件仓库接口
type BillingEventRepo interface {
	AddBillingEvent(ctx context.Context, event *BillingEvent) error
	ListBillingEvents(ctx context.Context, referenceID string, page, pageSize int) ([]*BillingEvent, int, error)
}

// recordEvent 写入审计事件, 失败不影响主流程, 只记录日志
func (uc *BillingUsecase) recordEvent(ctx context.Context, event *BillingEvent) {
	if err := uc.eventRepo.AddBillingEvent(ctx, event); err != nil {
		uc.log.Errorf("Failed to add billing event for %s %s: %v", event.ReferenceType, event.ReferenceID, err)
	}
}

// ListBillingEvents 查询某条记录的转移历史
func (uc *BillingUsecase) ListBillingEvents(ctx context.Context, referenceID string, page, pageSize int) ([]*BillingEvent, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return uc.eventRepo.ListBillingEvents(ctx, referenceID, page, pageSize)
}
