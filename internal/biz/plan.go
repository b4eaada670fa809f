package biz

import "context"

// Plan 订阅套餐 (只读目录)
type Plan struct {
	ID           string
	Slug         string
	Name         string
	Description  string
	Price        int64 // 最小货币单位 (分)
	DurationDays int
	Features     []string
}

// PlanRepo 套餐仓库接口
type PlanRepo interface {
	// GetPlan 按 ID 查询, 不存在返回 (nil, nil)
	GetPlan(ctx context.Context, id string) (*Plan, error)
	ListPlans(ctx context.Context) ([]*Plan, error)
}

// ListPlans 查询套餐目录 (结账页选择套餐用)
func (uc *BillingUsecase) ListPlans(ctx context.Context) ([]*Plan, error) {
	return uc.planRepo.ListPlans(ctx)
}
