package biz

import (
	"context"
	"fmt"
	"time"

	"imobi_tech/billing-service/internal/constants"
	"imobi_tech/billing-service/internal/errors"

	"github.com/google/uuid"
)

// PendingPayment 待支付意向: 账号创建之前的限时结账请求
type PendingPayment struct {
	ID                 string
	Email              string
	Name               string
	PlanID             string
	Status             string // pending, completed, expired, failed
	GatewayOrderID     string
	GatewayChargeID    string
	ProcessedWebhookID string
	ExpiresAt          time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Expired 判断意向是否已过期
func (p *PendingPayment) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// PendingPaymentRepo 待支付意向仓库接口
type PendingPaymentRepo interface {
	// GetPendingPayment 按 ID 查询, 不存在返回 (nil, nil)
	GetPendingPayment(ctx context.Context, id string) (*PendingPayment, error)
	// GetPendingByEmail 查询该邮箱下仍为 pending 的意向, 不存在返回 (nil, nil)
	GetPendingByEmail(ctx context.Context, email string) (*PendingPayment, error)
	CreatePendingPayment(ctx context.Context, p *PendingPayment) error
	// SetGatewayOrder 记录网关订单/扣款 ID, 供 webhook 对账和主动轮询使用
	SetGatewayOrder(ctx context.Context, id, orderID, chargeID string) error
	// CompletePendingPayment 条件完成: 仅当状态不是 completed 时写入。
	// failed 状态允许被权威的 paid webhook 救回; completed 是终态。
	CompletePendingPayment(ctx context.Context, id, webhookID string) (bool, error)
	// MarkFailed 条件写失败: 仅当状态为 pending 时写入
	MarkFailed(ctx context.Context, id string) (bool, error)
	// MarkExpired 条件写过期: 仅当状态为 pending 时写入
	MarkExpired(ctx context.Context, id string) (bool, error)
	// DeleteExpired 删除已过期且仍为 pending 的意向, 条件在删除时刻生效
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
	// ListStuckPending 查询创建时间早于 olderThan、已有网关订单号但仍为 pending 的意向
	ListStuckPending(ctx context.Context, olderThan time.Time, limit int) ([]*PendingPayment, error)
}

// CreatePendingPaymentOutput 创建待支付意向结果
type CreatePendingPaymentOutput struct {
	PendingPaymentID string
	ExpiresAt        time.Time
}

// CreatePendingPayment 创建待支付意向, 有效期为固定 TTL
func (uc *BillingUsecase) CreatePendingPayment(ctx context.Context, email, name, planID string) (*CreatePendingPaymentOutput, error) {
	uc.log.Infof("CreatePendingPayment: email=%s, planID=%s", email, planID)

	if email == "" || name == "" {
		return nil, errors.NewInvalidInput("Email e nome são obrigatórios")
	}

	existingUser, err := uc.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, errors.NewEmailAlreadyExists()
	}

	plan, err := uc.planRepo.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, errors.NewPlanNotFound()
	}

	// 同一邮箱不允许并存两个未过期的 pending 意向
	existing, err := uc.pendingRepo.GetPendingByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if existing != nil && !existing.Expired(now) {
		return nil, errors.NewPaymentAlreadyProcessed()
	}

	p := &PendingPayment{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		PlanID:    planID,
		Status:    constants.PendingPaymentStatusPending,
		ExpiresAt: now.Add(uc.pendingTTL()),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.pendingRepo.CreatePendingPayment(ctx, p); err != nil {
		uc.log.Errorf("Failed to create pending payment: %v", err)
		return nil, err
	}
	uc.log.Infof("Pending payment created: %s, expires at %v", p.ID, p.ExpiresAt)

	return &CreatePendingPaymentOutput{PendingPaymentID: p.ID, ExpiresAt: p.ExpiresAt}, nil
}

// PendingPaymentView 待支付意向查询结果 (含套餐摘要)
type PendingPaymentView struct {
	ID        string
	Email     string
	Name      string
	PlanID    string
	PlanName  string
	PlanPrice int64
	Status    string
	ExpiresAt time.Time
}

// GetPendingPayment 查询待支付意向
// 过期即视为不存在, 即使清理任务尚未删除该行, 调用方也不能再基于它发起支付
func (uc *BillingUsecase) GetPendingPayment(ctx context.Context, id string) (*PendingPaymentView, error) {
	p, err := uc.pendingRepo.GetPendingPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.Expired(time.Now().UTC()) {
		return nil, errors.NewPendingPaymentNotFound()
	}

	plan, err := uc.planRepo.GetPlan(ctx, p.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, errors.NewPlanNotFound()
	}

	return &PendingPaymentView{
		ID:        p.ID,
		Email:     p.Email,
		Name:      p.Name,
		PlanID:    p.PlanID,
		PlanName:  plan.Name,
		PlanPrice: plan.Price,
		Status:    p.Status,
		ExpiresAt: p.ExpiresAt,
	}, nil
}

// ProcessCardPaymentOutput 卡支付处理结果
type ProcessCardPaymentOutput struct {
	OrderID string
	Status  string
	Success bool
}

// ProcessCardPayment 为待支付意向处理卡支付
// externalReference = 意向 ID, webhook 用它对账回本地记录
func (uc *BillingUsecase) ProcessCardPayment(ctx context.Context, id, cardToken string, installments int) (*ProcessCardPaymentOutput, error) {
	uc.log.Infof("ProcessCardPayment: pendingPaymentID=%s, installments=%d", id, installments)

	p, err := uc.pendingRepo.GetPendingPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.NewPendingPaymentNotFound()
	}

	now := time.Now().UTC()
	if p.Expired(now) {
		if _, err := uc.pendingRepo.MarkExpired(ctx, p.ID); err != nil {
			uc.log.Errorf("Failed to mark pending payment %s expired: %v", p.ID, err)
		}
		return nil, errors.NewPaymentExpired()
	}
	if p.Status == constants.PendingPaymentStatusCompleted {
		return nil, errors.NewPaymentAlreadyProcessed()
	}

	plan, err := uc.planRepo.GetPlan(ctx, p.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, errors.NewPlanNotFound()
	}

	if installments == 0 {
		installments = constants.MinInstallments
	}
	if installments < constants.MinInstallments || installments > constants.MaxInstallments {
		return nil, errors.NewInvalidInput("Número de parcelas inválido (1-12)")
	}

	order, err := uc.gateway.CreateOrder(ctx, &OrderRequest{
		Title:             fmt.Sprintf("Plano %s - CRM Imobiliário", plan.Name),
		Quantity:          1,
		UnitPrice:         plan.Price,
		CustomerName:      p.Name,
		CustomerEmail:     p.Email,
		ExternalReference: p.ID,
		CardToken:         cardToken,
		Installments:      installments,
	})
	if err != nil {
		// 结果不明: 不写 failed, webhook 仍可能送达 paid
		uc.log.Errorf("Failed to create gateway order for pending payment %s: %v", p.ID, err)
		return nil, errors.NewPaymentGateway()
	}

	chargeID := ""
	if len(order.Charges) > 0 {
		chargeID = order.Charges[0].ID
	}
	if err := uc.pendingRepo.SetGatewayOrder(ctx, p.ID, order.ID, chargeID); err != nil {
		uc.log.Errorf("Failed to record gateway order for pending payment %s: %v", p.ID, err)
	}

	switch order.Status.Outcome() {
	case OutcomeApproved:
		if err := uc.completePendingPayment(ctx, p, order.ID, "", constants.EventSourceCheckout); err != nil {
			return nil, err
		}
		return &ProcessCardPaymentOutput{OrderID: order.ID, Status: string(order.Status), Success: true}, nil
	case OutcomeInFlight:
		return &ProcessCardPaymentOutput{OrderID: order.ID, Status: string(order.Status), Success: true}, nil
	default:
		// 被拒是明确结果, 落 failed; 之后权威的 paid webhook 仍可救回
		if _, err := uc.pendingRepo.MarkFailed(ctx, p.ID); err != nil {
			uc.log.Errorf("Failed to mark pending payment %s failed: %v", p.ID, err)
		}
		uc.recordEvent(ctx, &BillingEvent{
			ReferenceID:   p.ID,
			ReferenceType: constants.ReferenceTypePendingPayment,
			OrderID:       order.ID,
			Status:        constants.PendingPaymentStatusFailed,
			Action:        constants.EventActionFailed,
			Source:        constants.EventSourceCheckout,
			CreatedAt:     now,
		})
		return &ProcessCardPaymentOutput{OrderID: order.ID, Status: string(order.Status), Success: false}, nil
	}
}

// completePendingPayment 条件完成待支付意向, 同步路径/webhook/对账任务共用
// 完成是下游开户流程的触发点 (开户本身不在本服务范围)
func (uc *BillingUsecase) completePendingPayment(ctx context.Context, p *PendingPayment, orderID, webhookID, source string) error {
	applied, err := uc.pendingRepo.CompletePendingPayment(ctx, p.ID, webhookID)
	if err != nil {
		uc.log.Errorf("Failed to complete pending payment %s: %v", p.ID, err)
		return err
	}
	if !applied {
		uc.log.Infof("Pending payment %s already completed, skipping (idempotent)", p.ID)
		return nil
	}
	uc.log.Infof("Pending payment %s completed via %s", p.ID, source)

	uc.recordEvent(ctx, &BillingEvent{
		ReferenceID:   p.ID,
		ReferenceType: constants.ReferenceTypePendingPayment,
		OrderID:       orderID,
		Status:        constants.PendingPaymentStatusCompleted,
		Action:        constants.EventActionCompleted,
		Source:        source,
		CreatedAt:     time.Now().UTC(),
	})
	return nil
}
