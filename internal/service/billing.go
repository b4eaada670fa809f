package service

import (
	"context"
	"time"

	"imobi_tech/billing-service/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
)

// BillingService 账单服务
type BillingService struct {
	uc  *biz.BillingUsecase
	log *log.Helper
}

// NewBillingService 创建账单服务
func NewBillingService(uc *biz.BillingUsecase, logger log.Logger) *BillingService {
	return &BillingService{
		uc:  uc,
		log: log.NewHelper(logger),
	}
}

// ActivateRequest 订阅激活请求
type ActivateRequest struct {
	SubscriptionID string `json:"subscription_id"`
	PlanID         string `json:"plan_id"`
	CardToken      string `json:"card_token"`
	PayerDocument  string `json:"payer_document"`
	Installments   int    `json:"installments"`
}

// ActivateReply 订阅激活响应
type ActivateReply struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	SubscriptionID string `json:"subscription_id"`
	Status         string `json:"status"`
}

// Activate 激活订阅
func (s *BillingService) Activate(ctx context.Context, userID string, req *ActivateRequest) (*ActivateReply, error) {
	result, err := s.uc.Activate(ctx, &biz.ActivateInput{
		UserID:         userID,
		SubscriptionID: req.SubscriptionID,
		PlanID:         req.PlanID,
		CardToken:      req.CardToken,
		PayerDocument:  req.PayerDocument,
		Installments:   req.Installments,
	})
	if err != nil {
		return nil, err
	}
	return &ActivateReply{
		Success:        result.Success,
		Message:        result.Message,
		SubscriptionID: result.SubscriptionID,
		Status:         result.Status,
	}, nil
}

// CreatePendingPaymentRequest 创建待支付意向请求
type CreatePendingPaymentRequest struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	PlanID string `json:"plan_id"`
}

// CreatePendingPaymentReply 创建待支付意向响应
type CreatePendingPaymentReply struct {
	PendingPaymentID string    `json:"pending_payment_id"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// CreatePendingPayment 创建待支付意向
func (s *BillingService) CreatePendingPayment(ctx context.Context, req *CreatePendingPaymentRequest) (*CreatePendingPaymentReply, error) {
	out, err := s.uc.CreatePendingPayment(ctx, req.Email, req.Name, req.PlanID)
	if err != nil {
		return nil, err
	}
	return &CreatePendingPaymentReply{
		PendingPaymentID: out.PendingPaymentID,
		ExpiresAt:        out.ExpiresAt,
	}, nil
}

// PendingPaymentReply 待支付意向查询响应
type PendingPaymentReply struct {
	PendingPaymentID string    `json:"pending_payment_id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	PlanID           string    `json:"plan_id"`
	PlanName         string    `json:"plan_name"`
	PlanPrice        int64     `json:"plan_price"`
	Status           string    `json:"status"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// GetPendingPayment 查询待支付意向
func (s *BillingService) GetPendingPayment(ctx context.Context, id string) (*PendingPaymentReply, error) {
	view, err := s.uc.GetPendingPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PendingPaymentReply{
		PendingPaymentID: view.ID,
		Email:            view.Email,
		Name:             view.Name,
		PlanID:           view.PlanID,
		PlanName:         view.PlanName,
		PlanPrice:        view.PlanPrice,
		Status:           view.Status,
		ExpiresAt:        view.ExpiresAt,
	}, nil
}

// ProcessCardPaymentRequest 卡支付处理请求
type ProcessCardPaymentRequest struct {
	PendingPaymentID string `json:"pending_payment_id"`
	CardToken        string `json:"card_token"`
	Installments     int    `json:"installments"`
}

// ProcessCardPaymentReply 卡支付处理响应
type ProcessCardPaymentReply struct {
	Success bool   `json:"success"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// ProcessCardPayment 为待支付意向处理卡支付
func (s *BillingService) ProcessCardPayment(ctx context.Context, req *ProcessCardPaymentRequest) (*ProcessCardPaymentReply, error) {
	out, err := s.uc.ProcessCardPayment(ctx, req.PendingPaymentID, req.CardToken, req.Installments)
	if err != nil {
		return nil, err
	}
	return &ProcessCardPaymentReply{
		Success: out.Success,
		OrderID: out.OrderID,
		Status:  out.Status,
	}, nil
}

// HandleWebhook 处理支付网关回调
func (s *BillingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	return s.uc.HandleWebhook(ctx, payload, signature)
}

// PlanReply 套餐信息
type PlanReply struct {
	PlanID       string   `json:"plan_id"`
	Slug         string   `json:"slug"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        int64    `json:"price"`
	DurationDays int      `json:"duration_days"`
	Features     []string `json:"features"`
}

// ListPlansReply 套餐列表响应
type ListPlansReply struct {
	Plans []*PlanReply `json:"plans"`
}

// ListPlans 查询套餐目录
func (s *BillingService) ListPlans(ctx context.Context) (*ListPlansReply, error) {
	plans, err := s.uc.ListPlans(ctx)
	if err != nil {
		return nil, err
	}
	reply := &ListPlansReply{Plans: make([]*PlanReply, 0, len(plans))}
	for _, p := range plans {
		reply.Plans = append(reply.Plans, &PlanReply{
			PlanID:       p.ID,
			Slug:         p.Slug,
			Name:         p.Name,
			Description:  p.Description,
			Price:        p.Price,
			DurationDays: p.DurationDays,
			Features:     p.Features,
		})
	}
	return reply, nil
}
