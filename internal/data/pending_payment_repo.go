package data

import (
	"context"
	"errors"
	"time"

	"imobi_tech/billing-service/internal/biz"
	"imobi_tech/billing-service/internal/constants"
	"imobi_tech/billing-service/internal/data/model"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

type pendingPaymentRepo struct {
	data *Data
	log  *log.Helper
}

// NewPendingPaymentRepo 创建待支付意向仓库
func NewPendingPaymentRepo(data *Data, logger log.Logger) biz.PendingPaymentRepo {
	return &pendingPaymentRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *pendingPaymentRepo) GetPendingPayment(ctx context.Context, id string) (*biz.PendingPayment, error) {
	var m model.PendingPayment
	err := r.data.db.WithContext(ctx).Where("pending_payment_id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toBizPendingPayment(&m), nil
}

func (r *pendingPaymentRepo) GetPendingByEmail(ctx context.Context, email string) (*biz.PendingPayment, error) {
	var m model.PendingPayment
	err := r.data.db.WithContext(ctx).
		Where("email = ? AND status = ?", email, constants.PendingPaymentStatusPending).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toBizPendingPayment(&m), nil
}

func (r *pendingPaymentRepo) CreatePendingPayment(ctx context.Context, p *biz.PendingPayment) error {
	m := &model.PendingPayment{
		ID:        p.ID,
		Email:     p.Email,
		Name:      p.Name,
		PlanID:    p.PlanID,
		Status:    p.Status,
		ExpiresAt: p.ExpiresAt,
	}
	return r.data.db.WithContext(ctx).Create(m).Error
}

func (r *pendingPaymentRepo) SetGatewayOrder(ctx context.Context, id, orderID, chargeID string) error {
	return r.data.db.WithContext(ctx).
		Model(&model.PendingPayment{}).
		Where("pending_payment_id = ?", id).
		Updates(map[string]interface{}{
			"gateway_order_id":  orderID,
			"gateway_charge_id": chargeID,
		}).Error
}

// CompletePendingPayment 条件完成: completed 是终态, failed 允许被权威的 paid webhook 救回
func (r *pendingPaymentRepo) CompletePendingPayment(ctx context.Context, id, webhookID string) (bool, error) {
	result := r.data.db.WithContext(ctx).
		Model(&model.PendingPayment{}).
		Where("pending_payment_id = ? AND status <> ?", id, constants.PendingPaymentStatusCompleted).
		Updates(map[string]interface{}{
			"status":               constants.PendingPaymentStatusCompleted,
			"processed_webhook_id": webhookID,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *pendingPaymentRepo) MarkFailed(ctx context.Context, id string) (bool, error) {
	return r.transition(ctx, id, constants.PendingPaymentStatusPending, constants.PendingPaymentStatusFailed)
}

func (r *pendingPaymentRepo) MarkExpired(ctx context.Context, id string) (bool, error) {
	return r.transition(ctx, id, constants.PendingPaymentStatusPending, constants.PendingPaymentStatusExpired)
}

func (r *pendingPaymentRepo) transition(ctx context.Context, id, from, to string) (bool, error) {
	result := r.data.db.WithContext(ctx).
		Model(&model.PendingPayment{}).
		Where("pending_payment_id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteExpired 删除已过期且仍为 pending 的意向, 状态条件在删除语句内判定
func (r *pendingPaymentRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	result := r.data.db.WithContext(ctx).
		Where("status = ? AND expires_at < ?", constants.PendingPaymentStatusPending, now).
		Delete(&model.PendingPayment{})
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

func (r *pendingPaymentRepo) ListStuckPending(ctx context.Context, olderThan time.Time, limit int) ([]*biz.PendingPayment, error) {
	var ms []*model.PendingPayment
	err := r.data.db.WithContext(ctx).
		Where("status = ? AND gateway_order_id <> '' AND created_at < ?",
			constants.PendingPaymentStatusPending, olderThan).
		Order("created_at ASC").
		Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	items := make([]*biz.PendingPayment, 0, len(ms))
	for _, m := range ms {
		items = append(items, toBizPendingPayment(m))
	}
	return items, nil
}

func toBizPendingPayment(m *model.PendingPayment) *biz.PendingPayment {
	return &biz.PendingPayment{
		ID:                 m.ID,
		Email:              m.Email,
		Name:               m.Name,
		PlanID:             m.PlanID,
		Status:             m.Status,
		GatewayOrderID:     m.GatewayOrderID,
		GatewayChargeID:    m.GatewayChargeID,
		ProcessedWebhookID: m.ProcessedWebhookID,
		ExpiresAt:          m.ExpiresAt,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
