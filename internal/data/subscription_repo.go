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

type subscriptionRepo struct {
	data *Data
	log  *log.Helper
}

// NewSubscriptionRepo 创建订阅仓库
func NewSubscriptionRepo(data *Data, logger log.Logger) biz.SubscriptionRepo {
	return &subscriptionRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *subscriptionRepo) GetSubscription(ctx context.Context, id string) (*biz.Subscription, error) {
	var m model.Subscription
	err := r.data.db.WithContext(ctx).Where("subscription_id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toBizSubscription(&m), nil
}

func (r *subscriptionRepo) GetActiveByUser(ctx context.Context, userID string) (*biz.Subscription, error) {
	var m model.Subscription
	err := r.data.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, constants.SubscriptionStatusActive).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toBizSubscription(&m), nil
}

// ActivateFromPending 条件激活, WHERE 子句即判定条件, 并发路径下只有一条能生效
func (r *subscriptionRepo) ActivateFromPending(ctx context.Context, id string, startDate, endDate time.Time) (bool, error) {
	result := r.data.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("subscription_id = ? AND status = ?", id, constants.SubscriptionStatusPending).
		Updates(map[string]interface{}{
			"status":     constants.SubscriptionStatusActive,
			"start_date": startDate,
			"end_date":   endDate,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func toBizSubscription(m *model.Subscription) *biz.Subscription {
	return &biz.Subscription{
		ID:        m.ID,
		UserID:    m.UserID,
		PlanID:    m.PlanID,
		Status:    m.Status,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
