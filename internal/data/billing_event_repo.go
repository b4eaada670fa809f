package data

import (
	"context"

	"imobi_tech/billing-service/internal/biz"
	"imobi_tech/billing-service/internal/data/model"

	"github.com/go-kratos/kratos/v2/log"
)

type billingEventRepo struct {
	data *Data
	log  *log.Helper
}

// NewBillingEventRepo 创建账单事件仓库
func NewBillingEventRepo(data *Data, logger log.Logger) biz.BillingEventRepo {
	return &billingEventRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *billingEventRepo) AddBillingEvent(ctx context.Context, event *biz.BillingEvent) error {
	m := &model.BillingEvent{
		ReferenceID:   event.ReferenceID,
		ReferenceType: event.ReferenceType,
		OrderID:       event.OrderID,
		Status:        event.Status,
		Action:        event.Action,
		Source:        event.Source,
		CreatedAt:     event.CreatedAt,
	}
	return r.data.db.WithContext(ctx).Create(m).Error
}

func (r *billingEventRepo) ListBillingEvents(ctx context.Context, referenceID string, page, pageSize int) ([]*biz.BillingEvent, int, error) {
	var total int64
	query := r.data.db.WithContext(ctx).Model(&model.BillingEvent{}).Where("reference_id = ?", referenceID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []*model.BillingEvent
	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC, billing_event_id DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&ms).Error
	if err != nil {
		return nil, 0, err
	}

	events := make([]*biz.BillingEvent, 0, len(ms))
	for _, m := range ms {
		events = append(events, &biz.BillingEvent{
			ID:            m.ID,
			ReferenceID:   m.ReferenceID,
			ReferenceType: m.ReferenceType,
			OrderID:       m.OrderID,
			Status:        m.Status,
			Action:        m.Action,
			Source:        m.Source,
			CreatedAt:     m.CreatedAt,
		})
	}
	return events, int(total), nil
}
