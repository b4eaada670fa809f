package data

import (
	"context"
	"encoding/json"
	"errors"

	"imobi_tech/billing-service/internal/biz"
	"imobi_tech/billing-service/internal/data/model"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

type planRepo struct {
	data *Data
	log  *log.Helper
}

// NewPlanRepo 创建套餐仓库 (只读)
func NewPlanRepo(data *Data, logger log.Logger) biz.PlanRepo {
	return &planRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *planRepo) GetPlan(ctx context.Context, id string) (*biz.Plan, error) {
	var m model.Plan
	err := r.data.db.WithContext(ctx).Where("plan_id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toBizPlan(&m), nil
}

func (r *planRepo) ListPlans(ctx context.Context) ([]*biz.Plan, error) {
	var ms []*model.Plan
	if err := r.data.db.WithContext(ctx).Order("price ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	plans := make([]*biz.Plan, 0, len(ms))
	for _, m := range ms {
		plans = append(plans, r.toBizPlan(m))
	}
	return plans, nil
}

func (r *planRepo) toBizPlan(m *model.Plan) *biz.Plan {
	var features []string
	if m.Features != "" {
		if err := json.Unmarshal([]byte(m.Features), &features); err != nil {
			r.log.Warnf("Failed to unmarshal features for plan %s: %v", m.ID, err)
		}
	}
	return &biz.Plan{
		ID:           m.ID,
		Slug:         m.Slug,
		Name:         m.Name,
		Description:  m.Description,
		Price:        m.Price,
		DurationDays: m.DurationDays,
		Features:     features,
	}
}
