package data

import (
	"context"
	"errors"

	"imobi_tech/billing-service/internal/biz"
	"imobi_tech/billing-service/internal/data/model"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

type userRepo struct {
	data *Data
	log  *log.Helper
}

// NewUserRepo 创建用户仓库 (只读)
func NewUserRepo(data *Data, logger log.Logger) biz.UserRepo {
	return &userRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *userRepo) GetUser(ctx context.Context, id string) (*biz.User, error) {
	var m model.User
	err := r.data.db.WithContext(ctx).Where("user_id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toBizUser(&m), nil
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*biz.User, error) {
	var m model.User
	err := r.data.db.WithContext(ctx).Where("email = ?", email).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toBizUser(&m), nil
}

func toBizUser(m *model.User) *biz.User {
	return &biz.User{
		ID:              m.ID,
		Name:            m.Name,
		Email:           m.Email,
		IsEmailVerified: m.IsEmailVerified,
	}
}
