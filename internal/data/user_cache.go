package data

import (
	"context"

	"imobi_tech/billing-service/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
)

// UserStateCachePrefix 用户状态缓存键前缀, 与账号服务共享
const UserStateCachePrefix = "user_state:"

type userCacheService struct {
	data *Data
	log  *log.Helper
}

// NewUserCacheService 创建用户状态缓存失效服务
func NewUserCacheService(data *Data, logger log.Logger) biz.UserCacheService {
	return &userCacheService{
		data: data,
		log:  log.NewHelper(logger),
	}
}

// Invalidate 删除用户状态缓存, 让下一次读取回源取到新的订阅状态
func (s *userCacheService) Invalidate(ctx context.Context, userID string) error {
	return s.data.rdb.Del(ctx, UserStateCachePrefix+userID).Err()
}
