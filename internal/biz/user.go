package biz

import "context"

// User 用户记录 (本服务只读)
type User struct {
	ID              string
	Name            string
	Email           string
	IsEmailVerified bool
}

// UserRepo 用户仓库接口
type UserRepo interface {
	// GetUser 按 ID 查询, 不存在返回 (nil, nil)
	GetUser(ctx context.Context, id string) (*User, error)
	// GetUserByEmail 按邮箱查询, 不存在返回 (nil, nil)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// UserCacheService 用户状态缓存失效接口
// 激活提交后调用; 失效失败只记录日志, 缓存过期会自愈, 不能回滚已提交的订阅状态
type UserCacheService interface {
	Invalidate(ctx context.Context, userID string) error
}
