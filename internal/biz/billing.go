package biz

import (
	"context"
	"time"

	"imobi_tech/billing-service/internal/conf"
	"imobi_tech/billing-service/internal/constants"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-redsync/redsync/v4"
	"github.com/google/wire"
)

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(NewBillingUsecase)

// BillingUsecase 订阅激活与支付对账业务逻辑
type BillingUsecase struct {
	subRepo     SubscriptionRepo
	pendingRepo PendingPaymentRepo
	planRepo    PlanRepo
	userRepo    UserRepo
	eventRepo   BillingEventRepo
	gateway     PaymentGateway
	userCache   UserCacheService
	rs          *redsync.Redsync
	config      *conf.Bootstrap
	log         *log.Helper
}

// NewBillingUsecase 创建账单业务用例
func NewBillingUsecase(
	subRepo SubscriptionRepo,
	pendingRepo PendingPaymentRepo,
	planRepo PlanRepo,
	userRepo UserRepo,
	eventRepo BillingEventRepo,
	gateway PaymentGateway,
	userCache UserCacheService,
	rs *redsync.Redsync,
	config *conf.Bootstrap,
	logger log.Logger,
) *BillingUsecase {
	return &BillingUsecase{
		subRepo:     subRepo,
		pendingRepo: pendingRepo,
		planRepo:    planRepo,
		userRepo:    userRepo,
		eventRepo:   eventRepo,
		gateway:     gateway,
		userCache:   userCache,
		rs:          rs,
		config:      config,
		log:         log.NewHelper(logger),
	}
}

// pendingTTL 待支付意向有效期
func (uc *BillingUsecase) pendingTTL() time.Duration {
	if uc.config != nil && uc.config.Payment != nil {
		return conf.ParseDuration(uc.config.Payment.PendingTtl, constants.DefaultPendingPaymentTTL)
	}
	return constants.DefaultPendingPaymentTTL
}

// reconcileGrace 主动对账宽限期: 创建后超过该时长仍为 pending 的意向才会被轮询
func (uc *BillingUsecase) reconcileGrace() time.Duration {
	if uc.config != nil && uc.config.Payment != nil {
		return conf.ParseDuration(uc.config.Payment.ReconcileGrace, constants.DefaultReconcileGrace)
	}
	return constants.DefaultReconcileGrace
}

// reconcileBatchSize 单次对账处理的最大记录数
func (uc *BillingUsecase) reconcileBatchSize() int {
	if uc.config != nil && uc.config.Payment != nil && uc.config.Payment.ReconcileBatchSize > 0 {
		return uc.config.Payment.ReconcileBatchSize
	}
	return constants.DefaultReconcileBatchSize
}

// invalidateUserCache 缓存失效失败只记录日志, 不影响已提交的状态
func (uc *BillingUsecase) invalidateUserCache(ctx context.Context, userID string) {
	if err := uc.userCache.Invalidate(ctx, userID); err != nil {
		uc.log.Warnf("Failed to invalidate user cache for user %s: %v", userID, err)
	}
}
