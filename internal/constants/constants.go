package constants

import "time"

// 订阅状态
const (
	SubscriptionStatusPending  = "pending"
	SubscriptionStatusActive   = "active"
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusExpired  = "expired"
)

// 待支付意向状态
const (
	PendingPaymentStatusPending   = "pending"
	PendingPaymentStatusCompleted = "completed"
	PendingPaymentStatusExpired   = "expired"
	PendingPaymentStatusFailed    = "failed"
)

// 账单事件操作
const (
	EventActionActivated = "activated"
	EventActionCompleted = "completed"
	EventActionFailed    = "failed"
	EventActionExpired   = "expired"
	EventActionSwept     = "swept"
)

// 账单事件来源
const (
	EventSourceCheckout   = "checkout"
	EventSourceWebhook    = "webhook"
	EventSourceReconciler = "reconciler"
	EventSourceSweeper    = "sweeper"
)

// 事件引用类型
const (
	ReferenceTypeSubscription   = "subscription"
	ReferenceTypePendingPayment = "pending_payment"
)

// 分期付款范围
const (
	MinInstallments = 1
	MaxInstallments = 12
)

// 支付流程默认值
const (
	// DefaultPendingPaymentTTL 待支付意向默认有效期
	DefaultPendingPaymentTTL = 30 * time.Minute
	// DefaultReconcileGrace 主动对账的默认宽限期
	DefaultReconcileGrace = 10 * time.Minute
	// DefaultReconcileBatchSize 单次对账处理的最大记录数
	DefaultReconcileBatchSize = 50
	// DefaultGatewayTimeout 网关调用默认超时时间
	DefaultGatewayTimeout = 15 * time.Second
)

// 分布式锁相关常量
const (
	// SweepLockKey 过期清理任务锁
	SweepLockKey = "billing:sweep:lock"
	// ReconcileLockKey 对账任务锁
	ReconcileLockKey = "billing:reconcile:lock"
	// JobLockExpiration 定时任务锁过期时间
	JobLockExpiration = 10 * time.Minute
	// JobLockRetries 定时任务锁重试次数 (只尝试一次, 失败说明已有实例在执行)
	JobLockRetries = 1
)

// 分页相关常量
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)
