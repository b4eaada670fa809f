package errors

// 账单服务错误码定义
// 错误码格式：SSMMEE (6位数字)，其中 SS=14 表示 billing-service
// 模块划分：
//   00: 通用
//   01: 用户模块
//   02: 订阅模块
//   03: 待支付意向模块
//   04: 套餐模块
//   05: 支付网关模块

// 通用 (140000-140099)
const (
	// ErrCodeInvalidInput 参数无效错误
	ErrCodeInvalidInput = 140001
)

// 用户模块 (140100-140199)
const (
	// ErrCodeUserNotFound 用户不存在错误
	ErrCodeUserNotFound = 140101
	// ErrCodeEmailNotVerified 邮箱未验证错误
	ErrCodeEmailNotVerified = 140102
	// ErrCodeEmailAlreadyExists 邮箱已注册错误
	ErrCodeEmailAlreadyExists = 140103
)

// 订阅模块 (140200-140299)
const (
	// ErrCodeSubscriptionNotFound 订阅不存在错误
	ErrCodeSubscriptionNotFound = 140201
	// ErrCodeOperationNotAllowed 所有权或状态不允许当前操作错误
	ErrCodeOperationNotAllowed = 140202
	// ErrCodeDuplicateSubscription 用户已有活跃订阅错误
	ErrCodeDuplicateSubscription = 140203
)

// 待支付意向模块 (140300-140399)
const (
	// ErrCodePendingPaymentNotFound 待支付意向不存在错误
	ErrCodePendingPaymentNotFound = 140301
	// ErrCodePaymentAlreadyProcessed 支付已处理错误
	ErrCodePaymentAlreadyProcessed = 140302
	// ErrCodePaymentExpired 待支付意向已过期错误
	ErrCodePaymentExpired = 140303
)

// 套餐模块 (140400-140499)
const (
	// ErrCodePlanNotFound 套餐不存在错误
	ErrCodePlanNotFound = 140401
)

// 支付网关模块 (140500-140599)
const (
	// ErrCodePaymentGateway 支付网关调用失败或结果不明错误
	ErrCodePaymentGateway = 140501
	// ErrCodeInvalidSignature webhook 签名无效错误
	ErrCodeInvalidSignature = 140502
)
