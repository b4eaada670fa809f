package errors

import (
	kerrors "github.com/go-kratos/kratos/v2/errors"
)

// 错误 reason 常量, HTTP 状态映射见 internal/server
const (
	ReasonInvalidInput            = "INVALID_INPUT"
	ReasonUserNotFound            = "USER_NOT_FOUND"
	ReasonEmailNotVerified        = "EMAIL_NOT_VERIFIED"
	ReasonEmailAlreadyExists      = "EMAIL_ALREADY_EXISTS"
	ReasonSubscriptionNotFound    = "SUBSCRIPTION_NOT_FOUND"
	ReasonOperationNotAllowed     = "OPERATION_NOT_ALLOWED"
	ReasonDuplicateSubscription   = "DUPLICATE_SUBSCRIPTION"
	ReasonPendingPaymentNotFound  = "PENDING_PAYMENT_NOT_FOUND"
	ReasonPaymentAlreadyProcessed = "PAYMENT_ALREADY_PROCESSED"
	ReasonPaymentExpired          = "PAYMENT_EXPIRED"
	ReasonPlanNotFound            = "PLAN_NOT_FOUND"
	ReasonPaymentGateway          = "PAYMENT_GATEWAY_ERROR"
	ReasonInvalidSignature        = "INVALID_SIGNATURE"
)

// NewInvalidInput 参数无效
func NewInvalidInput(message string) *kerrors.Error {
	return kerrors.New(ErrCodeInvalidInput, ReasonInvalidInput, message)
}

// NewUserNotFound 用户不存在
func NewUserNotFound() *kerrors.Error {
	return kerrors.New(ErrCodeUserNotFound, ReasonUserNotFound, "Usuário não encontrado")
}

// NewEmailNotVerified 邮箱未验证
func NewEmailNotVerified() *kerrors.Error {
	return kerrors.New(ErrCodeEmailNotVerified, ReasonEmailNotVerified,
		"Você precisa confirmar seu email antes de ativar a assinatura")
}

// NewEmailAlreadyExists 邮箱已注册
func NewEmailAlreadyExists() *kerrors.Error {
	return kerrors.New(ErrCodeEmailAlreadyExists, ReasonEmailAlreadyExists, "Este email já está cadastrado")
}

// NewSubscriptionNotFound 订阅不存在
func NewSubscriptionNotFound() *kerrors.Error {
	return kerrors.New(ErrCodeSubscriptionNotFound, ReasonSubscriptionNotFound, "Assinatura não encontrada")
}

// NewOperationNotAllowed 所有权或状态不允许当前操作
func NewOperationNotAllowed(message string) *kerrors.Error {
	return kerrors.New(ErrCodeOperationNotAllowed, ReasonOperationNotAllowed, message)
}

// NewDuplicateSubscription 用户已有活跃订阅
func NewDuplicateSubscription() *kerrors.Error {
	return kerrors.New(ErrCodeDuplicateSubscription, ReasonDuplicateSubscription,
		"Você já possui uma assinatura ativa")
}

// NewPendingPaymentNotFound 待支付意向不存在
func NewPendingPaymentNotFound() *kerrors.Error {
	return kerrors.New(ErrCodePendingPaymentNotFound, ReasonPendingPaymentNotFound,
		"Pagamento pendente não encontrado")
}

// NewPaymentAlreadyProcessed 支付已处理
func NewPaymentAlreadyProcessed() *kerrors.Error {
	return kerrors.New(ErrCodePaymentAlreadyProcessed, ReasonPaymentAlreadyProcessed,
		"Este pagamento já foi processado")
}

// NewPaymentExpired 待支付意向已过期
func NewPaymentExpired() *kerrors.Error {
	return kerrors.New(ErrCodePaymentExpired, ReasonPaymentExpired,
		"Pagamento expirado. Por favor, inicie um novo processo de pagamento.")
}

// NewPlanNotFound 套餐不存在
func NewPlanNotFound() *kerrors.Error {
	return kerrors.New(ErrCodePlanNotFound, ReasonPlanNotFound, "Plano não encontrado")
}

// NewPaymentGateway 支付网关调用失败或结果不明
// 同步调用超时也走这里: 扣款可能已经成功, 不能据此落失败状态
func NewPaymentGateway() *kerrors.Error {
	return kerrors.New(ErrCodePaymentGateway, ReasonPaymentGateway,
		"Não foi possível processar seu pagamento no momento. Por favor, verifique os dados e tente novamente.")
}

// NewInvalidSignature webhook 签名无效
func NewInvalidSignature() *kerrors.Error {
	return kerrors.New(ErrCodeInvalidSignature, ReasonInvalidSignature, "Assinatura do webhook inválida")
}

// IsInvalidInput 判断是否为参数无效错误
func IsInvalidInput(err error) bool { return kerrors.Reason(err) == ReasonInvalidInput }

// IsUserNotFound 判断是否为用户不存在错误
func IsUserNotFound(err error) bool { return kerrors.Reason(err) == ReasonUserNotFound }

// IsEmailNotVerified 判断是否为邮箱未验证错误
func IsEmailNotVerified(err error) bool { return kerrors.Reason(err) == ReasonEmailNotVerified }

// IsEmailAlreadyExists 判断是否为邮箱已注册错误
func IsEmailAlreadyExists(err error) bool { return kerrors.Reason(err) == ReasonEmailAlreadyExists }

// IsSubscriptionNotFound 判断是否为订阅不存在错误
func IsSubscriptionNotFound(err error) bool {
	return kerrors.Reason(err) == ReasonSubscriptionNotFound
}

// IsOperationNotAllowed 判断是否为操作不允许错误
func IsOperationNotAllowed(err error) bool { return kerrors.Reason(err) == ReasonOperationNotAllowed }

// IsDuplicateSubscription 判断是否为重复订阅错误
func IsDuplicateSubscription(err error) bool {
	return kerrors.Reason(err) == ReasonDuplicateSubscription
}

// IsPendingPaymentNotFound 判断是否为待支付意向不存在错误
func IsPendingPaymentNotFound(err error) bool {
	return kerrors.Reason(err) == ReasonPendingPaymentNotFound
}

// IsPaymentAlreadyProcessed 判断是否为支付已处理错误
func IsPaymentAlreadyProcessed(err error) bool {
	return kerrors.Reason(err) == ReasonPaymentAlreadyProcessed
}

// IsPaymentExpired 判断是否为待支付意向已过期错误
func IsPaymentExpired(err error) bool { return kerrors.Reason(err) == ReasonPaymentExpired }

// IsPlanNotFound 判断是否为套餐不存在错误
func IsPlanNotFound(err error) bool { return kerrors.Reason(err) == ReasonPlanNotFound }

// IsPaymentGateway 判断是否为支付网关错误
func IsPaymentGateway(err error) bool { return kerrors.Reason(err) == ReasonPaymentGateway }

// IsInvalidSignature 判断是否为签名无效错误
func IsInvalidSignature(err error) bool { return kerrors.Reason(err) == ReasonInvalidSignature }
