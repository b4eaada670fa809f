package biz

import (
	"context"
	"fmt"
)

// OrderStatus 网关订单状态 (封闭枚举)
// 新增状态必须先经过 ParseOrderStatus, 不允许未知状态悄悄落入失败分支
type OrderStatus string

const (
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusFailed     OrderStatus = "failed"
	OrderStatusCanceled   OrderStatus = "canceled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// ParseOrderStatus 解析网关状态字符串, 未知状态返回错误
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusPaid, OrderStatusPending, OrderStatusProcessing,
		OrderStatusFailed, OrderStatusCanceled, OrderStatusRefunded:
		return OrderStatus(s), nil
	default:
		return "", fmt.Errorf("unknown gateway order status: %q", s)
	}
}

// PaymentOutcome 订单状态对本地记录的影响
type PaymentOutcome int

const (
	// OutcomeApproved 支付确认, 执行条件激活
	OutcomeApproved PaymentOutcome = iota
	// OutcomeInFlight 处理中, 不落任何本地状态, 等待 webhook 给出权威结果
	OutcomeInFlight
	// OutcomeDeclined 支付被拒, 正常业务结果而非异常
	OutcomeDeclined
)

// Outcome 状态转移函数, 同步路径和 webhook 路径共用
func (s OrderStatus) Outcome() PaymentOutcome {
	switch s {
	case OrderStatusPaid:
		return OutcomeApproved
	case OrderStatusPending, OrderStatusProcessing:
		return OutcomeInFlight
	case OrderStatusFailed, OrderStatusCanceled, OrderStatusRefunded:
		return OutcomeDeclined
	default:
		// ParseOrderStatus 拦截未知状态, 正常流程不会到这里
		return OutcomeInFlight
	}
}

// OrderRequest 创建网关订单请求
type OrderRequest struct {
	Title             string
	Quantity          int
	UnitPrice         int64 // 最小货币单位 (分)
	CustomerName      string
	CustomerEmail     string
	CustomerDocument  string
	ExternalReference string // 幂等键, 恒为本地订阅或待支付意向 ID
	CardToken         string
	Installments      int
}

// Charge 网关扣款记录
type Charge struct {
	ID     string
	Status OrderStatus
}

// Order 网关订单
type Order struct {
	ID      string
	Status  OrderStatus
	Charges []Charge
}

// OrderInfo 网关订单查询结果
type OrderInfo struct {
	ID                string
	Status            OrderStatus
	ExternalReference string
	CustomerEmail     string
}

// WebhookResult webhook 解析结果
// Handled 为 false 表示事件类型与支付结果无关, 直接确认即可
type WebhookResult struct {
	Handled           bool
	OrderID           string
	Status            OrderStatus
	ExternalReference string
}

// PaymentGateway 支付网关客户端接口 (防腐层)
type PaymentGateway interface {
	CreateOrder(ctx context.Context, req *OrderRequest) (*Order, error)
	GetOrder(ctx context.Context, orderID string) (*OrderInfo, error)
	ProcessWebhook(ctx context.Context, payload []byte) (*WebhookResult, error)
	ValidateWebhookSignature(payload []byte, signature string) bool
}
