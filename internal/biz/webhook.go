package biz

import (
	"context"

	"imobi_tech/billing-service/internal/constants"
	"imobi_tech/billing-service/internal/errors"
)

// HandleWebhook 处理网关异步回调
//
// webhook 与同步响应之间没有任何顺序保证: 可能重复、乱序、甚至先于同步响应
// 到达。两条路径收敛到同一个条件状态转移, 后到的一方观察到零行受影响即视为
// 已处理。externalReference 找不到本地记录不算错误, 记录日志后丢弃即可
// (订单可能属于其他环境)。
func (uc *BillingUsecase) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if !uc.gateway.ValidateWebhookSignature(payload, signature) {
		uc.log.Warnf("Webhook rejected: invalid signature")
		return errors.NewInvalidSignature()
	}

	result, err := uc.gateway.ProcessWebhook(ctx, payload)
	if err != nil {
		uc.log.Errorf("Failed to process webhook payload: %v", err)
		return errors.NewInvalidInput("Payload do webhook inválido")
	}
	if !result.Handled {
		uc.log.Infof("Webhook event type not processed, acknowledging")
		return nil
	}

	if result.Status.Outcome() != OutcomeApproved {
		// 非 paid 结果不产生本地转移 (与同步路径的转移表一致)
		uc.log.Infof("Webhook order %s status %s requires no transition", result.OrderID, result.Status)
		return nil
	}
	if result.ExternalReference == "" {
		uc.log.Warnf("Webhook order %s carries no external reference, discarding", result.OrderID)
		return nil
	}

	ref := result.ExternalReference

	sub, err := uc.subRepo.GetSubscription(ctx, ref)
	if err != nil {
		return err
	}
	if sub != nil {
		return uc.reconcileSubscription(ctx, sub, result.OrderID)
	}

	p, err := uc.pendingRepo.GetPendingPayment(ctx, ref)
	if err != nil {
		return err
	}
	if p != nil {
		return uc.completePendingPayment(ctx, p, result.OrderID, result.OrderID, constants.EventSourceWebhook)
	}

	uc.log.Warnf("Webhook order %s references unknown record %s, discarding", result.OrderID, ref)
	return nil
}

// reconcileSubscription 将已确认的支付应用到订阅, 与同步激活共用转移逻辑
func (uc *BillingUsecase) reconcileSubscription(ctx context.Context, sub *Subscription, orderID string) error {
	switch sub.Status {
	case constants.SubscriptionStatusActive:
		uc.log.Infof("Subscription %s already active, webhook no-op (idempotent)", sub.ID)
		return nil
	case constants.SubscriptionStatusPending:
		// 继续
	default:
		// canceled/expired 的订阅不能被 webhook 激活
		uc.log.Warnf("Webhook order %s targets subscription %s in status %s, discarding", orderID, sub.ID, sub.Status)
		return nil
	}

	plan, err := uc.planRepo.GetPlan(ctx, sub.PlanID)
	if err != nil {
		return err
	}
	if plan == nil {
		uc.log.Errorf("Plan %s for subscription %s not found, cannot apply webhook", sub.PlanID, sub.ID)
		return errors.NewPlanNotFound()
	}

	return uc.applyApprovedSubscription(ctx, sub, plan, orderID, constants.EventSourceWebhook)
}
