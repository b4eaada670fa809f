package biz

import (
	"context"
	"fmt"
	"time"

	"imobi_tech/billing-service/internal/constants"
	"imobi_tech/billing-service/internal/errors"
)

// ActivateInput 订阅激活请求
type ActivateInput struct {
	UserID         string
	SubscriptionID string
	PlanID         string
	CardToken      string
	PayerDocument  string
	Installments   int // 0 表示未填, 默认 1
}

// ActivateResult 订阅激活结果
// 被拒的卡是正常业务结果, 通过 Success=false 表达, 不抛错误
type ActivateResult struct {
	Success        bool
	Message        string
	SubscriptionID string
	Status         string
}

// Activate 激活订阅: 前置校验 → 调用网关下单 → 按订单状态条件转移本地状态
//
// 网关调用不在引擎内重试: 卡 token 一次性, 失败由客户端携新 token 重试。
// 同步结果为 pending/processing 或被拒时不写任何本地状态, webhook 可能稍后
// 送达权威的 paid 结果, 本地提前落终态会把它挡掉。
func (uc *BillingUsecase) Activate(ctx context.Context, in *ActivateInput) (*ActivateResult, error) {
	uc.log.Infof("Activate: userID=%s, subscriptionID=%s, planID=%s", in.UserID, in.SubscriptionID, in.PlanID)

	user, err := uc.userRepo.GetUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NewUserNotFound()
	}
	if !user.IsEmailVerified {
		return nil, errors.NewEmailNotVerified()
	}

	sub, err := uc.subRepo.GetSubscription(ctx, in.SubscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, errors.NewSubscriptionNotFound()
	}
	if sub.UserID != user.ID {
		return nil, errors.NewOperationNotAllowed("Assinatura não pertence ao usuário")
	}
	if sub.Status == constants.SubscriptionStatusActive {
		return nil, errors.NewDuplicateSubscription()
	}

	// 每个用户最多一条活跃订阅
	active, err := uc.subRepo.GetActiveByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, errors.NewDuplicateSubscription()
	}

	if sub.Status != constants.SubscriptionStatusPending {
		return nil, errors.NewOperationNotAllowed("Esta assinatura não pode ser ativada")
	}

	plan, err := uc.planRepo.GetPlan(ctx, in.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, errors.NewPlanNotFound()
	}

	installments := in.Installments
	if installments == 0 {
		installments = constants.MinInstallments
	}
	if installments < constants.MinInstallments || installments > constants.MaxInstallments {
		return nil, errors.NewInvalidInput("Número de parcelas inválido (1-12)")
	}

	order, err := uc.gateway.CreateOrder(ctx, &OrderRequest{
		Title:             fmt.Sprintf("Plano %s - CRM Imobiliário", plan.Name),
		Quantity:          1,
		UnitPrice:         plan.Price,
		CustomerName:      user.Name,
		CustomerEmail:     user.Email,
		CustomerDocument:  in.PayerDocument,
		ExternalReference: sub.ID,
		CardToken:         in.CardToken,
		Installments:      installments,
	})
	if err != nil {
		// 超时等传输错误是结果不明, 扣款可能稍后经 webhook 确认, 不落失败状态
		uc.log.Errorf("Failed to create gateway order for subscription %s: %v", sub.ID, err)
		return nil, errors.NewPaymentGateway()
	}
	uc.log.Infof("Gateway order created: id=%s, status=%s, subscription=%s", order.ID, order.Status, sub.ID)

	switch order.Status.Outcome() {
	case OutcomeApproved:
		if err := uc.applyApprovedSubscription(ctx, sub, plan, order.ID, constants.EventSourceCheckout); err != nil {
			return nil, err
		}
		return &ActivateResult{
			Success:        true,
			Message:        "Assinatura ativada com sucesso!",
			SubscriptionID: sub.ID,
			Status:         constants.SubscriptionStatusActive,
		}, nil
	case OutcomeInFlight:
		return &ActivateResult{
			Success:        true,
			Message:        "Pagamento em processamento. Você receberá um email quando for aprovado.",
			SubscriptionID: sub.ID,
			Status:         "processing",
		}, nil
	default:
		return &ActivateResult{
			Success:        false,
			Message:        "Não foi possível processar seu pagamento. Por favor, verifique os dados do cartão e tente novamente.",
			SubscriptionID: sub.ID,
			Status:         "failed",
		}, nil
	}
}

// applyApprovedSubscription 条件激活订阅, 同步路径与 webhook 路径共用
// endDate 在激活时刻计算一次, 不重算; 零行受影响说明另一条路径已激活, 视为成功
func (uc *BillingUsecase) applyApprovedSubscription(ctx context.Context, sub *Subscription, plan *Plan, orderID, source string) error {
	now := time.Now().UTC()
	endDate := now.AddDate(0, 0, plan.DurationDays)

	applied, err := uc.subRepo.ActivateFromPending(ctx, sub.ID, now, endDate)
	if err != nil {
		uc.log.Errorf("Failed to activate subscription %s: %v", sub.ID, err)
		return err
	}
	if !applied {
		uc.log.Infof("Subscription %s already activated, skipping (idempotent)", sub.ID)
		return nil
	}
	uc.log.Infof("Subscription %s activated via %s, end date: %v", sub.ID, source, endDate)

	uc.invalidateUserCache(ctx, sub.UserID)

	uc.recordEvent(ctx, &BillingEvent{
		ReferenceID:   sub.ID,
		ReferenceType: constants.ReferenceTypeSubscription,
		OrderID:       orderID,
		Status:        constants.SubscriptionStatusActive,
		Action:        constants.EventActionActivated,
		Source:        source,
		CreatedAt:     now,
	})
	return nil
}
