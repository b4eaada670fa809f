package biz

import (
	"context"
	"time"

	"imobi_tech/billing-service/internal/constants"

	"github.com/go-redsync/redsync/v4"
)

// SweepExpired 删除已过期且从未完成的待支付意向
//
// 删除条件 (status=pending) 在删除语句里再次判断, 选取快照之后完成的支付
// 不会被误删。redsync 锁保证多实例部署下同一时刻只有一个清理在跑。
func (uc *BillingUsecase) SweepExpired(ctx context.Context) (int, error) {
	mutex := uc.rs.NewMutex(
		constants.SweepLockKey,
		redsync.WithExpiry(constants.JobLockExpiration),
		redsync.WithTries(constants.JobLockRetries),
	)
	if err := mutex.LockContext(ctx); err != nil {
		uc.log.Infof("Skipping expiry sweep: lock busy or already running")
		return 0, nil
	}
	defer func() {
		if _, err := mutex.UnlockContext(ctx); err != nil {
			uc.log.Warnf("Failed to unlock expiry sweep: %v", err)
		}
	}()

	count, err := uc.pendingRepo.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		uc.log.Errorf("Failed to sweep expired pending payments: %v", err)
		return 0, err
	}
	if count > 0 {
		uc.log.Infof("Swept %d expired pending payments", count)
	}
	return count, nil
}

// ReconcileResult 对账任务结果
type ReconcileResult struct {
	Checked   int
	Completed int
}

// ReconcilePending 对 webhook 迟迟未到的待支付意向做主动对账:
// 创建超过宽限期、已有网关订单号但仍为 pending 的意向, 逐个向网关查单,
// 已支付的按 webhook 路径同样的条件转移完成。
func (uc *BillingUsecase) ReconcilePending(ctx context.Context) (*ReconcileResult, error) {
	mutex := uc.rs.NewMutex(
		constants.ReconcileLockKey,
		redsync.WithExpiry(constants.JobLockExpiration),
		redsync.WithTries(constants.JobLockRetries),
	)
	if err := mutex.LockContext(ctx); err != nil {
		uc.log.Infof("Skipping reconciliation: lock busy or already running")
		return &ReconcileResult{}, nil
	}
	defer func() {
		if _, err := mutex.UnlockContext(ctx); err != nil {
			uc.log.Warnf("Failed to unlock reconciliation: %v", err)
		}
	}()

	olderThan := time.Now().UTC().Add(-uc.reconcileGrace())
	stuck, err := uc.pendingRepo.ListStuckPending(ctx, olderThan, uc.reconcileBatchSize())
	if err != nil {
		uc.log.Errorf("Failed to list stuck pending payments: %v", err)
		return nil, err
	}

	result := &ReconcileResult{Checked: len(stuck)}
	for _, p := range stuck {
		info, err := uc.gateway.GetOrder(ctx, p.GatewayOrderID)
		if err != nil {
			uc.log.Warnf("Failed to poll gateway order %s for pending payment %s: %v", p.GatewayOrderID, p.ID, err)
			continue
		}
		if info.Status.Outcome() != OutcomeApproved {
			continue
		}
		if err := uc.completePendingPayment(ctx, p, info.ID, "", constants.EventSourceReconciler); err != nil {
			uc.log.Errorf("Failed to reconcile pending payment %s: %v", p.ID, err)
			continue
		}
		result.Completed++
	}

	if result.Checked > 0 {
		uc.log.Infof("Reconciliation completed: checked=%d, completed=%d", result.Checked, result.Completed)
	}
	return result, nil
}
