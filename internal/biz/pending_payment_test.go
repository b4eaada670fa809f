package biz

import (
	"context"
	"errors"
	"testing"
	"time"

	"imobi_tech/billing-service/internal/constants"
	bizerrors "imobi_tech/billing-service/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPlan(env *testEnv) *Plan {
	plan := &Plan{ID: "plan-1", Slug: "pro", Name: "Pro", Price: 9900, DurationDays: 30}
	env.planRepo.plans[plan.ID] = plan
	return plan
}

func TestCreatePendingPayment(t *testing.T) {
	env := newTestEnv(t)
	seedPlan(env)

	before := time.Now().UTC()
	out, err := env.uc.CreatePendingPayment(context.Background(), "maria@example.com", "Maria", "plan-1")
	require.NoError(t, err)
	require.NotEmpty(t, out.PendingPaymentID)

	p := env.pendRepo.get(out.PendingPaymentID)
	require.NotNil(t, p)
	assert.Equal(t, constants.PendingPaymentStatusPending, p.Status)

	// 有效期为固定 TTL
	ttl := p.ExpiresAt.Sub(before)
	assert.GreaterOrEqual(t, ttl, constants.DefaultPendingPaymentTTL-time.Minute)
	assert.LessOrEqual(t, ttl, constants.DefaultPendingPaymentTTL+time.Minute)
}

func TestCreatePendingPaymentValidation(t *testing.T) {
	env := newTestEnv(t)
	seedPlan(env)

	_, err := env.uc.CreatePendingPayment(context.Background(), "", "Maria", "plan-1")
	assert.True(t, bizerrors.IsInvalidInput(err))

	_, err = env.uc.CreatePendingPayment(context.Background(), "maria@example.com", "", "plan-1")
	assert.True(t, bizerrors.IsInvalidInput(err))

	_, err = env.uc.CreatePendingPayment(context.Background(), "maria@example.com", "Maria", "plan-missing")
	assert.True(t, bizerrors.IsPlanNotFound(err))
}

func TestCreatePendingPaymentRejectsRegisteredEmail(t *testing.T) {
	env := newTestEnv(t)
	seedPlan(env)
	env.userRepo.users["user-1"] = &User{ID: "user-1", Email: "maria@example.com"}

	_, err := env.uc.CreatePendingPayment(context.Background(), "maria@example.com", "Maria", "plan-1")
	require.Error(t, err)
	assert.True(t, bizerrors.IsEmailAlreadyExists(err))
}

func TestCreatePendingPaymentRejectsDuplicateIntent(t *testing.T) {
	env := newTestEnv(t)
	seedPlan(env)

	_, err := env.uc.CreatePendingPayment(context.Background(), "maria@example.com", "Maria", "plan-1")
	require.NoError(t, err)

	_, err = env.uc.CreatePendingPayment(context.Background(), "maria@example.com", "Maria", "plan-1")
	require.Error(t, err)
	assert.True(t, bizerrors.IsPaymentAlreadyProcessed(err))
}

func TestCreatePendingPaymentAllowsNewIntentAfterExpiry(t *testing.T) {
	env := newTestEnv(t)
	seedPlan(env)
	env.pendRepo.put(&PendingPayment{
		ID:        "pp-old",
		Email:     "maria@example.com",
		Name:      "Maria",
		PlanID:    "plan-1",
		Status:    constants.PendingPaymentStatusPending,
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	})

	_, err := env.uc.CreatePendingPayment(context.Background(), "maria@example.com", "Maria", "plan-1")
	require.NoError(t, err)
}

func TestGetPendingPayment(t *testing.T) {
	env := newTestEnv(t)
	plan := seedPlan(env)
	p := &PendingPayment{
		ID:        "pp-1",
		Email:     "maria@example.com",
		Name:      "Maria",
		PlanID:    plan.ID,
		Status:    constants.PendingPaymentStatusPending,
		ExpiresAt: time.Now().UTC().Add(20 * time.Minute),
	}
	env.pendRepo.put(p)

	view, err := env.uc.GetPendingPayment(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.Name, view.PlanName)
	assert.Equal(t, plan.Price, view.PlanPrice)
	assert.Equal(t, p.Email, view.Email)
}

func TestGetPendingPaymentExpiredIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	seedPlan(env)
	env.pendRepo.put(&PendingPayment{
		ID:        "pp-expired",
		Email:     "maria@example.com",
		PlanID:    "plan-1",
		Status:    constants.PendingPaymentStatusPending,
		ExpiresAt: time.Now().UTC().Add(-time.Second),
	})

	// 过期即视为不存在, 即使清理任务还没删掉该行
	_, err := env.uc.GetPendingPayment(context.Background(), "pp-expired")
	require.Error(t, err)
	assert.True(t, bizerrors.IsPendingPaymentNotFound(err))

	_, err = env.uc.GetPendingPayment(context.Background(), "pp-missing")
	assert.True(t, bizerrors.IsPendingPaymentNotFound(err))
}

func seedCardPayment(env *testEnv) *PendingPayment {
	seedPlan(env)
	p := &PendingPayment{
		ID:        "pp-1",
		Email:     "maria@example.com",
		Name:      "Maria",
		PlanID:    "plan-1",
		Status:    constants.PendingPaymentStatusPending,
		ExpiresAt: time.Now().UTC().Add(20 * time.Minute),
		CreatedAt: time.Now().UTC(),
	}
	env.pendRepo.put(p)
	return p
}

func TestProcessCardPaymentPaid(t *testing.T) {
	env := newTestEnv(t)
	p := seedCardPayment(env)
	env.gateway.createStatus = OrderStatusPaid

	out, err := env.uc.ProcessCardPayment(context.Background(), p.ID, "tok_123", 1)
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, "or_test_1", out.OrderID)

	got := env.pendRepo.get(p.ID)
	assert.Equal(t, constants.PendingPaymentStatusCompleted, got.Status)
	assert.Equal(t, "or_test_1", got.GatewayOrderID)
	assert.Equal(t, "ch_test_1", got.GatewayChargeID)
	assert.Len(t, env.eventRepo.byAction(p.ID, constants.EventActionCompleted), 1)
}

func TestProcessCardPaymentInFlight(t *testing.T) {
	env := newTestEnv(t)
	p := seedCardPayment(env)
	env.gateway.createStatus = OrderStatusProcessing

	out, err := env.uc.ProcessCardPayment(context.Background(), p.ID, "tok_123", 1)
	require.NoError(t, err)
	assert.True(t, out.Success)

	// 处理中不落终态, 等 webhook; 网关订单号已记下供对账
	got := env.pendRepo.get(p.ID)
	assert.Equal(t, constants.PendingPaymentStatusPending, got.Status)
	assert.Equal(t, "or_test_1", got.GatewayOrderID)
}

func TestProcessCardPaymentDeclined(t *testing.T) {
	env := newTestEnv(t)
	p := seedCardPayment(env)
	env.gateway.createStatus = OrderStatusFailed

	out, err := env.uc.ProcessCardPayment(context.Background(), p.ID, "tok_123", 1)
	require.NoError(t, err)
	assert.False(t, out.Success)

	got := env.pendRepo.get(p.ID)
	assert.Equal(t, constants.PendingPaymentStatusFailed, got.Status)
	assert.Len(t, env.eventRepo.byAction(p.ID, constants.EventActionFailed), 1)
}

func TestProcessCardPaymentGatewayErrorLeavesPending(t *testing.T) {
	env := newTestEnv(t)
	p := seedCardPayment(env)
	env.gateway.createErr = errors.New("connection reset")

	_, err := env.uc.ProcessCardPayment(context.Background(), p.ID, "tok_123", 1)
	require.Error(t, err)
	assert.True(t, bizerrors.IsPaymentGateway(err))

	// 结果不明不落 failed, webhook 仍可能送达 paid
	got := env.pendRepo.get(p.ID)
	assert.Equal(t, constants.PendingPaymentStatusPending, got.Status)
}

func TestProcessCardPaymentExpired(t *testing.T) {
	env := newTestEnv(t)
	seedPlan(env)
	env.pendRepo.put(&PendingPayment{
		ID:        "pp-expired",
		Email:     "maria@example.com",
		PlanID:    "plan-1",
		Status:    constants.PendingPaymentStatusPending,
		ExpiresAt: time.Now().UTC().Add(-time.Second),
	})

	_, err := env.uc.ProcessCardPayment(context.Background(), "pp-expired", "tok_123", 1)
	require.Error(t, err)
	assert.True(t, bizerrors.IsPaymentExpired(err))
	assert.Equal(t, 0, env.gateway.calls())

	got := env.pendRepo.get("pp-expired")
	assert.Equal(t, constants.PendingPaymentStatusExpired, got.Status)
}

func TestProcessCardPaymentAlreadyCompleted(t *testing.T) {
	env := newTestEnv(t)
	p := seedCardPayment(env)
	p.Status = constants.PendingPaymentStatusCompleted
	env.pendRepo.put(p)

	_, err := env.uc.ProcessCardPayment(context.Background(), p.ID, "tok_123", 1)
	require.Error(t, err)
	assert.True(t, bizerrors.IsPaymentAlreadyProcessed(err))
	assert.Equal(t, 0, env.gateway.calls())
}

func TestProcessCardPaymentInvalidInstallments(t *testing.T) {
	env := newTestEnv(t)
	p := seedCardPayment(env)

	_, err := env.uc.ProcessCardPayment(context.Background(), p.ID, "tok_123", 13)
	require.Error(t, err)
	assert.True(t, bizerrors.IsInvalidInput(err))
	assert.Equal(t, 0, env.gateway.calls())
}
