package biz

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"imobi_tech/billing-service/internal/conf"
	"imobi_tech/billing-service/internal/constants"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-redsync/redsync/v4"
	redsyncgoredis "github.com/go-redsync/redsync/v4/redis/goredis/v9"
	goredis "github.com/redis/go-redis/v9"
)

// fakeSubscriptionRepo 内存订阅仓库, 条件更新在锁内完成
type fakeSubscriptionRepo struct {
	mu   sync.Mutex
	subs map[string]*Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: make(map[string]*Subscription)}
}

func (r *fakeSubscriptionRepo) put(s *Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.subs[s.ID] = &cp
}

func (r *fakeSubscriptionRepo) get(id string) *Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.subs[id]; ok {
		cp := *s
		return &cp
	}
	return nil
}

func (r *fakeSubscriptionRepo) GetSubscription(_ context.Context, id string) (*Subscription, error) {
	return r.get(id), nil
}

func (r *fakeSubscriptionRepo) GetActiveByUser(_ context.Context, userID string) (*Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subs {
		if s.UserID == userID && s.Status == constants.SubscriptionStatusActive {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSubscriptionRepo) ActivateFromPending(_ context.Context, id string, startDate, endDate time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[id]
	if !ok || s.Status != constants.SubscriptionStatusPending {
		return false, nil
	}
	s.Status = constants.SubscriptionStatusActive
	s.StartDate = &startDate
	s.EndDate = &endDate
	return true, nil
}

// fakePendingPaymentRepo 内存待支付意向仓库
type fakePendingPaymentRepo struct {
	mu       sync.Mutex
	payments map[string]*PendingPayment
}

func newFakePendingPaymentRepo() *fakePendingPaymentRepo {
	return &fakePendingPaymentRepo{payments: make(map[string]*PendingPayment)}
}

func (r *fakePendingPaymentRepo) put(p *PendingPayment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.payments[p.ID] = &cp
}

func (r *fakePendingPaymentRepo) get(id string) *PendingPayment {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.payments[id]; ok {
		cp := *p
		return &cp
	}
	return nil
}

func (r *fakePendingPaymentRepo) GetPendingPayment(_ context.Context, id string) (*PendingPayment, error) {
	return r.get(id), nil
}

func (r *fakePendingPaymentRepo) GetPendingByEmail(_ context.Context, email string) (*PendingPayment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.Email == email && p.Status == constants.PendingPaymentStatusPending {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePendingPaymentRepo) CreatePendingPayment(_ context.Context, p *PendingPayment) error {
	r.put(p)
	return nil
}

func (r *fakePendingPaymentRepo) SetGatewayOrder(_ context.Context, id, orderID, chargeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.payments[id]; ok {
		p.GatewayOrderID = orderID
		p.GatewayChargeID = chargeID
	}
	return nil
}

func (r *fakePendingPaymentRepo) CompletePendingPayment(_ context.Context, id, webhookID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok || p.Status == constants.PendingPaymentStatusCompleted {
		return false, nil
	}
	p.Status = constants.PendingPaymentStatusCompleted
	p.ProcessedWebhookID = webhookID
	return true, nil
}

func (r *fakePendingPaymentRepo) MarkFailed(_ context.Context, id string) (bool, error) {
	return r.transition(id, constants.PendingPaymentStatusPending, constants.PendingPaymentStatusFailed)
}

func (r *fakePendingPaymentRepo) MarkExpired(_ context.Context, id string) (bool, error) {
	return r.transition(id, constants.PendingPaymentStatusPending, constants.PendingPaymentStatusExpired)
}

func (r *fakePendingPaymentRepo) transition(id, from, to string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	return true, nil
}

func (r *fakePendingPaymentRepo) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for id, p := range r.payments {
		if p.Status == constants.PendingPaymentStatusPending && p.ExpiresAt.Before(now) {
			delete(r.payments, id)
			count++
		}
	}
	return count, nil
}

func (r *fakePendingPaymentRepo) ListStuckPending(_ context.Context, olderThan time.Time, limit int) ([]*PendingPayment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var stuck []*PendingPayment
	for _, p := range r.payments {
		if len(stuck) >= limit {
			break
		}
		if p.Status == constants.PendingPaymentStatusPending && p.GatewayOrderID != "" && p.CreatedAt.Before(olderThan) {
			cp := *p
			stuck = append(stuck, &cp)
		}
	}
	return stuck, nil
}

// fakePlanRepo 内存套餐仓库
type fakePlanRepo struct {
	plans map[string]*Plan
}

func newFakePlanRepo(plans ...*Plan) *fakePlanRepo {
	r := &fakePlanRepo{plans: make(map[string]*Plan)}
	for _, p := range plans {
		r.plans[p.ID] = p
	}
	return r
}

func (r *fakePlanRepo) GetPlan(_ context.Context, id string) (*Plan, error) {
	return r.plans[id], nil
}

func (r *fakePlanRepo) ListPlans(_ context.Context) ([]*Plan, error) {
	var out []*Plan
	for _, p := range r.plans {
		out = append(out, p)
	}
	return out, nil
}

// fakeUserRepo 内存用户仓库
type fakeUserRepo struct {
	users map[string]*User
}

func newFakeUserRepo(users ...*User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetUser(_ context.Context, id string) (*User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

// fakeEventRepo 内存事件仓库
type fakeEventRepo struct {
	mu     sync.Mutex
	events []*BillingEvent
}

func (r *fakeEventRepo) AddBillingEvent(_ context.Context, event *BillingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *fakeEventRepo) ListBillingEvents(_ context.Context, referenceID string, page, pageSize int) ([]*BillingEvent, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*BillingEvent
	for _, e := range r.events {
		if e.ReferenceID == referenceID {
			matched = append(matched, e)
		}
	}
	total := len(matched)
	start := (page - 1) * pageSize
	if start >= total {
		return nil, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *fakeEventRepo) byAction(referenceID, action string) []*BillingEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*BillingEvent
	for _, e := range r.events {
		if e.ReferenceID == referenceID && e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

// fakeGateway 可编程网关
type fakeGateway struct {
	mu sync.Mutex

	createStatus OrderStatus
	createErr    error
	createCalls  int
	lastRequest  *OrderRequest

	orders map[string]*OrderInfo

	webhookResult *WebhookResult
	webhookErr    error
	validSig      bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		createStatus: OrderStatusPaid,
		orders:       make(map[string]*OrderInfo),
		validSig:     true,
	}
}

func (g *fakeGateway) CreateOrder(_ context.Context, req *OrderRequest) (*Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createCalls++
	g.lastRequest = req
	if g.createErr != nil {
		return nil, g.createErr
	}
	return &Order{
		ID:      "or_test_1",
		Status:  g.createStatus,
		Charges: []Charge{{ID: "ch_test_1", Status: g.createStatus}},
	}, nil
}

func (g *fakeGateway) GetOrder(_ context.Context, orderID string) (*OrderInfo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if info, ok := g.orders[orderID]; ok {
		return info, nil
	}
	return nil, context.DeadlineExceeded
}

func (g *fakeGateway) ProcessWebhook(_ context.Context, _ []byte) (*WebhookResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.webhookErr != nil {
		return nil, g.webhookErr
	}
	return g.webhookResult, nil
}

func (g *fakeGateway) ValidateWebhookSignature(_ []byte, _ string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.validSig
}

func (g *fakeGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.createCalls
}

// fakeUserCache 记录失效次数
type fakeUserCache struct {
	mu          sync.Mutex
	invalidated map[string]int
	err         error
}

func newFakeUserCache() *fakeUserCache {
	return &fakeUserCache{invalidated: make(map[string]int)}
}

func (c *fakeUserCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.invalidated[userID]++
	return nil
}

func (c *fakeUserCache) count(userID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidated[userID]
}

// testEnv 测试环境: usecase 及全部 fake 依赖
type testEnv struct {
	uc        *BillingUsecase
	subRepo   *fakeSubscriptionRepo
	pendRepo  *fakePendingPaymentRepo
	planRepo  *fakePlanRepo
	userRepo  *fakeUserRepo
	eventRepo *fakeEventRepo
	gateway   *fakeGateway
	userCache *fakeUserCache
	redis     *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	rs := redsync.New(redsyncgoredis.NewPool(rdb))

	env := &testEnv{
		subRepo:   newFakeSubscriptionRepo(),
		pendRepo:  newFakePendingPaymentRepo(),
		planRepo:  newFakePlanRepo(),
		userRepo:  newFakeUserRepo(),
		eventRepo: &fakeEventRepo{},
		gateway:   newFakeGateway(),
		userCache: newFakeUserCache(),
		redis:     mr,
	}
	env.uc = NewBillingUsecase(
		env.subRepo,
		env.pendRepo,
		env.planRepo,
		env.userRepo,
		env.eventRepo,
		env.gateway,
		env.userCache,
		rs,
		&conf.Bootstrap{},
		log.NewStdLogger(io.Discard),
	)
	return env
}
