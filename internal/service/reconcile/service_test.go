package reconcile

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/payment"
	orderrepo "storefront/internal/repository/order"
)

type stubGateway struct {
	sessions map[string][]payment.Session
	listErr  error
	lists    int
}

func (g *stubGateway) VerifyWebhook(payload []byte, sig string) (payment.Event, error) {
	if sig != "valid" {
		return payment.Event{}, fmt.Errorf("%w: no signatures found", domain.ErrSignature)
	}
	var evt payment.Event
	_, err := fmt.Sscanf(string(payload), "%s %s %s", &evt.ID, &evt.Type, &evt.PaymentIntentID)
	return evt, err
}

func (g *stubGateway) ListSessionsByPaymentIntent(_ context.Context, id string) ([]payment.Session, error) {
	g.lists++
	if g.listErr != nil {
		return nil, g.listErr
	}
	return g.sessions[id], nil
}

type stubCarts struct {
	cleared []string
}

func (c *stubCarts) Clear(_ context.Context, userID string) error {
	c.cleared = append(c.cleared, userID)
	return nil
}

type memoryEvents map[string]string

func (m memoryEvents) Seen(_ context.Context, id string) (bool, error) {
	_, ok := m[id]
	return ok, nil
}

func (m memoryEvents) Record(_ context.Context, id, typ string) error {
	if _, ok := m[id]; !ok {
		m[id] = typ
	}
	return nil
}

type recordingPublisher struct {
	types []string
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.OrderEvent) error {
	p.types = append(p.types, evt.Type)
	return nil
}

type fixture struct {
	svc    *Service
	gw     *stubGateway
	orders *orderrepo.Memory
	carts  *stubCarts
	seen   memoryEvents
	pub    *recordingPublisher
	order  *domain.Order
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	orders := orderrepo.NewMemory()
	o, err := orders.Create(context.Background(), domain.Order{
		UserID:      "u1",
		Items:       []domain.OrderItem{{ProductID: "p1", Quantity: 1}},
		Amount:      decimal.NewFromInt(102),
		PaymentType: domain.PaymentOnline,
	})
	require.NoError(t, err)

	gw := &stubGateway{sessions: map[string][]payment.Session{
		"pi_1": {{ID: "cs_1", Metadata: map[string]string{payment.MetadataOrderID: o.ID, payment.MetadataUserID: "u1"}}},
	}}
	f := &fixture{gw: gw, orders: orders, carts: &stubCarts{}, seen: memoryEvents{}, pub: &recordingPublisher{}, order: o}
	f.svc = New(gw, orders, f.carts, f.seen, f.pub, nil)
	return f
}

func TestProcess_SucceededMarksPaidAndClearsCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	visible, _ := f.orders.ListVisible(ctx, "u1")
	require.Empty(t, visible)

	_, outcome, err := f.svc.Process(ctx, []byte("evt_1 payment_intent.succeeded pi_1"), "valid")
	require.NoError(t, err)
	require.Equal(t, OutcomePaid, outcome)
	require.Equal(t, []string{"u1"}, f.carts.cleared)
	require.Equal(t, []string{events.OrderPaid}, f.pub.types)

	mine, _ := f.orders.ListVisible(ctx, "u1")
	all, _ := f.orders.ListVisible(ctx, "")
	require.Len(t, mine, 1)
	require.Len(t, all, 1)
	require.True(t, mine[0].IsPaid)
}

func TestProcess_DuplicateDeliveryIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	payload := []byte("evt_1 payment_intent.succeeded pi_1")

	_, _, err := f.svc.Process(ctx, payload, "valid")
	require.NoError(t, err)
	_, outcome, err := f.svc.Process(ctx, payload, "valid")
	require.NoError(t, err)
	require.Equal(t, OutcomeDuplicate, outcome)
	require.Equal(t, 1, f.gw.lists)

	// a distinct event for the same payment intent re-runs the idempotent updates
	_, outcome, err = f.svc.Process(ctx, []byte("evt_2 payment_intent.succeeded pi_1"), "valid")
	require.NoError(t, err)
	require.Equal(t, OutcomeNoop, outcome)

	got, err := f.orders.GetByID(ctx, f.order.ID)
	require.NoError(t, err)
	require.True(t, got.IsPaid)
	require.Len(t, f.pub.types, 1)
}

func TestProcess_FailedDeletesOrderOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, outcome, err := f.svc.Process(ctx, []byte("evt_f1 payment_intent.payment_failed pi_1"), "valid")
	require.NoError(t, err)
	require.Equal(t, OutcomeDeleted, outcome)
	_, err = f.orders.GetByID(ctx, f.order.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, outcome, err = f.svc.Process(ctx, []byte("evt_f2 payment_intent.payment_failed pi_1"), "valid")
	require.NoError(t, err)
	require.Equal(t, OutcomeNoop, outcome)
	require.Equal(t, 0, f.orders.Len())
	require.Empty(t, f.carts.cleared)
	require.Equal(t, []string{events.OrderDeleted}, f.pub.types)
}

func TestProcess_InvalidSignatureTouchesNothing(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.svc.Process(context.Background(), []byte("evt_1 payment_intent.succeeded pi_1"), "forged")
	require.ErrorIs(t, err, domain.ErrSignature)
	require.Equal(t, 0, f.gw.lists)
	require.Empty(t, f.seen)

	got, err := f.orders.GetByID(context.Background(), f.order.ID)
	require.NoError(t, err)
	require.False(t, got.IsPaid)
}

func TestApply_NoSessionAndUnhandledTypes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	outcome, err := f.svc.Apply(ctx, payment.Event{ID: "evt_x", Type: payment.EventPaymentSucceeded, PaymentIntentID: "pi_unknown"})
	require.NoError(t, err)
	require.Equal(t, OutcomeNoSession, outcome)
	require.Contains(t, f.seen, "evt_x")

	outcome, err = f.svc.Apply(ctx, payment.Event{ID: "evt_y", Type: "charge.refunded"})
	require.NoError(t, err)
	require.Equal(t, OutcomeIgnored, outcome)
	require.NotContains(t, f.seen, "evt_y")
}

func TestApply_GatewayErrorIsNotRecorded(t *testing.T) {
	f := newFixture(t)
	f.gw.listErr = fmt.Errorf("%w: timeout", domain.ErrGateway)

	_, err := f.svc.Apply(context.Background(), payment.Event{ID: "evt_1", Type: payment.EventPaymentSucceeded, PaymentIntentID: "pi_1"})
	require.True(t, errors.Is(err, domain.ErrGateway))
	require.Empty(t, f.seen)
}
