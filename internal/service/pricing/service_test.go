package pricing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"storefront/internal/domain"
)

type stubCatalog struct {
	mu       sync.Mutex
	products map[string]domain.Product
	failID   string
	calls    int
}

func (s *stubCatalog) GetByID(_ context.Context, id string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if id == s.failID {
		return nil, errors.New("catalog down")
	}
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func product(id, offer string) domain.Product {
	return domain.Product{ID: id, Name: "product " + id, OfferPrice: decimal.RequireFromString(offer)}
}

func TestQuote_FloorTaxOnResolvedLines(t *testing.T) {
	catalog := &stubCatalog{products: map[string]domain.Product{
		"a": product("a", "20"),
		"b": product("b", "35"),
	}}
	svc := New(catalog, 2)

	q, err := svc.Quote(context.Background(), []domain.OrderItem{
		{ProductID: "a", Quantity: 3},
		{ProductID: "missing", Quantity: 5},
		{ProductID: "b", Quantity: 1},
	})
	require.NoError(t, err)

	require.Len(t, q.Lines, 2)
	require.Equal(t, "a", q.Lines[0].Product.ID)
	require.Equal(t, "b", q.Lines[1].Product.ID)
	require.True(t, q.Subtotal.Equal(decimal.NewFromInt(95)), "subtotal %s", q.Subtotal)
	require.True(t, q.Tax.Equal(decimal.NewFromInt(1)), "tax %s", q.Tax)
	require.True(t, q.Total.Equal(decimal.NewFromInt(96)), "total %s", q.Total)
	require.Equal(t, 3, catalog.calls)
}

func TestQuote_TotalMatchesFloorOfGrossForIntegralSubtotals(t *testing.T) {
	for _, offer := range []int64{1, 49, 50, 99, 149, 1234, 99999} {
		catalog := &stubCatalog{products: map[string]domain.Product{"p": product("p", decimal.NewFromInt(offer).String())}}
		q, err := New(catalog, 1).Quote(context.Background(), []domain.OrderItem{{ProductID: "p", Quantity: 3}})
		require.NoError(t, err)

		expected := q.Subtotal.Mul(decimal.RequireFromString("1.02")).Floor()
		require.True(t, q.Total.Equal(expected), "offer %d: total %s expected %s", offer, q.Total, expected)
		require.True(t, q.Total.Equal(q.Subtotal.Add(q.Tax)))
	}
}

func TestQuote_FractionalPricesAreExact(t *testing.T) {
	catalog := &stubCatalog{products: map[string]domain.Product{"p": product("p", "0.1")}}
	q, err := New(catalog, 1).Quote(context.Background(), []domain.OrderItem{{ProductID: "p", Quantity: 3}})
	require.NoError(t, err)
	require.Equal(t, "0.3", q.Subtotal.String())
	require.True(t, q.Tax.IsZero())
}

func TestQuote_CatalogFailureAborts(t *testing.T) {
	catalog := &stubCatalog{products: map[string]domain.Product{"a": product("a", "20")}, failID: "b"}
	_, err := New(catalog, 4).Quote(context.Background(), []domain.OrderItem{
		{ProductID: "a", Quantity: 1},
		{ProductID: "b", Quantity: 1},
	})
	require.Error(t, err)
	require.False(t, errors.Is(err, domain.ErrNotFound))
}

func TestQuote_NothingResolved(t *testing.T) {
	q, err := New(&stubCatalog{}, 0).Quote(context.Background(), []domain.OrderItem{{ProductID: "x", Quantity: 1}})
	require.NoError(t, err)
	require.Empty(t, q.Lines)
	require.True(t, q.Total.IsZero())
}

func TestGatewayUnitAmount_RoundsHalfAwayFromZero(t *testing.T) {
	cases := []struct {
		offer string
		want  int64
	}{
		{"20", 2040},
		{"0.25", 26},    // 25.5
		{"0.5", 51},     // 51.0
		{"12.34", 1259}, // 1258.68
		{"1.47", 150},   // 149.94
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, GatewayUnitAmount(decimal.RequireFromString(tc.offer)), "offer %s", tc.offer)
	}
}

func TestGatewayUnitAmountMayDisagreeWithFloorTax(t *testing.T) {
	offer := decimal.RequireFromString("0.25")
	lineTotal := decimal.NewFromInt(GatewayUnitAmount(offer))
	orderTotalMinor := offer.Add(Tax(offer)).Mul(decimal.NewFromInt(100))
	require.False(t, lineTotal.Equal(orderTotalMinor))
}
