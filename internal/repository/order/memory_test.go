package order

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"storefront/internal/domain"
)

var _ Repository = (*Memory)(nil)

func TestMemory_VisibilityAndIdempotentTransitions(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()
	items := []domain.OrderItem{{ProductID: "p1", Quantity: 1}}

	if _, err := repo.Create(ctx, domain.Order{UserID: "u1"}); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for empty items, got %v", err)
	}

	cod, _ := repo.Create(ctx, domain.Order{UserID: "u1", Items: items, Amount: decimal.NewFromInt(10), PaymentType: domain.PaymentCOD, IsPaid: true})
	online, _ := repo.Create(ctx, domain.Order{UserID: "u1", Items: items, Amount: decimal.NewFromInt(10), PaymentType: domain.PaymentOnline})

	list, _ := repo.ListVisible(ctx, "u1")
	if len(list) != 1 || list[0].ID != cod.ID {
		t.Fatalf("expected only COD order, got %+v", list)
	}

	if changed, _ := repo.MarkPaid(ctx, online.ID); !changed {
		t.Fatalf("expected first mark paid to change state")
	}
	if changed, _ := repo.MarkPaid(ctx, online.ID); changed {
		t.Fatalf("expected second mark paid to be a no-op")
	}

	list, _ = repo.ListVisible(ctx, "")
	if len(list) != 2 || list[0].ID != online.ID {
		t.Fatalf("expected newest first, got %+v", list)
	}

	if removed, _ := repo.Delete(ctx, online.ID); !removed {
		t.Fatalf("expected delete to remove the order")
	}
	if removed, _ := repo.Delete(ctx, online.ID); removed {
		t.Fatalf("expected repeated delete to be a no-op")
	}
	if repo.Len() != 1 {
		t.Fatalf("expected 1 stored order, got %d", repo.Len())
	}
}
