package solana

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DishankChauhan/Domain-Search/internal/model"
	"github.com/DishankChauhan/Domain-Search/internal/storage"
)

const pendingPaymentsKey = "pending_payments"

// pendingBook keeps submitted payments whose confirmation was not observed in time.
// Entries never reach the ledger until reconciled.
type pendingBook struct {
	store storage.Store
}

func (b *pendingBook) add(ctx context.Context, p model.PendingPayment) error {
	return b.store.Update(ctx, pendingPaymentsKey, func(current []byte) ([]byte, error) {
		list, err := decodePending(current)
		if err != nil {
			return nil, err
		}
		for _, existing := range list {
			if existing.Signature == p.Signature {
				return json.Marshal(list)
			}
		}
		return json.Marshal(append(list, p))
	})
}

func (b *pendingBook) get(ctx context.Context, signature string) (model.PendingPayment, bool, error) {
	list, err := b.list(ctx)
	if err != nil {
		return model.PendingPayment{}, false, err
	}
	for _, p := range list {
		if p.Signature == signature {
			return p, true, nil
		}
	}
	return model.PendingPayment{}, false, nil
}

func (b *pendingBook) remove(ctx context.Context, signature string) error {
	return b.store.Update(ctx, pendingPaymentsKey, func(current []byte) ([]byte, error) {
		list, err := decodePending(current)
		if err != nil {
			return nil, err
		}
		kept := list[:0]
		for _, p := range list {
			if p.Signature != signature {
				kept = append(kept, p)
			}
		}
		return json.Marshal(kept)
	})
}

func (b *pendingBook) list(ctx context.Context) ([]model.PendingPayment, error) {
	raw, err := b.store.Get(ctx, pendingPaymentsKey)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	return decodePending(raw)
}

func decodePending(raw []byte) ([]model.PendingPayment, error) {
	list := []model.PendingPayment{}
	if len(raw) == 0 {
		return list, nil
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending payments: %w", err)
	}
	return list, nil
}
