package solana

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/DishankChauhan/Domain-Search/internal/common"
	"github.com/DishankChauhan/Domain-Search/internal/logger"
	"github.com/DishankChauhan/Domain-Search/internal/model"
	"github.com/DishankChauhan/Domain-Search/internal/storage"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const transactionHistoryKey = "transaction_history"

// Ledger is the append-only history of confirmed payments.
type Ledger struct {
	store storage.Store
	log   *zap.Logger
}

func NewLedger(store storage.Store, log *zap.Logger) *Ledger {
	return &Ledger{
		store: store,
		log:   logger.OrNop(log).Named("ledger"),
	}
}

// Append stores a confirmed record. A signature already in the ledger is rejected.
func (l *Ledger) Append(ctx context.Context, record model.TransactionRecord) error {
	if record.Signature == "" {
		return wrap(ErrPersistence, errors.New("record has no signature"))
	}
	if record.Status != model.TransactionStatusConfirmed {
		return wrap(ErrPersistence, fmt.Errorf("refusing to store %q transaction", record.Status))
	}

	err := l.store.Update(ctx, transactionHistoryKey, func(current []byte) ([]byte, error) {
		records, err := decodeRecords(current)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			if r.Signature == record.Signature {
				return nil, withSignature(ErrDuplicateSignature, record.Signature, nil)
			}
		}
		records = append([]model.TransactionRecord{record}, records...)
		return json.Marshal(records)
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateSignature) {
			return err
		}
		return wrap(ErrPersistence, err)
	}

	l.log.Info("transaction recorded",
		zap.String("signature", record.Signature),
		zap.Uint64("lamports", record.Lamports),
		zap.Int("domains", len(record.Items)),
	)
	return nil
}

// All returns every record, most recent first.
func (l *Ledger) All(ctx context.Context) ([]model.TransactionRecord, error) {
	raw, err := l.store.Get(ctx, transactionHistoryKey)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, wrap(ErrPersistence, err)
	}
	records, err := decodeRecords(raw)
	if err != nil {
		return nil, wrap(ErrPersistence, err)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	return records, nil
}

// PurchasedDomains flattens the items of every record. The same domain bought twice appears twice.
func (l *Ledger) PurchasedDomains(ctx context.Context) ([]model.CartItem, error) {
	records, err := l.All(ctx)
	if err != nil {
		return nil, err
	}
	domains := []model.CartItem{}
	for _, r := range records {
		domains = append(domains, r.Items...)
	}
	return domains, nil
}

// Summary totals the ledger for the purchase history view.
func (l *Ledger) Summary(ctx context.Context) (model.LedgerSummary, error) {
	records, err := l.All(ctx)
	if err != nil {
		return model.LedgerSummary{}, err
	}

	usd := decimal.Zero
	var lamports uint64
	var domains int
	for _, r := range records {
		usd = usd.Add(decimal.NewFromFloat(r.FiatAmount))
		lamports += r.Lamports
		domains += len(r.Items)
	}
	totalUSD, _ := usd.Round(2).Float64()

	return model.LedgerSummary{
		Transactions: len(records),
		Domains:      domains,
		TotalUSD:     totalUSD,
		TotalSOL:     common.LamportsToSOLFloat(lamports),
	}, nil
}

func decodeRecords(raw []byte) ([]model.TransactionRecord, error) {
	records := []model.TransactionRecord{}
	if len(raw) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction history: %w", err)
	}
	return records, nil
}
