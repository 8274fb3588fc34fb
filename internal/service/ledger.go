package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"daybook/internal/metrics"
	"daybook/internal/models"
	"daybook/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedBalances is the snapshot used before the first ledger entry exists.
func SeedBalances() models.Balances {
	return models.Balances{
		Cash: decimal.NewFromInt(3200),
		IPPB: decimal.NewFromInt(110),
		Jio:  decimal.RequireFromString("0.75"),
		SBI:  decimal.NewFromInt(11950),
	}
}

// Transaction is a proposed ledger entry as submitted by the operator.
type Transaction struct {
	Direction models.Direction
	Method    models.Method
	Account   models.Account
	Amount    decimal.Decimal
	Date      string // YYYY-MM-DD, defaults to today
	Time      string // HH:MM, defaults to now
	Purpose   string
}

// effect resolves which balance the transaction moves and by how much.
// Credit by card is checked before anything else.
func (tx Transaction) effect() (models.Account, decimal.Decimal, error) {
	var delta decimal.Decimal
	switch tx.Direction {
	case models.Credit:
		if tx.Method == models.MethodCard {
			return "", decimal.Zero, ErrCardCreditNotAllowed
		}
		delta = tx.Amount
	case models.Debit:
		delta = tx.Amount.Neg()
	default:
		return "", decimal.Zero, ErrInvalidDirection
	}

	switch tx.Method {
	case models.MethodCash:
		return models.AccountCash, delta, nil
	case models.MethodCard:
		return models.AccountSBI, delta, nil
	case models.MethodUPI, models.MethodBankTransfer:
		for _, a := range models.BankAccounts {
			if tx.Account == a {
				return a, delta, nil
			}
		}
		return "", decimal.Zero, ErrMissingBalance
	}
	return "", decimal.Zero, ErrInvalidMethod
}

// Apply returns the snapshot that results from applying tx to b.
// Balances may go negative.
func Apply(b models.Balances, tx Transaction) (models.Balances, error) {
	account, delta, err := tx.effect()
	if err != nil {
		return b, err
	}
	return b.Adjust(account, delta), nil
}

// LedgerSummary is everything the ledger page shows.
type LedgerSummary struct {
	Entries  []models.LedgerEntry
	Credited decimal.Decimal
	Debited  decimal.Decimal
	Balances models.Balances
}

// LedgerService appends entries and answers balance queries.
type LedgerService struct {
	db    *gorm.DB
	log   *zap.Logger
	clock Clock

	// serializes appends so two writers never build on the same predecessor
	mu sync.Mutex
}

func NewLedgerService(db *gorm.DB, log *zap.Logger, clock Clock) *LedgerService {
	return &LedgerService{db: db, log: log, clock: clock}
}

// AppendTransaction validates tx, computes the next snapshot from the most
// recent entry and appends one entry. Rejections return one of
// ErrCardCreditNotAllowed, ErrInvalidDirection, ErrInvalidMethod,
// ErrMissingBalance or ErrInvalidInput and write nothing.
func (s *LedgerService) AppendTransaction(ctx context.Context, tx Transaction) (*models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, _, err := tx.effect(); err != nil {
		s.reject(tx, err)
		return nil, err
	}
	if err := util.ValidateAmount(tx.Amount); err != nil {
		s.reject(tx, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := s.clock()
	if tx.Date == "" {
		tx.Date = now.Format(formDate)
	}
	if tx.Time == "" {
		tx.Time = now.Format("15:04")
	}
	day, err := time.Parse(formDate, tx.Date)
	if err != nil {
		s.reject(tx, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := util.ValidateClock(tx.Time); err != nil {
		s.reject(tx, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	account := tx.Account
	if tx.Method == models.MethodCash || account == "" {
		account = models.AccountNone
	}

	entry := models.LedgerEntry{
		Direction:   tx.Direction,
		Method:      tx.Method,
		Account:     account,
		Amount:      tx.Amount,
		Date:        tx.Date,
		Time:        tx.Time,
		DisplayDate: day.Format(displayDate),
		Purpose:     strings.TrimSpace(tx.Purpose),
		Visible:     true,
	}

	err = s.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		prev, err := latestBalances(dbtx)
		if err != nil {
			return err
		}
		next, err := Apply(prev, tx)
		if err != nil {
			return err
		}
		entry.Balances = next
		return dbtx.Create(&entry).Error
	})
	if err != nil {
		metrics.LedgerAppends.WithLabelValues("storage_error").Inc()
		s.log.Error("append ledger entry", zap.Error(err))
		return nil, storageErr("append ledger entry", err)
	}

	metrics.LedgerAppends.WithLabelValues("accepted").Inc()
	s.log.Info("ledger entry appended",
		zap.Uint("id", entry.ID),
		zap.String("direction", string(entry.Direction)),
		zap.String("method", string(entry.Method)),
		zap.String("account", string(entry.Account)),
		zap.String("amount", entry.Amount.String()),
	)
	return &entry, nil
}

func (s *LedgerService) reject(tx Transaction, err error) {
	metrics.LedgerAppends.WithLabelValues(rejectOutcome(err)).Inc()
	s.log.Warn("ledger entry rejected",
		zap.String("direction", string(tx.Direction)),
		zap.String("method", string(tx.Method)),
		zap.String("account", string(tx.Account)),
		zap.Error(err),
	)
}

func rejectOutcome(err error) string {
	switch {
	case errors.Is(err, ErrCardCreditNotAllowed):
		return "card_credit"
	case errors.Is(err, ErrInvalidDirection):
		return "invalid_direction"
	case errors.Is(err, ErrInvalidMethod):
		return "invalid_method"
	case errors.Is(err, ErrMissingBalance):
		return "missing_balance"
	}
	return "invalid_input"
}

// CurrentBalances returns the most recent snapshot, or the seed when the ledger is empty.
func (s *LedgerService) CurrentBalances(ctx context.Context) (models.Balances, error) {
	b, err := latestBalances(s.db.WithContext(ctx))
	if err != nil {
		return models.Balances{}, storageErr("load balances", err)
	}
	return b, nil
}

// VisibleEntries returns visible entries newest-first.
func (s *LedgerService) VisibleEntries(ctx context.Context) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	if err := s.db.WithContext(ctx).
		Where("visible = ?", true).
		Order("id DESC").
		Find(&entries).Error; err != nil {
		return nil, storageErr("list ledger entries", err)
	}
	return entries, nil
}

// TotalCredited sums the amounts of visible credit entries.
func (s *LedgerService) TotalCredited(ctx context.Context) (decimal.Decimal, error) {
	return s.visibleTotal(ctx, models.Credit)
}

// TotalDebited sums the amounts of visible debit entries.
func (s *LedgerService) TotalDebited(ctx context.Context) (decimal.Decimal, error) {
	return s.visibleTotal(ctx, models.Debit)
}

func (s *LedgerService) visibleTotal(ctx context.Context, d models.Direction) (decimal.Decimal, error) {
	var entries []models.LedgerEntry
	if err := s.db.WithContext(ctx).
		Select("amount").
		Where("visible = ? AND direction = ?", true, d).
		Find(&entries).Error; err != nil {
		return decimal.Zero, storageErr("sum ledger entries", err)
	}
	total := decimal.Zero
	for i := range entries {
		total = total.Add(entries[i].Amount)
	}
	return total, nil
}

// Summary loads the visible entries, both totals and the current balances.
func (s *LedgerService) Summary(ctx context.Context) (*LedgerSummary, error) {
	entries, err := s.VisibleEntries(ctx)
	if err != nil {
		return nil, err
	}
	balances, err := s.CurrentBalances(ctx)
	if err != nil {
		return nil, err
	}

	sum := &LedgerSummary{
		Entries:  entries,
		Credited: decimal.Zero,
		Debited:  decimal.Zero,
		Balances: balances,
	}
	for i := range entries {
		switch entries[i].Direction {
		case models.Credit:
			sum.Credited = sum.Credited.Add(entries[i].Amount)
		case models.Debit:
			sum.Debited = sum.Debited.Add(entries[i].Amount)
		}
	}
	return sum, nil
}

// SetVisibility shows or hides an entry in listings and totals.
// Balances are unaffected.
func (s *LedgerService) SetVisibility(ctx context.Context, id uint, visible bool) error {
	res := s.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Where("id = ?", id).
		Update("visible", visible)
	if res.Error != nil {
		return storageErr("update visibility", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AllEntries returns every entry oldest-first, hidden ones included.
func (s *LedgerService) AllEntries(ctx context.Context) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&entries).Error; err != nil {
		return nil, storageErr("list ledger entries", err)
	}
	return entries, nil
}

func latestBalances(db *gorm.DB) (models.Balances, error) {
	var last models.LedgerEntry
	err := db.Order("id DESC").Limit(1).Take(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return SeedBalances(), nil
	}
	if err != nil {
		return models.Balances{}, err
	}
	return last.Balances, nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}
