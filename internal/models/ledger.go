package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the flow of money for a ledger entry.
type Direction string

const (
	Credit Direction = "Credit"
	Debit  Direction = "Debit"
)

// Method is how the money moved.
type Method string

const (
	MethodCash         Method = "Cash"
	MethodCard         Method = "Card"
	MethodUPI          Method = "UPI"
	MethodBankTransfer Method = "Bank Transfer"
)

// Account names one of the tracked balances. AccountNone is used for cash.
type Account string

const (
	AccountNone Account = "None"
	AccountCash Account = "cash"
	AccountIPPB Account = "ippb"
	AccountJio  Account = "jio"
	AccountSBI  Account = "sbi" // card-linked
)

// Balances is the snapshot of all four running balances.
type Balances struct {
	Cash decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	IPPB decimal.Decimal `gorm:"column:ippb;type:decimal(20,4);not null;default:0"`
	Jio  decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	SBI  decimal.Decimal `gorm:"column:sbi;type:decimal(20,4);not null;default:0"`
}

// LedgerEntry is one immutable transaction plus the balances after it.
type LedgerEntry struct {
	ID          uint            `gorm:"primaryKey"`
	Direction   Direction       `gorm:"size:8;index;not null"`
	Method      Method          `gorm:"size:16;not null"`
	Account     Account         `gorm:"size:8;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Date        string          `gorm:"size:10"` // YYYY-MM-DD
	Time        string          `gorm:"size:8"`  // HH:MM
	DisplayDate string          `gorm:"size:10"` // DD-MM-YYYY
	Purpose     string          `gorm:"type:text"`
	Visible     bool            `gorm:"index;not null"`
	Balances    Balances        `gorm:"embedded"`
	CreatedAt   time.Time
}

// Get returns the balance held in a.
func (b Balances) Get(a Account) (decimal.Decimal, bool) {
	switch a {
	case AccountCash:
		return b.Cash, true
	case AccountIPPB:
		return b.IPPB, true
	case AccountJio:
		return b.Jio, true
	case AccountSBI:
		return b.SBI, true
	}
	return decimal.Zero, false
}

// Adjust returns a copy of b with delta added to a. Unknown accounts are left untouched.
func (b Balances) Adjust(a Account, delta decimal.Decimal) Balances {
	switch a {
	case AccountCash:
		b.Cash = b.Cash.Add(delta)
	case AccountIPPB:
		b.IPPB = b.IPPB.Add(delta)
	case AccountJio:
		b.Jio = b.Jio.Add(delta)
	case AccountSBI:
		b.SBI = b.SBI.Add(delta)
	}
	return b
}

// Total is the sum across all four balances.
func (b Balances) Total() decimal.Decimal {
	return b.Cash.Add(b.IPPB).Add(b.Jio).Add(b.SBI)
}

// BankAccounts lists the accounts selectable for UPI and bank transfers.
var BankAccounts = []Account{AccountSBI, AccountIPPB, AccountJio}
