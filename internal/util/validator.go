package util

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var maxAmount = decimal.NewFromInt(10000000)

// ParseAmount parses a form amount such as "12.50".
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount is empty")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// ValidateAmount checks that the amount is positive and below the upper limit.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", amount)
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("amount too large, got %s", amount)
	}
	return nil
}

// ValidateDate checks the YYYY-MM-DD form date.
func ValidateDate(dateStr string) error {
	if dateStr == "" {
		return fmt.Errorf("date is empty")
	}
	_, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}
	return nil
}

// ValidateClock checks the HH:MM form time.
func ValidateClock(clock string) error {
	if clock == "" {
		return fmt.Errorf("time is empty")
	}
	if _, err := time.Parse("15:04", clock); err != nil {
		return fmt.Errorf("invalid time format: %w", err)
	}
	return nil
}

// ValidateText checks free text is non-blank and at most max runes.
func ValidateText(text string, max int) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text is empty")
	}
	if utf8.RuneCountInString(text) > max {
		return fmt.Errorf("text too long, max %d characters", max)
	}
	return nil
}
