package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	USD  Currency = "USD"
	ILS  Currency = "ILS"
	GBP  Currency = "GBP"
	EURO Currency = "EURO"
)

const (
	Food           Category = "Food"
	Transportation Category = "Transportation"
	Education      Category = "Education"
	Entertainment  Category = "Entertainment"
	Health         Category = "Health"
	Shopping       Category = "Shopping"
	Bills          Category = "Bills"
	Other          Category = "Other"
)

// MaxDescriptionLen bounds the free-text description of a cost.
const MaxDescriptionLen = 200

type (
	Currency string
	Category string

	// CostItem is a cost as submitted by a caller and as returned after
	// it has been stored. Year, Month and Day are optional on input.
	CostItem struct {
		Sum         decimal.Decimal `json:"sum"`
		Currency    Currency        `json:"currency"`
		Category    Category        `json:"category"`
		Description string          `json:"description"`
		Year        int             `json:"year,omitempty"`
		Month       int             `json:"month,omitempty"`
		Day         int             `json:"day,omitempty"`
	}

	// Cost is a stored cost record.
	Cost struct {
		ID int64 `json:"id"`
		CostItem
		CreatedAt time.Time `json:"created_at"`
	}
)

var (
	ErrInvalidSum          = errors.New("sum must be a positive number")
	ErrSumPrecision        = errors.New("sum must have at most 2 decimal places")
	ErrEmptyCurrency       = errors.New("empty currency")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrEmptyCategory       = errors.New("empty category")
	ErrUnknownCategory     = errors.New("unknown category")
	ErrEmptyDescription    = errors.New("empty description")
	ErrDescriptionTooLong  = fmt.Errorf("description too long (max %d characters)", MaxDescriptionLen)
	ErrInvalidYear         = errors.New("invalid year")
	ErrInvalidMonth        = errors.New("invalid month")
	ErrInvalidDay          = errors.New("invalid day")
)

// ValidationError reports malformed cost input. It is returned before any
// write happens.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// Currencies returns the supported currency codes in display order.
func Currencies() []Currency {
	return []Currency{USD, ILS, GBP, EURO}
}

// Categories returns the supported categories in display order.
func Categories() []Category {
	return []Category{Food, Transportation, Education, Entertainment, Health, Shopping, Bills, Other}
}

func (c Currency) IsSupported() bool {
	switch c {
	case USD, ILS, GBP, EURO:
		return true
	}
	return false
}

func (c Category) IsKnown() bool {
	switch c {
	case Food, Transportation, Education, Entertainment, Health, Shopping, Bills, Other:
		return true
	}
	return false
}

// ValidateCurrency checks that c is a non-empty supported currency code.
func ValidateCurrency(c Currency) error {
	if strings.TrimSpace(string(c)) == "" {
		return invalid("currency", ErrEmptyCurrency)
	}
	if !c.IsSupported() {
		return invalid("currency", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, c))
	}
	return nil
}

// ValidateMonth checks a 1-12 month number.
func ValidateMonth(month int) error {
	if month < 1 || month > 12 {
		return invalid("month", ErrInvalidMonth)
	}
	return nil
}

// Validate checks the cost fields. The date is checked only when all of
// Year, Month and Day are set; callers resolve missing parts first.
func (c CostItem) Validate() error {
	if !c.Sum.IsPositive() {
		return invalid("sum", ErrInvalidSum)
	}
	if !hasCentPrecision(c.Sum) {
		return invalid("sum", ErrSumPrecision)
	}
	if err := ValidateCurrency(c.Currency); err != nil {
		return err
	}
	if strings.TrimSpace(string(c.Category)) == "" {
		return invalid("category", ErrEmptyCategory)
	}
	if !c.Category.IsKnown() {
		return invalid("category", fmt.Errorf("%w: %q", ErrUnknownCategory, c.Category))
	}
	if strings.TrimSpace(c.Description) == "" {
		return invalid("description", ErrEmptyDescription)
	}
	if utf8.RuneCountInString(c.Description) > MaxDescriptionLen {
		return invalid("description", ErrDescriptionTooLong)
	}
	if c.Year != 0 && c.Month != 0 && c.Day != 0 {
		return ValidateDate(c.Year, c.Month, c.Day)
	}
	return nil
}

// ValidateDate rejects dates that do not exist in the calendar, such as
// February 30th.
func ValidateDate(year, month, day int) error {
	if year < 1 || year > 9999 {
		return invalid("year", ErrInvalidYear)
	}
	if err := ValidateMonth(month); err != nil {
		return err
	}
	if day < 1 || day > DaysIn(year, month) {
		return invalid("day", ErrInvalidDay)
	}
	return nil
}

// DaysIn returns the number of days of month in year.
func DaysIn(year, month int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Date returns the cost date at midnight UTC.
func (c CostItem) Date() time.Time {
	return time.Date(c.Year, time.Month(c.Month), c.Day, 0, 0, 0, 0, time.UTC)
}
