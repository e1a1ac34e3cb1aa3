package kernel

import (
	"fmt"

	"postpurchase/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places every amount is rounded to.
const MoneyScale = 2

// Money is a non-negative monetary amount rounded half-up to MoneyScale places.
// Currency is implied by the order; mixing currencies is not supported.
type Money struct {
	amount decimal.Decimal
}

// NewMoney rounds d to cents and rejects negative values.
func NewMoney(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", d.String(), "0", "unbounded")
	}
	return Money{amount: d.Round(MoneyScale)}, nil
}

// MoneyFromString parses a decimal string such as "19.99".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(d)
}

// MoneyFromCents builds an amount from an integer number of cents.
func MoneyFromCents(cents int64) (Money, error) {
	return NewMoney(decimal.New(cents, -MoneyScale))
}

func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

func (m Money) String() string {
	return m.amount.StringFixed(MoneyScale)
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub fails when the result would be negative.
func (m Money) Sub(other Money) (Money, error) {
	d := m.amount.Sub(other.amount)
	if d.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"amount",
			fmt.Errorf("%s is less than %s", m, other),
		)
	}
	return Money{amount: d}, nil
}

// Times multiplies the amount by a non-negative quantity.
func (m Money) Times(qty int) Money {
	if qty <= 0 {
		return Money{}
	}
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(qty)))}
}

// Fraction returns m·num/den rounded to cents. A non-positive denominator yields zero.
func (m Money) Fraction(num, den int) Money {
	if den <= 0 || num <= 0 {
		return Money{}
	}
	d := m.amount.Mul(decimal.NewFromInt(int64(num))).Div(decimal.NewFromInt(int64(den)))
	return Money{amount: d.Round(MoneyScale)}
}

// Share returns m·part/whole rounded to cents, i.e. the slice of m that is
// proportional to part within whole. A zero whole yields zero.
func (m Money) Share(part, whole Money) Money {
	if whole.IsZero() {
		return Money{}
	}
	d := m.amount.Mul(part.amount).Div(whole.amount)
	return Money{amount: d.Round(MoneyScale)}
}

// Sum adds up amounts.
func Sum(amounts ...Money) Money {
	total := Money{}
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
