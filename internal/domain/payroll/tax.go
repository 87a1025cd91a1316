package payroll

import "github.com/shopspring/decimal"

type taxBracket struct {
	floor      decimal.Decimal
	ceiling    decimal.Decimal
	unbounded  bool
	cumulative decimal.Decimal // tax owed on income up to floor
	rate       decimal.Decimal
}

// TaxTable is a progressive marginal schedule with precomputed cumulative tax.
type TaxTable struct {
	brackets []taxBracket
}

// NewTaxTable builds a table from ascending ceilings and their marginal rates.
// The last rate applies without ceiling, so len(rates) must be len(ceilings)+1.
func NewTaxTable(ceilings []decimal.Decimal, rates []decimal.Decimal) TaxTable {
	if len(rates) != len(ceilings)+1 {
		panic("payroll: tax table needs one rate more than ceilings")
	}

	brackets := make([]taxBracket, 0, len(rates))
	floor, cumulative := decimal.Zero, decimal.Zero
	for i, rate := range rates {
		b := taxBracket{floor: floor, cumulative: cumulative, rate: rate}
		if i == len(ceilings) {
			b.unbounded = true
		} else {
			b.ceiling = ceilings[i]
			cumulative = cumulative.Add(b.ceiling.Sub(floor).Mul(rate))
			floor = b.ceiling
		}
		brackets = append(brackets, b)
	}
	return TaxTable{brackets: brackets}
}

var defaultTaxTable = NewTaxTable(
	[]decimal.Decimal{
		decimal.NewFromInt(5_000_000),
		decimal.NewFromInt(10_000_000),
		decimal.NewFromInt(18_000_000),
		decimal.NewFromInt(32_000_000),
		decimal.NewFromInt(52_000_000),
		decimal.NewFromInt(80_000_000),
	},
	[]decimal.Decimal{
		decimal.RequireFromString("0.05"),
		decimal.RequireFromString("0.10"),
		decimal.RequireFromString("0.15"),
		decimal.RequireFromString("0.20"),
		decimal.RequireFromString("0.25"),
		decimal.RequireFromString("0.30"),
		decimal.RequireFromString("0.35"),
	},
)

// DefaultTaxTable is the seven bracket personal income tax schedule.
func DefaultTaxTable() TaxTable {
	return defaultTaxTable
}

// Tax returns the tax owed on taxable income; zero when taxable is not positive.
func (t TaxTable) Tax(taxable decimal.Decimal) decimal.Decimal {
	if !taxable.IsPositive() {
		return decimal.Zero
	}
	for _, b := range t.brackets {
		if b.unbounded || taxable.LessThanOrEqual(b.ceiling) {
			return b.cumulative.Add(taxable.Sub(b.floor).Mul(b.rate))
		}
	}
	return decimal.Zero
}
