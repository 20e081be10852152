// Package numeric constructs numeric and money values as
// github.com/shopspring/decimal.Decimal.
package numeric

import (
	"fmt"

	"github.com/jackc/pgcast"
	"github.com/shopspring/decimal"
)

// Decimal parses the text of a numeric or money value. decimal.Decimal cannot
// represent NaN or infinity, so those are rejected.
func Decimal(s string) (any, error) {
	switch s {
	case "NaN", "Infinity", "-Infinity":
		return nil, fmt.Errorf("cannot represent %s as decimal.Decimal", s)
	}
	return decimal.NewFromString(s)
}

// Register makes decimal.Decimal the process-wide constructor for numeric
// values.
func Register() {
	pgcast.SetDecimal(Decimal)
}

// Configure makes decimal.Decimal the constructor for numeric values of cfg.
func Configure(cfg *pgcast.Config) {
	cfg.Decimal = Decimal
}
