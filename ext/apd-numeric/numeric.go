// Package numeric constructs numeric and money values as
// github.com/cockroachdb/apd.Decimal, which unlike most decimal libraries
// supports NaN and infinity.
package numeric

import (
	"github.com/cockroachdb/apd"
	"github.com/jackc/pgcast"
)

// Decimal parses the text of a numeric or money value into an *apd.Decimal.
func Decimal(s string) (any, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Register makes *apd.Decimal the process-wide constructor for numeric
// values.
func Register() {
	pgcast.SetDecimal(Decimal)
}

// Configure makes *apd.Decimal the constructor for numeric values of cfg.
func Configure(cfg *pgcast.Config) {
	cfg.Decimal = Decimal
}
