// Package json decodes json and jsonb values with github.com/goccy/go-json.
package json

import (
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/jackc/pgcast"
)

// Decode decodes the text of a json value into the generic representation of
// encoding/json: maps, slices, strings, bool, nil and float64.
func Decode(s string) (any, error) {
	var v any
	if err := gojson.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// DecodeUseNumber is like Decode but keeps numbers as json.Number so that no
// precision is lost.
func DecodeUseNumber(s string) (any, error) {
	dec := gojson.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Register makes Decode the process-wide decoder for json values.
func Register() {
	pgcast.SetJSONDecode(Decode)
}

// Configure makes Decode the decoder for json values of cfg.
func Configure(cfg *pgcast.Config) {
	cfg.JSONDecode = Decode
}
