// Package cliconfig loads the configuration file of the pgcast command and
// applies it through the explicit configuration calls of package pgcast.
package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/jackc/pgcast"
	apdnumeric "github.com/jackc/pgcast/ext/apd-numeric"
	goccyjson "github.com/jackc/pgcast/ext/goccy-json"
	numeric "github.com/jackc/pgcast/ext/shopspring-numeric"
	"gopkg.in/yaml.v3"
)

// Config is the content of a configuration file.
type Config struct {
	Cast      CastConfig      `toml:"cast" yaml:"cast"`
	Typecasts TypecastsConfig `toml:"typecasts" yaml:"typecasts"`
	Logging   LoggingConfig   `toml:"logging" yaml:"logging"`
}

// CastConfig mirrors pgcast.Config. Pointer fields distinguish "not set"
// from the zero value.
type CastConfig struct {
	// Decimal is one of "float", "shopspring" or "apd".
	Decimal string `toml:"decimal" yaml:"decimal"`

	DecimalPoint  *string `toml:"decimal_point" yaml:"decimal_point"`
	Bool          *bool   `toml:"bool" yaml:"bool"`
	Array         *bool   `toml:"array" yaml:"array"`
	ByteaEscaped  bool    `toml:"bytea_escaped" yaml:"bytea_escaped"`
	DateStyle     string  `toml:"datestyle" yaml:"datestyle"`
	MaxBufferSize int     `toml:"max_buffer_size" yaml:"max_buffer_size"`

	// JSON is one of "", "goccy" or "goccy-number".
	JSON string `toml:"json" yaml:"json"`
}

// TypecastsConfig configures the Typecasts registry.
type TypecastsConfig struct {
	// Aliases casts the key type like the value type, e.g. citext = "text".
	Aliases map[string]string `toml:"aliases" yaml:"aliases"`

	// Composites lists the fields of composite types as name:type pairs.
	Composites map[string][]string `toml:"composites" yaml:"composites"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// Unmarshall decodes content as TOML or YAML into config.
func Unmarshall(content []byte, config *Config, toml bool) error {
	if toml {
		return fromToml(content, config)
	}
	return fromYaml(content, config)
}

func fromToml(content []byte, config *Config) error {
	return toml.Unmarshal(content, config)
}

func fromYaml(content []byte, config *Config) error {
	return yaml.Unmarshal(content, config)
}

// Load reads the configuration file at path. Files ending in .toml are TOML,
// everything else is YAML.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := &Config{}
	tomlConfig := filepath.Ext(strings.ToLower(path)) == ".toml"
	if err := Unmarshall(b, config, tomlConfig); err != nil {
		return nil, err
	}
	return config, nil
}

// Apply sets the process-wide pgcast configuration.
func (c *Config) Apply() error {
	cc := &c.Cast

	switch cc.Decimal {
	case "", "float":
		pgcast.SetDecimal(nil)
	case "shopspring":
		numeric.Register()
	case "apd":
		apdnumeric.Register()
	default:
		return fmt.Errorf("unknown decimal type %q", cc.Decimal)
	}

	if cc.DecimalPoint != nil {
		if err := pgcast.SetDecimalPoint(*cc.DecimalPoint); err != nil {
			return err
		}
	}
	if cc.Bool != nil {
		pgcast.SetBool(*cc.Bool)
	}
	if cc.Array != nil {
		pgcast.SetArray(*cc.Array)
	}
	pgcast.SetByteaEscaped(cc.ByteaEscaped)

	switch cc.JSON {
	case "":
		pgcast.SetJSONDecode(nil)
	case "goccy":
		goccyjson.Register()
	case "goccy-number":
		pgcast.SetJSONDecode(goccyjson.DecodeUseNumber)
	default:
		return fmt.Errorf("unknown json decoder %q", cc.JSON)
	}

	pgcast.SetDateStyle(cc.DateStyle)
	return nil
}

// CastConfig returns a snapshot of the process-wide configuration with the
// settings that have no process-wide setter applied.
func (c *Config) CastConfig() *pgcast.Config {
	cfg := pgcast.DefaultConfig()
	cfg.MaxBufferSize = c.Cast.MaxBufferSize
	return cfg
}

// NewTypecasts returns a registry for cfg with the configured aliases and
// composite types.
func (c *Config) NewTypecasts(cfg *pgcast.Config) (*pgcast.Typecasts, error) {
	tc := pgcast.NewTypecasts(cfg)

	for name, fields := range c.Typecasts.Composites {
		attrs := make([]pgcast.Attribute, len(fields))
		for i, f := range fields {
			attrName, attrType, ok := strings.Cut(f, ":")
			if !ok {
				return nil, fmt.Errorf("composite %s: field %q must be name:type", name, f)
			}
			attrs[i] = pgcast.Attribute{Name: attrName, Type: attrType}
		}
		tc.SetAttributes(name, attrs)
	}

	for alias, target := range c.Typecasts.Aliases {
		cast := tc.Get(target)
		if cast == nil {
			return nil, fmt.Errorf("alias %s: no cast for type %q", alias, target)
		}
		tc.Set(cast, alias)
	}

	return tc, nil
}
