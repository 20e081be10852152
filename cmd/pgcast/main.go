package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/jackc/pgcast"
	"github.com/jackc/pgcast/internal/cliconfig"
	"github.com/jackc/pgcast/log/zerologadapter"
	"github.com/rs/zerolog"
	"github.com/urfave/cli"
)

var (
	configurationFile string
	logLevel          string
)

func main() {
	app := &cli.App{
		Name:  "pgcast",
		Usage: "Decode PostgreSQL text format values",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config,c",
				Value:       "",
				Usage:       "Load configuration from `FILE`",
				Destination: &configurationFile,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Value:       "",
				Usage:       "Log `LEVEL`: trace, debug, info, warn, error or none",
				Destination: &logLevel,
			},
		},
		Commands: []cli.Command{
			{
				Name:      "cast",
				Usage:     "Decode a literal and print it as JSON",
				ArgsUsage: "LITERAL",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "type,t", Value: "text", Usage: "type `NAME` or oid of the literal"},
					&cli.BoolFlag{Name: "array", Usage: "the literal is an array of the type"},
					&cli.StringFlag{Name: "record", Usage: "the literal is a record with fields of the comma separated `TYPES`"},
					&cli.BoolFlag{Name: "hstore", Usage: "the literal is an hstore value"},
					&cli.StringFlag{Name: "delim", Usage: "array or record delimiter `CHAR`"},
					&cli.StringFlag{Name: "encoding", Value: "UTF8", Usage: "client `ENCODING` of the literal"},
				},
				Action: castCommand,
			},
			{
				Name:      "replay",
				Usage:     "Read a captured stream of backend messages and print the results",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "print rows as JSON instead of a table"},
				},
				Action: replayCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type environment struct {
	cfg       *pgcast.Config
	typecasts *pgcast.Typecasts
	logger    pgcast.Logger
	level     pgcast.LogLevel
}

func setup() (*environment, error) {
	config := &cliconfig.Config{}

	// No configuration file set? Try env variable!
	if configurationFile == "" {
		if cf, present := os.LookupEnv("PGCAST_CONFIG"); present {
			configurationFile = cf
		}
	}

	if configurationFile != "" {
		c, err := cliconfig.Load(configurationFile)
		if err != nil {
			return nil, cli.NewExitError(fmt.Sprintf("Configuration file couldn't be loaded: %v", err), 3)
		}
		config = c
	}

	if err := config.Apply(); err != nil {
		return nil, cli.NewExitError(fmt.Sprintf("Invalid configuration: %v", err), 4)
	}

	levelName := logLevel
	if levelName == "" {
		levelName = config.Logging.Level
	}
	level := pgcast.LogLevelWarn
	if levelName != "" {
		l, err := pgcast.LogLevelFromString(levelName)
		if err != nil {
			return nil, cli.NewExitError(err.Error(), 4)
		}
		level = l
	}

	var zlogger zerolog.Logger
	if config.Logging.Format == "json" {
		zlogger = zerolog.New(os.Stderr)
	} else {
		zlogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	zlogger = zlogger.Level(zerologLevel(level)).With().Timestamp().Logger()

	env := &environment{
		cfg:    config.CastConfig(),
		logger: zerologadapter.NewLogger(zlogger),
		level:  level,
	}

	tc, err := config.NewTypecasts(env.cfg)
	if err != nil {
		return nil, cli.NewExitError(fmt.Sprintf("Invalid typecasts: %v", err), 4)
	}
	tc.Logger = env.logger
	env.typecasts = tc

	return env, nil
}

func zerologLevel(level pgcast.LogLevel) zerolog.Level {
	switch level {
	case pgcast.LogLevelTrace:
		return zerolog.TraceLevel
	case pgcast.LogLevelDebug:
		return zerolog.DebugLevel
	case pgcast.LogLevelInfo:
		return zerolog.InfoLevel
	case pgcast.LogLevelWarn:
		return zerolog.WarnLevel
	case pgcast.LogLevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.Disabled
	}
}

func castCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.NewExitError("exactly one LITERAL required", 2)
	}
	literal := []byte(c.Args().First())

	env, err := setup()
	if err != nil {
		return err
	}

	enc, ok := pgcast.EncodingByName(c.String("encoding"))
	if !ok {
		return cli.NewExitError(fmt.Sprintf("unknown encoding %q", c.String("encoding")), 2)
	}
	if enc != pgcast.EncodingUTF8 {
		if literal, err = pgcast.Encode(string(literal), enc); err != nil {
			return cli.NewExitError(err.Error(), 2)
		}
	}

	var delim byte
	if d := c.String("delim"); d != "" {
		if len(d) != 1 {
			return cli.NewExitError("delimiter must be a single character", 2)
		}
		delim = d[0]
	}

	var value any
	switch {
	case c.Bool("hstore"):
		value, err = env.cfg.CastHstore(literal, enc)

	case c.IsSet("record"):
		value, err = castRecord(env, literal, enc, c.String("record"), delim)

	default:
		var ti pgcast.TypeInfo
		ti, err = lookupType(c.String("type"))
		if err != nil {
			return cli.NewExitError(err.Error(), 2)
		}
		oid := ti.OID
		if c.Bool("array") {
			if ti.ArrayOID == 0 {
				return cli.NewExitError(fmt.Sprintf("type %s has no array type", ti.Name), 2)
			}
			oid = ti.ArrayOID
		}
		value, err = castValue(env, literal, enc, oid, delim)
	}
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	b, err := gojson.MarshalIndent(value, "", "  ")
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	fmt.Println(string(b))
	return nil
}

// castValue casts literal like a single cell of a result column of type oid.
func castValue(env *environment, literal []byte, enc pgcast.Encoding, oid uint32, delim byte) (any, error) {
	if delim != 0 {
		tag := env.cfg.Classify(oid)
		if !tag.Array {
			return nil, errors.New("a delimiter requires an array type")
		}
		return env.cfg.CastArray(literal, enc, tag, nil, delim)
	}

	fields := []pgcast.FieldDescription{{Name: "value", DataTypeOID: oid}}
	res, err := pgcast.NewResult(env.cfg, fields, [][][]byte{{literal}}, enc)
	if err != nil {
		return nil, err
	}
	res.SetCastHook(env.typecasts.Hook())
	return res.SingleScalar()
}

func castRecord(env *environment, literal []byte, enc pgcast.Encoding, types string, delim byte) (any, error) {
	var casts []pgcast.CastFunc
	for _, name := range strings.Split(types, ",") {
		name = strings.TrimSpace(name)
		cast := env.typecasts.Get(name)
		if cast == nil {
			return nil, fmt.Errorf("no cast for type %q", name)
		}
		casts = append(casts, cast)
	}
	return env.cfg.CastRecord(literal, enc, pgcast.RecordCasts{Casts: casts}, delim)
}

func lookupType(s string) (pgcast.TypeInfo, error) {
	if n, err := strconv.ParseUint(s, 10, 32); err == nil {
		if ti, ok := pgcast.TypeByOID(uint32(n)); ok {
			return ti, nil
		}
		return pgcast.TypeInfo{OID: uint32(n)}, nil
	}
	if ti, ok := pgcast.TypeByName(s); ok {
		return ti, nil
	}
	return pgcast.TypeInfo{}, fmt.Errorf("unknown type %q", s)
}

func replayCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.NewExitError("exactly one FILE required, use - for stdin", 2)
	}

	env, err := setup()
	if err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	if name := c.Args().First(); name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("Capture file couldn't be opened: %v", err), 3)
		}
		defer f.Close()
		in = f
	}

	rr := pgcast.NewReader(in, env.cfg)
	rr.Logger = env.logger
	rr.LogLevel = env.level
	rr.Typecasts = env.typecasts

	ctx := context.Background()
	for {
		res, err := rr.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var pgErr *pgcast.PgError
			if errors.As(err, &pgErr) {
				fmt.Fprintf(os.Stderr, "%s: %v\n", pgErr.Class(), pgErr)
				continue
			}
			return cli.NewExitError(err.Error(), 1)
		}

		if c.Bool("json") {
			rows, err := res.DictResult()
			if err != nil {
				return cli.NewExitError(err.Error(), 1)
			}
			b, err := gojson.Marshal(rows)
			if err != nil {
				return cli.NewExitError(err.Error(), 1)
			}
			fmt.Println(string(b))
		} else {
			fmt.Println(res.String())
		}
		if res.CommandTag != "" {
			fmt.Println(res.CommandTag)
		}
	}
}
