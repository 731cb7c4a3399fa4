// Package cli implements the pricectl subcommands on top of a local JSON snapshot file.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/simaogato/pricelist-backend/internal/adapter/repository/jsonfile"
	"github.com/simaogato/pricelist-backend/internal/usecase/pricelist"
	"github.com/simaogato/pricelist-backend/pkg/logger"
)

// Env is the state shared by all subcommands
type Env struct {
	StorePath string
	Currency  string
	Timezone  string
	LogLevel  string

	Out io.Writer
	Err io.Writer

	// Clock overrides time.Now, for tests
	Clock func() time.Time
}

// NewEnv returns an Env writing to stdout and stderr
func NewEnv() *Env {
	return &Env{
		StorePath: "pricelist.json",
		Currency:  "USD",
		LogLevel:  "warn",
		Out:       os.Stdout,
		Err:       os.Stderr,
	}
}

// SetFlags binds the global flags
func (e *Env) SetFlags(f *flag.FlagSet) {
	f.StringVar(&e.StorePath, "store", e.StorePath, "Path to the JSON snapshot file.")
	f.StringVar(&e.Currency, "currency", e.Currency, "ISO 4217 currency used to print prices.")
	f.StringVar(&e.Timezone, "tz", e.Timezone, "IANA time zone deciding which day is today (default local).")
	f.StringVar(&e.LogLevel, "log-level", e.LogLevel, "Log level (debug, info, warn, error).")
}

// Register adds every subcommand to c
func Register(c *subcommands.Commander, env *Env) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")

	c.Register(&addCmd{env: env}, "items")
	c.Register(&editCmd{env: env}, "items")
	c.Register(&rmCmd{env: env}, "items")
	c.Register(&adjustCmd{env: env}, "items")

	c.Register(&recallCmd{env: env}, "history")
	c.Register(&historyCmd{env: env}, "history")

	c.Register(&listCmd{env: env}, "views")
	c.Register(&importLegacyCmd{env: env}, "maintenance")
}

// Open loads the service from the snapshot file
func (e *Env) Open(ctx context.Context) (*pricelist.PriceListService, error) {
	log := logger.NewWithOutput(e.LogLevel, e.Err)
	service := pricelist.NewPriceListService(jsonfile.NewSnapshotRepository(e.StorePath), logger.Component(log, "pricectl"), nil)

	if e.Clock != nil {
		service.Clock = e.Clock
	}
	if e.Timezone != "" {
		loc, err := time.LoadLocation(e.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid time zone %q: %w", e.Timezone, err)
		}
		service.Location = loc
	}

	if err := service.Load(ctx); err != nil {
		return nil, err
	}
	return service, nil
}

// Money formats an amount in the configured currency, e.g. "$1.99".
// Unknown currency codes fall back to "1.99 XYZ".
func (e *Env) Money(amount decimal.Decimal) string {
	cur := money.GetCurrency(e.Currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + e.Currency
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// fail prints err and returns the failure status
func (e *Env) fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(e.Err, "Error:", err)
	return subcommands.ExitFailure
}

// usage prints a usage error
func (e *Env) usage(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(e.Err, "Error: "+format+"\n", args...)
	return subcommands.ExitUsageError
}
