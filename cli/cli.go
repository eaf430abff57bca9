// Package cli implements the pokerodds command line.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/lazharichir/pokerodds/config"
	"github.com/lazharichir/pokerodds/odds"
	"github.com/pterm/pterm"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

const usage = `usage: pokerodds <command> [flags] [args]

commands:
  eval <cards...>             evaluate the best five-card hand of 5 to 7 cards
  equity -p <hole> -p <hole>  equity of known hands (exact or sampled)
  random <hole>               equity of one hand against random opponents
  outs <hole> -board <cards>  count the cards that reach a target on the next street
  showdown -p <hole> -p ...   deal a hand to the river and rank the players
  advise <hole>               suggest an action from equity, pot odds and position
  serve                       run the HTTP and websocket API

Run "pokerodds <command> -h" for the flags of a command.
`

// usageError marks errors in the command line itself.
type usageError struct{ error }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// app carries what every command needs.
type app struct {
	cfg    config.Config
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

// Run executes the command line and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprint(stderr, pterm.Error.Sprintln(err))
		return ExitError
	}

	a := &app{
		cfg:    cfg,
		stdout: stdout,
		stderr: stderr,
		logger: newLogger(stderr, cfg.LogLevel),
	}

	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return ExitUsage
	}

	var cmd func(context.Context, []string) error
	switch args[0] {
	case "eval":
		cmd = a.eval
	case "equity":
		cmd = a.equity
	case "random":
		cmd = a.random
	case "outs":
		cmd = a.outs
	case "showdown":
		cmd = a.showdown
	case "advise":
		cmd = a.advise
	case "serve":
		cmd = a.serve
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return ExitOK
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return ExitUsage
	}

	err = cmd(ctx, args[1:])
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, flag.ErrHelp):
		return ExitOK
	case errors.As(err, new(usageError)):
		fmt.Fprint(stderr, pterm.Error.Sprintln(err))
		return ExitUsage
	default:
		fmt.Fprint(stderr, pterm.Error.Sprintln(err))
		return ExitError
	}
}

// newLogger routes slog through pterm's logger.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	plevel := pterm.LogLevelInfo
	switch {
	case level <= slog.LevelDebug:
		plevel = pterm.LogLevelDebug
	case level >= slog.LevelError:
		plevel = pterm.LogLevelError
	case level >= slog.LevelWarn:
		plevel = pterm.LogLevelWarn
	}
	logger := pterm.DefaultLogger.WithWriter(w).WithLevel(plevel)
	return slog.New(pterm.NewSlogHandler(logger))
}

func (a *app) flagSet(name, args string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprintf(a.stderr, "usage: pokerodds %s %s\n\nflags:\n", name, args)
		fs.PrintDefaults()
	}
	return fs
}

// parse parses flags anywhere on the line and returns the positional
// arguments in order.
func parse(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, err
			}
			return nil, usageError{err}
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// multiFlag collects a repeated string flag.
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ", ") }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

// calcFlags are the calculator settings shared by equity and random.
type calcFlags struct {
	threshold int64
	trials    int
	seed      *int64
	workers   int
	ranker    string
	timeout   time.Duration
	debug     bool
	dist      bool
}

func (c *calcFlags) register(fs *flag.FlagSet, cfg config.Config) {
	c.seed = cfg.Seed
	fs.Int64Var(&c.threshold, "threshold", cfg.ExactnessThreshold, "largest number of boards enumerated exactly")
	fs.IntVar(&c.trials, "trials", cfg.Trials, "Monte Carlo trials when sampling")
	fs.Func("seed", "RNG seed for reproducible sampling", func(v string) error {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		c.seed = &n
		return nil
	})
	fs.IntVar(&c.workers, "workers", cfg.Workers, "concurrent workers (0 = all CPUs)")
	fs.StringVar(&c.ranker, "ranker", cfg.Ranker, "hand ranker: native or table")
	fs.DurationVar(&c.timeout, "timeout", 0, "stop after this long and print the partial result")
	fs.BoolVar(&c.debug, "debug", false, "dump the raw report")
	fs.BoolVar(&c.dist, "dist", false, "print the final hand distribution")
}

func (c *calcFlags) calculator(logger *slog.Logger) (*odds.Calculator, error) {
	if c.threshold < 0 {
		return nil, usagef("-threshold must not be negative")
	}
	if c.trials <= 0 {
		return nil, usagef("-trials must be positive")
	}
	ranker, err := odds.ParseRanker(c.ranker)
	if err != nil {
		return nil, usageError{err}
	}
	return odds.NewCalculator(odds.Config{
		ExactnessThreshold: c.threshold,
		Trials:             c.trials,
		Seed:               c.seed,
		Workers:            c.workers,
		Ranker:             ranker,
	}, odds.WithLogger(logger)), nil
}

func (c *calcFlags) context(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}
