package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/lazharichir/pokerodds/hands"
	"github.com/lazharichir/pokerodds/odds"
	"github.com/lazharichir/pokerodds/server/api"
	"github.com/pterm/pterm"
	"github.com/sanity-io/litter"
)

func (a *app) equity(ctx context.Context, args []string) error {
	fs := a.flagSet("equity", "-p <hole> -p <hole> [flags]")
	var players multiFlag
	var board, dead string
	var calc calcFlags
	fs.Var(&players, "p", "a player's hole cards, e.g. \"As Ah\" (repeat per player)")
	fs.StringVar(&board, "board", "", "known community cards")
	fs.StringVar(&dead, "dead", "", "cards known to be out of play")
	calc.register(fs, a.cfg)

	rest, err := parse(fs, args)
	if err != nil {
		return err
	}
	// bare arguments are more players
	players = append(players, rest...)
	if len(players) == 0 {
		fs.Usage()
		return usagef("at least one -p is required")
	}

	return a.runEquity(ctx, &calc, api.EquityRequest{Players: players, Board: board, Dead: dead})
}

func (a *app) random(ctx context.Context, args []string) error {
	fs := a.flagSet("random", "<hole> [flags]")
	var board, dead string
	var opponents int
	var calc calcFlags
	fs.StringVar(&board, "board", "", "known community cards")
	fs.StringVar(&dead, "dead", "", "cards known to be out of play")
	fs.IntVar(&opponents, "opponents", 1, "number of opponents holding random cards")
	calc.register(fs, a.cfg)

	rest, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		fs.Usage()
		return usagef("expected exactly one hand, got %d", len(rest))
	}
	if opponents < 1 {
		return usagef("-opponents must be at least 1")
	}

	return a.runEquity(ctx, &calc, api.EquityRequest{Players: rest, Board: board, Dead: dead, Opponents: opponents})
}

func (a *app) runEquity(ctx context.Context, flags *calcFlags, req api.EquityRequest) error {
	in, err := req.Parse()
	if err != nil {
		return err
	}
	calc, err := flags.calculator(a.logger)
	if err != nil {
		return err
	}

	ctx, cancel := flags.context(ctx)
	defer cancel()

	begin := time.Now()
	report, err := in.Run(ctx, calc)
	if err != nil {
		return err
	}
	elapsed := time.Since(begin)

	resp := api.NewEquityResponse("", in.Labels(), report, false)
	if err := a.renderEquity(resp, elapsed); err != nil {
		return err
	}
	if flags.dist {
		if err := a.renderDistribution(resp); err != nil {
			return err
		}
	}
	if flags.debug {
		fmt.Fprintln(a.stdout, litter.Sdump(report))
	}
	return nil
}

func percent(f float64) string {
	return fmt.Sprintf("%.2f%%", 100*f)
}

func (a *app) renderEquity(resp api.EquityResponse, elapsed time.Duration) error {
	data := pterm.TableData{{"Player", "Cards", "Win", "Tie", "Equity"}}
	for i, p := range resp.Players {
		data = append(data, []string{
			fmt.Sprintf("%d", i+1),
			p.Cards,
			percent(p.Win),
			percent(p.Tie),
			percent(p.Equity),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, table)

	switch resp.Mode {
	case odds.ModeExact:
		fmt.Fprint(a.stdout, pterm.Info.Sprintfln("exact over %d boards in %s", resp.Completed, elapsed.Round(time.Millisecond)))
	default:
		fmt.Fprint(a.stdout, pterm.Info.Sprintfln("sampled %d trials in %s (seed %d)", resp.Completed, elapsed.Round(time.Millisecond), resp.Seed))
	}
	if resp.Partial {
		fmt.Fprint(a.stdout, pterm.Warning.Sprintfln("partial result: %d of %d completed", resp.Completed, resp.Requested))
	}
	return nil
}

// renderDistribution prints how often each player finishes with each category.
func (a *app) renderDistribution(resp api.EquityResponse) error {
	header := []string{"Hand"}
	for i := range resp.Players {
		header = append(header, fmt.Sprintf("Player %d", i+1))
	}
	data := pterm.TableData{header}
	for i := len(hands.Categories) - 1; i >= 0; i-- {
		c := hands.Categories[i]
		row := []string{c.String()}
		for _, p := range resp.Players {
			row = append(row, percent(p.Categories[c.String()]))
		}
		data = append(data, row)
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, table)
	return nil
}
