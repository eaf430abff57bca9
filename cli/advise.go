package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/lazharichir/pokerodds/odds"
	"github.com/lazharichir/pokerodds/server/api"
	"github.com/pterm/pterm"
)

func (a *app) advise(ctx context.Context, args []string) error {
	fs := a.flagSet("advise", "<hole> [flags]")
	style := a.cfg.Advisor()
	req := api.AdviseRequest{
		Aggression:     &style.Aggression,
		BluffFrequency: &style.BluffFrequency,
		Tightness:      &style.Tightness,
	}
	fs.StringVar(&req.Board, "board", "", "community cards: none, 3, 4 or 5 of them")
	fs.StringVar(&req.Position, "position", "co", "table position: utg, utg+1, mp, hj, co, btn, sb, bb or 0-7")
	fs.Func("seat", "seat counted from UTG, instead of -position", func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		req.Seat = &n
		return nil
	})
	fs.IntVar(&req.Players, "players", 0, "players dealt in, for -seat (default opponents + 1)")
	fs.IntVar(&req.Opponents, "opponents", 5, "opponents still in the hand")
	fs.Float64Var(&req.Pot, "pot", 1.5, "pot size in big blinds")
	fs.Float64Var(&req.ToCall, "to-call", 0, "amount to call in big blinds")
	fs.Float64Var(&req.Stack, "stack", 100, "remaining stack in big blinds (0 if unknown)")
	fs.Float64Var(&req.Invested, "invested", 0, "chips already put in this hand, in big blinds")
	fs.Float64Var(req.Aggression, "aggression", style.Aggression, "0 (passive) to 1 (aggressive)")
	fs.Float64Var(req.BluffFrequency, "bluff", style.BluffFrequency, "base bluff chance from 0 to 1")
	fs.Float64Var(req.Tightness, "tightness", style.Tightness, "0 (loose) to 1; above 0.7 plays one range tier tighter")
	fs.IntVar(&style.Trials, "trials", style.Trials, "Monte Carlo trials for the postflop equity")
	fs.Func("seed", "RNG seed for reproducible advice", func(v string) error {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		req.Seed = &n
		return nil
	})

	rest, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		fs.Usage()
		return usagef("expected exactly one hand, got %d", len(rest))
	}
	if style.Trials <= 0 {
		return usagef("-trials must be positive")
	}
	req.Hole = rest[0]
	if req.Seat != nil {
		req.Position = ""
	}

	calc := odds.NewCalculator(odds.DefaultConfig(), odds.WithLogger(a.logger))
	resp, err := api.Advise(ctx, req, calc, style, a.logger)
	if err != nil {
		return err
	}

	rows := pterm.TableData{
		{"Hand", fmt.Sprintf("%s (%s)", req.Hole, resp.Hand)},
		{"Position", resp.Position.String()},
		{"Street", string(resp.Street)},
		{"Pot", fmt.Sprintf("%.1f BB, %.1f to call", req.Pot, req.ToCall)},
	}
	if req.ToCall > 0 {
		rows = append(rows, []string{"Pot odds", percent(resp.PotOdds)})
	}
	if resp.Equity != nil {
		rows = append(rows, []string{"Equity", percent(*resp.Equity)})
	}
	if resp.SPR != nil {
		rows = append(rows, []string{"SPR", fmt.Sprintf("%.1f", *resp.SPR)})
	}
	table, err := pterm.DefaultTable.WithData(rows).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, table)

	fmt.Fprint(a.stdout, pterm.Success.Sprintfln("%s: %s", resp.Action, resp.Reason))
	fmt.Fprint(a.stdout, pterm.Info.Sprintfln("confidence %.0f%%", resp.Confidence*100))
	return nil
}
