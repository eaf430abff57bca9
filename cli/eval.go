package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/lazharichir/pokerodds/hands"
	"github.com/lazharichir/pokerodds/odds"
	"github.com/lazharichir/pokerodds/server/api"
	"github.com/pterm/pterm"
)

func (a *app) eval(_ context.Context, args []string) error {
	fs := a.flagSet("eval", "<cards...>")
	rest, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		fs.Usage()
		return usagef("no cards given")
	}

	resp, err := api.Evaluate(api.EvaluateRequest{Cards: strings.Join(rest, " ")})
	if err != nil {
		return err
	}

	fmt.Fprint(a.stdout, pterm.Success.Sprintln(resp.Description))
	table, err := pterm.DefaultTable.WithData(pterm.TableData{
		{"Category", resp.Category.String()},
		{"Best five", strings.Join(resp.Best, " ")},
		{"Tie break", strings.Join(resp.TieBreak, " ")},
		{"Value", fmt.Sprintf("%#08x", resp.Value)},
	}).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, table)
	return nil
}

func (a *app) outs(_ context.Context, args []string) error {
	fs := a.flagSet("outs", "<hole> -board <cards> [flags]")
	var board, dead, target string
	fs.StringVar(&board, "board", "", "community cards, 3 or 4 of them")
	fs.StringVar(&dead, "dead", "", "cards known to be out of play")
	fs.StringVar(&target, "target", "improve", "a hand category such as flush, or improve")

	rest, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		fs.Usage()
		return usagef("expected exactly one hand, got %d", len(rest))
	}
	if _, err := odds.ParseTarget(target); err != nil {
		return usageError{err}
	}

	calc := odds.NewCalculator(odds.DefaultConfig(), odds.WithLogger(a.logger))
	resp, err := api.Outs(api.OutsRequest{Player: rest[0], Board: board, Dead: dead, Target: target}, calc)
	if err != nil {
		return err
	}

	fmt.Fprint(a.stdout, pterm.Info.Sprintfln("holding %s, drawing to %s", resp.Current, resp.Target))
	data := pterm.TableData{{"Hand", "Outs", "Cards"}}
	for i := len(hands.Categories) - 1; i >= 0; i-- {
		name := hands.Categories[i].String()
		if outs, ok := resp.ByCategory[name]; ok && len(outs) > 0 {
			data = append(data, []string{name, fmt.Sprintf("%d", len(outs)), strings.Join(outs, " ")})
		}
	}
	if len(data) > 1 {
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, table)
	}

	fmt.Fprint(a.stdout, pterm.Success.Sprintfln("%d outs of %d unseen cards: %s next card, %s by the river",
		resp.Outs, resp.Remaining, percent(resp.Probability), percent(resp.ByRiver)))
	return nil
}
