package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lazharichir/pokerodds/server/api"
	"github.com/pterm/pterm"
)

func (a *app) showdown(_ context.Context, args []string) error {
	fs := a.flagSet("showdown", "-p <hole|random> -p <hole|random> [flags]")
	var players multiFlag
	var board, dead string
	var seed *int64
	fs.Var(&players, "p", "a player's hole cards, or \"random\" to deal them (repeat per player)")
	fs.StringVar(&board, "board", "", "known community cards; the rest are dealt")
	fs.StringVar(&dead, "dead", "", "cards known to be out of play")
	fs.Func("seed", "shuffle seed for a reproducible deal", func(v string) error {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		seed = &n
		return nil
	})

	rest, err := parse(fs, args)
	if err != nil {
		return err
	}
	players = append(players, rest...)
	if len(players) == 0 {
		fs.Usage()
		return usagef("at least one -p is required")
	}

	resp, err := api.Showdown(api.ShowdownRequest{Players: players, Board: board, Dead: dead, Seed: seed})
	if err != nil {
		return err
	}

	fmt.Fprint(a.stdout, pterm.Info.Sprintfln("board %s (seed %d)", strings.Join(resp.Board, " "), resp.Seed))
	data := pterm.TableData{{"Place", "Player", "Hole", "Hand", "Best five"}}
	for _, p := range resp.Players {
		hole := strings.Join(p.Cards, " ")
		if p.Dealt {
			hole += " (dealt)"
		}
		data = append(data, []string{
			strconv.Itoa(p.Place),
			strconv.Itoa(p.Player),
			hole,
			p.Description,
			strings.Join(p.Best, " "),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, table)

	var winners []string
	for _, p := range resp.Players {
		if p.Winner {
			winners = append(winners, strconv.Itoa(p.Player))
		}
	}
	if len(winners) > 1 {
		fmt.Fprint(a.stdout, pterm.Success.Sprintfln("players %s split the pot", strings.Join(winners, ", ")))
	} else {
		fmt.Fprint(a.stdout, pterm.Success.Sprintfln("player %s wins with %s", winners[0], resp.Players[0].Description))
	}
	return nil
}
