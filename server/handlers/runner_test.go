package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/lazharichir/pokerodds/cache"
	"github.com/lazharichir/pokerodds/events"
	"github.com/lazharichir/pokerodds/odds"
	"github.com/lazharichir/pokerodds/server/api"
	"github.com/lazharichir/pokerodds/server/connection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mutex  sync.Mutex
	events []events.Event
}

func (r *recorder) publish(e events.Event) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) names() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	var names []string
	for _, e := range r.events {
		names = append(names, e.EventName())
	}
	return names
}

func newRunner(cfg odds.Config, c cache.ResultCache) (*Runner, *recorder) {
	rec := &recorder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRunner(odds.NewCalculator(cfg, odds.WithLogger(logger)), c, rec.publish, logger), rec
}

var flop = api.EquityRequest{Players: []string{"As Ah", "Kd Kc"}, Board: "2c 7d 9h"}

func TestRunner_Run(t *testing.T) {
	mem := cache.NewMemory(time.Hour)
	runner, rec := newRunner(odds.DefaultConfig(), mem)

	resp, err := runner.Run(context.Background(), "a", flop)
	require.NoError(t, err)
	assert.Equal(t, "a", resp.RunID)
	assert.Equal(t, int64(990), resp.Completed)
	assert.False(t, resp.Cached)
	assert.Equal(t, 1, mem.Len())
	assert.False(t, runner.Active("a"))

	resp, err = runner.Run(context.Background(), "b", flop)
	require.NoError(t, err)
	assert.True(t, resp.Cached)

	assert.Equal(t, []string{"RUN_STARTED", "RUN_FINISHED", "RUN_STARTED", "RUN_FINISHED"}, rec.names())
}

func TestRunner_UnseededSamplesAreNotCached(t *testing.T) {
	mem := cache.NewMemory(time.Hour)
	runner, _ := newRunner(odds.Config{ExactnessThreshold: 0, Trials: 1024}, mem)

	_, err := runner.Run(context.Background(), "a", flop)
	require.NoError(t, err)
	assert.Zero(t, mem.Len())

	seed := int64(11)
	req := flop
	req.Seed = &seed
	_, err = runner.Run(context.Background(), "b", req)
	require.NoError(t, err)
	assert.Equal(t, 1, mem.Len())
}

func TestRunner_InvalidInputFails(t *testing.T) {
	runner, rec := newRunner(odds.DefaultConfig(), nil)

	_, err := runner.Run(context.Background(), "bad", api.EquityRequest{Players: []string{"As Ah", "Ah Kd"}})
	assert.ErrorIs(t, err, odds.ErrCardConflict)
	assert.True(t, api.IsInputError(err))
	assert.Equal(t, []string{"RUN_FAILED"}, rec.names())

	err = runner.Start("bad2", api.EquityRequest{Players: []string{"As Ah"}, Opponents: -1})
	assert.ErrorIs(t, err, api.ErrBadRequest)
}

func TestRunner_StartAndCancel(t *testing.T) {
	runner, rec := newRunner(odds.Config{ExactnessThreshold: odds.DefaultExactnessThreshold, Workers: 1}, nil)

	require.NoError(t, runner.Start("long", api.EquityRequest{Players: []string{"As Ah", "Kd Kc"}}))
	assert.ErrorIs(t, runner.Start("long", flop), ErrRunExists)
	require.NoError(t, runner.Cancel("long"))
	runner.Wait()

	assert.Equal(t, []string{"RUN_STARTED", "RUN_CANCELLED"}, rec.names())
	assert.ErrorIs(t, runner.Cancel("long"), ErrUnknownRun)

	cancelled := rec.events[1].(events.RunCancelled)
	assert.True(t, cancelled.Report.Partial)
}

func TestCommandRouter(t *testing.T) {
	runner, rec := newRunner(odds.DefaultConfig(), nil)
	connMgr := connection.NewManager()
	client := connection.NewClient("c1", nil)
	connMgr.Register(client)
	router := NewCommandRouter(runner, connMgr, nil)

	msg, err := json.Marshal(map[string]any{
		"name":    "START_EQUITY",
		"runId":   "r1",
		"players": []string{"Qs Qd", "7c 8c"},
		"board":   "Th 9c 2h",
	})
	require.NoError(t, err)
	require.NoError(t, router.HandleCommand(client, msg))
	assert.True(t, connMgr.IsClientWatchingRun("c1", "r1"))
	runner.Wait()
	assert.Equal(t, []string{"RUN_STARTED", "RUN_FINISHED"}, rec.names())

	assert.ErrorIs(t, router.HandleCommand(client, []byte(`{"name":"NOPE"}`)), ErrUnknownCommand)
	assert.ErrorIs(t, router.HandleCommand(client, []byte(`{`)), api.ErrBadRequest)
	assert.ErrorIs(t, router.HandleCommand(client, []byte(`{"name":"CANCEL_RUN","runId":"other"}`)), ErrUnknownRun)
}

func TestRunner_RunningIDFailsWithoutEvents(t *testing.T) {
	runner, rec := newRunner(odds.Config{ExactnessThreshold: odds.DefaultExactnessThreshold, Workers: 1}, nil)

	require.NoError(t, runner.Start("long", api.EquityRequest{Players: []string{"As Ah", "Kd Kc"}}))
	err := runner.Start("long", api.EquityRequest{Players: []string{"As Ah", "As Kc"}})
	assert.ErrorIs(t, err, ErrRunExists)
	assert.True(t, runner.Active("long"))

	require.NoError(t, runner.Cancel("long"))
	runner.Wait()
	assert.Equal(t, []string{"RUN_STARTED", "RUN_CANCELLED"}, rec.names())
}

func TestCommandRouter_UnregisteredClient(t *testing.T) {
	runner, rec := newRunner(odds.DefaultConfig(), nil)
	router := NewCommandRouter(runner, connection.NewManager(), nil)

	err := router.HandleCommand(connection.NewClient("ghost", nil), []byte(`{"name":"START_EQUITY","players":["As Ah","Kd Kc"]}`))
	assert.ErrorIs(t, err, ErrUnknownClient)
	assert.Empty(t, rec.names())
}

func TestCommandRouter_FailedStartUnsubscribes(t *testing.T) {
	runner, _ := newRunner(odds.DefaultConfig(), nil)
	connMgr := connection.NewManager()
	client := connection.NewClient("c1", nil)
	connMgr.Register(client)
	router := NewCommandRouter(runner, connMgr, nil)

	err := router.HandleCommand(client, []byte(`{"name":"START_EQUITY","runId":"bad","players":["As Ah","As Kc"]}`))
	assert.ErrorIs(t, err, odds.ErrCardConflict)
	assert.False(t, connMgr.IsClientWatchingRun("c1", "bad"))
	assert.Empty(t, connMgr.ClientRuns("c1"))
}

func TestCommandRouter_SameRunIDFromTwoClients(t *testing.T) {
	runner, _ := newRunner(odds.Config{ExactnessThreshold: odds.DefaultExactnessThreshold, Workers: 1}, nil)
	connMgr := connection.NewManager()
	router := NewCommandRouter(runner, connMgr, nil)
	t.Cleanup(func() {
		runner.CancelAll()
		runner.Wait()
	})

	clients := []*connection.Client{connection.NewClient("c1", nil), connection.NewClient("c2", nil)}
	for _, c := range clients {
		connMgr.Register(c)
	}

	msg := []byte(`{"name":"START_EQUITY","runId":"shared","players":["As Ah","Kd Kc"]}`)
	errs := make([]error, len(clients))
	var wg sync.WaitGroup
	for i, c := range clients {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = router.HandleCommand(c, msg)
		}()
	}
	wg.Wait()

	var winner, loser int
	switch {
	case errs[0] == nil && errs[1] != nil:
		winner, loser = 0, 1
	case errs[1] == nil && errs[0] != nil:
		winner, loser = 1, 0
	default:
		t.Fatalf("want exactly one start to succeed, got %v", errs)
	}
	assert.ErrorIs(t, errs[loser], ErrRunExists)

	assert.True(t, connMgr.IsClientWatchingRun(clients[winner].ID, "shared"))
	assert.False(t, connMgr.IsClientWatchingRun(clients[loser].ID, "shared"))

	cancel := []byte(`{"name":"CANCEL_RUN","runId":"shared"}`)
	assert.ErrorIs(t, router.HandleCommand(clients[loser], cancel), ErrUnknownRun)
	assert.True(t, runner.Active("shared"))
	assert.NoError(t, router.HandleCommand(clients[winner], cancel))
}

func TestCommandRouter_FinishedRunIDIsNotReused(t *testing.T) {
	store := events.NewInMemoryEventStore(0)
	rec := &recorder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	runner := NewRunner(odds.NewCalculator(odds.DefaultConfig(), odds.WithLogger(logger)), nil, func(e events.Event) {
		rec.publish(e)
		_ = store.Append(e)
	}, logger)
	connMgr := connection.NewManager()
	client := connection.NewClient("c1", nil)
	connMgr.Register(client)
	router := NewCommandRouter(runner, connMgr, store)

	msg := []byte(`{"name":"START_EQUITY","runId":"r1","players":["Qs Qd","7c 8c"],"board":"Th 9c 2h"}`)
	require.NoError(t, router.HandleCommand(client, msg))
	runner.Wait()

	assert.ErrorIs(t, router.HandleCommand(client, msg), ErrRunIDTaken)
	runner.Wait()

	history, err := store.LoadEvents("r1")
	require.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, []string{"RUN_STARTED", "RUN_FINISHED"}, rec.names())
}
