// Command hanab-agent decides one action from a game snapshot, or connects
// to a hanab.live-compatible server and answers snapshots as they arrive.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/calico-games/hanab-agent/conventions"
	"github.com/calico-games/hanab-agent/engine"
	"github.com/calico-games/hanab-agent/internal/config"
)

func main() {
	statePath := flag.String("state", "", "path to a JSON game snapshot; decide once and exit")
	serverURL := flag.String("server", "", "websocket server URL (overrides HANAB_SERVER_URL)")
	level := flag.Int("level", 0, "convention level (overrides HANAB_LEVEL)")
	flag.Parse()

	// A missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("loading configuration")
	}
	if *level > 0 {
		cfg.Level = *level
	}
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}

	log := logrus.New()
	log.SetLevel(cfg.LogLevel)

	switch {
	case *statePath != "":
		if err := decideOnce(*statePath, cfg, log); err != nil {
			log.WithError(err).Fatal("deciding from snapshot")
		}
	case cfg.ServerURL != "":
		if err := serve(cfg, log); err != nil {
			log.WithError(err).Fatal("client session ended")
		}
	default:
		fmt.Fprintln(os.Stderr, "usage: hanab-agent -state snapshot.json | -server ws://host")
		os.Exit(2)
	}
}

// snapshot is the wire form of a fully-specified game state.
type snapshot struct {
	TableID        string       `json:"tableId"`
	NumPlayers     int          `json:"numPlayers"`
	OurPlayerIndex int          `json:"ourPlayerIndex"`
	ClueTokens     int          `json:"clueTokens"`
	Strikes        int          `json:"strikes"`
	EarlyGame      bool         `json:"earlyGame"`
	PlayStacks     []int        `json:"playStacks"`
	Discards       []wireCard   `json:"discards"`
	Hands          [][]wireCard `json:"hands"`
}

type wireCard struct {
	SuitIndex int  `json:"suitIndex"`
	Rank      int  `json:"rank"`
	Clued     bool `json:"clued"`
	ChopMoved bool `json:"chopMoved"`
	Finessed  bool `json:"finessed"`
	Focused   bool `json:"focused"`
}

type decision struct {
	TableID string `json:"tableId"`
	Type    string `json:"type"`
	Target  int    `json:"target"`
	Value   int    `json:"value,omitempty"`
}

// buildAgent reconstructs a Game from the snapshot. Hands arrive newest
// slot first; cards are assigned fresh orders in hand sequence.
func buildAgent(snap snapshot, cfg *config.Config, log logrus.FieldLogger) (*conventions.Agent, error) {
	if snap.NumPlayers < 2 || snap.NumPlayers > 6 {
		return nil, fmt.Errorf("unsupported player count %d", snap.NumPlayers)
	}
	state := engine.NewGame(engine.NoVariant(), snap.NumPlayers, snap.OurPlayerIndex)
	game := conventions.NewGame(state)

	for player := len(snap.Hands) - 1; player >= 0; player-- {
		hand := snap.Hands[player]
		// Deal oldest first so the newest card lands in slot 0.
		for i := len(hand) - 1; i >= 0; i-- {
			wc := hand[i]
			card := game.Draw(player, engine.Identity{SuitIndex: wc.SuitIndex, Rank: wc.Rank})
			card.Clued = wc.Clued
			t := game.Players[player].Thoughts[card.Order]
			t.ChopMoved = wc.ChopMoved
			t.Finessed = wc.Finessed
			t.Focused = wc.Focused
		}
	}

	copy(state.PlayStacks, snap.PlayStacks)
	for _, wc := range snap.Discards {
		state.DiscardCounts[wc.SuitIndex][wc.Rank-1]++
	}
	state.ClueTokens = snap.ClueTokens
	state.Strikes = snap.Strikes
	state.EarlyGame = snap.EarlyGame
	for i := range game.Players {
		game.Players[i].UpdateHypoStacks(state)
	}

	tableID, err := uuid.Parse(snap.TableID)
	if err != nil {
		tableID = uuid.New()
	}
	return conventions.NewAgent(game, cfg.Level, tableID, log), nil
}

func decideOnce(path string, cfg *config.Config, log *logrus.Logger) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("decoding snapshot: %w", err)
	}
	agent, err := buildAgent(snap, cfg, log)
	if err != nil {
		return err
	}
	action := agent.TakeAction()
	return json.NewEncoder(os.Stdout).Encode(toDecision(action))
}

// serve connects to the server and answers every snapshot with a decision.
func serve(cfg *config.Config, log *logrus.Logger) error {
	ctx := context.Background()
	conn, _, err := websocket.Dial(ctx, cfg.ServerURL, nil)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", cfg.ServerURL, err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")
	log.WithField("server", cfg.ServerURL).Info("connected")

	for {
		_, raw, err := conn.Read(ctx)
		if err != nil {
			return fmt.Errorf("reading message: %w", err)
		}
		var snap snapshot
		if err := json.Unmarshal(raw, &snap); err != nil {
			log.WithError(err).Warn("ignoring malformed snapshot")
			continue
		}
		agent, err := buildAgent(snap, cfg, log)
		if err != nil {
			log.WithError(err).Warn("ignoring unusable snapshot")
			continue
		}

		start := time.Now()
		action := agent.TakeAction()
		log.WithFields(logrus.Fields{
			"table":   snap.TableID,
			"elapsed": time.Since(start),
		}).Info("decided")

		reply, err := json.Marshal(toDecision(action))
		if err != nil {
			return fmt.Errorf("encoding decision: %w", err)
		}
		if err := conn.Write(ctx, websocket.MessageText, reply); err != nil {
			return fmt.Errorf("sending decision: %w", err)
		}
	}
}

func toDecision(action engine.Action) decision {
	d := decision{TableID: action.TableID.String(), Target: action.Target, Value: action.Value}
	switch action.Type {
	case engine.ActionPlay:
		d.Type = "play"
	case engine.ActionDiscard:
		d.Type = "discard"
	case engine.ActionColourClue:
		d.Type = "colour_clue"
	case engine.ActionRankClue:
		d.Type = "rank_clue"
	}
	return d
}
