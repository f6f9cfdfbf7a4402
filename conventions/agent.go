package conventions

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/calico-games/hanab-agent/engine"
)

// Convention level gates. A feature is active when the agent's level is at
// or above the gate; the level is threaded explicitly through every check,
// never read from ambient state.
const (
	LevelBasicCM     = 4 // trash chop moves, 5's chop moves, order chop moves
	LevelTempoClues  = 6 // tempo chop moves
	LevelLastResorts = 7 // scream discards, garbage-discard unlocks, anxiety plays
)

// Agent is the action-selection engine for one seat at one table. All of its
// decision procedures are pure over the bundled game; hypothetical branches
// are taken on clones and never mutate the live game.
type Agent struct {
	*Game
	Level   int
	TableID uuid.UUID
	log     logrus.FieldLogger
}

// NewAgent wraps a game with the given convention level and table identity.
func NewAgent(game *Game, level int, tableID uuid.UUID, log logrus.FieldLogger) *Agent {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Agent{Game: game, Level: level, TableID: tableID, log: log}
}

// branch wraps a hypothetical game with the agent's own configuration.
func (a *Agent) branch(game *Game) *Agent {
	return &Agent{Game: game, Level: a.Level, TableID: a.TableID, log: a.log}
}

// SimulateClue returns a hypothetical agent in which the clue has been
// given. The receiver is untouched.
func (a *Agent) SimulateClue(clue engine.Clue) (*Agent, int, error) {
	game, elim, err := a.Game.SimulateClue(clue)
	if err != nil {
		return nil, 0, err
	}
	return a.branch(game), elim, nil
}

// Us returns our own belief view.
func (a *Agent) Us() *Player { return a.Players[a.State.OurPlayerIndex] }

// OurHand returns our own card orders.
func (a *Agent) OurHand() []int { return a.State.Hands[a.State.OurPlayerIndex] }

// stallSeverity rates how obligated the current player is to stall: 0 none,
// 1 early game, 2 at the token ceiling, 3 with a locked player at the table.
func (a *Agent) stallSeverity() int {
	for i, p := range a.Players {
		if p.ThinksLocked(a.State, a.State.Hands[i]) {
			return 3
		}
	}
	if a.State.ClueTokens == engine.MaxClueTokens {
		return 2
	}
	if a.State.EarlyGame {
		return 1
	}
	return 0
}

// earlyGameExpectedClue predicts whether an in-between player already has an
// obvious early-game clue to give (an untouched 5 to stall on), making an
// urgent problem for a later player less pressing for us.
func (a *Agent) earlyGameExpectedClue(target int) bool {
	if !a.State.EarlyGame || a.State.ClueTokens == 0 {
		return false
	}
	for i, hand := range a.State.Hands {
		if i == a.State.OurPlayerIndex || i == target {
			continue
		}
		for _, order := range hand {
			card := a.State.Card(order)
			if card.Rank == engine.MaxRank && !card.Clued {
				return true
			}
		}
	}
	return false
}

// turnDistance returns how many turns until the player acts after us.
func (a *Agent) turnDistance(player int) int {
	d := (player - a.State.OurPlayerIndex + a.State.NumPlayers) % a.State.NumPlayers
	return d
}

// playerAtDistance returns the player acting d turns after us.
func (a *Agent) playerAtDistance(d int) int {
	return (a.State.OurPlayerIndex + d) % a.State.NumPlayers
}
