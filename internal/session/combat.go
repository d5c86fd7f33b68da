package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/tatianab/adventure-engine/internal/generator"
	"github.com/tatianab/adventure-engine/internal/state"
)

// defaultStrategy is used when the player declines to pick one.
const defaultStrategy = "defend"

// combatant is one NPC's ephemeral combat view. original keeps the verbatim
// pre-combat record so non-combat fields survive the encounter.
type combatant struct {
	id       string
	name     string
	hp       int
	stats    generator.CombatantStats
	original state.NPC
}

// combatRecord is the ephemeral state of the active encounter; it is
// discarded when combat ends.
type combatRecord struct {
	turn        int
	playerHP    int
	playerStats generator.CombatantStats
	npcs        []*combatant
	strategies  []generator.Strategy
	ended       bool
	victor      string
	lastSummary string
}

func (r *combatRecord) living() []*combatant {
	var out []*combatant
	for _, n := range r.npcs {
		if n.hp > 0 {
			out = append(out, n)
		}
	}
	return out
}

// initiateCombat snapshots the player's and each target NPC's combat stats
// and enters the combat loop. A missing NPC aborts the encounter; a missing
// model ends the session.
func (c *Controller) initiateCombat(ctx context.Context, npcIDs []string) {
	if c.modelID == "" {
		c.gameOver("No generation model is configured; combat cannot be resolved.")
		return
	}
	snapshot := c.store.Snapshot()

	rec := &combatRecord{
		playerHP: snapshot.Player.Attributes.CurrentHP,
		playerStats: generator.CombatantStats{
			ID:            "player",
			Name:          "You",
			MaxHP:         snapshot.Player.Attributes.MaxHP,
			AttackPower:   snapshot.Player.Attributes.AttackPower,
			DefensePower:  snapshot.Player.Attributes.DefensePower,
			EvasionChance: snapshot.Player.Attributes.EvasionChance,
			HitChance:     snapshot.Player.Attributes.HitChance,
		},
		strategies: []generator.Strategy{
			{ID: "attack", Name: "Attack"},
			{ID: "defend", Name: "Defend"},
			{ID: "observe", Name: "Observe your opponent"},
		},
	}
	var names []string
	for _, id := range npcIDs {
		npc, ok := snapshot.NPCs[id]
		if !ok {
			c.log.Error().Str("npc_id", id).Msg("combat target not found")
			c.ui.ShowMessage(LevelError, "Your opponent is nowhere to be found.")
			return
		}
		rec.npcs = append(rec.npcs, &combatant{
			id:   id,
			name: npc.Name,
			hp:   npc.Attributes.CurrentHP,
			stats: generator.CombatantStats{
				ID:            id,
				Name:          npc.Name,
				MaxHP:         npc.Attributes.MaxHP,
				AttackPower:   npc.Attributes.AttackPower,
				DefensePower:  npc.Attributes.DefensePower,
				EvasionChance: npc.Attributes.EvasionChance,
				HitChance:     npc.Attributes.HitChance,
			},
			original: npc,
		})
		names = append(names, npc.Name)
	}

	c.combat = rec
	c.st = StateInCombat
	c.store.LogEvent(fmt.Sprintf("Combat started against %v.", names), state.EventCombatStart, npcIDs, nil)
	c.combatLoop(ctx)
}

// combatLoop runs turns until the encounter ends. Local HP state is the
// authoritative determinant of the end; the generator's combat_ended flag
// is narrative framing only.
func (c *Controller) combatLoop(ctx context.Context) {
	rec := c.combat
	for c.st == StateInCombat {
		living := rec.living()
		if len(living) == 0 && !rec.ended {
			rec.ended = true
			rec.victor = "player"
			rec.lastSummary += " All opponents defeated!"
		}
		if rec.ended {
			break
		}
		rec.turn++

		c.ui.RenderCombatState(rec.turn, rec.currentPlayerStats(), statsOf(living))
		strategy, err := c.ui.ChooseStrategy(rec.strategies)
		if err != nil || strategy == "" {
			strategy = defaultStrategy
		}
		c.processCombatTurn(ctx, strategy)
	}
	if c.st != StateGameOver {
		c.endCombat()
	}
}

// processCombatTurn resolves one turn with the generator and re-checks the
// end conditions locally, independent of what the generator signaled.
func (c *Controller) processCombatTurn(ctx context.Context, strategy string) {
	rec := c.combat
	living := rec.living()

	prompt, err := c.prompts.CombatTurnPrompt(strategy, rec.turn, rec.currentPlayerStats(), statsOf(living))
	var turn generator.CombatTurn
	if err == nil {
		var raw string
		raw, err = c.gen.Generate(ctx, prompt, c.modelID, generator.ResponseCombatTurn)
		if err == nil {
			turn, err = generator.ParseCombatTurn(raw)
		}
	}
	if err != nil {
		if errors.Is(err, generator.ErrModelNotConfigured) {
			c.gameOver("No generation model is configured; combat cannot be resolved.")
			return
		}
		c.log.Error().Err(err).Int("turn", rec.turn).Msg("combat turn generation failed")
		c.ui.ShowMessage(LevelError, "The clash blurs for a moment; both sides circle warily.")
		return
	}

	rec.playerHP = clampHP(rec.playerHP + turn.PlayerHPChange)
	for _, ch := range turn.NPCHPChanges {
		for _, n := range rec.npcs {
			if n.id == ch.NPCID {
				n.hp = clampHP(n.hp + ch.HPChange)
			}
		}
	}
	if len(turn.AvailableStrategies) > 0 {
		rec.strategies = turn.AvailableStrategies
	}
	rec.lastSummary = turn.TurnSummaryNarrative

	summary := turn.TurnSummaryNarrative
	if turn.StrategyFeedback != "" {
		summary += " " + turn.StrategyFeedback
	}
	c.ui.RenderCombatResult(summary)
	c.store.LogEvent(turn.TurnSummaryNarrative, state.EventCombatTurnDetail, nil, map[string]any{
		"turn":             rec.turn,
		"strategy":         strategy,
		"player_hp":        rec.playerHP,
		"player_hp_change": turn.PlayerHPChange,
	})

	// Local end checks are authoritative.
	switch {
	case rec.playerHP <= 0:
		rec.ended = true
		rec.victor = "npc"
	case len(rec.living()) == 0:
		rec.ended = true
		rec.victor = "player"
		rec.lastSummary += " All opponents defeated!"
	case turn.CombatEnded:
		c.log.Debug().Str("victor", turn.Victor).Msg("generator signaled combat end but HP thresholds disagree, continuing")
	}
}

// endCombat writes the final HP back into the world: the player's HP into
// the player state, and each NPC's original record restored and overlaid
// with its final HP (and a defeated status when it reached zero). The
// ephemeral combat record is then cleared.
func (c *Controller) endCombat() {
	rec := c.combat
	snapshot := c.store.Snapshot()

	player := snapshot.Player
	player.Attributes.CurrentHP = rec.playerHP

	npcs := snapshot.NPCs
	var ids []string
	for _, cb := range rec.npcs {
		restored := cb.original.Clone()
		restored.Attributes.CurrentHP = cb.hp
		if cb.hp <= 0 {
			restored.Status = state.StatusDefeated
		}
		npcs[cb.id] = restored
		ids = append(ids, cb.id)
	}
	c.store.Apply(state.Update{
		Player:    &player,
		NPCs:      npcs,
		CombatLog: append(snapshot.CombatLog, rec.lastSummary),
	})
	c.store.LogEvent("Combat ended.", state.EventCombatEnd, ids, map[string]any{
		"summary": rec.lastSummary,
		"victor":  rec.victor,
		"turns":   rec.turn,
	})
	c.ui.RenderCombatResult(rec.lastSummary)

	victor := rec.victor
	c.combat = nil
	if victor == "npc" {
		c.gameOver("You have fallen in battle.")
		return
	}
	c.st = StateAwaitingPlayerAction
}

func (r *combatRecord) currentPlayerStats() generator.CombatantStats {
	s := r.playerStats
	s.CurrentHP = r.playerHP
	return s
}

func statsOf(combatants []*combatant) []generator.CombatantStats {
	out := make([]generator.CombatantStats, len(combatants))
	for i, cb := range combatants {
		s := cb.stats
		s.CurrentHP = cb.hp
		out[i] = s
	}
	return out
}

func clampHP(hp int) int {
	if hp < 0 {
		return 0
	}
	return hp
}
