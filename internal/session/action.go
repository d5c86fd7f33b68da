package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tatianab/adventure-engine/internal/generator"
	"github.com/tatianab/adventure-engine/internal/state"
)

// ProcessPlayerAction resolves one player action. Time always advances by
// one tick first; the chosen interactive element decides the sub-flow, and
// anything else resolves as a generic narrated action.
func (c *Controller) ProcessPlayerAction(ctx context.Context, actionID string) {
	c.st = StateProcessingAction
	c.advanceTime(ctx)

	snapshot := c.store.Snapshot()
	elem, found := findElement(snapshot.CurrentScene, actionID)
	if !found {
		// Free-text input resolves as a generic action in its own words.
		c.resolveGenericAction(ctx, actionID)
	} else {
		switch elem.Type {
		case state.ElementDialogue:
			c.handleNPCDialogue(ctx, elem.TargetID, "Selected interaction: '"+elem.Name+"'")
		case state.ElementCombatTrigger:
			c.initiateCombat(ctx, []string{elem.TargetID})
		case state.ElementPuzzle:
			c.evaluatePuzzleAction(ctx, elem.PuzzleID, elem.ID, "")
		default:
			c.resolveGenericAction(ctx, elem.Name)
		}
	}

	if c.st != StateGameOver {
		c.st = StateAwaitingPlayerAction
	}
}

func findElement(scene state.Scene, actionID string) (state.InteractiveElement, bool) {
	for _, e := range scene.InteractiveElements {
		if e.ID == actionID {
			return e, true
		}
	}
	return state.InteractiveElement{}, false
}

// resolveGenericAction asks the generator for the outcome of an action that
// has no dedicated sub-flow. The returned scene id classifies the outcome:
// empty means a narrative-only delta, the current id a refresh, any other id
// a transition.
func (c *Controller) resolveGenericAction(ctx context.Context, action string) {
	snapshot := c.store.Snapshot()

	prompt, err := c.prompts.ActionPrompt(snapshot, action)
	var sc generator.Scene
	if err == nil {
		var raw string
		raw, err = c.gen.Generate(ctx, prompt, c.modelID, generator.ResponseScene)
		if err == nil {
			sc, err = generator.ParseScene(raw)
		}
	}
	if err != nil {
		if errors.Is(err, generator.ErrModelNotConfigured) {
			c.gameOver("No generation model is configured; the story cannot continue.")
			return
		}
		c.log.Error().Err(err).Str("action", action).Msg("action resolution failed")
		c.ui.ShowMessage(LevelError, "Nothing seems to come of that.")
		return
	}

	if sc.PlayerGrowth != nil {
		c.applyPlayerGrowth(snapshot.Player, *sc.PlayerGrowth)
	}

	returnedID := strings.TrimSpace(sc.SceneID)
	switch returnedID {
	case "":
		// Narrative-only delta: nothing to commit.
		c.ui.RenderNarrative(sc.Narrative)
	case snapshot.CurrentScene.ID:
		c.commitScene(ctx, returnedID, sc, snapshot.Weather)
	default:
		c.store.LogEvent(
			fmt.Sprintf("Action '%s' moved the player from '%s' to '%s'.", action, snapshot.CurrentScene.ID, returnedID),
			state.EventSceneTransition, nil, nil)
		c.commitScene(ctx, returnedID, sc, snapshot.Weather)
	}
}

// applyPlayerGrowth applies a growth payload to a copy of the player state
// and commits it as a single update. Malformed delta strings are skipped
// with a warning; every applied change is narrated and the whole growth is
// logged as one player_update event.
func (c *Controller) applyPlayerGrowth(player state.PlayerState, growth generator.PlayerGrowth) {
	p := player.Clone()
	var changes []string

	for key, raw := range growth.AttributeChanges {
		if before, ok := attributeValue(&p.Attributes, key); ok {
			delta, err := generator.ParseDelta(raw)
			if err != nil {
				c.log.Warn().Str("attribute", key).Str("value", raw).Msg("skipping malformed attribute change")
				continue
			}
			after := delta.Apply(before)
			if key == "current_hp" && after < 0 {
				after = 0
			}
			setAttributeValue(&p.Attributes, key, after)
			changes = append(changes, fmt.Sprintf("%s: %d -> %d", key, before, after))
			continue
		}
		// Fractional stats and generator-supplied residual keys.
		delta, err := generator.ParseFloatDelta(raw)
		if err != nil {
			c.log.Warn().Str("attribute", key).Str("value", raw).Msg("skipping malformed attribute change")
			continue
		}
		before := floatAttributeValue(&p.Attributes, key)
		after := delta.Apply(before)
		setFloatAttributeValue(&p.Attributes, key, after)
		changes = append(changes, fmt.Sprintf("%s: %g -> %g", key, before, after))
	}

	for _, sk := range growth.NewSkills {
		if hasSkill(p.Skills, sk.Name) {
			continue
		}
		p.Skills = append(p.Skills, state.Skill{Name: sk.Name, Description: sk.Description})
		changes = append(changes, "new skill: "+sk.Name)
	}

	for _, it := range growth.NewItems {
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		if idx := itemIndex(p.Inventory, it.ID); idx >= 0 {
			p.Inventory[idx].Quantity += qty
			changes = append(changes, fmt.Sprintf("item %s x%d", it.ID, qty))
		} else {
			p.Inventory = append(p.Inventory, state.Item{ID: it.ID, Name: it.Name, Quantity: qty})
			changes = append(changes, "new item: "+it.ID)
		}
	}

	if len(changes) == 0 {
		return
	}
	c.store.Apply(state.Update{Player: &p})
	for _, ch := range changes {
		c.ui.ShowMessage(LevelInfo, "You have grown: "+ch)
	}
	c.store.LogEvent("Player growth applied.", state.EventPlayerUpdate, nil, map[string]any{"changes": changes})
}

func hasSkill(skills []state.Skill, name string) bool {
	for _, s := range skills {
		if s.Name == name {
			return true
		}
	}
	return false
}

func itemIndex(items []state.Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func attributeValue(a *state.Attributes, key string) (int, bool) {
	switch key {
	case "strength":
		return a.Strength, true
	case "dexterity":
		return a.Dexterity, true
	case "intelligence":
		return a.Intelligence, true
	case "sanity":
		return a.Sanity, true
	case "willpower":
		return a.Willpower, true
	case "insight":
		return a.Insight, true
	case "current_hp":
		return a.CurrentHP, true
	case "max_hp":
		return a.MaxHP, true
	case "attack_power":
		return a.AttackPower, true
	case "defense_power":
		return a.DefensePower, true
	}
	return 0, false
}

// floatAttributeValue reads a fractional stat; unknown keys read from Extra,
// absent ones as zero.
func floatAttributeValue(a *state.Attributes, key string) float64 {
	switch key {
	case "evasion_chance":
		return a.EvasionChance
	case "hit_chance":
		return a.HitChance
	}
	return a.Extra[key]
}

func setFloatAttributeValue(a *state.Attributes, key string, v float64) {
	switch key {
	case "evasion_chance":
		a.EvasionChance = v
	case "hit_chance":
		a.HitChance = v
	default:
		if a.Extra == nil {
			a.Extra = map[string]float64{}
		}
		a.Extra[key] = v
	}
}

func setAttributeValue(a *state.Attributes, key string, v int) {
	switch key {
	case "strength":
		a.Strength = v
	case "dexterity":
		a.Dexterity = v
	case "intelligence":
		a.Intelligence = v
	case "sanity":
		a.Sanity = v
	case "willpower":
		a.Willpower = v
	case "insight":
		a.Insight = v
	case "current_hp":
		a.CurrentHP = v
	case "max_hp":
		a.MaxHP = v
	case "attack_power":
		a.AttackPower = v
	case "defense_power":
		a.DefensePower = v
	}
}
