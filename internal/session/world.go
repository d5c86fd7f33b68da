package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tatianab/adventure-engine/internal/generator"
	"github.com/tatianab/adventure-engine/internal/state"
)

// weatherInterval is the game-time period between weather re-rolls.
const weatherInterval = 10

// UnlockKnowledgeEntry generates a codex entry for a discovered topic and
// commits it. Unlocking an id that is already in the codex is a no-op.
func (c *Controller) UnlockKnowledgeEntry(ctx context.Context, sourceType, sourceDetail, hint string) {
	prompt, err := c.prompts.CodexPrompt(sourceType, sourceDetail, hint)
	var entry generator.CodexEntry
	if err == nil {
		var raw string
		raw, err = c.gen.Generate(ctx, prompt, c.modelID, generator.ResponseCodexEntry)
		if err == nil {
			entry, err = generator.ParseCodexEntry(raw)
		}
	}
	if err != nil {
		c.log.Warn().Err(err).Str("hint", hint).Msg("codex entry generation failed, discovery dropped")
		return
	}

	snapshot := c.store.Snapshot()
	if existing, exists := snapshot.Codex[entry.KnowledgeID]; exists {
		c.log.Debug().Str("knowledge_id", entry.KnowledgeID).Msg("codex entry already unlocked")
		c.ui.ShowMessage(LevelInfo, "Your codex already covers '"+existing.Title+"'.")
		return
	}

	sType := entry.SourceType
	if sType == "" {
		sType = sourceType
	}
	sDetail := entry.SourceDetail
	if sDetail == "" {
		sDetail = sourceDetail
	}
	codex := snapshot.Codex
	codex[entry.KnowledgeID] = state.KnowledgeEntry{
		ID:           entry.KnowledgeID,
		Title:        entry.Title,
		Content:      entry.Content,
		SourceType:   sType,
		SourceDetail: sDetail,
	}
	c.store.Apply(state.Update{Codex: codex})
	c.store.LogEvent(
		fmt.Sprintf("Codex entry unlocked: '%s'.", entry.Title),
		state.EventKnowledgeUnlock, []string{entry.KnowledgeID}, map[string]any{
			"source_type":   sType,
			"source_detail": sDetail,
		})
	c.ui.ShowMessage(LevelInfo, "New codex entry: "+entry.Title)
}

// TriggerDynamicEvent asks the generator for an unscripted world event,
// records it and tells the player. An event that names a new scene moves
// the session there.
func (c *Controller) TriggerDynamicEvent(ctx context.Context, hint string) {
	snapshot := c.store.Snapshot()

	prompt, err := c.prompts.DynamicEventPrompt(snapshot, hint)
	var ev generator.DynamicEvent
	if err == nil {
		var raw string
		raw, err = c.gen.Generate(ctx, prompt, c.modelID, generator.ResponseDynamicEvent)
		if err == nil {
			ev, err = generator.ParseDynamicEvent(raw)
		}
	}
	if err != nil {
		c.log.Warn().Err(err).Str("hint", hint).Msg("dynamic event generation failed")
		return
	}

	id := ev.EventID
	if id == "" {
		id = uuid.NewString()
	}
	stamped := state.DynamicEvent{
		ID:             id,
		Time:           snapshot.GameTime,
		Description:    ev.Description,
		EffectsOnWorld: ev.EffectsOnWorld,
		NewSceneID:     ev.NewSceneID,
	}
	c.store.Apply(state.Update{DynamicEvents: append(snapshot.DynamicEvents, stamped)})
	c.store.LogEvent(ev.Description, state.EventDynamicEvent, []string{id}, map[string]any{
		"effects_on_world": ev.EffectsOnWorld,
	})
	c.ui.NotifyWorldEvent(ev.Description)

	if ev.NewSceneID != "" {
		c.InitiateScene(ctx, ev.NewSceneID)
	}
}

// advanceTime moves the world clock forward one tick and fires any
// time-based changes that come due.
func (c *Controller) advanceTime(ctx context.Context) {
	t := c.store.Snapshot().GameTime + 1
	c.store.Apply(state.Update{GameTime: &t})
	c.checkTimeBasedEvents(ctx, t)
}

// checkTimeBasedEvents re-rolls the weather every weatherInterval ticks.
func (c *Controller) checkTimeBasedEvents(ctx context.Context, gameTime int) {
	if gameTime <= 0 || gameTime%weatherInterval != 0 {
		return
	}
	snapshot := c.store.Snapshot()

	prompt, err := c.prompts.WeatherPrompt(snapshot.Weather, gameTime)
	var wu generator.WeatherUpdate
	if err == nil {
		var raw string
		raw, err = c.gen.Generate(ctx, prompt, c.modelID, generator.ResponseWeather)
		if err == nil {
			wu, err = generator.ParseWeatherUpdate(raw)
		}
	}
	if err != nil {
		c.log.Warn().Err(err).Int("game_time", gameTime).Msg("weather update failed, keeping current weather")
		return
	}

	weather := state.Weather{
		Condition:          wu.NewCondition,
		Intensity:          wu.NewIntensity,
		EffectsDescription: wu.EffectsDescription,
	}
	c.store.Apply(state.Update{Weather: &weather})
	c.store.LogEvent(
		fmt.Sprintf("Weather changed to %s (%s).", weather.Condition, weather.Intensity),
		state.EventWeatherChange, nil, map[string]any{"game_time": gameTime})
	c.ui.NotifyWeather(weather)
}
