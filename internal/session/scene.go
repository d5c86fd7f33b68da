package session

import (
	"context"
	"errors"

	"github.com/tatianab/adventure-engine/internal/generator"
	"github.com/tatianab/adventure-engine/internal/state"
)

// InitiateScene loads and presents the scene with the given id. Generation
// failure on the very first scene of the session is fatal; afterwards the
// current scene is kept and the player is told.
func (c *Controller) InitiateScene(ctx context.Context, sceneID string) {
	c.st = StatePresentingScene
	snapshot := c.store.Snapshot()
	firstScene := len(snapshot.SceneHistory) == 0

	if c.modelID == "" {
		c.gameOver("No generation model is configured; the story cannot continue.")
		return
	}

	prompt, err := c.prompts.ScenePrompt(snapshot, sceneID)
	if err == nil {
		var raw string
		raw, err = c.gen.Generate(ctx, prompt, c.modelID, generator.ResponseScene)
		if err == nil {
			var sc generator.Scene
			sc, err = generator.ParseScene(raw)
			if err == nil {
				c.commitScene(ctx, sceneID, sc, snapshot.Weather)
				c.st = StateAwaitingPlayerAction
				return
			}
		}
	}

	if errors.Is(err, generator.ErrModelNotConfigured) {
		c.gameOver("No generation model is configured; the story cannot continue.")
		return
	}
	if firstScene {
		c.gameOver("The opening scene could not be generated; the session cannot start.")
		return
	}
	c.log.Error().Err(err).Str("scene_id", sceneID).Msg("scene generation failed")
	c.ui.ShowMessage(LevelError, "The world refuses to take shape here. You remain where you are.")
	c.st = StateAwaitingPlayerAction
}

// commitScene converts a generated scene payload into the stored snapshot:
// the requested id wins over a mismatched returned id, an image asset is
// requested off the narrative, and the current weather is attached.
func (c *Controller) commitScene(ctx context.Context, sceneID string, sc generator.Scene, weather state.Weather) {
	if sc.SceneID != sceneID {
		c.log.Warn().Str("requested", sceneID).Str("returned", sc.SceneID).Msg("generator returned mismatched scene id, forcing requested id")
	}

	imageURL, err := c.gen.GenerateImage(ctx, c.prompts.ImagePrompt(sc.Narrative))
	if err != nil {
		c.log.Debug().Err(err).Msg("no image asset for scene")
		imageURL = ""
	}

	scene := sceneFromPayload(sceneID, sc)
	scene.ImageURL = imageURL
	scene.Weather = weather
	c.store.Apply(state.Update{CurrentScene: &scene})
	c.store.LogEvent("Entered scene '"+sceneID+"'.", state.EventSceneTransition, nil, nil)
	c.ui.RenderScene(scene)

	for _, kr := range sc.OnSceneLoadKnowledge {
		sourceType := kr.SourceType
		if sourceType == "" {
			sourceType = "scene"
		}
		sourceDetail := kr.SourceDetail
		if sourceDetail == "" {
			sourceDetail = sceneID
		}
		c.UnlockKnowledgeEntry(ctx, sourceType, sourceDetail, kr.TopicID+": "+kr.Summary)
	}
}

// sceneFromPayload maps the wire payload onto the stored scene record,
// forcing the requested scene id.
func sceneFromPayload(sceneID string, sc generator.Scene) state.Scene {
	scene := state.Scene{
		ID:                   sceneID,
		Narrative:            sc.Narrative,
		EnvironmentalEffects: sc.EnvironmentalEffects,
	}
	for _, n := range sc.NPCsInScene {
		id := n.ID
		if id == "" {
			id = state.DeriveID(n.Name)
		}
		scene.NPCsInScene = append(scene.NPCsInScene, state.ScenePresence{ID: id, Name: n.Name, Status: n.Status})
	}
	for _, e := range sc.InteractiveElements {
		scene.InteractiveElements = append(scene.InteractiveElements, state.InteractiveElement{
			ID:       e.ID,
			Name:     e.Name,
			Type:     state.ElementType(e.Type),
			TargetID: e.TargetID,
			PuzzleID: e.PuzzleID,
		})
	}
	return scene
}
