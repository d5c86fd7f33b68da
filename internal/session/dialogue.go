package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/tatianab/adventure-engine/internal/generator"
	"github.com/tatianab/adventure-engine/internal/state"
)

// endDialogueToken lets the player walk away from a conversation.
const endDialogueToken = "/end"

// statusEndingDialogue is the NPC status that terminates a conversation.
const statusEndingDialogue = "ending_dialogue"

// handleNPCDialogue runs a conversation with the given NPC until the NPC
// ends it, the player walks away, or generation becomes impossible. The NPC
// snapshot's status, dialogue log and disposition are persisted back into
// the store every turn.
func (c *Controller) handleNPCDialogue(ctx context.Context, npcID, initialInput string) {
	if c.modelID == "" {
		c.gameOver("No generation model is configured; conversations cannot continue.")
		return
	}
	snapshot := c.store.Snapshot()
	npc, ok := snapshot.NPCs[npcID]
	if !ok {
		c.log.Error().Str("npc_id", npcID).Msg("dialogue target not found")
		c.ui.ShowMessage(LevelError, "There is nobody here by that name.")
		return
	}

	c.st = StateNPCDialogue
	input := initialInput

	for c.st == StateNPCDialogue {
		prompt, err := c.prompts.DialoguePrompt(snapshot, npc, input)
		var reply generator.Dialogue
		if err == nil {
			var raw string
			raw, err = c.gen.Generate(ctx, prompt, c.modelID, generator.ResponseDialogue)
			if err == nil {
				reply, err = generator.ParseDialogue(raw)
			}
		}
		if err != nil {
			if errors.Is(err, generator.ErrModelNotConfigured) {
				c.gameOver("No generation model is configured; conversations cannot continue.")
				return
			}
			c.log.Error().Err(err).Str("npc_id", npcID).Msg("dialogue generation failed")
			c.ui.ShowMessage(LevelError, fmt.Sprintf("%s seems lost in thought. Try saying something else.", npc.Name))
			next, perr := c.ui.PromptDialogueReply(nil)
			if perr != nil || next == endDialogueToken {
				break
			}
			input = next
			continue
		}

		npc.Status = reply.NewNPCStatus
		if reply.AttitudeChange != "" {
			if delta, derr := generator.ParseDelta(reply.AttitudeChange); derr != nil {
				c.log.Warn().Str("npc_id", npcID).Str("value", reply.AttitudeChange).Msg("skipping malformed attitude change")
			} else {
				// Attitude changes are always relative to the current disposition.
				npc.Disposition += delta.Value
			}
		}
		npc.DialogueLog = append(npc.DialogueLog, state.DialogueExchange{
			Time:   snapshot.GameTime,
			Player: input,
			NPC:    reply.DialogueText,
		})

		npcs := snapshot.NPCs
		npcs[npcID] = npc
		c.store.Apply(state.Update{NPCs: npcs})
		c.store.LogEvent(
			fmt.Sprintf("Dialogue with %s: '%s'", npc.Name, reply.DialogueText),
			state.EventDialogueExchange, []string{npcID}, nil)

		for _, kr := range reply.KnowledgeRevealed {
			sourceType := kr.SourceType
			if sourceType == "" {
				sourceType = "dialogue"
			}
			sourceDetail := kr.SourceDetail
			if sourceDetail == "" {
				sourceDetail = npc.Name
			}
			c.UnlockKnowledgeEntry(ctx, sourceType, sourceDetail, kr.TopicID+": "+kr.Summary)
		}

		c.ui.RenderDialogue(npc.Name, reply.DialogueText, reply.DialogueOptions)
		if reply.NewNPCStatus == statusEndingDialogue {
			break
		}

		next, perr := c.ui.PromptDialogueReply(reply.DialogueOptions)
		if perr != nil || next == endDialogueToken {
			break
		}
		if opt, chosen := matchOption(reply.DialogueOptions, next); chosen {
			c.store.LogEvent(
				fmt.Sprintf("Player chose dialogue option '%s' with %s.", opt.Name, npc.Name),
				state.EventDialogueChoice, []string{npcID}, nil)
			input = opt.Name
		} else {
			input = next
		}
		snapshot = c.store.Snapshot()
	}

	if c.st != StateGameOver {
		c.st = StateAwaitingPlayerAction
	}
}

func matchOption(options []generator.DialogueOption, choice string) (generator.DialogueOption, bool) {
	for _, o := range options {
		if o.ID == choice {
			return o, true
		}
	}
	return generator.DialogueOption{}, false
}
