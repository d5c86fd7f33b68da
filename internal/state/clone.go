package state

// Explicit clone-on-read / clone-on-write boundary. Every value that crosses
// the Store API is copied with these helpers so no caller can alias internal
// state.

// Clone returns an independent copy of the attribute set.
func (a Attributes) Clone() Attributes {
	out := a
	out.Extra = cloneFloatMap(a.Extra)
	return out
}

// Clone returns an independent copy of the player state.
func (p PlayerState) Clone() PlayerState {
	out := p
	out.Attributes = p.Attributes.Clone()
	out.Skills = append([]Skill(nil), p.Skills...)
	out.Inventory = append([]Item(nil), p.Inventory...)
	out.Equipment = cloneStringMap(p.Equipment)
	return out
}

// Clone returns an independent copy of the NPC record.
func (n NPC) Clone() NPC {
	out := n
	out.Attributes = n.Attributes.Clone()
	out.DialogueLog = append([]DialogueExchange(nil), n.DialogueLog...)
	out.Knowledge = append([]string(nil), n.Knowledge...)
	return out
}

// Clone returns an independent copy of the scene snapshot.
func (s Scene) Clone() Scene {
	out := s
	out.NPCsInScene = append([]ScenePresence(nil), s.NPCsInScene...)
	out.InteractiveElements = append([]InteractiveElement(nil), s.InteractiveElements...)
	return out
}

// Clone returns an independent copy of the event, including its payload.
func (e Event) Clone() Event {
	out := e
	out.CausalFactors = append([]string(nil), e.CausalFactors...)
	out.Payload = cloneAnyMap(e.Payload)
	return out
}

// Clone returns an independent copy of the puzzle sub-state.
func (p PuzzleState) Clone() PuzzleState {
	out := p
	out.CluesFound = append([]string(nil), p.CluesFound...)
	out.ElementsState = cloneStringMap(p.ElementsState)
	return out
}

// Clone returns an independent copy of the dynamic event record.
func (d DynamicEvent) Clone() DynamicEvent {
	out := d
	out.EffectsOnWorld = append([]string(nil), d.EffectsOnWorld...)
	return out
}

// Clone returns a fully independent copy of the whole world record.
func (w WorldState) Clone() WorldState {
	out := w
	out.SceneHistory = append([]SceneSummary(nil), w.SceneHistory...)
	out.EventLog = make([]Event, len(w.EventLog))
	for i, e := range w.EventLog {
		out.EventLog[i] = e.Clone()
	}
	out.CurrentScene = w.CurrentScene.Clone()
	out.Player = w.Player.Clone()
	out.NPCs = make(map[string]NPC, len(w.NPCs))
	for id, n := range w.NPCs {
		out.NPCs[id] = n.Clone()
	}
	out.CombatLog = append([]string(nil), w.CombatLog...)
	out.PuzzleLog = make(map[string]PuzzleState, len(w.PuzzleLog))
	for id, p := range w.PuzzleLog {
		out.PuzzleLog[id] = p.Clone()
	}
	out.Codex = make(map[string]KnowledgeEntry, len(w.Codex))
	for id, k := range w.Codex {
		out.Codex[id] = k
	}
	out.DynamicEvents = make([]DynamicEvent, len(w.DynamicEvents))
	for i, d := range w.DynamicEvents {
		out.DynamicEvents[i] = d.Clone()
	}
	out.Extra = cloneAnyMap(w.Extra)
	return out
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneFloatMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneAnyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case map[string]any:
			out[k] = cloneAnyMap(t)
		case []string:
			out[k] = append([]string(nil), t...)
		case []any:
			cp := make([]any, len(t))
			copy(cp, t)
			out[k] = cp
		default:
			out[k] = v
		}
	}
	return out
}
