package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/chainspire/engine/fusion"
	"github.com/nathoo/chainspire/engine/mapgen"
	"github.com/nathoo/chainspire/engine/parser"
	"github.com/nathoo/chainspire/engine/state"
	"github.com/nathoo/chainspire/types"
)

// infoVerbs never change state and work in every phase.
var infoVerbs = map[string]bool{
	"look": true, "map": true, "hand": true, "actions": true,
}

// Step processes one player command and returns the result.
func (e *Engine) Step(input string) types.Result {
	var result types.Result

	// 1. Parse input.
	intent := parser.Parse(input)

	// 2. Empty input.
	if intent.Verb == "" {
		result.Output = append(result.Output, "What do you want to do?")
		return result
	}

	// 3. Information commands.
	if infoVerbs[intent.Verb] || (intent.Verb == "deck" && intent.Object == "") {
		result.Output = append(result.Output, e.describe(intent.Verb)...)
		return result
	}

	// 4. Run over: block all gameplay commands.
	if e.State.Phase == types.PhaseComplete {
		result.Output = append(result.Output, "The run is over. Use /load to restore a save or /quit to exit.")
		return result
	}

	// 5. Log the command.
	e.State.CommandLog = append(e.State.CommandLog, input)

	// 6. Dispatch.
	res, err := e.dispatch(intent)
	if err != nil {
		result.Output = append(result.Output, userMessage(err))
		if errors.Is(err, ErrWrongPhase) {
			result.Output = append(result.Output, e.phaseHint())
		}
		return result
	}
	return res
}

func (e *Engine) dispatch(intent types.Intent) (types.Result, error) {
	verb := intent.Verb
	if verb == "pick" {
		verb = e.pickVerb()
	}

	switch verb {
	case "deck":
		if err := e.requirePhase(types.PhaseDeckSelection); err != nil {
			return types.Result{}, err
		}
		id, err := e.resolveDeck(intent.Object)
		if err != nil {
			return types.Result{}, err
		}
		return e.ChooseDeck(id)

	case "go":
		if err := e.requirePhase(types.PhaseMap); err != nil {
			return types.Result{}, err
		}
		id, err := e.resolveNode(intent.Object)
		if err != nil {
			return types.Result{}, err
		}
		return e.SelectNode(id)

	case "play":
		if err := e.requirePhase(types.PhaseBattle); err != nil {
			return types.Result{}, err
		}
		idx, err := e.resolveHandCard(intent.Object)
		if err != nil {
			return types.Result{}, err
		}
		return e.PlayCard(idx)

	case "end":
		return e.EndTurn()

	case "continue":
		return e.Continue()

	case "fuse":
		if err := e.requirePhase(types.PhaseFusion); err != nil {
			return types.Result{}, err
		}
		i, err1 := strconv.Atoi(intent.Object)
		j, err2 := strconv.Atoi(intent.Target)
		if err1 != nil || err2 != nil {
			return types.Result{Output: []string{"Fuse which two cards? (fuse <n> <m>)"}}, nil
		}
		return e.Fuse(i-1, j-1)

	case "skip":
		return e.SkipFusion()

	case "fusion_pick":
		return types.Result{Output: []string{"Pick two cards to fuse: fuse <n> <m>, or skip."}}, nil
	}

	return types.Result{Output: []string{"I don't understand that."}}, nil
}

// pickVerb maps a bare number onto the phase's natural choice.
func (e *Engine) pickVerb() string {
	switch e.State.Phase {
	case types.PhaseDeckSelection:
		return "deck"
	case types.PhaseMap:
		return "go"
	case types.PhaseBattle:
		return "play"
	case types.PhaseRest:
		return "continue"
	case types.PhaseFusion:
		return "fusion_pick"
	}
	return ""
}

// resolveDeck accepts a deck id, a deck name, or a 1-based index into the
// sorted deck list.
func (e *Engine) resolveDeck(arg string) (string, error) {
	ids := state.DeckIDs(e.Defs)
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(ids) {
			return "", fmt.Errorf("%w: %d decks", ErrBadIndex, len(ids))
		}
		return ids[n-1], nil
	}
	for _, id := range ids {
		if id == arg || strings.EqualFold(e.Defs.Decks[id].Name, arg) {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownDeck, arg)
}

// resolveNode accepts a 1-based index into the available nodes or a node id
// prefix that matches exactly one of them.
func (e *Engine) resolveNode(arg string) (string, error) {
	avail := mapgen.AvailableNodes(e.State.Progress.Map)
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(avail) {
			return "", fmt.Errorf("%w: %d paths", ErrBadIndex, len(avail))
		}
		return avail[n-1].ID, nil
	}
	if arg == "" {
		return "", fmt.Errorf("%w: no node given", ErrBadIndex)
	}
	var match string
	for _, n := range avail {
		if strings.HasPrefix(n.ID, arg) {
			if match != "" {
				return "", fmt.Errorf("%w: %q is ambiguous", ErrBadIndex, arg)
			}
			match = n.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", mapgen.ErrNodeUnavailable, arg)
	}
	return match, nil
}

// resolveHandCard accepts a 1-based hand index or the start of a card name.
func (e *Engine) resolveHandCard(arg string) (int, error) {
	hand := e.battle.State().Hand
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(hand) {
			return 0, fmt.Errorf("%w: hand has %d cards", ErrBadIndex, len(hand))
		}
		return n - 1, nil
	}
	if arg != "" {
		for i, c := range hand {
			if strings.HasPrefix(strings.ToLower(c.Name), arg) {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: no card %q in hand", ErrBadIndex, arg)
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, ErrWrongPhase):
		return "You can't do that right now."
	case errors.Is(err, ErrBadIndex):
		return "There's no such choice."
	case errors.Is(err, ErrUnplayable):
		return "You don't have enough energy for that."
	case errors.Is(err, ErrUnknownDeck):
		return "There's no such deck."
	case errors.Is(err, mapgen.ErrNodeUnavailable), errors.Is(err, mapgen.ErrUnknownNode):
		return "You can't reach that node from here."
	case errors.Is(err, fusion.ErrSameCard):
		return "Choose two different cards."
	default:
		return err.Error()
	}
}

func (e *Engine) phaseHint() string {
	switch e.State.Phase {
	case types.PhaseDeckSelection:
		return "Choose a deck first (deck <name>)."
	case types.PhaseMap:
		return "Choose a path (go <n>)."
	case types.PhaseBattle:
		return "You're in a battle! (play <n>, end)"
	case types.PhaseRest:
		return "You're resting. (continue)"
	case types.PhaseFusion:
		return "Forge your reward. (fuse <n> <m>, skip)"
	}
	return ""
}

// LegalActions lists every command that would change state right now.
func (e *Engine) LegalActions() []types.Action {
	var out []types.Action
	switch e.State.Phase {
	case types.PhaseDeckSelection:
		for _, id := range state.DeckIDs(e.Defs) {
			d := e.Defs.Decks[id]
			out = append(out, types.Action{Verb: "deck", Arg: id, Label: fmt.Sprintf("%s (%d cards)", d.Name, len(d.Cards))})
		}

	case types.PhaseMap:
		for i, n := range mapgen.AvailableNodes(e.State.Progress.Map) {
			out = append(out, types.Action{Verb: "go", Arg: strconv.Itoa(i + 1), Label: e.nodeLabel(n)})
		}

	case types.PhaseBattle:
		out = e.battle.LegalActions()

	case types.PhaseRest:
		out = append(out, types.Action{Verb: "continue", Label: "Leave the rest site"})

	case types.PhaseFusion:
		deck := e.State.Progress.Deck
		for i := range deck {
			for j := i + 1; j < len(deck); j++ {
				if deck[i].ID == deck[j].ID {
					continue
				}
				out = append(out, types.Action{
					Verb:  "fuse",
					Arg:   fmt.Sprintf("%d %d", i+1, j+1),
					Label: deck[i].Name + " + " + deck[j].Name,
				})
			}
		}
		out = append(out, types.Action{Verb: "skip", Label: "Skip fusion"})
	}
	return out
}
