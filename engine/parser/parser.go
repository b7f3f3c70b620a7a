// Package parser converts command strings into Intent structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strconv"
	"strings"

	"github.com/nathoo/chainspire/types"
)

var verbAliases = map[string]string{
	// Deck selection
	"choose": "deck",
	"select": "deck",

	// Map movement. A bare "g" never gets here: the session reads it as
	// "again", so the alias only covers "g <n>".
	"g":      "go",
	"move":   "go",
	"travel": "go",
	"visit":  "go",
	"walk":   "go",
	"enter":  "go",

	// Battle
	"p":    "play",
	"use":  "play",
	"cast": "play",
	"e":    "end",
	"pass": "end",
	"done": "end",
	"wait": "end",

	// Rest sites
	"c":        "continue",
	"next":     "continue",
	"leave":    "continue",
	"rest":     "continue",
	"ok":       "continue",
	"proceed":  "continue",
	"onward":   "continue",
	"continue": "continue",

	// Fusion
	"f":       "fuse",
	"combine": "fuse",
	"merge":   "fuse",
	"s":       "skip",
	"decline": "skip",

	// Information
	"l":      "look",
	"status": "look",
	"m":      "map",
	"h":      "hand",
	"cards":  "deck",
	"a":      "actions",
	"moves":  "actions",
	"help":   "actions",
}

var prepositions = map[string]bool{
	"with": true, "and": true, "to": true, "into": true,
}

var fillers = map[string]bool{
	"the": true, "a": true, "an": true, "card": true, "node": true, "#": true,
}

// Parse converts a raw command string into an Intent.
func Parse(input string) types.Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}
	}

	words := strings.Fields(strings.ToLower(input))

	// Bare number: pick the nth option of whatever is on screen.
	if len(words) == 1 {
		if _, err := strconv.Atoi(words[0]); err == nil {
			return types.Intent{Verb: "pick", Object: words[0]}
		}
	}

	words = expandMultiWordVerbs(words)

	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	verb := words[0]
	rest := stripFillers(words[1:])
	object, target := splitOnPreposition(rest)

	return types.Intent{
		Verb:   verb,
		Object: object,
		Target: target,
	}
}

// expandMultiWordVerbs handles "end turn", "fuse cards" and similar.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "end", "finish":
		if words[1] == "turn" {
			return append([]string{"end"}, words[2:]...)
		}
	case "go", "move":
		if words[1] == "to" {
			return append([]string{"go"}, words[2:]...)
		}
	case "pick", "choose", "select":
		if words[1] == "deck" {
			return append([]string{"deck"}, words[2:]...)
		}
	case "show", "view":
		switch words[1] {
		case "map", "hand", "deck", "actions":
			return words[1:]
		}
	}

	return words
}

// stripFillers removes articles and filler nouns from the word list.
func stripFillers(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !fillers[w] {
			result = append(result, w)
		}
	}
	return result
}

// splitOnPreposition splits words on the first preposition.
// Words before the preposition become the object, words after become the target.
// With no preposition, two words split into object and target; otherwise
// all words become the object.
func splitOnPreposition(words []string) (object, target string) {
	for i, w := range words {
		if prepositions[w] {
			object = strings.Join(words[:i], " ")
			target = strings.Join(words[i+1:], " ")
			return object, target
		}
	}
	if len(words) == 2 {
		return words[0], words[1]
	}
	return strings.Join(words, " "), ""
}
