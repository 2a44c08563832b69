package planner

import (
	"regexp"
	"strings"
)

// conjunctionPattern matches the multi-step markers "and then", "then" and
// "after". A bare "and" is not matched here: NeedsPlan treats it as a marker
// only together with more than one verb, which the verb count alone already
// triggers, so "and" by itself never starts a plan.
var conjunctionPattern = regexp.MustCompile(`(?i)\b(and then|then|after)\b`)

// imperativeVerbs is a small fixed vocabulary of action verbs the gate
// counts to approximate "multiple verbs" from
// original_source/auraaiv2/agents/decomposition_gate.py's action-count
// reasoning, without the LLM call that file uses — see DESIGN.md's
// open-question decision on why the gate is a heuristic, not a model call.
var imperativeVerbs = []string{
	"open", "close", "quit", "exit", "launch", "start", "run",
	"set", "change", "adjust", "turn", "mute", "unmute",
	"lock", "sleep", "shutdown", "focus", "switch",
	"type", "press", "click", "write", "read", "create", "delete", "move",
	"take", "capture", "copy", "paste", "send", "search", "save", "make",
	"append",
}

// NeedsPlan implements the Decomposition gate from §4.7: true when the
// utterance looks like it names more than one executable action, false
// when a single tool call should suffice. File operations phrased as one
// atomic verb ("write X into notes.txt") stay single even though they
// mention an object and a destination, matching the original's
// "file operation is atomic" carve-out — the gate counts distinct verbs,
// not objects, to avoid over-triggering on that case.
func NeedsPlan(utterance string) bool {
	lower := strings.ToLower(utterance)

	if conjunctionPattern.MatchString(lower) {
		return true
	}
	if strings.Contains(lower, " and ") && countVerbs(lower) > 1 {
		return true
	}
	return countVerbs(lower) > 1
}

func countVerbs(lower string) int {
	count := 0
	for _, verb := range imperativeVerbs {
		if containsWord(lower, verb) {
			count++
		}
	}
	return count
}

func containsWord(s, word string) bool {
	idx := strings.Index(s, word)
	for idx != -1 {
		before := idx == 0 || !isWordChar(s[idx-1])
		after := idx+len(word) >= len(s) || !isWordChar(s[idx+len(word)])
		if before && after {
			return true
		}
		next := strings.Index(s[idx+1:], word)
		if next == -1 {
			return false
		}
		idx = idx + 1 + next
	}
	return false
}

func isWordChar(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
