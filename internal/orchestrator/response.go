package orchestrator

import (
	"fmt"

	"aura/internal/errs"
	"aura/internal/executor"
)

// confirmations holds a short, deterministic success phrase per builtin
// tool name, grounded in original_source/ui/response_generator.py's
// CONFIRMATIONS_CONTEXTUAL dict but collapsed from randomized template
// lists to one fixed phrase each, since §7 asks for templated text, not
// variety for its own sake.
var confirmations = map[string]string{
	"apps.open":          "Opened.",
	"apps.close":         "Closed.",
	"apps.focus":         "Switched to it.",
	"audio.mute":         "Muted.",
	"audio.unmute":       "Unmuted.",
	"clipboard.write":    "Copied.",
	"desktop.screenshot": "Screenshot taken.",
	"files.create_dir":   "Directory created.",
	"files.create":       "File created.",
	"files.write":        "Saved.",
	"files.move":         "Moved.",
	"files.delete":       "Deleted.",
	"input.type":         "Typed.",
	"input.key":          "Key sent.",
	"input.click":        "Clicked.",
	"power.lock":         "Locked.",
	"power.sleep":        "Going to sleep.",
	"power.shutdown":     "Shutting down.",
	"run_program":        "Done.",
}

// percentConfirmations holds the tools whose confirmation echoes the
// percentage argument the caller asked for (scenario 1's "Volume set to
// 50%."), keyed to the human-readable noun and the ArgSchema's arg name.
var percentConfirmations = map[string]struct {
	noun string
	arg  string
}{
	"audio.set_volume":       {noun: "Volume", arg: "level"},
	"display.set_brightness": {noun: "Brightness", arg: "level"},
}

// describeOutcome renders a completed Tool Invocation Result into the
// user-visible text for a Response, per §7's "templated, grounded in the
// tool's actual result, never a raw struct dump." A failed result is
// handed to errorText instead of a confirmation phrase.
func describeOutcome(toolName string, args map[string]any, result *executor.Result) string {
	if !result.OK {
		return errorText("local", result.Error)
	}
	if text, ok := result.Value.(string); ok && text != "" {
		return text
	}
	if pc, ok := percentConfirmations[toolName]; ok {
		if pct, ok := percentArg(args, pc.arg); ok {
			return fmt.Sprintf("%s set to %d%%.", pc.noun, pct)
		}
	}
	if phrase, ok := confirmations[toolName]; ok {
		return phrase
	}
	return "Done."
}

// percentArg coerces args[name] to an int, accepting both the int a Layer 1
// match's own arg-parsing produces and the float64 json.Unmarshal yields for
// a promoted capability's arg template round-tripped through capabilities.json.
func percentArg(args map[string]any, name string) (int, bool) {
	switch v := args[name].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// layerErrorText maps a layer name to the clause errorText prefixes its
// message with, matching §7's "mention the layer and a short cause."
func layerErrorText(layer string) string {
	switch layer {
	case "local":
		return "that didn't work"
	case "code-gen":
		return "the generated program failed"
	case "planner":
		return "the plan failed"
	case "conversation":
		return "I couldn't reach the assistant"
	default:
		return "that failed"
	}
}

// errorText renders a failure into the fixed, templated shape §7 requires:
// a short layer-specific clause plus the failure's own message, never a
// stack trace. For an AuraError only its Message is shown, without the kind
// prefix or the wrapped causes.
func errorText(layer string, err error) string {
	if err == nil {
		return fmt.Sprintf("Sorry, %s.", layerErrorText(layer))
	}
	msg := err.Error()
	if ae, ok := err.(*errs.AuraError); ok {
		msg = ae.Message
	}
	return fmt.Sprintf("Sorry, %s: %s", layerErrorText(layer), msg)
}
