package orchestrator

import (
	"context"
	"strings"

	"aura/internal/logging"
	"aura/internal/session"
)

// conversationSystemPrompt grounds the LLM's chat reply in the assistant's
// configured name and the recent-utterance ring buffer, without exposing
// the tool registry: the conversation layer never executes anything, per
// §4.1's "call LLM for a chat reply, no execution."
func conversationSystemPrompt(sess *session.Session) string {
	var b strings.Builder
	b.WriteString("You are ")
	b.WriteString(sess.AssistantName())
	b.WriteString(", a concise local-first desktop assistant. Answer the user's question directly, ")
	b.WriteString("in two or three sentences. Do not claim to have executed any action.")
	if recent := sess.RecentUtterances(); len(recent) > 0 {
		b.WriteString("\n\nRecent conversation, oldest first:\n")
		for _, u := range recent {
			b.WriteString("- ")
			b.WriteString(u)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// runConversation implements the conversation layer: a single LLM call, no
// tool execution, the LLM's reply returned verbatim per the §8 concrete
// scenario "What's the meaning of life?" -> conversation layer, LLM reply
// returned verbatim.
func (o *Orchestrator) runConversation(ctx context.Context, utterance string, sess *session.Session) Response {
	if o.llmClient == nil {
		logging.Orchestrator("conversation layer: no LLM client configured")
		return Response{Text: NoCredentialsText, OK: false, UsedLLM: true, SourceLayer: session.LayerConversation}
	}

	reply, err := o.llmClient.CompleteWithSystem(ctx, conversationSystemPrompt(sess), utterance)
	if err != nil {
		return Response{Text: errorText("conversation", err), OK: false, UsedLLM: true, SourceLayer: session.LayerConversation}
	}
	return Response{Text: strings.TrimSpace(reply), OK: true, UsedLLM: true, SourceLayer: session.LayerConversation}
}

// NoCredentialsText is the fixed user-visible message for
// ErrorKind::NoCredentials, matching §7's "never stack traces" rule.
const NoCredentialsText = "I need an LLM API key configured to do that."
