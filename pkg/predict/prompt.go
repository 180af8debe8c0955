package predict

import (
	"fmt"

	"github.com/tinyland-inc/predictree/pkg/providers/protocoltypes"
	"github.com/tinyland-inc/predictree/pkg/tree"
)

const systemPromptFormat = "Provide a creative continuation of the following conversation snippet. " +
	"The response should reflect the style and tone of the conversation so far, while incorporating " +
	"the specified angle to enhance the message. Keep the response concise and engaging. " +
	"Begin the response with \"left:\" or \"right:\" to say which participant is speaking. " +
	"The angle is %s."

const openingTurn = "(the conversation has not started yet; write its first message)"

func SystemPrompt(angle string) string {
	return fmt.Sprintf(systemPromptFormat, angle)
}

// BuildMessages renders history as "side: content" user turns after the
// system prompt.
func BuildMessages(history tree.History, angle string) []protocoltypes.Message {
	msgs := make([]protocoltypes.Message, 0, len(history)+1)
	msgs = append(msgs, protocoltypes.Message{Role: protocoltypes.RoleSystem, Content: SystemPrompt(angle)})
	for _, m := range history {
		msgs = append(msgs, protocoltypes.Message{
			Role:    protocoltypes.RoleUser,
			Content: fmt.Sprintf("%s: %s", m.Side, m.Content),
		})
	}
	if len(history) == 0 {
		msgs = append(msgs, protocoltypes.Message{Role: protocoltypes.RoleUser, Content: openingTurn})
	}
	return msgs
}
