package llm

import (
	"strings"

	"github.com/yu1234se/AI-English-Conversation-Practice/internal/conversation"
)

// conversationTemplate is the fixed role-play instruction: a professional
// English tutor running an everyday-conversation lesson in an overseas-travel
// situation at TOEIC 600 level, replying in English and pointing out grammar
// mistakes in Japanese.
const conversationTemplate = `
あなたは、プロの英会話講師です。
以下の制約条件と入力文をもとに、最高の英会話レッスンをしてください。

#制約条件:
・英語での会話をロールプレイングしてください。
・1つずつ英語でのやりとりを行ってください。
・まずはあなたから会話を始めてください。
・出力は基本的には英語の会話だけでお願いします。
・余計なことを言わずになりきって会話をしてください。
・文法や表現が適切でない場合のみ日本語で指摘してください。

#入力文:
以下の条件に合わせた英会話ロープレをお願いします。
・ジャンル:日常英会話
・シチュエーション:海外旅行
・レベル:TOEIC600点レベル

Current conversation:
{history}

User: {input}
Assistant:
`

// renderPrompt substitutes the history window and the latest user input into
// the role-play template.
func renderPrompt(input string, history []conversation.Message, window int) string {
	prompt := strings.Replace(conversationTemplate, "{history}", formatHistory(history, window), 1)
	return strings.Replace(prompt, "{input}", input, 1)
}

// formatHistory renders the most recent window messages as "Role: content"
// lines. The caller passes the log after the pending user message has been
// appended, so the window includes the message currently being answered.
func formatHistory(history []conversation.Message, window int) string {
	if window > 0 && len(history) > window {
		history = history[len(history)-window:]
	}
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		lines = append(lines, capitalizeRole(msg.Role)+": "+msg.Content)
	}
	return strings.Join(lines, "\n")
}

func capitalizeRole(role conversation.Role) string {
	s := string(role)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
