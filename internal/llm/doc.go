// Package llm generates the tutor's replies through an OpenAI-compatible
// chat-completion endpoint, typically a locally hosted model server. The
// role-play scenario is fixed; only the conversation history and the latest
// user utterance vary per request.
package llm
