package events

const (
	ConversationsLoaded  = "CONVERSATIONS_LOADED"
	ConversationCreated  = "CONVERSATION_CREATED"
	ConversationSelected = "CONVERSATION_SELECTED"
	ConversationDeleted  = "CONVERSATION_DELETED"
	MessageAppended      = "MESSAGE_APPENDED"
	TypingStarted        = "TYPING_STARTED"
	TypingStopped        = "TYPING_STOPPED"
	IssueReported        = "ISSUE_REPORTED"
)

// Envelope is the JSON form an event takes on the in-process bus and on the
// WebSocket stream.
type Envelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt string                 `json:"occurred_at"`
}
