package constant

const (
	DefaultConversationTitle = "New Chat"
	ConversationTitleMaxLen  = 30
	ConversationTitleSuffix  = "..."

	// Replies used when the AI service answers with nothing or cannot be reached.
	AIEmptyAnswerReply = "No response from AI 😭"
	AIFallbackReply    = "Oops 😅 something went wrong while contacting Kelly AI."

	// Conversation id sent to the AI service when nothing was selected at send time.
	GuestConversationId = "guest"

	KellyAskEndpoint   = "/kelly"
	AuthSignupEndpoint = "/auth/signup"
	AuthLoginEndpoint  = "/auth/login"
)

// Secure store keys.
const (
	StoreKeyAccessToken   = "access_token"
	StoreKeyRefreshToken  = "refresh_token"
	StoreKeyUserId        = "user_id"
	StoreKeyUserEmail     = "user_email"
	StoreKeyConversations = "conversations"
)

// SessionStoreKeys lists every key cleared on logout.
var SessionStoreKeys = []string{
	StoreKeyAccessToken,
	StoreKeyRefreshToken,
	StoreKeyUserId,
	StoreKeyUserEmail,
}

// QuerySuggestions are the starter prompts shown on an empty chat.
var QuerySuggestions = []string{
	"Tell me about yourself",
	"Help me plan my day",
	"Explain quantum computing",
	"Write a creative story",
}
