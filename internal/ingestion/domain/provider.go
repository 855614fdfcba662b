package domain

import "context"

// ConversationInfo is channel metadata as returned by the chat provider.
type ConversationInfo struct {
	ID        string
	Name      string
	IsPrivate bool
	IsIM      bool
	IsMPIM    bool
	IsMember  bool
}

// ConversationMessage is one raw message from the provider. ReplyCount > 0
// means the message heads a thread whose replies need a secondary fetch.
type ConversationMessage struct {
	TS         string
	User       string
	Text       string
	ThreadTS   string
	ReplyCount int
}

// MemberInfo is a workspace member as returned by the provider.
type MemberInfo struct {
	ID       string
	Name     string
	RealName string
	Email    string
}

// ChatProvider is the boundary to the external chat workspace API.
// Implementations handle rate limiting and pagination internally; callers
// only see materialized results.
type ChatProvider interface {
	// ListConversations enumerates every conversation visible to the bot
	// credential. A page failure aborts the whole listing.
	ListConversations(ctx context.Context) ([]ConversationInfo, error)
	// JoinConversation adds the bot to a public conversation. Idempotent on
	// the provider side.
	JoinConversation(ctx context.Context, channelID string) error
	// GetHistory fetches messages strictly newer than oldest (exclusive).
	// Pass "" for the full history. A page failure returns the pages
	// accumulated so far.
	GetHistory(ctx context.Context, channelID, oldest string) ([]ConversationMessage, error)
	// GetReplies fetches a thread, including the parent message itself.
	GetReplies(ctx context.Context, channelID, threadTS string) ([]ConversationMessage, error)
	// GetUser looks up a workspace member by id.
	GetUser(ctx context.Context, userID string) (*MemberInfo, error)
}
