package slack

import (
	"context"
	"log"
	"net/url"
	"strconv"

	"loopback-backend/internal/ingestion/domain"
)

// wire types for list-style endpoints

type conversationItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsPrivate bool   `json:"is_private"`
	IsIM      bool   `json:"is_im"`
	IsMPIM    bool   `json:"is_mpim"`
	IsMember  bool   `json:"is_member"`
}

type messageItem struct {
	TS         string `json:"ts"`
	User       string `json:"user"`
	Text       string `json:"text"`
	ThreadTS   string `json:"thread_ts"`
	ReplyCount int    `json:"reply_count"`
}

// fetchPages drives cursor pagination: fn handles one page and returns the
// next cursor, an empty cursor ends the loop. With partial=true a page
// failure keeps whatever earlier pages accumulated (single-channel faults
// must not sink a whole sweep); with partial=false it propagates, because a
// silently truncated conversation list is worse than a failed one.
func (c *Client) fetchPages(ctx context.Context, method string, partial bool, fn func(cursor string) (string, error)) error {
	cursor := ""
	for {
		next, err := fn(cursor)
		if err != nil {
			if partial {
				log.Printf("[Slack] %s pagination aborted, keeping partial result: %v", method, err)
				return nil
			}
			return err
		}
		if next == "" {
			return nil
		}
		cursor = next
	}
}

// ListConversations enumerates every conversation type the bot token can see.
func (c *Client) ListConversations(ctx context.Context) ([]domain.ConversationInfo, error) {
	var all []domain.ConversationInfo

	err := c.fetchPages(ctx, "conversations.list", false, func(cursor string) (string, error) {
		params := url.Values{}
		params.Set("types", "public_channel,private_channel,mpim,im")
		params.Set("exclude_archived", "true")
		params.Set("limit", strconv.Itoa(c.pageSize))
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		var resp struct {
			apiEnvelope
			Channels []conversationItem `json:"channels"`
		}
		if err := c.call(ctx, "conversations.list", params, &resp); err != nil {
			return "", err
		}

		for _, ch := range resp.Channels {
			all = append(all, domain.ConversationInfo{
				ID:        ch.ID,
				Name:      ch.Name,
				IsPrivate: ch.IsPrivate,
				IsIM:      ch.IsIM,
				IsMPIM:    ch.IsMPIM,
				IsMember:  ch.IsMember,
			})
		}
		return resp.ResponseMetadata.NextCursor, nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

// JoinConversation adds the bot to a public channel.
func (c *Client) JoinConversation(ctx context.Context, channelID string) error {
	params := url.Values{}
	params.Set("channel", channelID)
	return c.call(ctx, "conversations.join", params, nil)
}

// GetHistory fetches messages strictly newer than oldest. Slack treats the
// oldest parameter as exclusive unless inclusive=true is passed, which
// matches the watermark contract exactly.
func (c *Client) GetHistory(ctx context.Context, channelID, oldest string) ([]domain.ConversationMessage, error) {
	var all []domain.ConversationMessage

	err := c.fetchPages(ctx, "conversations.history", true, func(cursor string) (string, error) {
		params := url.Values{}
		params.Set("channel", channelID)
		params.Set("limit", strconv.Itoa(c.pageSize))
		if oldest != "" {
			params.Set("oldest", oldest)
		}
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		var resp struct {
			apiEnvelope
			Messages []messageItem `json:"messages"`
		}
		if err := c.call(ctx, "conversations.history", params, &resp); err != nil {
			return "", err
		}

		for _, m := range resp.Messages {
			all = append(all, toDomainMessage(m))
		}
		return resp.ResponseMetadata.NextCursor, nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

// GetReplies fetches a whole thread. The response includes the parent
// message itself; callers exclude it. Strict pagination here: a half-read
// thread would lose replies permanently once the watermark moves past them.
func (c *Client) GetReplies(ctx context.Context, channelID, threadTS string) ([]domain.ConversationMessage, error) {
	var all []domain.ConversationMessage

	err := c.fetchPages(ctx, "conversations.replies", false, func(cursor string) (string, error) {
		params := url.Values{}
		params.Set("channel", channelID)
		params.Set("ts", threadTS)
		params.Set("limit", strconv.Itoa(c.pageSize))
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		var resp struct {
			apiEnvelope
			Messages []messageItem `json:"messages"`
		}
		if err := c.call(ctx, "conversations.replies", params, &resp); err != nil {
			return "", err
		}

		for _, m := range resp.Messages {
			all = append(all, toDomainMessage(m))
		}
		return resp.ResponseMetadata.NextCursor, nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

// GetUser looks up one workspace member.
func (c *Client) GetUser(ctx context.Context, userID string) (*domain.MemberInfo, error) {
	params := url.Values{}
	params.Set("user", userID)

	var resp struct {
		apiEnvelope
		User struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Profile struct {
				RealName string `json:"real_name"`
				Email    string `json:"email"`
			} `json:"profile"`
		} `json:"user"`
	}
	if err := c.call(ctx, "users.info", params, &resp); err != nil {
		return nil, err
	}

	return &domain.MemberInfo{
		ID:       resp.User.ID,
		Name:     resp.User.Name,
		RealName: resp.User.Profile.RealName,
		Email:    resp.User.Profile.Email,
	}, nil
}

func toDomainMessage(m messageItem) domain.ConversationMessage {
	return domain.ConversationMessage{
		TS:         m.TS,
		User:       m.User,
		Text:       m.Text,
		ThreadTS:   m.ThreadTS,
		ReplyCount: m.ReplyCount,
	}
}
