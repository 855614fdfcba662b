package slack

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListConversations_Pagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/conversations.list", r.URL.Path)
		assert.Equal(t, "public_channel,private_channel,mpim,im", r.URL.Query().Get("types"))

		switch r.URL.Query().Get("cursor") {
		case "":
			fmt.Fprint(w, `{
				"ok": true,
				"channels": [
					{"id": "C1", "name": "general", "is_member": true},
					{"id": "C2", "name": "random", "is_private": true}
				],
				"response_metadata": {"next_cursor": "page2"}
			}`)
		case "page2":
			fmt.Fprint(w, `{
				"ok": true,
				"channels": [{"id": "D1", "is_im": true}],
				"response_metadata": {"next_cursor": ""}
			}`)
		default:
			t.Fatalf("unexpected cursor %q", r.URL.Query().Get("cursor"))
		}
	}))
	defer server.Close()

	client := NewClient("test-token", server.URL, 0)

	channels, err := client.ListConversations(context.Background())
	require.NoError(t, err)
	require.Len(t, channels, 3)

	assert.Equal(t, "C1", channels[0].ID)
	assert.True(t, channels[0].IsMember)
	assert.True(t, channels[1].IsPrivate)
	assert.True(t, channels[2].IsIM)
	assert.Empty(t, channels[2].Name)
}

func TestListConversations_PageFailureAborts(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			fmt.Fprint(w, `{
				"ok": true,
				"channels": [{"id": "C1", "name": "general"}],
				"response_metadata": {"next_cursor": "page2"}
			}`)
			return
		}
		fmt.Fprint(w, `{"ok": false, "error": "internal_error"}`)
	}))
	defer server.Close()

	client := NewClient("test-token", server.URL, 0)

	// Discovery must not act on a truncated channel list.
	channels, err := client.ListConversations(context.Background())
	require.Error(t, err)
	assert.Nil(t, channels)
}

func TestGetHistory_PartialOnPageFailure(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			assert.Equal(t, "100.000000", r.URL.Query().Get("oldest"))
			fmt.Fprint(w, `{
				"ok": true,
				"messages": [
					{"ts": "101.000000", "user": "U1", "text": "first"},
					{"ts": "102.000000", "user": "U2", "text": "second"}
				],
				"response_metadata": {"next_cursor": "page2"}
			}`)
			return
		}
		fmt.Fprint(w, `{"ok": false, "error": "internal_error"}`)
	}))
	defer server.Close()

	client := NewClient("test-token", server.URL, 0)

	// A failed later page keeps the pages already read.
	messages, err := client.GetHistory(context.Background(), "C1", "100.000000")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "101.000000", messages[0].TS)
	assert.Equal(t, "second", messages[1].Text)
}

func TestGetReplies_StrictPagination(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			assert.Equal(t, "101.000000", r.URL.Query().Get("ts"))
			fmt.Fprint(w, `{
				"ok": true,
				"messages": [{"ts": "101.000000", "user": "U1", "text": "parent", "reply_count": 2}],
				"response_metadata": {"next_cursor": "page2"}
			}`)
			return
		}
		fmt.Fprint(w, `{"ok": false, "error": "internal_error"}`)
	}))
	defer server.Close()

	client := NewClient("test-token", server.URL, 0)

	replies, err := client.GetReplies(context.Background(), "C1", "101.000000")
	require.Error(t, err, "a half-read thread must fail rather than return a partial reply set")
	assert.Nil(t, replies)
}

func TestGetReplies_IncludesParent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"ok": true,
			"messages": [
				{"ts": "101.000000", "user": "U1", "text": "parent", "thread_ts": "101.000000", "reply_count": 2},
				{"ts": "101.100000", "user": "U2", "text": "reply one", "thread_ts": "101.000000"},
				{"ts": "101.200000", "user": "U1", "text": "reply two", "thread_ts": "101.000000"}
			]
		}`)
	}))
	defer server.Close()

	client := NewClient("test-token", server.URL, 0)

	replies, err := client.GetReplies(context.Background(), "C1", "101.000000")
	require.NoError(t, err)
	require.Len(t, replies, 3)
	assert.Equal(t, "101.000000", replies[0].TS)
	assert.Equal(t, "101.000000", replies[1].ThreadTS)
}

func TestJoinConversation_AlreadyInChannel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/conversations.join", r.URL.Path)
		fmt.Fprint(w, `{"ok": false, "error": "already_in_channel"}`)
	}))
	defer server.Close()

	client := NewClient("test-token", server.URL, 0)

	err := client.JoinConversation(context.Background(), "C1")
	require.Error(t, err)
	assert.True(t, IsAlreadyInChannel(err))
}

func TestGetUser_ProfileFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users.info", r.URL.Path)
		assert.Equal(t, "U42", r.URL.Query().Get("user"))
		fmt.Fprint(w, `{
			"ok": true,
			"user": {
				"id": "U42",
				"name": "ann",
				"profile": {"real_name": "Ann Chen", "email": "ann@example.com"}
			}
		}`)
	}))
	defer server.Close()

	client := NewClient("test-token", server.URL, 0)

	user, err := client.GetUser(context.Background(), "U42")
	require.NoError(t, err)
	assert.Equal(t, "Ann Chen", user.RealName)
	assert.Equal(t, "ann@example.com", user.Email)
}
