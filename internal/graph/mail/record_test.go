package mail

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullMessageJSON = `{
	"id": "AAMkAGI2ABC123",
	"subject": "Quarterly review",
	"bodyPreview": "Agenda attached",
	"body": {"contentType": "html", "content": "<p>Agenda attached</p>"},
	"importance": "high",
	"isRead": false,
	"isDraft": false,
	"hasAttachments": true,
	"from": {"emailAddress": {"name": "Alice Doe", "address": "alice@example.com"}},
	"sender": {"emailAddress": {"name": "Alice Doe", "address": "alice@example.com"}},
	"toRecipients": [
		{"emailAddress": {"name": "Bob", "address": "bob@example.com"}},
		{"emailAddress": {"name": "", "address": "carol@example.com"}}
	],
	"ccRecipients": [],
	"replyTo": [{"emailAddress": {"name": "Helpdesk", "address": "help@example.com"}}],
	"conversationId": "AAQkAGI2CONV123",
	"parentFolderId": "inbox",
	"internetMessageId": "<msg-1@example.com>",
	"webLink": "https://outlook.office.com/mail/id/AAMkAGI2ABC123",
	"createdDateTime": "2024-01-15T10:28:00Z",
	"lastModifiedDateTime": "2024-01-15T10:31:00Z",
	"receivedDateTime": "2024-01-15T10:30:00Z",
	"sentDateTime": "2024-01-15T10:29:00Z"
}`

func TestMapMessage(t *testing.T) {
	rec, err := MapMessage(json.RawMessage(fullMessageJSON))

	require.NoError(t, err)
	assert.Equal(t, "AAMkAGI2ABC123", rec.ID)
	assert.Equal(t, "Quarterly review", rec.Subject)
	assert.Equal(t, ImportanceHigh, rec.Importance)
	assert.False(t, rec.IsRead)
	assert.True(t, rec.HasAttachments)

	require.NotNil(t, rec.Body)
	assert.Equal(t, "html", rec.Body.ContentType)

	require.NotNil(t, rec.From)
	assert.Equal(t, MailAddress{Address: "alice@example.com", DisplayName: "Alice Doe"}, *rec.From)

	require.Len(t, rec.To, 2)
	assert.Equal(t, "bob@example.com", rec.To[0].Address)
	assert.Equal(t, "carol@example.com", rec.To[1].Address)

	assert.NotNil(t, rec.Cc, "present empty list stays an empty list")
	assert.Empty(t, rec.Cc)
	assert.Nil(t, rec.Bcc, "absent list stays nil")

	require.Len(t, rec.ReplyTo, 1)
	assert.Equal(t, "help@example.com", rec.ReplyTo[0].Address)

	assert.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), rec.ReceivedDateTime)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 29, 0, 0, time.UTC), rec.SentDateTime)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 28, 0, 0, time.UTC), rec.CreatedDateTime)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 31, 0, 0, time.UTC), rec.LastModified)
}

func TestMapMessage_MalformedTimestamp(t *testing.T) {
	raw := json.RawMessage(`{"id":"x","receivedDateTime":"yesterday at noon"}`)

	_, err := MapMessage(raw)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedTimestamp)

	var tsErr *TimestampError
	require.ErrorAs(t, err, &tsErr)
	assert.Equal(t, "receivedDateTime", tsErr.Field)
	assert.Equal(t, "yesterday at noon", tsErr.Value)
}

func TestMapMessage_MalformedFromDroppedSilently(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "AAMkAGI2ABC123",
		"subject": "Still maps",
		"from": {"emailAddress": "not-an-object"},
		"toRecipients": [{"emailAddress": {"name": "Bob", "address": "bob@example.com"}}]
	}`)

	rec, err := MapMessage(raw)

	require.NoError(t, err, "a malformed address entry must not fail the mapping")
	assert.Nil(t, rec.From, "malformed from is omitted")
	assert.Equal(t, "Still maps", rec.Subject)
	require.Len(t, rec.To, 1, "other valid fields still map")
}

func TestMapMessage_MalformedListEntriesDropped(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "x",
		"toRecipients": [
			{"emailAddress": {"name": "Bob", "address": "bob@example.com"}},
			{"emailAddress": {"name": "No Address", "address": ""}},
			{"emailAddress": {"name": "Carol", "address": "carol@example.com"}}
		]
	}`)

	rec, err := MapMessage(raw)

	require.NoError(t, err)
	require.Len(t, rec.To, 2)
	assert.Equal(t, "bob@example.com", rec.To[0].Address)
	assert.Equal(t, "carol@example.com", rec.To[1].Address)
}

func TestMapMessage_InvalidJSON(t *testing.T) {
	_, err := MapMessage(json.RawMessage(`{"id":`))

	assert.Error(t, err)
}

func TestMapFolder(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "AAMkFolder123=",
		"displayName": "Projects",
		"parentFolderId": "AAMkRoot=",
		"childFolderCount": 2,
		"unreadItemCount": 5,
		"totalItemCount": 40,
		"isHidden": false
	}`)

	rec, err := MapFolder(raw)

	require.NoError(t, err)
	assert.Equal(t, "AAMkFolder123=", rec.ID)
	assert.Equal(t, "Projects", rec.DisplayName)
	assert.Equal(t, "AAMkRoot=", rec.ParentFolderID)
	assert.Equal(t, 2, rec.ChildFolderCount)
	assert.Equal(t, 5, rec.UnreadItemCount)
	assert.Equal(t, 40, rec.TotalItemCount)
	assert.False(t, rec.IsHidden)
}
