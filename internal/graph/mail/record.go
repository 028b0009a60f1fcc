package mail

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrMalformedTimestamp indicates a date-time field that could not be parsed.
var ErrMalformedTimestamp = errors.New("mail: malformed timestamp")

// TimestampError reports which date-time field failed to parse.
type TimestampError struct {
	Field string
	Value string
	Err   error
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("mail: malformed timestamp in %s: %q: %v", e.Field, e.Value, e.Err)
}

func (e *TimestampError) Unwrap() error {
	return ErrMalformedTimestamp
}

// Importance is a message importance level.
type Importance string

// Importance levels recognised by Graph.
const (
	ImportanceLow    Importance = "low"
	ImportanceNormal Importance = "normal"
	ImportanceHigh   Importance = "high"
)

// MessageBody is the content of a message.
type MessageBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// MessageRecord is the response-side projection of a mail message:
// a flat record of typed fields built once from a JSON response and
// immutable after construction. Address fields are nil when the source
// JSON omitted them, so callers can tell "API omitted this" apart from
// "empty list".
type MessageRecord struct {
	ID                string
	Subject           string
	BodyPreview       string
	Body              *MessageBody
	Importance        Importance
	IsRead            bool
	IsDraft           bool
	HasAttachments    bool
	From              *MailAddress
	Sender            *MailAddress
	To                []MailAddress
	Cc                []MailAddress
	Bcc               []MailAddress
	ReplyTo           []MailAddress
	ConversationID    string
	ParentFolderID    string
	InternetMessageID string
	WebLink           string
	CreatedDateTime   time.Time
	LastModified      time.Time
	ReceivedDateTime  time.Time
	SentDateTime      time.Time
}

// FolderRecord is the response-side projection of a mail folder.
type FolderRecord struct {
	ID               string
	DisplayName      string
	ParentFolderID   string
	ChildFolderCount int
	UnreadItemCount  int
	TotalItemCount   int
	IsHidden         bool
}

// wireRecipient mirrors the Graph recipient object.
type wireRecipient struct {
	EmailAddress struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	} `json:"emailAddress"`
}

// UnmarshalJSON tolerates malformed recipient entries: an entry that
// does not decode stays the zero value and is later dropped from the
// record instead of failing the whole mapping.
func (w *wireRecipient) UnmarshalJSON(data []byte) error {
	type plain wireRecipient
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return nil
	}
	*w = wireRecipient(p)
	return nil
}

// wireMessage mirrors the Graph message object.
type wireMessage struct {
	ID                   string          `json:"id"`
	Subject              string          `json:"subject"`
	BodyPreview          string          `json:"bodyPreview"`
	Body                 *MessageBody    `json:"body"`
	Importance           string          `json:"importance"`
	IsRead               bool            `json:"isRead"`
	IsDraft              bool            `json:"isDraft"`
	HasAttachments       bool            `json:"hasAttachments"`
	From                 *wireRecipient  `json:"from"`
	Sender               *wireRecipient  `json:"sender"`
	ToRecipients         []wireRecipient `json:"toRecipients"`
	CcRecipients         []wireRecipient `json:"ccRecipients"`
	BccRecipients        []wireRecipient `json:"bccRecipients"`
	ReplyTo              []wireRecipient `json:"replyTo"`
	ConversationID       string          `json:"conversationId"`
	ParentFolderID       string          `json:"parentFolderId"`
	InternetMessageID    string          `json:"internetMessageId"`
	WebLink              string          `json:"webLink"`
	CreatedDateTime      string          `json:"createdDateTime"`
	LastModifiedDateTime string          `json:"lastModifiedDateTime"`
	ReceivedDateTime     string          `json:"receivedDateTime"`
	SentDateTime         string          `json:"sentDateTime"`
}

// MapMessage converts a raw Graph message response into a MessageRecord.
// Malformed address sub-objects are dropped silently; malformed
// timestamps fail the mapping.
func MapMessage(raw json.RawMessage) (*MessageRecord, error) {
	var wire wireMessage
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}

	rec := &MessageRecord{
		ID:                wire.ID,
		Subject:           wire.Subject,
		BodyPreview:       wire.BodyPreview,
		Body:              wire.Body,
		Importance:        Importance(wire.Importance),
		IsRead:            wire.IsRead,
		IsDraft:           wire.IsDraft,
		HasAttachments:    wire.HasAttachments,
		From:              mapAddress(wire.From),
		Sender:            mapAddress(wire.Sender),
		To:                mapAddressList(wire.ToRecipients),
		Cc:                mapAddressList(wire.CcRecipients),
		Bcc:               mapAddressList(wire.BccRecipients),
		ReplyTo:           mapAddressList(wire.ReplyTo),
		ConversationID:    wire.ConversationID,
		ParentFolderID:    wire.ParentFolderID,
		InternetMessageID: wire.InternetMessageID,
		WebLink:           wire.WebLink,
	}

	for _, ts := range []struct {
		field string
		value string
		dest  *time.Time
	}{
		{"createdDateTime", wire.CreatedDateTime, &rec.CreatedDateTime},
		{"lastModifiedDateTime", wire.LastModifiedDateTime, &rec.LastModified},
		{"receivedDateTime", wire.ReceivedDateTime, &rec.ReceivedDateTime},
		{"sentDateTime", wire.SentDateTime, &rec.SentDateTime},
	} {
		if ts.value == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, ts.value)
		if err != nil {
			return nil, &TimestampError{Field: ts.field, Value: ts.value, Err: err}
		}
		*ts.dest = t
	}

	return rec, nil
}

// MapFolder converts a raw Graph mailFolder response into a FolderRecord.
func MapFolder(raw json.RawMessage) (*FolderRecord, error) {
	var wire struct {
		ID               string `json:"id"`
		DisplayName      string `json:"displayName"`
		ParentFolderID   string `json:"parentFolderId"`
		ChildFolderCount int    `json:"childFolderCount"`
		UnreadItemCount  int    `json:"unreadItemCount"`
		TotalItemCount   int    `json:"totalItemCount"`
		IsHidden         bool   `json:"isHidden"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode folder: %w", err)
	}

	return &FolderRecord{
		ID:               wire.ID,
		DisplayName:      wire.DisplayName,
		ParentFolderID:   wire.ParentFolderID,
		ChildFolderCount: wire.ChildFolderCount,
		UnreadItemCount:  wire.UnreadItemCount,
		TotalItemCount:   wire.TotalItemCount,
		IsHidden:         wire.IsHidden,
	}, nil
}

// mapAddress reconstructs a single-address field. A missing or
// malformed recipient maps to nil rather than failing the record.
func mapAddress(w *wireRecipient) *MailAddress {
	if w == nil || w.EmailAddress.Address == "" {
		return nil
	}
	return &MailAddress{
		Address:     w.EmailAddress.Address,
		DisplayName: w.EmailAddress.Name,
	}
}

// mapAddressList reconstructs an address-list field. An absent list
// stays nil; a present list maps entry by entry, dropping malformed
// entries silently.
func mapAddressList(wire []wireRecipient) []MailAddress {
	if wire == nil {
		return nil
	}
	out := make([]MailAddress, 0, len(wire))
	for _, w := range wire {
		if w.EmailAddress.Address == "" {
			continue
		}
		out = append(out, MailAddress{
			Address:     w.EmailAddress.Address,
			DisplayName: w.EmailAddress.Name,
		})
	}
	return out
}
