package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/custodia-labs/graphmail/internal/graph"
)

// Client is the slice of the Graph client the mail service depends on.
// *graph.Client satisfies it.
type Client interface {
	Get(ctx context.Context, user, path string) (json.RawMessage, error)
	Post(ctx context.Context, user, path string, body []byte) (json.RawMessage, error)
	Patch(ctx context.Context, user, path string, body []byte) (json.RawMessage, error)
}

// Service wires resolution, body assembly and response mapping into the
// mailbox operations. All state lives for a single invocation: nothing
// is cached between calls.
type Service struct {
	client   Client
	tokens   graph.TokenProvider
	resolver *Resolver
}

// NewService creates a mail service on top of a Graph client.
func NewService(client Client, tokens graph.TokenProvider) *Service {
	return &Service{
		client:   client,
		tokens:   tokens,
		resolver: NewResolver(client),
	}
}

// MessageFields carries the caller-bound message fields. A nil pointer
// or nil slice means the field was not bound and must not be touched;
// an empty value means "clear this field".
type MessageFields struct {
	Subject    *string
	Body       *MessageBody
	Importance *Importance
	IsRead     *bool
	From       *string
	Sender     *string
	To         []string
	Cc         []string
	Bcc        []string
	ReplyTo    []string
}

// build assembles the request body from the bound fields.
func (f MessageFields) build() (*Body, error) {
	body := NewBody()

	if f.Subject != nil {
		body.SetString("subject", *f.Subject)
	}
	if f.Body != nil {
		body.SetRaw("body", mustMarshal(f.Body))
	}
	if f.Importance != nil {
		body.SetString("importance", string(*f.Importance))
	}
	if f.IsRead != nil {
		body.SetBool("isRead", *f.IsRead)
	}

	for _, single := range []struct {
		name  string
		value *string
	}{
		{"from", f.From},
		{"sender", f.Sender},
	} {
		if single.value == nil {
			continue
		}
		addr, err := ParseAddress(*single.value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", single.name, err)
		}
		body.SetAddress(single.name, addr)
	}

	for _, list := range []struct {
		name   string
		values []string
	}{
		{"toRecipients", f.To},
		{"ccRecipients", f.Cc},
		{"bccRecipients", f.Bcc},
		{"replyTo", f.ReplyTo},
	} {
		if list.values == nil {
			continue
		}
		addrs, err := ParseAddressList(list.values)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", list.name, err)
		}
		body.SetAddressList(list.name, addrs)
	}

	return body, nil
}

// GetMessage fetches a single message. The reference is validated
// client-side, so the invocation issues exactly one GET.
func (s *Service) GetMessage(ctx context.Context, user string, ref MessageRef) (*MessageRecord, error) {
	if err := graph.RequireScope(s.tokens, graph.ScopeMailRead); err != nil {
		return nil, err
	}

	id, err := messagePathID(ref)
	if err != nil {
		return nil, err
	}

	raw, err := s.client.Get(ctx, user, "messages/"+url.PathEscape(id))
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	return MapMessage(raw)
}

// CreateMessage creates a draft message, in the given folder when one
// is referenced, otherwise in the default drafts location.
func (s *Service) CreateMessage(ctx context.Context, user string, folder FolderRef, fields MessageFields) (*MessageRecord, *OwnerOverride, error) {
	if err := graph.RequireScope(s.tokens, graph.ScopeMailReadWrite); err != nil {
		return nil, nil, err
	}

	body, err := fields.build()
	if err != nil {
		return nil, nil, err
	}
	payload, err := body.Build()
	if err != nil {
		return nil, nil, err
	}

	path := "messages"
	var override *OwnerOverride
	if !folder.IsZero() {
		handle, ov, err := s.resolver.ResolveFolder(ctx, folder, user)
		if err != nil {
			return nil, nil, err
		}
		override = ov
		if ov != nil {
			user = ov.Owner
		}
		path = "mailFolders/" + url.PathEscape(handle.ID) + "/messages"
	}

	raw, err := s.client.Post(ctx, user, path, payload)
	if err != nil {
		return nil, override, fmt.Errorf("create message: %w", err)
	}

	rec, err := MapMessage(raw)
	return rec, override, err
}

// UpdateMessage patches the bound fields of an existing message.
func (s *Service) UpdateMessage(ctx context.Context, user string, ref MessageRef, fields MessageFields) (*MessageRecord, *OwnerOverride, error) {
	if err := graph.RequireScope(s.tokens, graph.ScopeMailReadWrite); err != nil {
		return nil, nil, err
	}

	body, err := fields.build()
	if err != nil {
		return nil, nil, err
	}
	payload, err := body.Build()
	if err != nil {
		return nil, nil, err
	}

	id, err := messagePathID(ref)
	if err != nil {
		return nil, nil, err
	}
	var override *OwnerOverride
	if h := ref.handle; h != nil {
		if override = ownerOverride(h, user); override != nil {
			user = override.Owner
		}
	}

	raw, err := s.client.Patch(ctx, user, "messages/"+url.PathEscape(id), payload)
	if err != nil {
		return nil, override, fmt.Errorf("update message: %w", err)
	}

	rec, err := MapMessage(raw)
	return rec, override, err
}

// UpdateItem is one entry of a pipeline batch update.
type UpdateItem struct {
	Ref    MessageRef
	Fields MessageFields
}

// ItemResult is the outcome of one pipeline item.
type ItemResult struct {
	Index    int
	Record   *MessageRecord
	Override *OwnerOverride
	Err      error
}

// UpdateMessages processes pipeline items one at a time in input order.
// A failure on one item is recorded and processing continues with the
// next; there is no all-or-nothing transaction.
func (s *Service) UpdateMessages(ctx context.Context, user string, items []UpdateItem) []ItemResult {
	results := make([]ItemResult, 0, len(items))
	for i, item := range items {
		rec, ov, err := s.UpdateMessage(ctx, user, item.Ref, item.Fields)
		results = append(results, ItemResult{Index: i, Record: rec, Override: ov, Err: err})
	}
	return results
}

// MessagePage is one page of a folder listing. NextLink is the opaque
// continuation URL Graph returned, empty on the last page.
type MessagePage struct {
	Messages []*MessageRecord
	NextLink string
}

// ListMessages lists messages, scoped to a folder when one is
// referenced. Pagination is Graph's: only the returned NextLink is
// surfaced, no pages are fetched implicitly.
func (s *Service) ListMessages(ctx context.Context, user string, folder FolderRef, top int) (*MessagePage, error) {
	if err := graph.RequireScope(s.tokens, graph.ScopeMailRead); err != nil {
		return nil, err
	}

	path := "messages"
	if !folder.IsZero() {
		id, err := folderPathID(folder)
		if err != nil {
			return nil, err
		}
		path = "mailFolders/" + url.PathEscape(id) + "/messages"
	}
	if top > 0 {
		path += "?$top=" + strconv.Itoa(top)
	}

	raw, err := s.client.Get(ctx, user, path)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	var wire struct {
		Value    []json.RawMessage `json:"value"`
		NextLink string            `json:"@odata.nextLink"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode message list: %w", err)
	}

	page := &MessagePage{NextLink: wire.NextLink}
	for _, item := range wire.Value {
		rec, err := MapMessage(item)
		if err != nil {
			return nil, err
		}
		page.Messages = append(page.Messages, rec)
	}
	return page, nil
}

// GetFolder fetches a single mail folder. Well-known names go straight
// into the path, no resolution round-trip.
func (s *Service) GetFolder(ctx context.Context, user string, ref FolderRef) (*FolderRecord, error) {
	if err := graph.RequireScope(s.tokens, graph.ScopeMailRead); err != nil {
		return nil, err
	}

	id, err := folderPathID(ref)
	if err != nil {
		return nil, err
	}

	raw, err := s.client.Get(ctx, user, "mailFolders/"+url.PathEscape(id))
	if err != nil {
		return nil, fmt.Errorf("get folder: %w", err)
	}
	return MapFolder(raw)
}

// CreateFolder creates a mail folder, as a child of the referenced
// parent when one is given, otherwise at the mailbox root.
func (s *Service) CreateFolder(ctx context.Context, user, displayName string, parent FolderRef) (*FolderRecord, *OwnerOverride, error) {
	if err := graph.RequireScope(s.tokens, graph.ScopeMailReadWrite); err != nil {
		return nil, nil, err
	}

	body := NewBody()
	body.SetString("displayName", displayName)
	payload, err := body.Build()
	if err != nil {
		return nil, nil, err
	}

	path := "mailFolders"
	var override *OwnerOverride
	if !parent.IsZero() {
		handle, ov, err := s.resolver.ResolveFolder(ctx, parent, user)
		if err != nil {
			return nil, nil, err
		}
		override = ov
		if ov != nil {
			user = ov.Owner
		}
		path = "mailFolders/" + url.PathEscape(handle.ID) + "/childFolders"
	}

	raw, err := s.client.Post(ctx, user, path, payload)
	if err != nil {
		return nil, override, fmt.Errorf("create folder: %w", err)
	}

	rec, err := MapFolder(raw)
	return rec, override, err
}

// FolderFields carries the caller-bound folder fields.
type FolderFields struct {
	DisplayName *string
}

// UpdateFolder patches the bound fields of an existing folder.
func (s *Service) UpdateFolder(ctx context.Context, user string, ref FolderRef, fields FolderFields) (*FolderRecord, *OwnerOverride, error) {
	if err := graph.RequireScope(s.tokens, graph.ScopeMailReadWrite); err != nil {
		return nil, nil, err
	}

	body := NewBody()
	if fields.DisplayName != nil {
		body.SetString("displayName", *fields.DisplayName)
	}
	payload, err := body.Build()
	if err != nil {
		return nil, nil, err
	}

	id, err := folderPathID(ref)
	if err != nil {
		return nil, nil, err
	}
	var override *OwnerOverride
	if h := ref.handle; h != nil {
		if override = ownerOverride(h, user); override != nil {
			user = override.Owner
		}
	}

	raw, err := s.client.Patch(ctx, user, "mailFolders/"+url.PathEscape(id), payload)
	if err != nil {
		return nil, override, fmt.Errorf("update folder: %w", err)
	}

	rec, err := MapFolder(raw)
	return rec, override, err
}
