package mail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Errors returned by identity resolution.
var (
	// ErrInvalidReference indicates a reference string that cannot be a
	// valid identity, rejected client-side before any network call.
	ErrInvalidReference = errors.New("mail: invalid reference")
)

// ResolutionError indicates a lookup for a reference came back not-found
// or otherwise failed. It carries the reference that triggered it.
type ResolutionError struct {
	Kind string // "folder" or "message"
	Ref  string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("mail: resolve %s %q: %v", e.Kind, e.Ref, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Graph message ids are 152 characters long. Any other length is
// rejected client-side rather than sent to the server.
const messageIDLength = 152

// wellKnownFolders is the set of folder names addressable directly as a
// path segment, no lookup required. Matching is case-insensitive.
var wellKnownFolders = map[string]struct{}{
	"archive":                   {},
	"clutter":                   {},
	"conflicts":                 {},
	"conversationhistory":       {},
	"deleteditems":              {},
	"drafts":                    {},
	"inbox":                     {},
	"junkemail":                 {},
	"localfailures":             {},
	"msgfolderroot":             {},
	"outbox":                    {},
	"recoverableitemsdeletions": {},
	"scheduled":                 {},
	"searchfolders":             {},
	"sentitems":                 {},
	"serverfailures":            {},
	"syncissues":                {},
}

// IsWellKnownFolder reports whether name is a well-known folder name.
func IsWellKnownFolder(name string) bool {
	_, ok := wellKnownFolders[strings.ToLower(name)]
	return ok
}

// Handle is a resolved mailbox object identity: a concrete id plus the
// display name that came with it. Owner carries the mailbox owner when
// the handle originated from a prior query against a specific mailbox.
type Handle struct {
	ID          string
	DisplayName string
	Owner       string
}

// FolderRef is a polymorphic folder reference: a well-known folder
// name, an opaque folder id, or a handle from a prior query. Exactly
// one variant is active.
type FolderRef struct {
	raw       string
	wellKnown string
	handle    *Handle
}

// FolderID creates a folder reference from a raw string. Well-known
// folder names are recognised here, once, so downstream code never
// re-inspects the string.
func FolderID(s string) FolderRef {
	s = strings.TrimSpace(s)
	if lower := strings.ToLower(s); IsWellKnownFolder(lower) {
		return FolderRef{wellKnown: lower}
	}
	return FolderRef{raw: s}
}

// FolderHandle creates a folder reference from an already-resolved handle.
func FolderHandle(h Handle) FolderRef {
	return FolderRef{handle: &h}
}

// IsZero reports whether no folder was referenced at all.
func (r FolderRef) IsZero() bool {
	return r.raw == "" && r.wellKnown == "" && r.handle == nil
}

// MessageRef is a polymorphic message reference: an opaque id string or
// a handle from a prior query.
type MessageRef struct {
	raw    string
	handle *Handle
}

// MessageID creates a message reference from a raw id string.
func MessageID(s string) MessageRef {
	return MessageRef{raw: strings.TrimSpace(s)}
}

// MessageHandle creates a message reference from an already-resolved handle.
func MessageHandle(h Handle) MessageRef {
	return MessageRef{handle: &h}
}

// OwnerOverride reports that a handle's embedded mailbox owner takes
// precedence over the explicitly passed scope user. The caller must
// surface this as a warning; resolution is not blocked.
type OwnerOverride struct {
	ScopeUser string
	Owner     string
}

func (o *OwnerOverride) String() string {
	return fmt.Sprintf("mailbox owner %q of the referenced object overrides user %q", o.Owner, o.ScopeUser)
}

// Getter is the read side of the Graph client used for lookups.
type Getter interface {
	Get(ctx context.Context, user, path string) (json.RawMessage, error)
}

// Resolver resolves polymorphic references into concrete handles,
// issuing at most one lookup per reference.
type Resolver struct {
	client Getter
}

// NewResolver creates a resolver backed by the given client.
func NewResolver(client Getter) *Resolver {
	return &Resolver{client: client}
}

// ResolveFolder resolves a folder reference within the given mailbox.
//   - A handle passes through unchanged, no network call.
//   - A well-known name is usable directly as a path segment, no lookup.
//   - Anything else is treated as an opaque id and looked up.
func (r *Resolver) ResolveFolder(ctx context.Context, ref FolderRef, scopeUser string) (Handle, *OwnerOverride, error) {
	switch {
	case ref.handle != nil:
		return *ref.handle, ownerOverride(ref.handle, scopeUser), nil
	case ref.wellKnown != "":
		return Handle{ID: ref.wellKnown, DisplayName: ref.wellKnown}, nil, nil
	case ref.raw == "":
		return Handle{}, nil, fmt.Errorf("%w: empty folder reference", ErrInvalidReference)
	}

	raw, err := r.client.Get(ctx, scopeUser, "mailFolders/"+url.PathEscape(ref.raw))
	if err != nil {
		return Handle{}, nil, &ResolutionError{Kind: "folder", Ref: ref.raw, Err: err}
	}

	h, err := decodeHandle(raw)
	if err != nil {
		return Handle{}, nil, &ResolutionError{Kind: "folder", Ref: ref.raw, Err: err}
	}
	return h, nil, nil
}

// ResolveMessage resolves a message reference within the given mailbox.
// A raw id must be exactly 152 characters; other lengths are rejected
// before any network call.
func (r *Resolver) ResolveMessage(ctx context.Context, ref MessageRef, scopeUser string) (Handle, *OwnerOverride, error) {
	if ref.handle != nil {
		return *ref.handle, ownerOverride(ref.handle, scopeUser), nil
	}

	if len(ref.raw) != messageIDLength {
		return Handle{}, nil, fmt.Errorf("%w: message id must be %d characters, got %d",
			ErrInvalidReference, messageIDLength, len(ref.raw))
	}

	raw, err := r.client.Get(ctx, scopeUser, "messages/"+url.PathEscape(ref.raw)+"?$select=id,subject")
	if err != nil {
		return Handle{}, nil, &ResolutionError{Kind: "message", Ref: ref.raw, Err: err}
	}

	var wire struct {
		ID      string `json:"id"`
		Subject string `json:"subject"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Handle{}, nil, &ResolutionError{Kind: "message", Ref: ref.raw, Err: err}
	}
	return Handle{ID: wire.ID, DisplayName: wire.Subject}, nil, nil
}

// messagePathID returns the id usable in a request path for a message
// reference without a resolution round-trip. Read operations use this
// so a single invocation issues a single GET.
func messagePathID(ref MessageRef) (string, error) {
	if ref.handle != nil {
		return ref.handle.ID, nil
	}
	if len(ref.raw) != messageIDLength {
		return "", fmt.Errorf("%w: message id must be %d characters, got %d",
			ErrInvalidReference, messageIDLength, len(ref.raw))
	}
	return ref.raw, nil
}

// folderPathID returns the id usable in a request path for a folder
// reference without a resolution round-trip.
func folderPathID(ref FolderRef) (string, error) {
	switch {
	case ref.handle != nil:
		return ref.handle.ID, nil
	case ref.wellKnown != "":
		return ref.wellKnown, nil
	case ref.raw != "":
		return ref.raw, nil
	}
	return "", fmt.Errorf("%w: empty folder reference", ErrInvalidReference)
}

func ownerOverride(h *Handle, scopeUser string) *OwnerOverride {
	if h.Owner == "" || scopeUser == "" || strings.EqualFold(h.Owner, scopeUser) {
		return nil
	}
	return &OwnerOverride{ScopeUser: scopeUser, Owner: h.Owner}
}

func decodeHandle(raw json.RawMessage) (Handle, error) {
	var wire struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Handle{}, fmt.Errorf("decode handle: %w", err)
	}
	return Handle{ID: wire.ID, DisplayName: wire.DisplayName}, nil
}
