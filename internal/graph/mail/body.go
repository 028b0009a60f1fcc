package mail

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptyBody indicates a request body with zero bound fields.
// Callers must not issue a no-op request.
var ErrEmptyBody = errors.New("mail: no fields bound, request body would be empty")

// Body assembles a Graph request body from bound fields. Fields
// serialize in the order they were bound; binding a field a second
// time replaces the value in place. Only bound fields appear in the
// output, so "field omitted" never reaches the wire.
type Body struct {
	fields []bodyField
}

type bodyField struct {
	name  string
	value json.RawMessage
}

// NewBody creates an empty request body.
func NewBody() *Body {
	return &Body{}
}

// Len returns the number of bound fields.
func (b *Body) Len() int {
	return len(b.fields)
}

// SetString binds a string field.
func (b *Body) SetString(name, value string) {
	b.set(name, mustMarshal(value))
}

// SetBool binds a boolean field.
func (b *Body) SetBool(name string, value bool) {
	b.set(name, mustMarshal(value))
}

// SetRaw binds a pre-serialized JSON value.
func (b *Body) SetRaw(name string, value json.RawMessage) {
	b.set(name, value)
}

// SetAddress binds a single-address field (sender, from) as a bare
// recipient object. The clear-field sentinel serializes with empty
// address and name, which the API reads as "remove this value".
func (b *Body) SetAddress(name string, addr MailAddress) {
	b.set(name, recipientJSON(addr))
}

// SetAddressList binds an address-list field (toRecipients,
// ccRecipients, bccRecipients, replyTo). The output is always a JSON
// array, even for a single element: a singleton list must not collapse
// into a bare object.
func (b *Body) SetAddressList(name string, addrs []MailAddress) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, addr := range addrs {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(recipientJSON(addr))
	}
	buf.WriteByte(']')
	b.set(name, json.RawMessage(buf.Bytes()))
}

func (b *Body) set(name string, value json.RawMessage) {
	for i := range b.fields {
		if b.fields[i].name == name {
			b.fields[i].value = value
			return
		}
	}
	b.fields = append(b.fields, bodyField{name: name, value: value})
}

// Build produces the final JSON object. Keys appear in binding order.
// Fails with ErrEmptyBody when no field was bound.
func (b *Body) Build() ([]byte, error) {
	if len(b.fields) == 0 {
		return nil, ErrEmptyBody
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range b.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.name)
		if err != nil {
			return nil, fmt.Errorf("marshal field name %q: %w", f.name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(f.value)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// recipientJSON serializes an address as a Graph recipient object.
func recipientJSON(addr MailAddress) json.RawMessage {
	type emailAddress struct {
		Address string `json:"address"`
		Name    string `json:"name"`
	}
	type recipient struct {
		EmailAddress emailAddress `json:"emailAddress"`
	}
	return mustMarshal(recipient{EmailAddress: emailAddress{
		Address: addr.Address,
		Name:    addr.DisplayName,
	}})
}

// mustMarshal marshals values that cannot fail (strings, booleans,
// plain structs of strings).
func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
