package mail

import (
	"errors"
	"fmt"
	netmail "net/mail"
	"strings"
)

// ErrInvalidAddressFormat indicates an input string is neither a bare
// address nor a "Display Name address" pair.
var ErrInvalidAddressFormat = errors.New("mail: invalid address format")

// AddressError reports which input string failed to parse and carries
// the underlying diagnostic.
type AddressError struct {
	Input string
	Err   error
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("mail: invalid address %q: %v", e.Input, e.Err)
}

func (e *AddressError) Unwrap() error {
	return ErrInvalidAddressFormat
}

// MailAddress is a validated (address, display name) pair.
// The zero value is the clear-field sentinel: serialized into a request
// it tells the API to remove the current value, as opposed to leaving
// the field untouched (which is signalled by not binding it at all).
type MailAddress struct {
	Address     string
	DisplayName string
}

// IsClear reports whether the address is the clear-field sentinel.
func (a MailAddress) IsClear() bool {
	return a.Address == "" && a.DisplayName == ""
}

// String renders the address for display.
func (a MailAddress) String() string {
	if a.DisplayName != "" {
		return fmt.Sprintf("%s <%s>", a.DisplayName, a.Address)
	}
	return a.Address
}

// ParseAddress parses a free-form string into a MailAddress. Accepted
// forms are "name@domain" and "Display Name name@domain": everything up
// to the last space is the display name, the rest must be a valid
// address. An empty input yields the clear-field sentinel.
func ParseAddress(input string) (MailAddress, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return MailAddress{}, nil
	}

	addr := s
	name := ""
	if i := strings.LastIndexByte(s, ' '); i >= 0 {
		addr = s[i+1:]
		name = strings.TrimSpace(s[:i])
	}

	parsed, err := netmail.ParseAddress(addr)
	if err != nil {
		return MailAddress{}, &AddressError{Input: input, Err: err}
	}

	return MailAddress{Address: parsed.Address, DisplayName: name}, nil
}

// ParseAddressList parses a slice of free-form address strings.
// Empty or absent input produces a single clear-field sentinel entry,
// never an error; the caller tracks "field omitted" separately.
func ParseAddressList(inputs []string) ([]MailAddress, error) {
	out := make([]MailAddress, 0, len(inputs))
	for _, input := range inputs {
		if strings.TrimSpace(input) == "" {
			continue
		}
		addr, err := ParseAddress(input)
		if err != nil {
			return nil, err
		}
		out = append(out, addr)
	}

	if len(out) == 0 {
		return []MailAddress{{}}, nil
	}
	return out, nil
}
