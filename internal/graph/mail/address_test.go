package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected MailAddress
		wantErr  bool
	}{
		{
			name:     "bare address",
			input:    "alice@example.com",
			expected: MailAddress{Address: "alice@example.com"},
		},
		{
			name:     "display name and address",
			input:    "Alice Doe alice@example.com",
			expected: MailAddress{Address: "alice@example.com", DisplayName: "Alice Doe"},
		},
		{
			name:     "single word display name",
			input:    "Alice alice@example.com",
			expected: MailAddress{Address: "alice@example.com", DisplayName: "Alice"},
		},
		{
			name:     "surrounding whitespace",
			input:    "  bob@example.com  ",
			expected: MailAddress{Address: "bob@example.com"},
		},
		{
			name:     "empty input is the clear sentinel",
			input:    "",
			expected: MailAddress{},
		},
		{
			name:     "whitespace only is the clear sentinel",
			input:    "   ",
			expected: MailAddress{},
		},
		{
			name:    "no at sign",
			input:   "not-an-address",
			wantErr: true,
		},
		{
			name:    "display name with invalid address",
			input:   "Alice Doe nonsense",
			wantErr: true,
		},
		{
			name:    "missing domain",
			input:   "alice@",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := ParseAddress(tt.input)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidAddressFormat)

				var addrErr *AddressError
				require.ErrorAs(t, err, &addrErr)
				assert.Equal(t, tt.input, addrErr.Input, "error must report the failing input")
				assert.Error(t, addrErr.Err, "error must carry the underlying diagnostic")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, addr)
		})
	}
}

func TestParseAddressList(t *testing.T) {
	addrs, err := ParseAddressList([]string{"alice@example.com", "Bob B bob@example.com"})

	require.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.Equal(t, MailAddress{Address: "alice@example.com"}, addrs[0])
	assert.Equal(t, MailAddress{Address: "bob@example.com", DisplayName: "Bob B"}, addrs[1])
}

func TestParseAddressList_EmptyInputYieldsSentinel(t *testing.T) {
	tests := []struct {
		name   string
		inputs []string
	}{
		{name: "nil slice", inputs: nil},
		{name: "empty slice", inputs: []string{}},
		{name: "single empty string", inputs: []string{""}},
		{name: "blank strings only", inputs: []string{"", "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addrs, err := ParseAddressList(tt.inputs)

			require.NoError(t, err, "empty input must never error")
			require.Len(t, addrs, 1)
			assert.True(t, addrs[0].IsClear(), "empty input yields the clear-field sentinel")
		})
	}
}

func TestParseAddressList_InvalidEntry(t *testing.T) {
	_, err := ParseAddressList([]string{"alice@example.com", "broken"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidAddressFormat)

	var addrErr *AddressError
	require.ErrorAs(t, err, &addrErr)
	assert.Equal(t, "broken", addrErr.Input)
}

func TestMailAddress_String(t *testing.T) {
	assert.Equal(t, "alice@example.com", MailAddress{Address: "alice@example.com"}.String())
	assert.Equal(t, "Alice <alice@example.com>",
		MailAddress{Address: "alice@example.com", DisplayName: "Alice"}.String())
}
