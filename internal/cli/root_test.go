package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCommand(t *testing.T, parent *cobra.Command, name string) *cobra.Command {
	t.Helper()
	for _, cmd := range parent.Commands() {
		if cmd.Name() == name {
			return cmd
		}
	}
	t.Fatalf("command %q not registered under %q", name, parent.Name())
	return nil
}

func TestRootCommand_Structure(t *testing.T) {
	message := findCommand(t, rootCmd, "message")
	for _, sub := range []string{"get", "list", "create", "update"} {
		findCommand(t, message, sub)
	}

	folder := findCommand(t, rootCmd, "folder")
	for _, sub := range []string{"get", "create", "update"} {
		findCommand(t, folder, sub)
	}

	auth := findCommand(t, rootCmd, "auth")
	for _, sub := range []string{"login", "status"} {
		findCommand(t, auth, sub)
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	for _, name := range []string{"verbose", "user", "config"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "missing persistent flag %q", name)
	}
}

func TestSetVersion(t *testing.T) {
	SetVersion("1.2.3")

	require.Equal(t, "1.2.3", version)
	assert.Equal(t, "1.2.3", rootCmd.Version)
}

func TestBoundMessageFields_OnlyChangedFlagsBind(t *testing.T) {
	cmd := messageCreateCmd
	require.NoError(t, cmd.Flags().Set("subject", "Hello"))
	require.NoError(t, cmd.Flags().Set("to", "a@b.com"))

	fields, err := boundMessageFields(cmd)

	require.NoError(t, err)
	require.NotNil(t, fields.Subject)
	assert.Equal(t, "Hello", *fields.Subject)
	assert.Equal(t, []string{"a@b.com"}, fields.To)
	assert.Nil(t, fields.Cc, "unset flags stay unbound")
	assert.Nil(t, fields.IsRead)
	assert.Nil(t, fields.Body)
}
