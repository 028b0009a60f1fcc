package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/graphmail/internal/graph/mail"
)

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Read, create and update mail folders",
}

var folderGetCmd = &cobra.Command{
	Use:   "get [folder]",
	Short: "Fetch a single mail folder",
	Long: `Fetch a mail folder by well-known name (inbox, drafts, sentitems, ...)
or by opaque folder id. Well-known names resolve locally without a
lookup request.`,
	Args: cobra.ExactArgs(1),
	RunE: runFolderGet,
}

var folderCreateCmd = &cobra.Command{
	Use:   "create [display-name]",
	Short: "Create a mail folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runFolderCreate,
}

var folderUpdateCmd = &cobra.Command{
	Use:   "update [folder]",
	Short: "Rename a mail folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runFolderUpdate,
}

// Flags for folder commands.
var (
	folderParent  string
	folderNewName string
)

func init() {
	folderCreateCmd.Flags().StringVar(&folderParent, "parent", "",
		"parent folder (well-known name or id); omit to create at the mailbox root")
	folderUpdateCmd.Flags().StringVar(&folderNewName, "name", "", "new display name")

	folderCmd.AddCommand(folderGetCmd, folderCreateCmd, folderUpdateCmd)
	rootCmd.AddCommand(folderCmd)
}

func runFolderGet(cmd *cobra.Command, args []string) error {
	svc, user, err := newMailService()
	if err != nil {
		return err
	}

	rec, err := svc.GetFolder(cmd.Context(), user, mail.FolderID(args[0]))
	if err != nil {
		return err
	}

	cmd.Println(renderFolder(rec))
	return nil
}

func runFolderCreate(cmd *cobra.Command, args []string) error {
	svc, user, err := newMailService()
	if err != nil {
		return err
	}

	var parent mail.FolderRef
	if folderParent != "" {
		parent = mail.FolderID(folderParent)
	}

	rec, override, err := svc.CreateFolder(cmd.Context(), user, args[0], parent)
	if override != nil {
		cmd.PrintErrln(renderOverride(override))
	}
	if err != nil {
		return err
	}

	cmd.Println(renderFolder(rec))
	return nil
}

func runFolderUpdate(cmd *cobra.Command, args []string) error {
	svc, user, err := newMailService()
	if err != nil {
		return err
	}

	var fields mail.FolderFields
	if cmd.Flags().Changed("name") {
		fields.DisplayName = &folderNewName
	}

	rec, override, err := svc.UpdateFolder(cmd.Context(), user, mail.FolderID(args[0]), fields)
	if override != nil {
		cmd.PrintErrln(renderOverride(override))
	}
	if err != nil {
		return err
	}

	cmd.Println(renderFolder(rec))
	return nil
}
