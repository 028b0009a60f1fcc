package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/graphmail/internal/graph/mail"
)

var messageCmd = &cobra.Command{
	Use:   "message",
	Short: "Read, create and update mail messages",
}

var messageGetCmd = &cobra.Command{
	Use:   "get [message-id]",
	Short: "Fetch a single mail message",
	Args:  cobra.ExactArgs(1),
	RunE:  runMessageGet,
}

var messageListCmd = &cobra.Command{
	Use:   "list [folder]",
	Short: "List messages, optionally scoped to a folder",
	Long: `List messages in the mailbox, or in a single folder.

The folder argument accepts a well-known folder name (inbox, drafts,
sentitems, ...) or an opaque folder id.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMessageList,
}

var messageCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a draft mail message",
	Long: `Create a draft message. With --folder the draft is created in that
folder, otherwise in the default drafts location.

Address flags accept "name@domain" or "Display Name name@domain".

Examples:
  graphmail message create --subject "Hello" --to alice@example.com
  graphmail message create --subject "Hi" --to "Alice Doe alice@example.com" --folder drafts`,
	RunE: runMessageCreate,
}

var messageUpdateCmd = &cobra.Command{
	Use:   "update [message-id...]",
	Short: "Update fields of existing mail messages",
	Long: `Update one or more messages. Only flags that are set are sent; an
address flag set to the empty string clears the field on the server.

Items are processed in order. A failure on one item is reported and
processing continues with the next.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMessageUpdate,
}

// Flags for message create/update.
var (
	msgSubject    string
	msgBodyText   string
	msgBodyHTML   string
	msgImportance string
	msgRead       bool
	msgFrom       string
	msgSender     string
	msgTo         []string
	msgCc         []string
	msgBcc        []string
	msgReplyTo    []string
	msgFolder     string
	msgListTop    int
)

func init() {
	for _, cmd := range []*cobra.Command{messageCreateCmd, messageUpdateCmd} {
		cmd.Flags().StringVar(&msgSubject, "subject", "", "message subject")
		cmd.Flags().StringVar(&msgBodyText, "body", "", "plain text body")
		cmd.Flags().StringVar(&msgBodyHTML, "html", "", "HTML body")
		cmd.Flags().StringVar(&msgImportance, "importance", "", "importance: low, normal or high")
		cmd.Flags().BoolVar(&msgRead, "read", false, "mark the message as read (--read=false marks unread)")
		cmd.Flags().StringVar(&msgFrom, "from", "", "from address (empty value clears the field)")
		cmd.Flags().StringVar(&msgSender, "sender", "", "sender address (empty value clears the field)")
		cmd.Flags().StringArrayVar(&msgTo, "to", nil, "to recipient, repeatable")
		cmd.Flags().StringArrayVar(&msgCc, "cc", nil, "cc recipient, repeatable")
		cmd.Flags().StringArrayVar(&msgBcc, "bcc", nil, "bcc recipient, repeatable")
		cmd.Flags().StringArrayVar(&msgReplyTo, "reply-to", nil, "reply-to address, repeatable")
	}
	messageCreateCmd.Flags().StringVar(&msgFolder, "folder", "",
		"target folder (well-known name or id)")
	messageListCmd.Flags().IntVar(&msgListTop, "top", 25, "maximum number of messages to return")

	messageCmd.AddCommand(messageGetCmd, messageListCmd, messageCreateCmd, messageUpdateCmd)
	rootCmd.AddCommand(messageCmd)
}

// boundMessageFields builds MessageFields from the flags the caller
// actually set. Unset flags stay unbound and are never serialized.
func boundMessageFields(cmd *cobra.Command) (mail.MessageFields, error) {
	var fields mail.MessageFields
	flags := cmd.Flags()

	if flags.Changed("subject") {
		fields.Subject = &msgSubject
	}
	if flags.Changed("body") && flags.Changed("html") {
		return fields, errors.New("--body and --html are mutually exclusive")
	}
	if flags.Changed("body") {
		fields.Body = &mail.MessageBody{ContentType: "text", Content: msgBodyText}
	}
	if flags.Changed("html") {
		fields.Body = &mail.MessageBody{ContentType: "html", Content: msgBodyHTML}
	}
	if flags.Changed("importance") {
		imp := mail.Importance(msgImportance)
		switch imp {
		case mail.ImportanceLow, mail.ImportanceNormal, mail.ImportanceHigh:
		default:
			return fields, fmt.Errorf("invalid importance %q", msgImportance)
		}
		fields.Importance = &imp
	}
	if flags.Changed("read") {
		fields.IsRead = &msgRead
	}
	if flags.Changed("from") {
		fields.From = &msgFrom
	}
	if flags.Changed("sender") {
		fields.Sender = &msgSender
	}
	if flags.Changed("to") {
		fields.To = msgTo
	}
	if flags.Changed("cc") {
		fields.Cc = msgCc
	}
	if flags.Changed("bcc") {
		fields.Bcc = msgBcc
	}
	if flags.Changed("reply-to") {
		fields.ReplyTo = msgReplyTo
	}

	return fields, nil
}

func runMessageGet(cmd *cobra.Command, args []string) error {
	svc, user, err := newMailService()
	if err != nil {
		return err
	}

	rec, err := svc.GetMessage(cmd.Context(), user, mail.MessageID(args[0]))
	if err != nil {
		return err
	}

	cmd.Println(renderMessage(rec))
	return nil
}

func runMessageList(cmd *cobra.Command, args []string) error {
	svc, user, err := newMailService()
	if err != nil {
		return err
	}

	var folder mail.FolderRef
	if len(args) == 1 {
		folder = mail.FolderID(args[0])
	}

	page, err := svc.ListMessages(cmd.Context(), user, folder, msgListTop)
	if err != nil {
		return err
	}

	for _, rec := range page.Messages {
		cmd.Println(renderMessageLine(rec))
	}
	if page.NextLink != "" {
		cmd.Println(dimStyle.Render("more messages available, raise --top to fetch them"))
	}
	return nil
}

func runMessageCreate(cmd *cobra.Command, _ []string) error {
	svc, user, err := newMailService()
	if err != nil {
		return err
	}

	fields, err := boundMessageFields(cmd)
	if err != nil {
		return err
	}

	var folder mail.FolderRef
	if msgFolder != "" {
		folder = mail.FolderID(msgFolder)
	}

	rec, override, err := svc.CreateMessage(cmd.Context(), user, folder, fields)
	if override != nil {
		cmd.PrintErrln(renderOverride(override))
	}
	if err != nil {
		return err
	}

	cmd.Println(renderMessage(rec))
	return nil
}

func runMessageUpdate(cmd *cobra.Command, args []string) error {
	svc, user, err := newMailService()
	if err != nil {
		return err
	}

	fields, err := boundMessageFields(cmd)
	if err != nil {
		return err
	}

	items := make([]mail.UpdateItem, 0, len(args))
	for _, id := range args {
		items = append(items, mail.UpdateItem{Ref: mail.MessageID(id), Fields: fields})
	}

	failed := 0
	for _, res := range svc.UpdateMessages(cmd.Context(), user, items) {
		if res.Override != nil {
			cmd.PrintErrln(renderOverride(res.Override))
		}
		if res.Err != nil {
			failed++
			cmd.PrintErrln(errStyle.Render(fmt.Sprintf("item %d (%s): %v", res.Index+1, args[res.Index], res.Err)))
			continue
		}
		cmd.Println(renderMessage(res.Record))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d updates failed", failed, len(items))
	}
	return nil
}
