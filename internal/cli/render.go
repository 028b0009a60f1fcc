package cli

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/graphmail/internal/graph/mail"
)

// Styles for record output.
var (
	labelStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Width(10)
	subjectStyle = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func renderField(sb *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	sb.WriteString(labelStyle.Render(label))
	sb.WriteString(" ")
	sb.WriteString(value)
	sb.WriteString("\n")
}

func renderAddresses(addrs []mail.MailAddress) string {
	parts := make([]string, 0, len(addrs))
	for _, a := range addrs {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, ", ")
}

func renderTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(time.RFC1123)
}

// renderMessage renders a message record for terminal output.
func renderMessage(rec *mail.MessageRecord) string {
	var sb strings.Builder

	sb.WriteString(subjectStyle.Render(rec.Subject))
	sb.WriteString("\n")
	if rec.From != nil {
		renderField(&sb, "From", rec.From.String())
	}
	if rec.Sender != nil && (rec.From == nil || *rec.Sender != *rec.From) {
		renderField(&sb, "Sender", rec.Sender.String())
	}
	if rec.To != nil {
		renderField(&sb, "To", renderAddresses(rec.To))
	}
	if rec.Cc != nil {
		renderField(&sb, "Cc", renderAddresses(rec.Cc))
	}
	if rec.Bcc != nil {
		renderField(&sb, "Bcc", renderAddresses(rec.Bcc))
	}
	if rec.ReplyTo != nil {
		renderField(&sb, "Reply-To", renderAddresses(rec.ReplyTo))
	}
	renderField(&sb, "Received", renderTime(rec.ReceivedDateTime))
	renderField(&sb, "Sent", renderTime(rec.SentDateTime))
	renderField(&sb, "Importance", string(rec.Importance))

	flags := make([]string, 0, 3)
	if rec.IsDraft {
		flags = append(flags, "draft")
	}
	if !rec.IsRead {
		flags = append(flags, "unread")
	}
	if rec.HasAttachments {
		flags = append(flags, "attachments")
	}
	renderField(&sb, "Flags", strings.Join(flags, ", "))
	renderField(&sb, "Id", dimStyle.Render(rec.ID))

	if rec.BodyPreview != "" {
		sb.WriteString("\n")
		sb.WriteString(rec.BodyPreview)
		sb.WriteString("\n")
	}

	return sb.String()
}

// renderMessageLine renders a one-line summary for listings.
func renderMessageLine(rec *mail.MessageRecord) string {
	from := ""
	if rec.From != nil {
		from = rec.From.Address
	}
	marker := " "
	if !rec.IsRead {
		marker = "*"
	}
	received := ""
	if !rec.ReceivedDateTime.IsZero() {
		received = rec.ReceivedDateTime.Local().Format("2006-01-02 15:04")
	}
	return marker + " " + received + "  " + padRight(from, 30) + "  " + rec.Subject
}

// renderFolder renders a folder record for terminal output.
func renderFolder(rec *mail.FolderRecord) string {
	var sb strings.Builder

	sb.WriteString(subjectStyle.Render(rec.DisplayName))
	sb.WriteString("\n")
	renderField(&sb, "Id", dimStyle.Render(rec.ID))
	renderField(&sb, "Parent", dimStyle.Render(rec.ParentFolderID))
	if rec.TotalItemCount > 0 || rec.UnreadItemCount > 0 {
		renderField(&sb, "Items",
			strconv.Itoa(rec.TotalItemCount)+" ("+strconv.Itoa(rec.UnreadItemCount)+" unread)")
	}
	if rec.ChildFolderCount > 0 {
		renderField(&sb, "Children", strconv.Itoa(rec.ChildFolderCount))
	}
	if rec.IsHidden {
		renderField(&sb, "Hidden", "yes")
	}

	return sb.String()
}

// renderOverride renders the owner-precedence warning.
func renderOverride(ov *mail.OwnerOverride) string {
	return warnStyle.Render("warning: " + ov.String())
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	return s + strings.Repeat(" ", n-len(s))
}
