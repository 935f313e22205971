package reminder

import "strings"

// SenderProfile is the resolved per-user sender identity used in outgoing
// reminder emails. Fields are already normalized to plain strings; empty
// means unset.
type SenderProfile struct {
	SenderName     string
	ReplyToEmail   string
	EmailSignature string
	FullName       string
}

// Content is a fully-rendered reminder email.
type Content struct {
	Subject      string
	Text         string
	HTML         string
	ReplyToEmail string
}

// RenderInput collects everything needed to render one reminder.
type RenderInput struct {
	Template      Template
	Tone          string
	DaysOffset    int
	ClientName    string
	InvoiceNumber string
	Amount        string
	DueDate       string
	IssueDate     string
	BusinessName  string
	Sender        SenderProfile
}

// RenderContent renders subject, plain-text and HTML bodies for a reminder.
// The resolved signature is appended exactly once after the rendered body;
// sender name falls back from the profile to the user's full name to the
// business name.
func RenderContent(input RenderInput) Content {
	businessName := input.BusinessName
	if businessName == "" {
		businessName = "PayNudge"
	}

	senderName := strings.TrimSpace(input.Sender.SenderName)
	if senderName == "" {
		senderName = strings.TrimSpace(input.Sender.FullName)
	}
	if senderName == "" {
		senderName = businessName
	}

	replyTo := strings.TrimSpace(input.Sender.ReplyToEmail)

	signature := strings.TrimSpace(input.Sender.EmailSignature)
	if signature == "" {
		signature = "-- " + senderName
	}

	rendered := RenderTemplate(input.Template, RenderData{
		Tone:           input.Tone,
		DaysOffset:     input.DaysOffset,
		ClientName:     input.ClientName,
		InvoiceNumber:  input.InvoiceNumber,
		Amount:         input.Amount,
		DueDate:        input.DueDate,
		IssueDate:      input.IssueDate,
		BusinessName:   businessName,
		SenderName:     senderName,
		ReplyToEmail:   replyTo,
		EmailSignature: signature,
	})

	baseText := strings.TrimSpace(rendered.Body)
	text := baseText + "\n\n" + signature
	html := toHTML(baseText) + "<br/><br/>" + toHTML(signature)

	return Content{
		Subject:      rendered.Subject,
		Text:         text,
		HTML:         html,
		ReplyToEmail: replyTo,
	}
}

func toHTML(value string) string {
	return strings.ReplaceAll(escapeHTML(value), "\n", "<br/>")
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func escapeHTML(value string) string {
	return htmlEscaper.Replace(value)
}
