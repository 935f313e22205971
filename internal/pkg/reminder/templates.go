package reminder

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/paynudge/paynudge/app/models"
)

// Template is a (subject, body) pair before token substitution.
type Template struct {
	Subject string
	Body    string
}

// DefaultTemplates are the built-in tone templates used when a user has not
// stored an override for the tone.
var DefaultTemplates = map[string]Template{
	models.ToneFriendly: {
		Subject: "Friendly reminder — invoice {{invoice_number}} due {{due_date}}",
		Body:    "Hi {{client_name}},\n\nJust a quick reminder that invoice {{invoice_number}} is due on {{due_date}} (issued {{issue_date}}) for {{amount}}.\n\nIf you have already arranged payment, please ignore this.\n\n{{email_signature}}",
	},
	models.ToneNeutral: {
		Subject: "Invoice {{invoice_number}} due today",
		Body:    "Hi {{client_name}},\n\nThis is a reminder that invoice {{invoice_number}} is due today ({{due_date}}) for {{amount}}.\n\nCould you confirm when payment is scheduled?\n\n{{email_signature}}",
	},
	models.ToneFirm: {
		Subject: "Overdue invoice — {{invoice_number}} (due {{due_date}})",
		Body:    "Hi {{client_name}},\n\nInvoice {{invoice_number}} is now overdue (due {{due_date}}, issued {{issue_date}}) for {{amount}}.\n\nPlease arrange payment or let us know the expected payment date.\n\n{{email_signature}}",
	},
}

// DefaultTemplateFor returns the built-in template for a tone, falling back
// to the friendly one for anything unrecognized.
func DefaultTemplateFor(tone string) Template {
	if t, ok := DefaultTemplates[tone]; ok {
		return t
	}
	return DefaultTemplates[models.ToneFriendly]
}

// RenderData is the substitution context for one reminder. DaysOffset is
// signed: positive = overdue, negative = before the due date, zero = due
// today.
type RenderData struct {
	Tone           string
	DaysOffset     int
	ClientName     string
	InvoiceNumber  string
	Amount         string
	DueDate        string
	IssueDate      string
	BusinessName   string
	SenderName     string
	ReplyToEmail   string
	EmailSignature string
}

const signatureToken = "{{email_signature}}"

var multiNewline = regexp.MustCompile(`\n{3,}`)

// RenderTemplate substitutes {{token}} placeholders in subject and body.
// Unknown tokens are left verbatim. Any body line containing the
// {{email_signature}} token is dropped entirely before substitution: the
// signature is appended once, separately, after rendering.
func RenderTemplate(template Template, data RenderData) Template {
	businessName := data.BusinessName
	if businessName == "" {
		businessName = "PayNudge"
	}
	senderName := data.SenderName
	if senderName == "" {
		senderName = businessName
	}
	signature := data.EmailSignature
	if signature == "" {
		signature = "-- " + senderName
	}

	replacements := map[string]string{
		"{{client_name}}":        data.ClientName,
		"{{invoice_number}}":     data.InvoiceNumber,
		"{{amount}}":             data.Amount,
		"{{due_date}}":           data.DueDate,
		"{{issue_date}}":         data.IssueDate,
		"{{your_business_name}}": businessName,
		"{{business_name}}":      businessName,
		"{{sender_name}}":        senderName,
		"{{reply_to_email}}":     data.ReplyToEmail,
		"{{email_signature}}":    signature,
		"{{signature}}":          signature,
		"{{days_offset}}":        fmt.Sprintf("%d", data.DaysOffset),
		"{{timing}}":             TimingLabel(data.DaysOffset),
		"{{timing_line}}":        TimingLine(data.DaysOffset),
	}

	subject := strings.TrimSpace(replaceTokens(template.Subject, replacements))

	body := stripLinesWithToken(template.Body, signatureToken)
	body = replaceTokens(body, replacements)
	body = multiNewline.ReplaceAllString(body, "\n\n")
	body = strings.TrimSpace(body)

	return Template{Subject: subject, Body: body}
}

func replaceTokens(input string, replacements map[string]string) string {
	output := input
	for token, value := range replacements {
		output = strings.ReplaceAll(output, token, value)
	}
	return output
}

func stripLinesWithToken(body, token string) string {
	lines := strings.Split(body, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if !strings.Contains(line, token) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// TimingLabel is the short phrase form of a signed offset, e.g. "overdue by 3 days".
func TimingLabel(daysOffset int) string {
	switch {
	case daysOffset == 0:
		return "due today"
	case daysOffset > 0:
		return fmt.Sprintf("overdue by %d %s", daysOffset, dayWord(daysOffset))
	default:
		return fmt.Sprintf("due in %d %s", -daysOffset, dayWord(daysOffset))
	}
}

// TimingLine is the full-sentence form of a signed offset.
func TimingLine(daysOffset int) string {
	switch {
	case daysOffset == 0:
		return "This invoice is due today."
	case daysOffset > 0:
		return fmt.Sprintf("This invoice is %d %s overdue.", daysOffset, dayWord(daysOffset))
	default:
		return fmt.Sprintf("This invoice is due in %d %s.", -daysOffset, dayWord(daysOffset))
	}
}

func dayWord(daysOffset int) string {
	if daysOffset == 1 || daysOffset == -1 {
		return "day"
	}
	return "days"
}
