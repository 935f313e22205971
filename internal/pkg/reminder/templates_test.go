package reminder

import (
	"strings"
	"testing"

	"github.com/paynudge/paynudge/app/models"
)

func TestDefaultTemplateFor(t *testing.T) {
	for _, tone := range []string{models.ToneFriendly, models.ToneNeutral, models.ToneFirm} {
		tmpl := DefaultTemplateFor(tone)
		if tmpl.Subject == "" || tmpl.Body == "" {
			t.Fatalf("empty default template for tone %q", tone)
		}
	}

	unknown := DefaultTemplateFor("shouty")
	if unknown != DefaultTemplates[models.ToneFriendly] {
		t.Fatalf("unknown tone should fall back to friendly")
	}
}

func TestRenderTemplateSubstitutesTokens(t *testing.T) {
	rendered := RenderTemplate(Template{
		Subject: "Invoice {{invoice_number}} due {{due_date}}",
		Body:    "Hi {{client_name}},\n\n{{amount}} is due.\n\n{{email_signature}}",
	}, RenderData{
		ClientName:    "Ada",
		InvoiceNumber: "INV-001",
		Amount:        "£1,250.50",
		DueDate:       "04 Sep 2026",
	})

	if rendered.Subject != "Invoice INV-001 due 04 Sep 2026" {
		t.Fatalf("subject = %q", rendered.Subject)
	}
	if !strings.Contains(rendered.Body, "Hi Ada,") {
		t.Fatalf("body missing client name: %q", rendered.Body)
	}
	if !strings.Contains(rendered.Body, "£1,250.50 is due.") {
		t.Fatalf("body missing amount: %q", rendered.Body)
	}
	if strings.Contains(rendered.Body, "{{email_signature}}") {
		t.Fatalf("signature token should be stripped from body: %q", rendered.Body)
	}
}

func TestRenderTemplateUnknownTokenVerbatim(t *testing.T) {
	rendered := RenderTemplate(Template{
		Subject: "Hello {{mystery_token}}",
		Body:    "Body with {{another_mystery}} inside.",
	}, RenderData{})

	if rendered.Subject != "Hello {{mystery_token}}" {
		t.Fatalf("unknown subject token mangled: %q", rendered.Subject)
	}
	if !strings.Contains(rendered.Body, "{{another_mystery}}") {
		t.Fatalf("unknown body token mangled: %q", rendered.Body)
	}
}

func TestRenderTemplateStripsSignatureLines(t *testing.T) {
	rendered := RenderTemplate(Template{
		Subject: "s",
		Body:    "Line one.\n\nRegards, {{email_signature}} extra\n\nLine two.",
	}, RenderData{EmailSignature: "-- Ada"})

	if strings.Contains(rendered.Body, "Regards") {
		t.Fatalf("line containing signature token should be dropped: %q", rendered.Body)
	}
	if !strings.Contains(rendered.Body, "Line one.") || !strings.Contains(rendered.Body, "Line two.") {
		t.Fatalf("surrounding lines must remain: %q", rendered.Body)
	}
	if strings.Contains(rendered.Body, "\n\n\n") {
		t.Fatalf("blank runs should collapse: %q", rendered.Body)
	}
}

func TestRenderTemplateTimingTokens(t *testing.T) {
	rendered := RenderTemplate(Template{
		Subject: "{{timing}}",
		Body:    "{{timing_line}}",
	}, RenderData{DaysOffset: 3})

	if rendered.Subject != "overdue by 3 days" {
		t.Fatalf("timing = %q", rendered.Subject)
	}
	if rendered.Body != "This invoice is 3 days overdue." {
		t.Fatalf("timing line = %q", rendered.Body)
	}
}

func TestTimingLabel(t *testing.T) {
	tests := []struct {
		offset int
		want   string
	}{
		{offset: 0, want: "due today"},
		{offset: 1, want: "overdue by 1 day"},
		{offset: 5, want: "overdue by 5 days"},
		{offset: -1, want: "due in 1 day"},
		{offset: -3, want: "due in 3 days"},
	}

	for _, tt := range tests {
		if got := TimingLabel(tt.offset); got != tt.want {
			t.Fatalf("TimingLabel(%d) = %q, want %q", tt.offset, got, tt.want)
		}
	}
}

func TestTimingLine(t *testing.T) {
	tests := []struct {
		offset int
		want   string
	}{
		{offset: 0, want: "This invoice is due today."},
		{offset: 1, want: "This invoice is 1 day overdue."},
		{offset: -2, want: "This invoice is due in 2 days."},
	}

	for _, tt := range tests {
		if got := TimingLine(tt.offset); got != tt.want {
			t.Fatalf("TimingLine(%d) = %q, want %q", tt.offset, got, tt.want)
		}
	}
}
