package email

import (
	"fmt"
	"html"
	"strings"
)

// ProposalEmail renders the HTML body for sending a proposal to a client.
// Proposal content is plain text from the generator; paragraphs become <p>
// blocks and everything is escaped.
func ProposalEmail(senderName, clientName, title, content string) (subject, body string) {
	subject = fmt.Sprintf("Proposal: %s", title)

	var b strings.Builder
	b.WriteString("<html><body style=\"font-family: sans-serif; color: #1a1a1a;\">")
	fmt.Fprintf(&b, "<p>Hi %s,</p>", html.EscapeString(clientName))
	fmt.Fprintf(&b, "<p>Please find the proposal <strong>%s</strong> below.</p><hr>", html.EscapeString(title))

	for _, para := range strings.Split(content, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		fmt.Fprintf(&b, "<p>%s</p>", strings.ReplaceAll(html.EscapeString(para), "\n", "<br>"))
	}

	fmt.Fprintf(&b, "<hr><p>Best regards,<br>%s</p>", html.EscapeString(senderName))
	b.WriteString("</body></html>")

	return subject, b.String()
}

// WelcomeEmail renders the registration greeting.
func WelcomeEmail(name string) (subject, body string) {
	subject = "Welcome to Pitchly"
	body = fmt.Sprintf(
		"<html><body style=\"font-family: sans-serif; color: #1a1a1a;\">"+
			"<p>Hi %s,</p>"+
			"<p>Your Pitchly account is ready. Generate your first proposal in "+
			"under a minute from your dashboard.</p>"+
			"<p>— The Pitchly team</p>"+
			"</body></html>",
		html.EscapeString(name))
	return subject, body
}
