// Package prompt assembles the natural-language prompts submitted to the
// generation provider. All formatting here is deterministic: the same inputs
// always produce the same prompt text.
package prompt

import (
	"fmt"
	"math"
	"strings"
	"time"

	"pitchly_backend/internal/models"
)

// SystemPrompt frames every generation call.
const SystemPrompt = "You are an expert business-proposal writer. You write persuasive, " +
	"well-structured proposals for freelancers and agencies. Respond with the " +
	"complete proposal text only, with section headings, no preamble."

// sections every generated proposal must contain, in order.
var sections = []string{
	"Executive Summary",
	"Understanding of Your Needs",
	"Proposed Solution",
	"Timeline & Milestones",
	"Pricing",
	"Payment Terms",
	"Why Choose Us",
	"Next Steps",
}

// SenderProfile is the slice of the account that personalizes tone.
type SenderProfile struct {
	Name         string
	CompanyName  string
	BusinessType string
	Region       string
	Language     string
}

// FormatBudget renders the budget amount with its unit label and the
// region's currency, e.g. "USD 1500.00 (per-hour)".
func FormatBudget(amount float64, unit models.BudgetUnit, region string) string {
	currency := "USD"
	if info, ok := models.SupportedRegions[region]; ok {
		currency = info.Currency
	}
	return fmt.Sprintf("%s %.2f (%s)", currency, amount, unit)
}

// FormatTimeline renders either a human label for a duration or a computed
// day count to a deadline.
func FormatTimeline(timelineType models.TimelineType, duration string, deadline *time.Time, now time.Time) string {
	switch timelineType {
	case models.TimelineTypeDeadline:
		if deadline == nil {
			return "to be agreed"
		}
		days := int(math.Ceil(deadline.Sub(now).Hours() / 24))
		if days <= 0 {
			return fmt.Sprintf("by %s (immediate)", deadline.Format("January 2, 2006"))
		}
		return fmt.Sprintf("%d days (by %s)", days, deadline.Format("January 2, 2006"))
	case models.TimelineTypeDuration:
		return humanizeDuration(duration)
	default:
		return "to be agreed"
	}
}

// humanizeDuration turns UI duration slugs ("2-weeks", "ongoing") into prose.
func humanizeDuration(duration string) string {
	if duration == "" {
		return "to be agreed"
	}
	if duration == "ongoing" {
		return "ongoing engagement"
	}
	return strings.ReplaceAll(duration, "-", " ")
}

// BuildGeneration assembles the user prompt for a fresh proposal.
func BuildGeneration(req *models.GenerateProposalRequest, sender SenderProfile, deadline *time.Time, now time.Time) string {
	var b strings.Builder

	b.WriteString("Write a complete business proposal.\n\n")

	b.WriteString("From:\n")
	fmt.Fprintf(&b, "- Name: %s\n", sender.Name)
	if sender.CompanyName != "" {
		fmt.Fprintf(&b, "- Company: %s\n", sender.CompanyName)
	}
	if sender.BusinessType != "" {
		fmt.Fprintf(&b, "- Business type: %s\n", sender.BusinessType)
	}

	b.WriteString("\nFor:\n")
	fmt.Fprintf(&b, "- Client: %s\n", req.ClientName)

	b.WriteString("\nProject:\n")
	fmt.Fprintf(&b, "- Title: %s\n", req.ProjectTitle)
	fmt.Fprintf(&b, "- Description: %s\n", req.ProjectDescription)
	fmt.Fprintf(&b, "- Budget: %s\n", FormatBudget(req.BudgetAmount, models.BudgetUnit(req.BudgetUnit), sender.Region))
	fmt.Fprintf(&b, "- Timeline: %s\n", FormatTimeline(models.TimelineType(req.TimelineType), req.TimelineDuration, deadline, now))

	if hint := toneHint(sender); hint != "" {
		b.WriteString("\n" + hint + "\n")
	}

	b.WriteString("\nThe proposal must contain these sections, in this order:\n")
	for i, s := range sections {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}

	return b.String()
}

// BuildRevision assembles the user prompt for revising an existing proposal.
// The model is told to return a complete replacement, never a diff.
func BuildRevision(originalContent, revisionRequest string, sender SenderProfile) string {
	var b strings.Builder

	b.WriteString("Revise the following business proposal.\n\n")
	b.WriteString("--- ORIGINAL PROPOSAL ---\n")
	b.WriteString(originalContent)
	b.WriteString("\n--- END ORIGINAL PROPOSAL ---\n\n")
	b.WriteString("Requested changes:\n")
	b.WriteString(revisionRequest)
	b.WriteString("\n\nReturn the complete revised proposal, not a summary of " +
		"changes and not a diff. Keep the original section structure unless the " +
		"requested changes require otherwise.")

	if hint := toneHint(sender); hint != "" {
		b.WriteString("\n\n" + hint)
	}

	return b.String()
}

// toneHint derives the soft locale guidance from the sender's region and
// language. Advisory only; nothing checks the output against it.
func toneHint(sender SenderProfile) string {
	info, ok := models.SupportedRegions[sender.Region]
	if !ok {
		return ""
	}

	hint := fmt.Sprintf("Write in a %s tone appropriate for clients in %s.", info.ToneHint, info.Name)
	if lang, ok := models.SupportedLanguages[sender.Language]; ok && sender.Language != "en" {
		hint += fmt.Sprintf(" Write the proposal in %s.", lang)
	}
	return hint
}
