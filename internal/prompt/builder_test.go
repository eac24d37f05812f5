package prompt

import (
	"strings"
	"testing"
	"time"

	"pitchly_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestFormatBudget(t *testing.T) {
	assert.Equal(t, "USD 1500.00 (per-hour)", FormatBudget(1500, models.BudgetUnitHourly, "us"))
	assert.Equal(t, "EUR 80.00 (per-day)", FormatBudget(80, models.BudgetUnitDaily, "de"))
	assert.Equal(t, "GBP 12000.00 (lump-sum)", FormatBudget(12000, models.BudgetUnitFixed, "uk"))

	// Unknown region falls back to USD.
	assert.Equal(t, "USD 10.00 (per-hour)", FormatBudget(10, models.BudgetUnitHourly, "zz"))
}

func TestFormatTimelineDuration(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "2 weeks", FormatTimeline(models.TimelineTypeDuration, "2-weeks", nil, now))
	assert.Equal(t, "ongoing engagement", FormatTimeline(models.TimelineTypeDuration, "ongoing", nil, now))
	assert.Equal(t, "to be agreed", FormatTimeline(models.TimelineTypeDuration, "", nil, now))
}

func TestFormatTimelineDeadline(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	deadline := time.Date(2026, 8, 11, 0, 0, 0, 0, time.UTC)

	got := FormatTimeline(models.TimelineTypeDeadline, "", &deadline, now)
	assert.Equal(t, "10 days (by August 11, 2026)", got)

	past := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	got = FormatTimeline(models.TimelineTypeDeadline, "", &past, now)
	assert.Contains(t, got, "immediate")

	assert.Equal(t, "to be agreed", FormatTimeline(models.TimelineTypeDeadline, "", nil, now))
}

func TestBuildGeneration(t *testing.T) {
	req := &models.GenerateProposalRequest{
		ClientName:         "Acme Corp",
		ProjectTitle:       "Website Redesign",
		ProjectDescription: "Rebuild the marketing site.",
		BudgetAmount:       5000,
		BudgetUnit:         string(models.BudgetUnitFixed),
		TimelineType:       string(models.TimelineTypeDuration),
		TimelineDuration:   "6-weeks",
	}
	sender := SenderProfile{
		Name:         "Jordan Blake",
		CompanyName:  "Blake Studio",
		BusinessType: "design agency",
		Region:       "de",
		Language:     "de",
	}

	got := BuildGeneration(req, sender, nil, time.Now())

	assert.Contains(t, got, "Acme Corp")
	assert.Contains(t, got, "Jordan Blake")
	assert.Contains(t, got, "Blake Studio")
	assert.Contains(t, got, "EUR 5000.00 (lump-sum)")
	assert.Contains(t, got, "6 weeks")

	// Every section appears, in order.
	last := -1
	for _, section := range sections {
		idx := strings.Index(got, section)
		assert.Greater(t, idx, last, "section %q out of order", section)
		last = idx
	}

	// Locale guidance for a German-language sender.
	assert.Contains(t, got, "Germany")
	assert.Contains(t, got, "Deutsch")
}

func TestBuildGenerationDeterministic(t *testing.T) {
	req := &models.GenerateProposalRequest{
		ClientName:         "Acme Corp",
		ProjectTitle:       "Audit",
		ProjectDescription: "Security audit.",
		BudgetAmount:       200,
		BudgetUnit:         string(models.BudgetUnitHourly),
		TimelineType:       string(models.TimelineTypeDuration),
		TimelineDuration:   "1-week",
	}
	sender := SenderProfile{Name: "A", Region: "us", Language: "en"}
	now := time.Now()

	assert.Equal(t, BuildGeneration(req, sender, nil, now), BuildGeneration(req, sender, nil, now))
}

func TestBuildRevision(t *testing.T) {
	got := BuildRevision("Original body here.", "Cut the price by 10%.", SenderProfile{Region: "us", Language: "en"})

	assert.Contains(t, got, "Original body here.")
	assert.Contains(t, got, "Cut the price by 10%.")
	assert.Contains(t, got, "complete revised proposal")
	assert.Contains(t, got, "not a diff")
}
