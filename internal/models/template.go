package models

import "gorm.io/datatypes"

// Template is a reusable set of structured proposal inputs. Built-in
// templates are static and never persisted; user templates are owned rows.
type Template struct {
	BaseModel
	UserID      string         `gorm:"not null;index" json:"user_id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	Fields      datatypes.JSON `gorm:"type:jsonb" json:"fields"` // mirrors GenerateProposalRequest
}

// BuiltinTemplate is a static, non-persisted template definition.
type BuiltinTemplate struct {
	Slug        string                 `json:"slug"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Fields      map[string]interface{} `json:"fields"`
}

// BuiltinTemplates ships with the product; available to every tier.
var BuiltinTemplates = []BuiltinTemplate{
	{
		Slug:        "website-redesign",
		Name:        "Website Redesign",
		Description: "Full redesign of an existing marketing site",
		Fields: map[string]interface{}{
			"projectTitle":       "Website Redesign",
			"projectDescription": "Redesign and rebuild of the existing marketing website with a modern, responsive layout and a refreshed brand identity.",
			"budgetUnit":         string(BudgetUnitFixed),
			"timelineType":       string(TimelineTypeDuration),
			"timelineDuration":   "6-weeks",
		},
	},
	{
		Slug:        "monthly-retainer",
		Name:        "Monthly Retainer",
		Description: "Ongoing support and maintenance engagement",
		Fields: map[string]interface{}{
			"projectTitle":       "Monthly Retainer",
			"projectDescription": "Ongoing design and development support on a monthly retainer basis, including maintenance, small features and priority bug fixes.",
			"budgetUnit":         string(BudgetUnitMonthly),
			"timelineType":       string(TimelineTypeDuration),
			"timelineDuration":   "ongoing",
		},
	},
	{
		Slug:        "brand-identity",
		Name:        "Brand Identity",
		Description: "Logo, color system and brand guidelines",
		Fields: map[string]interface{}{
			"projectTitle":       "Brand Identity Package",
			"projectDescription": "Complete brand identity: logo suite, typography, color system and a usage guideline document.",
			"budgetUnit":         string(BudgetUnitFixed),
			"timelineType":       string(TimelineTypeDuration),
			"timelineDuration":   "4-weeks",
		},
	},
}

type CreateTemplateRequest struct {
	Name        string                 `json:"name" binding:"required"`
	Description string                 `json:"description"`
	Fields      map[string]interface{} `json:"fields" binding:"required"`
}
