package constant

// SectionNames is the closed, ordered catalog of spec sections. Every
// document carries exactly these keys; gap lists are always reported in
// this order.
var SectionNames = []string{
	"Goal",
	"Problem Statement",
	"User Cohort",
	"Metrics",
	"Solutions",
	"Risks",
	"GTM",
}

// SectionOthers is the catch-all bucket for content that fits nowhere.
// It is described to the merge model but never tracked as a gap.
const SectionOthers = "Others"

// MinWordsThreshold is the minimum word count for a section to count as
// complete. A coarse word-count policy, not a semantic check.
const MinWordsThreshold = 10

// EventTopicName is the in-process bus topic for session lifecycle events.
const EventTopicName = "draft_session_events"

// MaxQuestionsPerSection caps the follow-up questions kept per section
// after elaboration.
const MaxQuestionsPerSection = 3

// SectionDescriptions explains each bucket to the merge model.
var SectionDescriptions = map[string]string{
	"Goal":              "The primary objective or outcome the product/feature aims to achieve. Should be clear, measurable, and time-bound if possible.",
	"Problem Statement": "The pain point, challenge, or gap that the product/feature addresses. Describes what is broken or missing.",
	"User Cohort":       "The target audience or user segments who will benefit from this product/feature. Includes personas, demographics, or behavioral traits.",
	"Metrics":           "Key Performance Indicators (KPIs) and success criteria to measure the impact. Includes quantitative targets or at least formulas to calculate the impact.",
	"Solutions":         "Proposed approaches, features, or technical implementations to solve the problem and achieve the goal.",
	"Risks":             "Potential obstacles, dependencies, technical debt, or uncertainties that could impact delivery or success.",
	"GTM":               "Go-To-Market strategy including launch plans, marketing, sales enablement, and rollout phases.",
	SectionOthers:       "Catch-all bucket for Legal, Compliance, Finance, or any other details that don't fit the above categories.",
}

// IsCatalogSection reports whether name belongs to the fixed catalog.
func IsCatalogSection(name string) bool {
	for _, n := range SectionNames {
		if n == name {
			return true
		}
	}
	return false
}
