package prompt

import (
	"fmt"
	"strings"

	"ai-specdraft-be/internal/constant"
	"ai-specdraft-be/pkg/draft/store"
)

// SystemPersona is the assistant voice used by the gate check.
const SystemPersona = `ROLE: You are a Senior Systems Architect and Strategic Product Partner.
OBJECTIVE: Your goal is to transform vague ideas into high-density, actionable technical specifications.
TONE: Professional, direct, and slightly cynical. You value clarity over politeness.

GUIDELINES:
1. NO METAPHORS: Never use analogies like "unopened gifts," "recipes," or "sentient toasters."
2. GAP ANALYSIS: If the input is insufficient, do not give a generic "provide more details" response. Instead, list exactly 3-4 specific 'Missing Foundations' as bullet points.
3. DRY HUMOR: Your humor should be deadpan and directed at the 'Logical Gaps' or 'Assumptions' in the request, not the user. It should be subtle and should not come too often.

OUTPUT STRUCTURE:
- [Brief acknowledgment]
- Missing Foundations
- [Specific Pointer 1]
- [Specific Pointer 2]
- [Specific Pointer 3]`

const gateCheckTemplate = `Analyze this user input to determine if it has ENOUGH INFORMATION to begin specification writing.

User Input:
%[1]s

CRITERIA FOR "can_proceed": TRUE
---
Accept input if it provides:
- A clear problem statement OR feature idea
- At least some context about what the system should do
- Reasonable length (3+ sentences minimum)

CRITERIA FOR "can_proceed": FALSE
---
Reject ONLY if the input is:
- Extremely vague or single-word/phrase
- Missing any sense of purpose or use case
- Clearly incomplete or placeholder text

DO NOT reject just because it lacks "perfect" detail - the workflow will gather that iteratively.

RESPOND WITH ONLY VALID JSON (no markdown, no explanation):
{
  "can_proceed": true/false,
  "feedback": "Constructive sentence explaining the decision",
  "metadata": {
    "maturity": "Greenfield" | "Brownfield" | null,
    "environment": "Web" | "Mobile" | "Backend" | null
  }
}`

// GateCheck builds the admission prompt for a first-turn raw input.
func GateCheck(rawInput string) string {
	return fmt.Sprintf(gateCheckTemplate, rawInput)
}

// Merge builds the extraction/merge prompt: fold one raw input into the
// current document without losing information.
func Merge(doc store.Document, rawInput string) string {
	var b strings.Builder

	b.WriteString("You are a PRD (Product Requirements Document) analyst. Analyze the user's input and extract components into specific buckets.\n\n")

	b.WriteString("## Section Definitions:\n")
	for _, name := range constant.SectionNames {
		fmt.Fprintf(&b, "- **%s**: %s\n", name, constant.SectionDescriptions[name])
	}
	fmt.Fprintf(&b, "- **%s**: %s\n", constant.SectionOthers, constant.SectionDescriptions[constant.SectionOthers])

	b.WriteString("\n## Instructions:\n")
	b.WriteString("1. **Extraction**: Map every piece of the user's input into the sections above. Do NOT lose any information.\n")
	b.WriteString("2. **Distribution Rule**: Every piece of information must be assigned to at least one section.\n")
	b.WriteString("3. **Merge Rule**: Preserve existing content and add new details. Never drop previously stored text.\n")

	b.WriteString("\n## Current Document State:\n")
	for _, name := range constant.SectionNames {
		text := doc[name]
		if text == nil {
			fmt.Fprintf(&b, "%s: null\n", name)
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", name, *text)
	}

	b.WriteString("\n## New User Input to Integrate:\n")
	b.WriteString(rawInput)

	b.WriteString("\n\n## Output Format:\nReturn a JSON object with this exact structure:\n{\n  \"sections\": {\n")
	for i, name := range constant.SectionNames {
		fmt.Fprintf(&b, "    %q: \"merged/updated text or null if empty\"", name)
		if i < len(constant.SectionNames)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("  }\n}\n")

	return b.String()
}

// Elaborate builds the per-section elaboration prompt.
func Elaborate(sectionName, sectionText string) string {
	var b strings.Builder

	b.WriteString("You are a PRD (Product Requirements Document) editor. Your task is to elaborate and refine one section without adding new functional requirements.\n\n")
	b.WriteString("## Instructions:\n")
	b.WriteString("1. **Elaborate**: Clean up and structure the text for clarity. Fix grammar, improve flow, but DO NOT add new features or requirements.\n")
	fmt.Fprintf(&b, "2. **Question Generation**: Generate exactly %d targeted questions that would help deepen the detail for this section.\n\n", constant.MaxQuestionsPerSection)

	fmt.Fprintf(&b, "## Section to Detail:\n**%s**\n\nCurrent Text:\n%s\n\n", sectionName, sectionText)

	b.WriteString("## Output Format:\nReturn a JSON object with this exact structure:\n")
	b.WriteString("{\n  \"text\": \"The elaborated and cleaned up text\",\n  \"questions\": [\n    \"First targeted question to deepen detail?\",\n    \"Second targeted question to deepen detail?\",\n    \"Third targeted question to deepen detail?\"\n  ]\n}\n\n")
	b.WriteString("Keep the elaborated text faithful to the original intent. Questions should be specific, not generic.")

	return b.String()
}

// QA is one answered follow-up question.
type QA struct {
	Question string
	Answer   string
}

// Refine builds the per-section refinement prompt from answered
// follow-up questions.
func Refine(sectionName, currentText string, answers []QA) string {
	var b strings.Builder

	b.WriteString("You are a specification refinement expert. Your task is to improve a section based on additional answers provided by the user.\n\n")
	fmt.Fprintf(&b, "## Section: %s\n\n### Current Text:\n%s\n\n", sectionName, currentText)

	b.WriteString("### User's Answers to Follow-up Questions:\n")
	for i, qa := range answers {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Q: %s\nA: %s\n", qa.Question, qa.Answer)
	}

	b.WriteString("\n## Instructions:\n")
	b.WriteString("1. **Integration**: Seamlessly integrate the user's answers into the current section text.\n")
	b.WriteString("2. **Coherence**: Maintain consistency with the existing content while incorporating new details.\n")
	b.WriteString("3. **Clarity**: Enhance clarity without losing the original intent.\n")
	b.WriteString("4. **No Hallucination**: Only use information provided by the user. Do not invent details.\n")

	b.WriteString("\n## Output Format:\nReturn a JSON object with this exact structure:\n{\n  \"text\": \"The improved and integrated text\"\n}\n\n")
	b.WriteString("Keep the refined text professional and comprehensive.")

	return b.String()
}
