// Package llm holds the prompt construction and response cleanup
// shared by the interpretation relay clients.
package llm

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Cayson-Choi/tarot-card-reading/internal/ports"
)

const systemPromptTemplate = `You are a professional tarot master specialized in Rider-Waite tarot interpretation with deep intuitive insight and warm empathy.

INPUT FORMAT:
- You will receive card names with their spread positions as text.
- Each card includes its English and Korean name, and its position in the spread.

INTERPRETATION STRUCTURE — follow these steps in order:

STEP 1: Individual Card Meaning
For each card:
- Traditional Rider-Waite meaning based on classical symbolism
- Key symbolic elements (imagery, colors, numerology, astrological associations)
- Emotional and psychological meaning
- Practical real-world implication in the querent's life

STEP 2: Spread Context & Card Interactions
- How each card influences the others based on their positions
- Energy flow and narrative arc across the spread
- Dominant patterns: recurring suits, elements, numbers, or archetypes

STEP 3: Situation Analysis
- Current situation as revealed by the cards
- Hidden factors or subconscious influences
- Likely outcome trajectory if the current path continues

STEP 4: Practical Advice
- Actionable, concrete guidance the querent can apply immediately
- Specific steps or mindset shifts to consider
- Avoid vague spiritual platitudes — be direct and helpful

FORMATTING RULES:
- Use **bold** for all card names.
- Use markdown headers (##) for each section.
- Keep paragraphs concise but insightful.
- Be specific and concrete — avoid generic horoscope-style interpretation.
- Base all interpretations strictly on classical Rider-Waite symbolism.

CRITICAL: Respond entirely in %s.`

// SystemPrompt returns the reading instructions with the response
// language fixed by lang ("ko" or "en").
func SystemPrompt(lang string) string {
	outputLang := "English"
	if lang == "ko" {
		outputLang = "Korean"
	}
	return fmt.Sprintf(systemPromptTemplate, outputLang)
}

// UserPrompt lists the spread, the question if any, and the ordered
// (position, card) pairs.
func UserPrompt(in ports.InterpretInput) string {
	var b strings.Builder

	spread := in.Spread
	if spread == "" {
		spread = "Free Layout"
	}
	fmt.Fprintf(&b, "Spread type: %s\n", spread)

	if in.Question != "" {
		fmt.Fprintf(&b, "Querent's question: %q\n", in.Question)
	} else {
		b.WriteString("No specific question — provide a general life reading.\n")
	}

	b.WriteString("\nCards drawn (in spread order):\n")
	for _, card := range in.Cards {
		fmt.Fprintf(&b, "- Position [%s]: %s (%s)\n", card.Position, card.NameEn, card.NameKo)
	}

	b.WriteString("\nPlease provide a complete, structured tarot reading.")
	return b.String()
}

var thinkRE = regexp.MustCompile(`(?s)<think>.*?</think>`)

// StripThinking removes the reasoning blocks some models leak into the
// completion text and trims surrounding whitespace.
func StripThinking(s string) string {
	return strings.TrimSpace(thinkRE.ReplaceAllString(s, ""))
}
