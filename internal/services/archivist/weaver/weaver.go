// Package weaver generates story fragments and revelation texts for a secret
// axiom.
//
// The engine treats every generator failure as soft: callers substitute
// placeholder content and the round proceeds, so implementations should
// return errors rather than degrade silently.
package weaver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/domain/axiom"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/domain/deception"
)

// ErrUnavailable indicates the generation client is not initialized.
var ErrUnavailable = errors.New("weaver client is not initialized")

// ErrMalformedResponse indicates generated content did not match the
// required two-field schema.
var ErrMalformedResponse = errors.New("weaver response is malformed")

// Result is the generated material for one round.
type Result struct {
	Fragment       string
	RevelationText string
}

// Generator produces a fragment and revelation text for a secret axiom at a
// difficulty tier.
type Generator interface {
	Generate(ctx context.Context, secret axiom.Axiom, tier int, directive deception.Directive) (Result, error)
}

// SystemPrompt builds the weaver system prompt for a difficulty tier.
func SystemPrompt(tier int, directive deception.Directive) string {
	var b strings.Builder
	b.WriteString("You are the Fragment Weaver of the Athenaeum of Moirai. ")
	b.WriteString("Your task is to generate a short, emotionally driven story fragment (around 4-6 sentences) based on a SECRET_TAG.\n")
	b.WriteString("The story must strongly suggest one of the other two Axioms (narrative deception), but the final outcome must be clearly defined by the SECRET_TAG.\n")
	b.WriteString("The possible Axioms are: Fate (inevitable predetermination), Choice (a critical, preventable decision), or Chance (random, unpreventable external occurrence).\n\n")
	fmt.Fprintf(&b, "Current Difficulty Tier: %d.", tier)
	if instruction := directive.Instruction(); instruction != "" {
		b.WriteString(" ")
		b.WriteString(instruction)
	}
	b.WriteString("\n\n")
	b.WriteString("After generating the story, generate a separate, short 'Revelation Text' that justifies why the SECRET_TAG is the definitive causal force, explaining the narrative deception.\n")
	b.WriteString("Format your entire response as a single JSON object ONLY. Do not include any text outside the JSON block.")
	return b.String()
}

// UserPrompt builds the per-round generation request for a secret axiom.
func UserPrompt(secret axiom.Axiom) string {
	return fmt.Sprintf("Generate a Fragment where the true underlying Axiom is: %s", secret)
}
