// Package deception maps a difficulty tier to the narrative-deception
// directive handed to the fragment generator.
package deception

// Directive names how strongly a fragment must hide its true axiom.
type Directive string

const (
	// DirectiveBase applies no special deception instruction.
	DirectiveBase Directive = "base"
	// DirectiveSubtle reveals the true axiom only via one nuanced detail.
	DirectiveSubtle Directive = "subtle"
	// DirectiveComplex reveals the true axiom only via a latent, non-obvious clue.
	DirectiveComplex Directive = "complex"
)

const (
	subtleTierThreshold  = 2
	complexTierThreshold = 5
)

// ForTier returns the directive for a difficulty tier.
func ForTier(tier int) Directive {
	switch {
	case tier >= complexTierThreshold:
		return DirectiveComplex
	case tier >= subtleTierThreshold:
		return DirectiveSubtle
	default:
		return DirectiveBase
	}
}

// Instruction returns the prompt instruction for the directive. The base
// directive carries no extra instruction.
func (d Directive) Instruction() string {
	switch d {
	case DirectiveSubtle:
		return "The narrative deception must be subtle. The false axiom should be strongly suggested, but the true axiom must only be revealed by a single, nuanced detail."
	case DirectiveComplex:
		return "The deception must be highly complex. The false axiom should dominate the narrative flow, requiring the reader to identify a latent, non-obvious clue to find the true, underlying axiom."
	default:
		return ""
	}
}
