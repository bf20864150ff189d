// Package prompt assembles the system prompt sent with every completion.
package prompt

import (
	"math/rand/v2"
	"strings"

	"askq-be/internal/constant"
)

const (
	// VariantProbability is the chance of adding a tone fragment once enough turns exist.
	VariantProbability = 0.3
	// VariantMinPriorTurns is how many earlier user turns a conversation needs before variation starts.
	VariantMinPriorTurns = 3
)

// RNG is the random source used by the variation policy. *rand.Rand from
// math/rand/v2 satisfies it.
type RNG interface {
	Float64() float64
	IntN(n int) int
}

type globalRNG struct{}

func (globalRNG) Float64() float64 { return rand.Float64() }
func (globalRNG) IntN(n int) int   { return rand.IntN(n) }

// DefaultRNG draws from the math/rand/v2 global source.
func DefaultRNG() RNG {
	return globalRNG{}
}

// DecideVariant reports whether the next reply gets a tone fragment.
// turnIndex is the number of user turns that came before the current one.
func DecideVariant(turnIndex int, rng RNG) bool {
	if turnIndex < VariantMinPriorTurns {
		return false
	}
	return rng.Float64() < VariantProbability
}

// Builder builds the system prompt for one reply.
type Builder struct {
	base      string
	fragments []string
	rng       RNG
}

func NewBuilder(rng RNG) *Builder {
	return &Builder{
		base:      constant.PersonaSystemPrompt,
		fragments: constant.PersonaToneFragments,
		rng:       rng,
	}
}

// Build returns the system prompt and whether a tone fragment was appended.
func (b *Builder) Build(priorUserTurns int) (string, bool) {
	if len(b.fragments) == 0 || !DecideVariant(priorUserTurns, b.rng) {
		return b.base, false
	}

	var prompt strings.Builder
	prompt.WriteString(b.base)
	prompt.WriteString("\n\n")
	prompt.WriteString(b.fragments[b.rng.IntN(len(b.fragments))])
	return prompt.String(), true
}
