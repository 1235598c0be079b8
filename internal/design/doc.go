// Package design defines the trial data model and builds the randomized,
// counterbalanced trial lists for a session.
//
// A session has two blocks. The practice block holds one Cat and one Dog
// trial per practice index, drawn from the dedicated practice pool. The main
// block holds, per index, one Cat trial and one Dog trial of a randomly drawn
// variant (adversarial, flipped, unmodified) plus one False trial whose image
// belongs to a randomly drawn foil category.
//
// Both blocks are shuffled and renumbered so trial indices increase
// monotonically through the whole session: practice runs 1-2P..0 and main
// runs 1..3N.
//
// Randomness is always injected. The generator never reaches for a global
// source, so a seeded *rand.Rand yields a reproducible list.
package design
