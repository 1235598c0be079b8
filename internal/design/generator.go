package design

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrInvalidSize is returned for negative block sizes.
var ErrInvalidSize = errors.New("invalid block size")

// Generator builds practice and main trial lists.
//
// Generator is not safe for concurrent use; it owns its random source.
type Generator struct {
	pool     Pool
	rng      *rand.Rand
	variants []Variant
	foils    []Foil
	title    cases.Caser
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithVariants restricts the variants drawn for main Cat and Dog trials.
func WithVariants(variants ...Variant) GeneratorOption {
	return func(g *Generator) {
		g.variants = variants
	}
}

// WithFoils restricts the foil categories drawn for False trials.
func WithFoils(foils ...Foil) GeneratorOption {
	return func(g *Generator) {
		g.foils = foils
	}
}

// NewGenerator creates a generator drawing from rng.
func NewGenerator(pool Pool, rng *rand.Rand, opts ...GeneratorOption) *Generator {
	g := &Generator{
		pool:     pool,
		rng:      rng,
		variants: DefaultVariants,
		foils:    DefaultFoils,
		title:    cases.Title(language.English),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Practice builds the shuffled practice block of 2p trials, numbered 1-2p..0.
func (g *Generator) Practice(p int) ([]TrialSpec, error) {
	if p < 0 {
		return nil, fmt.Errorf("%w: practice size %d", ErrInvalidSize, p)
	}

	specs := make([]TrialSpec, 0, 2*p)
	for s := 0; s < p; s++ {
		specs = append(specs,
			g.target(CategoryCat, VariantPractice, s),
			g.target(CategoryDog, VariantPractice, s),
		)
	}

	g.shuffle(specs)
	for t := range specs {
		specs[t].Trial = t - 2*p + 1
	}
	return specs, nil
}

// Main builds the shuffled main block of 3n trials, numbered 1..3n.
func (g *Generator) Main(n int) ([]TrialSpec, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: main size %d", ErrInvalidSize, n)
	}
	if len(g.variants) == 0 || len(g.foils) == 0 {
		return nil, errors.New("generator has no variants or foils to draw from")
	}

	specs := make([]TrialSpec, 0, 3*n)
	for s := 0; s < n; s++ {
		catVariant := g.variants[g.rng.IntN(len(g.variants))]
		dogVariant := g.variants[g.rng.IntN(len(g.variants))]
		foil := g.foils[g.rng.IntN(len(g.foils))]

		specs = append(specs,
			g.target(CategoryCat, catVariant, s),
			g.target(CategoryDog, dogVariant, s),
			g.falseTrial(foil, s),
		)
	}

	g.shuffle(specs)
	for t := range specs {
		specs[t].Trial = t + 1
	}
	return specs, nil
}

// Census lists every stimulus a design of the given sizes could reference,
// unshuffled and unnumbered. It consumes no randomness.
func (g *Generator) Census(p, n int) []TrialSpec {
	specs := make([]TrialSpec, 0, 2*p+n*(2*len(g.variants)+len(g.foils)))
	for s := 0; s < p; s++ {
		specs = append(specs,
			g.target(CategoryCat, VariantPractice, s),
			g.target(CategoryDog, VariantPractice, s),
		)
	}
	for s := 0; s < n; s++ {
		for _, v := range g.variants {
			specs = append(specs, g.target(CategoryCat, v, s), g.target(CategoryDog, v, s))
		}
		for _, f := range g.foils {
			specs = append(specs, g.falseTrial(f, s))
		}
	}
	return specs
}

func (g *Generator) target(c Category, v Variant, s int) TrialSpec {
	return TrialSpec{
		Image:      g.pool.TargetImage(c, v, s),
		Category:   c,
		TrialType:  v.TrialType(),
		StimulusID: stimulusID(string(c), s),
	}
}

func (g *Generator) falseTrial(f Foil, s int) TrialSpec {
	return TrialSpec{
		Image:      g.pool.FoilImage(f, s),
		Category:   Category(g.title.String(string(f))),
		TrialType:  TrialTypeFalse,
		StimulusID: stimulusID("False", s),
	}
}

func (g *Generator) shuffle(specs []TrialSpec) {
	g.rng.Shuffle(len(specs), func(i, j int) {
		specs[i], specs[j] = specs[j], specs[i]
	})
}
