package design

import "fmt"

// Category is the semantic class of a stimulus.
type Category string

const (
	CategoryCat     Category = "Cat"
	CategoryDog     Category = "Dog"
	CategoryNeither Category = "Neither"
)

// Variant selects a target pool within a category.
type Variant string

const (
	VariantAdversarial Variant = "adv"
	VariantFlipped     Variant = "flp"
	VariantUnmodified  Variant = "img"
	VariantPractice    Variant = "prac"
)

// Foil selects the pool of a False trial.
type Foil string

const (
	FoilCat     Foil = "cat"
	FoilDog     Foil = "dog"
	FoilNeither Foil = "neither"
)

// TrialTypeFalse labels trials whose image matches neither target category.
const TrialTypeFalse = "False Trial"

// DefaultVariants are the variants drawn for main Cat and Dog trials.
var DefaultVariants = []Variant{VariantAdversarial, VariantFlipped, VariantUnmodified}

// DefaultFoils are the foil categories drawn for False trials.
var DefaultFoils = []Foil{FoilCat, FoilDog, FoilNeither}

// TrialType returns the trial-type label of a target variant.
func (v Variant) TrialType() string {
	switch v {
	case VariantAdversarial:
		return "Adversarial Trial"
	case VariantFlipped:
		return "Flip Trial"
	case VariantUnmodified:
		return "Image Trial"
	case VariantPractice:
		return "Practice Trial"
	default:
		return fmt.Sprintf("%s Trial", string(v))
	}
}

// label is the file-name prefix of a foil pool.
func (f Foil) label() string {
	switch f {
	case FoilCat:
		return "flt"
	case FoilDog:
		return "fls"
	default:
		return "img"
	}
}

// TrialSpec is one planned trial.
type TrialSpec struct {
	Image      string   `json:"image"`
	Category   Category `json:"category"`
	TrialType  string   `json:"trial_type"`
	StimulusID string   `json:"stimulus_id"`

	// Trial is the presentation index: 1-2P..0 for practice, 1..3N for main.
	Trial int `json:"trial"`
}

// IsPractice reports whether the spec belongs to the practice block.
func (s TrialSpec) IsPractice() bool {
	return s.Trial <= 0
}

// stimulusID formats the zero-padded per-pool identifier.
func stimulusID(prefix string, index int) string {
	return fmt.Sprintf("%s%05d", prefix, index)
}
