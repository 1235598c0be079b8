package testutil

// FixedSubjectGenerator returns the same subject id every time.
//
// The same scenario with the same FixedSubjectGenerator produces
// byte-identical result tables.
type FixedSubjectGenerator struct {
	id string
}

// NewFixedSubjectGenerator creates a generator for id.
// If id is empty, Generate returns "test-subject".
func NewFixedSubjectGenerator(id string) *FixedSubjectGenerator {
	if id == "" {
		id = "test-subject"
	}
	return &FixedSubjectGenerator{id: id}
}

// Generate returns the fixed subject id.
func (g *FixedSubjectGenerator) Generate() string {
	return g.id
}
