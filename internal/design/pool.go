package design

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// Pool resolves stimulus references within a stimuli directory.
//
// Layout:
//
//	<root>/cat/<variant>/<variant>NNNNN.png
//	<root>/dog/<variant>/<variant>NNNNN.png
//	<root>/false/<foil>/<label>NNNNN.png
type Pool struct {
	// Root is the prefix written into TrialSpec.Image.
	Root string

	// FS is rooted at Root. A nil FS disables Verify.
	FS fs.FS
}

// NewPool creates a pool rooted at root.
func NewPool(root string, fsys fs.FS) Pool {
	return Pool{Root: path.Clean(root), FS: fsys}
}

// TargetImage returns the image reference of a Cat or Dog stimulus.
func (p Pool) TargetImage(c Category, v Variant, index int) string {
	dir := strings.ToLower(string(c))
	return path.Join(p.Root, dir, string(v), stimulusID(string(v), index)+".png")
}

// FoilImage returns the image reference of a False stimulus.
func (p Pool) FoilImage(f Foil, index int) string {
	return path.Join(p.Root, "false", string(f), stimulusID(f.label(), index)+".png")
}

// MissingStimuliError lists image references with no backing file.
type MissingStimuliError struct {
	Images []string
}

func (e *MissingStimuliError) Error() string {
	if len(e.Images) == 1 {
		return fmt.Sprintf("missing stimulus image: %s", e.Images[0])
	}
	return fmt.Sprintf("missing %d stimulus images (first: %s)", len(e.Images), e.Images[0])
}

// IsMissingStimuli reports whether err is a MissingStimuliError.
func IsMissingStimuli(err error) bool {
	var me *MissingStimuliError
	return errors.As(err, &me)
}

// Verify checks that every referenced image exists in the pool.
func (p Pool) Verify(specs []TrialSpec) error {
	if p.FS == nil {
		return nil
	}

	var missing []string
	for _, spec := range specs {
		rel, ok := p.relative(spec.Image)
		if !ok {
			missing = append(missing, spec.Image)
			continue
		}
		if _, err := fs.Stat(p.FS, rel); err != nil {
			missing = append(missing, spec.Image)
		}
	}

	if len(missing) > 0 {
		return &MissingStimuliError{Images: missing}
	}
	return nil
}

func (p Pool) relative(image string) (string, bool) {
	if p.Root == "." {
		return image, fs.ValidPath(image)
	}
	rel, ok := strings.CutPrefix(image, p.Root+"/")
	if !ok {
		return "", false
	}
	return rel, fs.ValidPath(rel)
}
