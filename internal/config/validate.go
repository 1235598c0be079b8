package config

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaCUE string

// ErrInvalidSettings is wrapped by every ConfigError.
var ErrInvalidSettings = errors.New("invalid settings")

// ConfigError reports the first settings violation found.
type ConfigError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *ConfigError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidSettings
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// Validate checks settings against the CUE schema and the frame-level
// constraints that only make sense after conversion.
func Validate(s Settings) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile settings schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Settings"))
	v := def.Unify(ctx.Encode(s))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}

	// CUE lists are positional; distinctness is easier here.
	if s.Keys[0] == s.Keys[1] {
		return &ConfigError{
			Field:   "keys",
			Message: fmt.Sprintf("response keys must differ, both are %q", s.Keys[0]),
		}
	}

	_, err := NewPhaseTimings(s)
	return err
}

// formatCUEError converts the first CUE error into a ConfigError.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &ConfigError{Message: err.Error()}
	}

	first := errs[0]
	format, args := first.Msg()
	var path []string
	for _, sel := range first.Path() {
		if !strings.HasPrefix(sel, "#") {
			path = append(path, sel)
		}
	}
	ce := &ConfigError{
		Field:   strings.Join(path, "."),
		Message: fmt.Sprintf(format, args...),
	}
	// Positions inside the embedded schema are noise for users editing YAML.
	for _, pos := range cueerrors.Positions(first) {
		if pos.Filename() != "schema.cue" {
			ce.Pos = pos
			break
		}
	}
	return ce
}
