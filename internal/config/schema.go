package config

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaCUE string

// CheckSchema validates cfg against the embedded #Config definition.
func CheckSchema(cfg *Config) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	value := ctx.Encode(cfg)
	if err := value.Err(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := def.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}
