// Package redact implements the secret redactor of spec §6/§7: any
// string destined for stderr, progress, or a text report is passed
// through substring replacement first. Structured JSON output is never
// redacted (spec §6 "Redaction").
package redact

import (
	"strings"

	"github.com/hurlgo/hurl/internal/variables"
)

const mask = "***"

// Redactor replaces every occurrence of a known secret value with a
// fixed mask, built once per file run from the current SecretSet.
type Redactor struct {
	secrets []string
}

// New builds a Redactor from the secret values currently held by vs.
// Longer secrets are matched first so that one secret being a substring
// of another doesn't leave a partial value exposed.
func New(vs *variables.VariableSet) *Redactor {
	set := variables.SecretsOf(vs)
	values := set.Values()
	sortByLengthDesc(values)
	return &Redactor{secrets: values}
}

// String returns s with every secret substring replaced by the mask.
func (r *Redactor) String(s string) string {
	if len(r.secrets) == 0 {
		return s
	}
	out := s
	for _, secret := range r.secrets {
		if secret == "" {
			continue
		}
		out = strings.ReplaceAll(out, secret, mask)
	}
	return out
}

func sortByLengthDesc(values []string) {
	for i := 1; i < len(values); i++ {
		for j := i; j > 0 && len(values[j-1]) < len(values[j]); j-- {
			values[j-1], values[j] = values[j], values[j-1]
		}
	}
}
