package redact

import (
	"testing"

	"github.com/hurlgo/hurl/internal/value"
	"github.com/hurlgo/hurl/internal/variables"
)

func TestRedactsSecretSubstrings(t *testing.T) {
	vs := variables.New()
	vs.Seed("token", value.StrVal("sk-super-secret"), variables.Secret, variables.SourceCommandLine)
	vs.Seed("name", value.StrVal("public-name"), variables.Public, variables.SourceCommandLine)

	r := New(vs)
	out := r.String("Authorization: Bearer sk-super-secret (user public-name)")
	if out != "Authorization: Bearer *** (user public-name)" {
		t.Fatalf("unexpected redaction: %q", out)
	}
}

func TestLongerSecretMaskedBeforeShorterSubstring(t *testing.T) {
	vs := variables.New()
	vs.Seed("a", value.StrVal("secret"), variables.Secret, variables.SourceCommandLine)
	vs.Seed("b", value.StrVal("secretvalue"), variables.Secret, variables.SourceCommandLine)

	r := New(vs)
	out := r.String("value=secretvalue")
	if out != "value=***" {
		t.Fatalf("expected a single mask, got %q", out)
	}
}
