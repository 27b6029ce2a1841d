package trust

import "github.com/home-lang/pantry/internal/pantryerr"

// SLSAPredicateType is the in-toto predicate type this layer binds.
const SLSAPredicateType = "https://slsa.dev/provenance/v0.2"

// Subject names one artifact and its digest within a provenance
// statement.
type Subject struct {
	Name   string
	SHA256 string
}

// Statement is an in-toto provenance statement bound to a package
// body's SHA-256 digest.
type Statement struct {
	Type          string `json:"_type"`
	Subject       []Subject
	PredicateType string
	Predicate     map[string]any
}

// NewStatement builds a Statement for pkgName/body, with an
// implementation-defined predicate payload (builder id, materials,
// invocation parameters, etc).
func NewStatement(pkgName string, body []byte, predicate map[string]any) Statement {
	return Statement{
		Type:          "https://in-toto.io/Statement/v0.1",
		Subject:       []Subject{{Name: pkgName, SHA256: Digest(body)}},
		PredicateType: SLSAPredicateType,
		Predicate:     predicate,
	}
}

// VerifyProvenance checks that stmt is bound to body: its predicate
// type matches the expected SLSA provenance type and at least one
// subject's digest matches body's actual SHA-256.
func VerifyProvenance(stmt Statement, body []byte) error {
	if stmt.PredicateType != SLSAPredicateType {
		return pantryerr.New(pantryerr.KindSignatureVerificationFailed, "unsupported provenance predicate type "+stmt.PredicateType)
	}
	digest := Digest(body)
	for _, s := range stmt.Subject {
		if s.SHA256 == digest {
			return nil
		}
	}
	return pantryerr.New(pantryerr.KindChecksumMismatch, "provenance statement digest does not match package body")
}
