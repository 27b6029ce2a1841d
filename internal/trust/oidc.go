package trust

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/home-lang/pantry/internal/pantryerr"
)

// Claims is the subset of an OIDC token's payload this layer inspects.
type Claims struct {
	Issuer   string         `json:"iss"`
	Subject  string         `json:"sub"`
	Audience string         `json:"aud"`
	Expiry   int64          `json:"exp"`
	Workflow string         `json:"workflow_ref,omitempty"`
	Ref      string         `json:"ref,omitempty"`
	Raw      map[string]any `json:"-"`
}

// DecodeTokenUnsafe parses a JWT's three base64url segments and
// JSON-decodes header and payload without verifying the signature. This
// is intentionally unsafe: it exists for local claim inspection and for
// flows where the registry already verified the signature out of band.
func DecodeTokenUnsafe(token string) (Claims, error) {
	parser := jwt.Parser{}
	var claims jwt.MapClaims
	_, _, err := parser.ParseUnverified(token, &claims)
	if err != nil {
		return Claims{}, pantryerr.Wrap(pantryerr.KindUntrustedPublisher, err, "decoding OIDC token")
	}

	out := Claims{Raw: map[string]any(claims)}
	if v, ok := claims["iss"].(string); ok {
		out.Issuer = v
	}
	if v, ok := claims["sub"].(string); ok {
		out.Subject = v
	}
	if v, ok := claims["aud"].(string); ok {
		out.Audience = v
	}
	if v, ok := claims["exp"].(float64); ok {
		out.Expiry = int64(v)
	}
	if v, ok := claims["workflow_ref"].(string); ok {
		out.Workflow = v
	}
	if v, ok := claims["ref"].(string); ok {
		out.Ref = v
	}
	return out, nil
}

// ValidateExpiration fails if the token has already expired at now.
func ValidateExpiration(claims Claims, now time.Time) error {
	if claims.Expiry != 0 && now.Unix() >= claims.Expiry {
		return pantryerr.New(pantryerr.KindTokenExpired, "OIDC token has expired")
	}
	return nil
}

// TrustedPublisher declares the expected shape of an OIDC identity
// permitted to publish a package without an explicit signing key.
type TrustedPublisher struct {
	Issuer         string
	SubjectPrefix  string
	Workflow       string // empty means not checked
	AllowedRefs    []string
}

// ValidateClaims reports whether claims match the trusted publisher
// configuration: issuer must match exactly, subject must have the
// configured prefix, workflow must match when configured, and ref must
// be in AllowedRefs when that list is non-empty.
func (tp TrustedPublisher) ValidateClaims(claims Claims) bool {
	if claims.Issuer != tp.Issuer {
		return false
	}
	if !strings.HasPrefix(claims.Subject, tp.SubjectPrefix) {
		return false
	}
	if tp.Workflow != "" && claims.Workflow != tp.Workflow {
		return false
	}
	if len(tp.AllowedRefs) > 0 && !contains(tp.AllowedRefs, claims.Ref) {
		return false
	}
	return true
}

func contains(list []string, needle string) bool {
	for _, v := range list {
		if v == needle {
			return true
		}
	}
	return false
}
