package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"shieldgate/internal/shared/errors"
)

// CSRFTokenBytes is the entropy of a generated token.
const CSRFTokenBytes = 32

// CSRFFailureMessage is the error reported for every rejected pair.
const CSRFFailureMessage = "CSRF token validation failed"

var csrfProtectedMethods = map[string]struct{}{
	http.MethodPost:   {},
	http.MethodPut:    {},
	http.MethodDelete: {},
	http.MethodPatch:  {},
}

// CSRFValidator implements the double-submit cookie check.
type CSRFValidator struct {
	exemptPaths    map[string]struct{}
	exemptPrefixes []string
}

func NewCSRFValidator(exemptPaths, exemptPrefixes []string) *CSRFValidator {
	v := &CSRFValidator{
		exemptPaths:    make(map[string]struct{}, len(exemptPaths)),
		exemptPrefixes: append([]string(nil), exemptPrefixes...),
	}
	for _, p := range exemptPaths {
		v.exemptPaths[p] = struct{}{}
	}
	return v
}

// RequiresToken reports whether a request needs a valid token pair.
func (v *CSRFValidator) RequiresToken(method, path string) bool {
	if _, ok := csrfProtectedMethods[strings.ToUpper(method)]; !ok {
		return false
	}
	if _, ok := v.exemptPaths[path]; ok {
		return false
	}
	for _, prefix := range v.exemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// Validate checks the header and cookie tokens of a request. It returns a
// csrf_validation_failed AppError when the request needs a token and the pair
// is missing or differs.
func (v *CSRFValidator) Validate(method, path, headerToken, cookieToken string) error {
	if !v.RequiresToken(method, path) {
		return nil
	}
	if !TokensMatch(headerToken, cookieToken) {
		return errors.NewCSRFMismatchError(CSRFFailureMessage)
	}
	return nil
}

// TokensMatch reports whether both tokens are present and equal. The
// comparison takes constant time for equal-length inputs.
func TokensMatch(headerToken, cookieToken string) bool {
	if headerToken == "" || cookieToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(headerToken), []byte(cookieToken)) == 1
}

// GenerateCSRFToken returns CSRFTokenBytes random bytes encoded as unpadded
// URL-safe base64.
func GenerateCSRFToken() (string, error) {
	b := make([]byte, CSRFTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate csrf token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
