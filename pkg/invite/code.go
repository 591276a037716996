// Package invite implements the invite-code codec and generator. Codes are
// 8 characters drawn from [A-Z0-9]; the dashed display form is cosmetic only.
package invite

import (
	"crypto/rand"
	"fmt"
	"strings"
)

const (
	// CodeLength is the canonical invite code length.
	CodeLength = 8

	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Normalize uppercases the input, strips everything outside [A-Z0-9] and
// truncates to CodeLength. It never fails; unusable input yields "".
func Normalize(raw string) string {
	upper := strings.ToUpper(raw)
	var b strings.Builder
	b.Grow(CodeLength)
	for _, r := range upper {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == CodeLength {
				break
			}
		}
	}
	return b.String()
}

// Format renders the human-facing form: ABCD-1234 once the normalized code
// exceeds four characters, the bare code otherwise.
func Format(raw string) string {
	normalized := Normalize(raw)
	if len(normalized) <= 4 {
		return normalized
	}
	return normalized[:4] + "-" + normalized[4:]
}

// Generate returns a fresh random code of CodeLength characters.
func Generate() (string, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	out := make([]byte, CodeLength)
	for i, b := range buf {
		out[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(out), nil
}
