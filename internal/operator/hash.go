package operator

import (
	"crypto/md5" //nolint:gosec // fingerprinting, not security
	"encoding/hex"

	"github.com/jacoelho/jpext/internal/canonical"
	"github.com/jacoelho/jpext/internal/datum"
)

// Hash fingerprints the value as the MD5 of salt followed by the value's
// canonical JSON text.
//
//	`hash(entity-salt)`
type Hash struct {
	base
	salt string
}

func newHash(b base, args []string) (Operator, error) {
	return &Hash{base: b, salt: args[0]}, nil
}

func (h *Hash) Find(d datum.Datum) ([]datum.Datum, error) {
	return broadcast(h, d)
}

func (h *Hash) transform(value any) (any, error) {
	digest, err := Digest(h.salt, value)
	if err != nil {
		return nil, nil
	}
	return digest, nil
}

// Digest returns the lowercase hex MD5 of salt + canonical JSON of value.
// Mapping key order does not affect the result.
func Digest(salt string, value any) (string, error) {
	encoded, err := canonical.JSON(value)
	if err != nil {
		return "", &CanonicalizationError{Err: err}
	}

	sum := md5.Sum(append([]byte(salt), encoded...)) //nolint:gosec
	return hex.EncodeToString(sum[:]), nil
}
