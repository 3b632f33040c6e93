package utils // package utils provides helpers for identifier generation, hashing and tokens

import (
	"crypto/rand" // secure random number generation
	"fmt"         // formatting of reference strings
	"math/big"    // bounded random integers from crypto/rand
	"time"        // current year for business references
)

// NewQuoteReference mints a human readable quote reference of the form
// COT-<year>-<3 digit number>.  The three digit suffix is random, so the
// reference is NOT guaranteed unique; the store enforces uniqueness and
// the caller re-mints on a duplicate key violation.
func NewQuoteReference() (string, error) {
	return businessRef("COT")
}

// NewOrderNumber mints a human readable order number of the form
// PED-<year>-<3 digit number>.  Same collision caveat as
// NewQuoteReference.
func NewOrderNumber() (string, error) {
	return businessRef("PED")
}

// businessRef builds "<prefix>-<year>-<NNN>" with NNN drawn from
// crypto/rand in the range 000-999.
func businessRef(prefix string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%03d", prefix, time.Now().UTC().Year(), n.Int64()), nil
}

// NewTrackingToken returns an opaque tracking token built from two
// base-36 segments of secure random data, 26 characters in total.  The
// token appears directly in the public tracking URL and is the sole
// access credential for the tracking view, so it must come from a
// cryptographically strong source and must not be derivable from quote
// or order identifiers.
func NewTrackingToken() (string, error) {
	a, err := randomBase36(13)
	if err != nil {
		return "", err
	}
	b, err := randomBase36(13)
	if err != nil {
		return "", err
	}
	return a + b, nil
}

// randomBase36 returns n characters drawn from [0-9a-z] using
// cryptographically secure random bytes.
func randomBase36(n int) (string, error) {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, n)
	for i, c := range buf {
		out[i] = alphabet[int(c)%len(alphabet)]
	}
	return string(out), nil
}
