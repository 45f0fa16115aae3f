package credential

import (
	"crypto/rand"
	"fmt"
)

// tokenAlphabet is the 62-symbol alphanumeric alphabet tokens are drawn
// from. Each symbol carries just under 6 bits of entropy, so a 64-character
// token holds ~381 bits.
const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Token returns a random string of exactly n characters drawn uniformly
// from tokenAlphabet using the operating system's CSPRNG. Token(0) returns
// the empty string. Uniqueness is probabilistic; at the lengths used for
// bearer tokens a collision is negligible.
func Token(n int) string {
	if n <= 0 {
		return ""
	}

	out := make([]byte, n)
	// Rejection sampling over 6-bit values keeps the draw uniform: values
	// 62 and 63 are discarded instead of wrapping around the alphabet.
	buf := make([]byte, n+n/4)
	i := 0
	for i < n {
		if _, err := rand.Read(buf); err != nil {
			// crypto/rand never fails on supported platforms; if the
			// kernel's entropy source is gone, nothing sane can continue.
			panic(fmt.Sprintf("credential: reading random bytes: %v", err))
		}
		for _, b := range buf {
			v := b & 0x3f
			if v >= byte(len(tokenAlphabet)) {
				continue
			}
			out[i] = tokenAlphabet[v]
			i++
			if i == n {
				break
			}
		}
	}
	return string(out)
}
