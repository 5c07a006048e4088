package random

import (
	"crypto/rand"
	"math/big"
)

// Random is the source of randomness for race ID allocation. Mockable so
// tests can queue predetermined values.
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int

	// String draws length characters uniformly from alphabet
	String(length int, alphabet string) string
}

// CryptoRandom backs Random with crypto/rand
type CryptoRandom struct{}

func New() *CryptoRandom {
	return &CryptoRandom{}
}

func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails if the platform entropy source is broken
		return 0
	}
	return int(v.Int64())
}

func (r *CryptoRandom) String(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	out := make([]byte, length)
	for i := range out {
		out[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(out)
}
