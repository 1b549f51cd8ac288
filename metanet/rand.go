package metanet

import (
	"crypto/rand"
	"math/big"
)

// Rand is the randomness a node builder draws from: node names, generator
// selection and payload contents. *math/rand.Rand satisfies it, so tests
// can supply a seeded source.
type Rand interface {
	// Intn returns a uniform value in [0, n). It panics if n <= 0.
	Intn(n int) int

	// Read fills p with random bytes.
	Read(p []byte) (int, error)
}

// CryptoRand returns a Rand backed by crypto/rand.
func CryptoRand() Rand { return cryptoRand{} }

type cryptoRand struct{}

func (cryptoRand) Intn(n int) int {
	if n <= 0 {
		panic("metanet: invalid argument to Intn")
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("metanet: crypto/rand: " + err.Error())
	}
	return int(v.Int64())
}

func (cryptoRand) Read(p []byte) (int, error) {
	return rand.Read(p)
}
