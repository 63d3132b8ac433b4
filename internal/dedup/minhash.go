package dedup

import (
	"math/bits"
	"math/rand/v2"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// mersennePrime is the modulus of the permutation family, 2^61 - 1
const mersennePrime = (1 << 61) - 1

// permutationSeed fixes the permutation coefficients so signatures are
// comparable across runs and processes
const permutationSeed = 0x7472757468

// Signature is a MinHash vector; slot i holds the minimum of permutation i
// over a document's shingles
type Signature []uint32

// Shingles returns the set of overlapping k-rune substrings of text after
// lowercasing and collapsing whitespace. Non-empty text shorter than k yields
// a single shingle holding the whole text.
func Shingles(text string, k int) map[string]struct{} {
	normalized := []rune(strings.Join(strings.Fields(strings.ToLower(text)), " "))
	shingles := make(map[string]struct{})
	if len(normalized) == 0 || k <= 0 {
		return shingles
	}

	if len(normalized) < k {
		shingles[string(normalized)] = struct{}{}
		return shingles
	}

	for i := 0; i+k <= len(normalized); i++ {
		shingles[string(normalized[i:i+k])] = struct{}{}
	}
	return shingles
}

// hasher computes MinHash signatures with a fixed family of permutations
type hasher struct {
	a []uint64
	b []uint64
}

func newHasher(permutations int) *hasher {
	rng := rand.New(rand.NewPCG(permutationSeed, permutationSeed))
	h := &hasher{
		a: make([]uint64, permutations),
		b: make([]uint64, permutations),
	}
	for i := range permutations {
		h.a[i] = 1 + rng.Uint64N(mersennePrime-1)
		h.b[i] = rng.Uint64N(mersennePrime)
	}
	return h
}

// permute evaluates (a*x + b) mod 2^61-1 without overflow
func permute(a, b, x uint64) uint64 {
	hi, lo := bits.Mul64(a, x)
	lo, carry := bits.Add64(lo, b, 0)
	hi += carry
	return bits.Rem64(hi, lo, mersennePrime)
}

// signature computes the MinHash of a shingle set. An empty set yields an
// empty signature, which is similar to nothing.
func (h *hasher) signature(shingles map[string]struct{}) Signature {
	if len(shingles) == 0 {
		return Signature{}
	}

	sig := make(Signature, len(h.a))
	for i := range sig {
		sig[i] = ^uint32(0)
	}

	for shingle := range shingles {
		base := uint64(uint32(xxhash.Sum64String(shingle)))
		for i := range sig {
			if v := uint32(permute(h.a[i], h.b[i], base)); v < sig[i] {
				sig[i] = v
			}
		}
	}
	return sig
}

// Similarity estimates the Jaccard similarity of the sets behind a and b as
// the fraction of agreeing slots
func Similarity(a, b Signature) float64 {
	n := min(len(a), len(b))
	if n == 0 {
		return 0
	}

	agree := 0
	for i := range n {
		if a[i] == b[i] {
			agree++
		}
	}
	return float64(agree) / float64(n)
}
