package grove

import "math/rand/v2"

/*
derive takes a seed and an index and returns the seed of the index-th
child stream. Trees derive their seed from the forest seed and their
position, and nodes from the seed of their parent and the branch they
hang from, so every stream is independent of scheduling.
*/
func derive(seed, index uint64) uint64 {
	return mix(seed ^ mix(index+0x9e3779b97f4a7c15))
}

// mix is the splitmix64 finalizer.
func mix(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// newRand returns a random stream for a seed.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, mix(seed)))
}

// Branches of a node used to derive the streams of its children and of
// the generation of its candidate features.
const (
	candidatesBranch = iota
	leftBranch
	rightBranch
)

// Streams of a tree derived from its seed.
const (
	providerStream = iota
	rootStream
)

// sharedCandidatesStream is the index of the stream derived from the
// forest seed to generate the candidates shared by every node.
const sharedCandidatesStream = ^uint64(0)
