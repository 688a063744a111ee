package services

import (
	"hash/fnv"
	"math/rand"
)

// seededRNG returns a generator private to one use of the world seed
// ("dynamic" for the weight layer, "spawn" for spawn points). Two labels on
// the same seed never share a stream.
func seededRNG(worldSeed, label string) *rand.Rand {
	return rand.New(rand.NewSource(labelSeed(worldSeed, label)))
}

func labelSeed(worldSeed, label string) int64 {
	h := fnv.New64a()
	h.Write([]byte(label))
	h.Write([]byte{'/'})
	h.Write([]byte(worldSeed))
	return int64(h.Sum64() &^ (1 << 63))
}
