package game

// Rand is the source of randomness used for role draws and shuffles.
// *math/rand/v2.Rand satisfies it; tests substitute seeded or scripted sources.
type Rand interface {
	Float64() float64
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}
