// Package mc implements Metropolis Monte-Carlo sampling of a periodic
// particle system in the canonical ensemble.
//
// The package is organized around a single [Engine] that owns the particle
// configuration and the random source for the lifetime of a run:
//
//   - [Engine.Trial]: one single-particle displacement with accept/reject
//   - [Engine.Step]: one cycle (sweep) of trial moves
//   - [Engine.Run]: the full cycle loop, reporting to [Observer]s
//
// # Example
//
//	eval, _ := energy.New(b, lj, 9)
//	src, _ := rng.NewXorShift(rng.DefaultSeed)
//	eng, _ := mc.New(eval, particles, src, mc.DefaultConfig())
//	res, _ := eng.Run(ctx, sink)
//
// # Determinism
//
// Random draws happen in a fixed order per trial: particle index, three
// displacement components, then the acceptance draw when one is needed.
// Given the same seed and initial configuration a run replays exactly.
//
// # Thread Safety
//
// Engine instances are NOT thread-safe. Trial moves form a Markov chain and
// are always applied serially.
package mc
