// Package sim schedules the ball pit simulation.
//
// A [World] owns every body and obstacle and advances them one rendered
// frame at a time:
//
//   - [World.Advance]: split a frame into updates and substeps
//   - [World.Spawn], [World.AddObstacle]: populate the world
//   - [World.SetPosition], [World.SetVelocity]: direct manipulation
//   - [Runner]: fixed-rate batch runs with metrics and frame sampling
//   - [Ensemble]: independent runs over a range of seeds
//
// # Example
//
//	w, _ := sim.NewWorld(sim.DefaultParams())
//	w.Spawn(100, 100, 5)
//	w.AddObstacle(30, 30, 100, 30, 10)
//	w.Advance(1.0 / 60)
//
// # Thread Safety
//
// World instances are NOT thread-safe. Hosts must call Advance and the
// manipulation methods from a single goroutine. [Ensemble] runs separate
// worlds concurrently, one goroutine each.
package sim
