// Package phys provides the rigid-body primitives for the simulation:
//
//   - [Body]: pose, velocities, mass and inertia of a dynamic body
//   - [Shape]: collision geometry (infinite plane or box) attached to a body
//   - [MassProperties]: mass/inertia computation for solid boxes
//
// Bodies own their shapes; a box shape has no pose of its own and always
// mirrors the pose of the body it is attached to. Planes are static and
// never belong to a body.
package phys
