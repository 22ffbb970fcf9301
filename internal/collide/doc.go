// Package collide implements collision detection for the simulation in
// two phases: a broad phase ([Space]) that prunes shape pairs by
// bounding-box overlap, and a narrow phase ([Generate]) that produces
// exact contact points for the pairs that survive.
package collide
