// Package layout implements the force-directed layout engine behind the
// network: a mutable set of nodes with 3D positions, velocities and
// symmetric adjacency, advanced one tick per rendered frame.
//
// Nodes are addressed two ways. An index is a node's position in the dense
// sequence returned by [Graph.Nodes]; it changes when a lower node is
// removed. A [NodeID] is assigned once and never reused. Adjacency is
// stored by id, so removing a node never rewrites unrelated references. A
// freshly built graph has ids equal to indices.
//
// Lookups with stale indices or ids return empty results rather than
// errors; callers may reference nodes that disappeared between frames.
package layout
