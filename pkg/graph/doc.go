// Package graph maintains polygonal meshes as half-edge graphs.
//
// A Mesh stores vertices, directed half-edges and faces in keyed storage.
// Records refer to each other only by key: a half-edge is keyed by the pair
// of vertices it connects, knows its opposite and the next edge around the
// face it bounds, and a face remembers one edge of its boundary. The
// mutation API on Mesh keeps these links consistent; views traverse them.
//
// Raw storage can be assembled with Core and the Bind functions and turned
// into a Mesh with FromCore, which validates it first.
package graph
