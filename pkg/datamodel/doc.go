// Package datamodel provides the in-process Matter data model: the
// hierarchy of Node → Endpoint → Cluster → Attribute and the capability
// contract concrete clusters satisfy.
//
// The Node owns its endpoints, endpoints own their clusters, and a cluster
// base owns its attribute storage. Structure is built once at startup under
// the node's write lock; steady-state command execution takes the read lock
// plus each cluster's own interior locking.
//
// Spec References:
//   - Section 7.8: Node
//   - Section 7.9: Endpoint
//   - Section 7.10: Cluster
//   - Section 7.12: Attribute
//   - Section 7.13: Global Elements
package datamodel
