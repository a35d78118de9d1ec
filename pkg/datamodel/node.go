package datamodel

import "sync"

// MaxEndpoints bounds the endpoint collection of one node.
const MaxEndpoints = 16

// NodeConfig provides dependencies for a Node.
type NodeConfig struct {
	// OnDirty is invoked after every successful write of a persistent
	// attribute. Optional; implementations must not block.
	OnDirty DirtyFunc
}

// Node is the root aggregate of the data model and the dispatch root.
// It is the single owner of its endpoints. Structural mutation (adding
// endpoints and clusters) happens at startup under the write lock;
// steady-state dispatch takes the read lock only.
type Node struct {
	mu        sync.RWMutex
	endpoints []*Endpoint // ascending endpoint IDs, assigned from 1
	nextID    EndpointID
	onDirty   DirtyFunc
}

// NewNode creates an empty node.
func NewNode(cfg NodeConfig) *Node {
	return &Node{
		nextID:  RootEndpointID + 1,
		onDirty: cfg.OnDirty,
	}
}

// AddEndpoint creates a new endpoint with the given device type and
// returns its assigned ID. IDs start at 1 (endpoint 0 is reserved for the
// root) and are stable for the node's lifetime.
func (n *Node) AddEndpoint(deviceType DeviceTypeEntry) (EndpointID, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.endpoints) >= MaxEndpoints {
		return 0, ErrTooManyEndpoints
	}

	id := n.nextID
	n.nextID++
	n.endpoints = append(n.endpoints, newEndpoint(id, deviceType))
	return id, nil
}

// AddCluster registers a cluster under an endpoint and binds its base to
// the endpoint and the node's dirty callback.
func (n *Node) AddCluster(endpointID EndpointID, c ClusterType) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	ep := n.endpoint(endpointID)
	if ep == nil {
		return ErrEndpointNotFound
	}
	if err := ep.addCluster(c); err != nil {
		return err
	}

	c.Base().bind(endpointID, n.onDirty)
	return nil
}

// GetEndpoint returns the endpoint with the given ID.
func (n *Node) GetEndpoint(id EndpointID) (*Endpoint, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	ep := n.endpoint(id)
	if ep == nil {
		return nil, ErrEndpointNotFound
	}
	return ep, nil
}

// GetCluster resolves a cluster by endpoint and cluster ID.
func (n *Node) GetCluster(endpointID EndpointID, clusterID ClusterID) (ClusterType, error) {
	ep, err := n.GetEndpoint(endpointID)
	if err != nil {
		return nil, err
	}
	return ep.GetCluster(clusterID)
}

// Endpoints returns all endpoints in endpoint-ID ascending order.
func (n *Node) Endpoints() []*Endpoint {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return append([]*Endpoint{}, n.endpoints...)
}

// EndpointCount returns the number of endpoints.
func (n *Node) EndpointCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.endpoints)
}

// ForEachCluster iterates every registered cluster in
// (endpoint ascending, cluster ID ascending) order. Iteration stops at
// the first error, which is returned.
func (n *Node) ForEachCluster(fn func(EndpointID, ClusterType) error) error {
	for _, ep := range n.Endpoints() {
		for _, c := range ep.Clusters() {
			if err := fn(ep.ID(), c); err != nil {
				return err
			}
		}
	}
	return nil
}

// endpoint returns the endpoint or nil. Caller holds n.mu.
func (n *Node) endpoint(id EndpointID) *Endpoint {
	for _, ep := range n.endpoints {
		if ep.ID() == id {
			return ep
		}
	}
	return nil
}
