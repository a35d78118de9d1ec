package datamodel

import "sync"

// MaxClustersPerEndpoint bounds the cluster set of one endpoint.
const MaxClustersPerEndpoint = 16

// Endpoint is a logical sub-device: a device-type tag plus an ordered
// collection of clusters. Endpoints are created through Node.AddEndpoint.
type Endpoint struct {
	id         EndpointID
	deviceType DeviceTypeEntry

	mu       sync.RWMutex
	clusters map[ClusterID]ClusterType
	order    []ClusterID // kept ascending for deterministic iteration
}

func newEndpoint(id EndpointID, deviceType DeviceTypeEntry) *Endpoint {
	return &Endpoint{
		id:         id,
		deviceType: deviceType,
		clusters:   make(map[ClusterID]ClusterType),
	}
}

// ID returns the endpoint number.
func (e *Endpoint) ID() EndpointID {
	return e.id
}

// DeviceType returns the endpoint's device-type tag.
func (e *Endpoint) DeviceType() DeviceTypeEntry {
	return e.deviceType
}

// addCluster registers a cluster under the endpoint. Cluster IDs are
// unique per endpoint.
func (e *Endpoint) addCluster(c ClusterType) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := c.Base().ID()
	if _, exists := e.clusters[id]; exists {
		return ErrClusterExists
	}
	if len(e.clusters) >= MaxClustersPerEndpoint {
		return ErrTooManyClusters
	}

	e.clusters[id] = c
	e.order = insertSorted(e.order, id)
	return nil
}

// GetCluster returns the cluster with the given ID.
func (e *Endpoint) GetCluster(id ClusterID) (ClusterType, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	c, ok := e.clusters[id]
	if !ok {
		return nil, ErrClusterNotFound
	}
	return c, nil
}

// HasCluster returns true if a cluster with the given ID exists.
func (e *Endpoint) HasCluster(id ClusterID) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.clusters[id]
	return ok
}

// Clusters returns the endpoint's clusters in cluster-ID ascending order.
func (e *Endpoint) Clusters() []ClusterType {
	e.mu.RLock()
	defer e.mu.RUnlock()

	result := make([]ClusterType, 0, len(e.order))
	for _, id := range e.order {
		result = append(result, e.clusters[id])
	}
	return result
}

// ClusterIDs returns the IDs of all clusters in ascending order.
func (e *Endpoint) ClusterIDs() []ClusterID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]ClusterID{}, e.order...)
}

func insertSorted(ids []ClusterID, id ClusterID) []ClusterID {
	i := 0
	for i < len(ids) && ids[i] < id {
		i++
	}
	ids = append(ids, 0)
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}
