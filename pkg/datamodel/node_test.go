package datamodel

import (
	"errors"
	"testing"
)

func TestNode_AddEndpoint(t *testing.T) {
	n := NewNode(NodeConfig{})

	dt := DeviceTypeEntry{DeviceType: 0x0100, Revision: 1}
	id, err := n.AddEndpoint(dt)
	if err != nil {
		t.Fatalf("AddEndpoint: %v", err)
	}
	if id != 1 {
		t.Errorf("first endpoint ID = %d, want 1", id)
	}

	id2, err := n.AddEndpoint(dt)
	if err != nil {
		t.Fatalf("AddEndpoint: %v", err)
	}
	if id2 != 2 {
		t.Errorf("second endpoint ID = %d, want 2", id2)
	}

	ep, err := n.GetEndpoint(id)
	if err != nil {
		t.Fatalf("GetEndpoint: %v", err)
	}
	if ep.DeviceType() != dt {
		t.Errorf("DeviceType = %+v, want %+v", ep.DeviceType(), dt)
	}

	if _, err := n.GetEndpoint(99); !errors.Is(err, ErrEndpointNotFound) {
		t.Errorf("GetEndpoint(99) error = %v, want ErrEndpointNotFound", err)
	}
}

func TestNode_EndpointLimit(t *testing.T) {
	n := NewNode(NodeConfig{})
	dt := DeviceTypeEntry{DeviceType: 0x0100, Revision: 1}

	for i := 0; i < MaxEndpoints; i++ {
		if _, err := n.AddEndpoint(dt); err != nil {
			t.Fatalf("AddEndpoint(%d): %v", i, err)
		}
	}
	if _, err := n.AddEndpoint(dt); !errors.Is(err, ErrTooManyEndpoints) {
		t.Errorf("AddEndpoint over limit error = %v, want ErrTooManyEndpoints", err)
	}
}

func TestNode_AddCluster(t *testing.T) {
	n := NewNode(NodeConfig{})
	id, err := n.AddEndpoint(DeviceTypeEntry{DeviceType: 0x0100, Revision: 1})
	if err != nil {
		t.Fatal(err)
	}

	c := newStubCluster(0x0006)
	if err := n.AddCluster(id, c); err != nil {
		t.Fatalf("AddCluster: %v", err)
	}
	if c.Base().EndpointID() != id {
		t.Errorf("cluster bound to endpoint %d, want %d", c.Base().EndpointID(), id)
	}

	err = n.AddCluster(id, newStubCluster(0x0006))
	if !errors.Is(err, ErrClusterExists) {
		t.Errorf("duplicate AddCluster error = %v, want ErrClusterExists", err)
	}

	err = n.AddCluster(99, newStubCluster(0x0008))
	if !errors.Is(err, ErrEndpointNotFound) {
		t.Errorf("AddCluster(bad endpoint) error = %v, want ErrEndpointNotFound", err)
	}

	got, err := n.GetCluster(id, 0x0006)
	if err != nil {
		t.Fatalf("GetCluster: %v", err)
	}
	if got != ClusterType(c) {
		t.Error("GetCluster returned a different instance")
	}

	if _, err := n.GetCluster(id, 0x0008); !errors.Is(err, ErrClusterNotFound) {
		t.Errorf("GetCluster(missing) error = %v, want ErrClusterNotFound", err)
	}
}

func TestNode_ForEachClusterOrder(t *testing.T) {
	n := NewNode(NodeConfig{})
	dt := DeviceTypeEntry{DeviceType: 0x0100, Revision: 1}

	ep1, _ := n.AddEndpoint(dt)
	ep2, _ := n.AddEndpoint(dt)

	// Registration order deliberately scrambled.
	if err := n.AddCluster(ep2, newStubCluster(0x0008)); err != nil {
		t.Fatal(err)
	}
	if err := n.AddCluster(ep1, newStubCluster(0x0008)); err != nil {
		t.Fatal(err)
	}
	if err := n.AddCluster(ep1, newStubCluster(0x0006)); err != nil {
		t.Fatal(err)
	}
	if err := n.AddCluster(ep2, newStubCluster(0x0006)); err != nil {
		t.Fatal(err)
	}

	type step struct {
		endpoint EndpointID
		cluster  ClusterID
	}
	var got []step
	err := n.ForEachCluster(func(ep EndpointID, c ClusterType) error {
		got = append(got, step{ep, c.Base().ID()})
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachCluster: %v", err)
	}

	want := []step{
		{ep1, 0x0006}, {ep1, 0x0008},
		{ep2, 0x0006}, {ep2, 0x0008},
	}
	if len(got) != len(want) {
		t.Fatalf("visited %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("visited %v, want %v", got, want)
		}
	}
}

func TestEndpoint_ClustersSorted(t *testing.T) {
	n := NewNode(NodeConfig{})
	id, _ := n.AddEndpoint(DeviceTypeEntry{DeviceType: 0x0100, Revision: 1})

	for _, cid := range []ClusterID{0x0300, 0x0006, 0x0008} {
		if err := n.AddCluster(id, newStubCluster(cid)); err != nil {
			t.Fatal(err)
		}
	}

	ep, err := n.GetEndpoint(id)
	if err != nil {
		t.Fatal(err)
	}
	ids := ep.ClusterIDs()
	want := []ClusterID{0x0006, 0x0008, 0x0300}
	if len(ids) != len(want) {
		t.Fatalf("ClusterIDs = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ClusterIDs = %v, want %v", ids, want)
		}
	}
}
