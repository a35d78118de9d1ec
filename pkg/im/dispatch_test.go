package im

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/angelybo/matter-rs/pkg/datamodel"
	"github.com/angelybo/matter-rs/pkg/tlv"
)

const (
	testClusterID datamodel.ClusterID = 0x0006

	cmdSet   datamodel.CommandID = 0
	cmdBlock datamodel.CommandID = 1
	cmdPanic datamodel.CommandID = 2
)

// switchCluster is a single boolean-attribute cluster used to exercise
// the dispatcher.
type switchCluster struct {
	base *datamodel.ClusterBase
}

func newSwitchCluster(t *testing.T) *switchCluster {
	t.Helper()
	c := &switchCluster{base: datamodel.NewClusterBase(testClusterID)}
	a, err := datamodel.NewAttribute(0, datamodel.BoolValue(false), datamodel.AccessRV, datamodel.QualityNone)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.base.AddAttribute(a); err != nil {
		t.Fatal(err)
	}
	return c
}

func (c *switchCluster) Base() *datamodel.ClusterBase { return c.base }

func (c *switchCluster) AcceptedCommands() []datamodel.CommandEntry {
	return []datamodel.CommandEntry{
		datamodel.NewCommandEntry(cmdSet, datamodel.PrivilegeOperate),
		datamodel.NewCommandEntry(cmdBlock, datamodel.PrivilegeOperate),
		datamodel.NewCommandEntry(cmdPanic, datamodel.PrivilegeOperate),
	}
}

func (c *switchCluster) ReadAttribute(_ context.Context, req datamodel.ReadAttributeRequest, w *tlv.Writer) error {
	return c.base.ReadAttributeDefault(req, w, c.AcceptedCommands())
}

func (c *switchCluster) WriteAttribute(_ context.Context, req datamodel.WriteAttributeRequest, el *tlv.Element) error {
	return c.base.WriteAttributeDefault(req, el)
}

func (c *switchCluster) HandleCommand(ctx context.Context, req *datamodel.CommandRequest) error {
	switch req.Path.Command {
	case cmdSet:
		on := true
		if req.Data != nil {
			v, err := req.Data.Bool()
			if err != nil {
				return err
			}
			on = v
		}
		if err := c.base.WriteAttributeValue(0, datamodel.BoolValue(on)); err != nil {
			return err
		}
		req.Trans.Complete()
		return nil
	case cmdBlock:
		<-ctx.Done()
		return ctx.Err()
	case cmdPanic:
		panic("handler exploded")
	default:
		return datamodel.ErrCommandNotFound
	}
}

func newTestDispatcher(t *testing.T, clusters int) (*Dispatcher, *datamodel.Node, []datamodel.EndpointID) {
	t.Helper()
	node := datamodel.NewNode(datamodel.NodeConfig{})

	var eps []datamodel.EndpointID
	for i := 0; i < clusters; i++ {
		id, err := node.AddEndpoint(datamodel.DeviceTypeEntry{DeviceType: 0x0100, Revision: 1})
		if err != nil {
			t.Fatal(err)
		}
		if err := node.AddCluster(id, newSwitchCluster(t)); err != nil {
			t.Fatal(err)
		}
		eps = append(eps, id)
	}

	d, err := NewDispatcher(Config{Node: node, InvokeTimeout: 100 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	return d, node, eps
}

func operator() *datamodel.SubjectDescriptor {
	return &datamodel.SubjectDescriptor{NodeID: 1, Privilege: datamodel.PrivilegeOperate}
}

func TestDispatcher_InvokeConcrete(t *testing.T) {
	d, node, eps := newTestDispatcher(t, 1)

	results := d.Invoke(context.Background(), &InvokeRequest{
		Endpoint: eps[0],
		Cluster:  testClusterID,
		Command:  cmdSet,
		Subject:  operator(),
	})
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].Status != StatusSuccess {
		t.Fatalf("status = %s, want Success", results[0].Status)
	}

	c, err := node.GetCluster(eps[0], testClusterID)
	if err != nil {
		t.Fatal(err)
	}
	v, err := c.Base().ReadAttributeValue(0)
	if err != nil {
		t.Fatal(err)
	}
	if on, _ := v.Bool(); !on {
		t.Error("attribute = false after set command, want true")
	}
}

func TestDispatcher_InvokeWildcard(t *testing.T) {
	d, node, eps := newTestDispatcher(t, 3)

	// One endpoint without the cluster must be skipped by the fan-out.
	bare, err := node.AddEndpoint(datamodel.DeviceTypeEntry{DeviceType: 0x0100, Revision: 1})
	if err != nil {
		t.Fatal(err)
	}

	results := d.Invoke(context.Background(), &InvokeRequest{
		Wildcard: true,
		Cluster:  testClusterID,
		Command:  cmdSet,
		Subject:  operator(),
	})
	if len(results) != len(eps) {
		t.Fatalf("results = %d, want %d", len(results), len(eps))
	}
	for i, r := range results {
		if r.Endpoint != eps[i] {
			t.Errorf("result %d endpoint = %d, want %d (ascending order)", i, r.Endpoint, eps[i])
		}
		if r.Endpoint == bare {
			t.Errorf("fan-out visited endpoint %d with no cluster", bare)
		}
		if r.Status != StatusSuccess {
			t.Errorf("result %d status = %s, want Success", i, r.Status)
		}
	}
}

func TestDispatcher_InvokeErrors(t *testing.T) {
	d, _, eps := newTestDispatcher(t, 1)
	ctx := context.Background()

	tests := []struct {
		name string
		req  InvokeRequest
		want Status
	}{
		{
			name: "unknown endpoint",
			req:  InvokeRequest{Endpoint: 99, Cluster: testClusterID, Command: cmdSet, Subject: operator()},
			want: StatusUnsupportedEndpoint,
		},
		{
			name: "unknown cluster",
			req:  InvokeRequest{Endpoint: eps[0], Cluster: 0x9999, Command: cmdSet, Subject: operator()},
			want: StatusUnsupportedCluster,
		},
		{
			name: "unknown command",
			req:  InvokeRequest{Endpoint: eps[0], Cluster: testClusterID, Command: 0x42, Subject: operator()},
			want: StatusUnsupportedCommand,
		},
		{
			name: "insufficient privilege",
			req: InvokeRequest{
				Endpoint: eps[0], Cluster: testClusterID, Command: cmdSet,
				Subject: &datamodel.SubjectDescriptor{NodeID: 1, Privilege: datamodel.PrivilegeView},
			},
			want: StatusUnsupportedAccess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := d.Invoke(ctx, &tt.req)
			if len(results) != 1 {
				t.Fatalf("results = %d, want 1", len(results))
			}
			if results[0].Status != tt.want {
				t.Errorf("status = %s, want %s", results[0].Status, tt.want)
			}
		})
	}
}

func TestDispatcher_InvokeTimeout(t *testing.T) {
	d, _, eps := newTestDispatcher(t, 1)

	start := time.Now()
	results := d.Invoke(context.Background(), &InvokeRequest{
		Endpoint: eps[0],
		Cluster:  testClusterID,
		Command:  cmdBlock,
		Subject:  operator(),
	})
	if results[0].Status != StatusTimeout {
		t.Fatalf("status = %s, want Timeout", results[0].Status)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("invoke blocked for %v, want the configured deadline", elapsed)
	}
}

func TestDispatcher_InvokePanic(t *testing.T) {
	d, _, eps := newTestDispatcher(t, 1)

	results := d.Invoke(context.Background(), &InvokeRequest{
		Endpoint: eps[0],
		Cluster:  testClusterID,
		Command:  cmdPanic,
		Subject:  operator(),
	})
	if results[0].Status != StatusFailure {
		t.Fatalf("status after handler panic = %s, want Failure", results[0].Status)
	}

	// The dispatcher must stay usable after a contained panic.
	results = d.Invoke(context.Background(), &InvokeRequest{
		Endpoint: eps[0],
		Cluster:  testClusterID,
		Command:  cmdSet,
		Subject:  operator(),
	})
	if results[0].Status != StatusSuccess {
		t.Fatalf("status after recovery = %s, want Success", results[0].Status)
	}
}

func TestDispatcher_ReadWrite(t *testing.T) {
	d, _, eps := newTestDispatcher(t, 1)
	ctx := context.Background()

	path := datamodel.ConcreteAttributePath{Endpoint: eps[0], Cluster: testClusterID, Attribute: 0}

	var buf bytes.Buffer
	if s := d.Read(ctx, &ReadRequest{Path: path, Subject: operator()}, tlv.NewWriter(&buf)); s != StatusSuccess {
		t.Fatalf("Read status = %s, want Success", s)
	}
	el, err := tlv.Parse(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if on, _ := el.Bool(); on {
		t.Error("Read = true, want initial false")
	}

	// The attribute is read-only; a write reports UnsupportedWrite.
	if s := d.Write(ctx, &WriteRequest{Path: path, Data: el, Subject: operator()}); s != StatusUnsupportedWrite {
		t.Errorf("Write status = %s, want UnsupportedWrite", s)
	}

	badPath := path
	badPath.Attribute = 77
	buf.Reset()
	if s := d.Read(ctx, &ReadRequest{Path: badPath, Subject: operator()}, tlv.NewWriter(&buf)); s != StatusUnsupportedAttribute {
		t.Errorf("Read(unknown attr) status = %s, want UnsupportedAttribute", s)
	}

	badPath = path
	badPath.Endpoint = 9
	buf.Reset()
	if s := d.Read(ctx, &ReadRequest{Path: badPath, Subject: operator()}, tlv.NewWriter(&buf)); s != StatusUnsupportedEndpoint {
		t.Errorf("Read(unknown endpoint) status = %s, want UnsupportedEndpoint", s)
	}
}

func TestErrorToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want Status
	}{
		{nil, StatusSuccess},
		{datamodel.ErrConstraintError, StatusConstraintError},
		{datamodel.ErrInvalidDataType, StatusInvalidDataType},
		{datamodel.ErrAccessDenied, StatusUnsupportedAccess},
		{ErrTimeout, StatusTimeout},
		{context.DeadlineExceeded, StatusTimeout},
		{NewStatusError(StatusBusy), StatusBusy},
		{context.Canceled, StatusFailure},
	}

	for _, tt := range tests {
		if got := ErrorToStatus(tt.err); got != tt.want {
			t.Errorf("ErrorToStatus(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}
