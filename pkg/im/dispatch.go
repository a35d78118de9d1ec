package im

import (
	"context"
	"errors"
	"time"

	"github.com/pion/logging"

	"github.com/angelybo/matter-rs/pkg/datamodel"
	"github.com/angelybo/matter-rs/pkg/tlv"
)

// DefaultInvokeTimeout bounds a single command handler invocation.
const DefaultInvokeTimeout = 10 * time.Second

// ErrNoNode indicates a dispatcher was configured without a node.
var ErrNoNode = errors.New("im: no node configured")

// Dispatcher routes IM operations to cluster implementations.
// This is the bridge between the interaction surface and the data model.
type Dispatcher struct {
	node          *datamodel.Node
	invokeTimeout time.Duration

	log logging.LeveledLogger
}

// Config configures a Dispatcher.
type Config struct {
	// Node is the data model root. Required.
	Node *datamodel.Node

	// InvokeTimeout bounds each command handler invocation.
	// Defaults to DefaultInvokeTimeout if 0.
	InvokeTimeout time.Duration

	// LoggerFactory is the factory for creating loggers.
	// Defaults to the pion default factory if nil.
	LoggerFactory logging.LoggerFactory
}

// NewDispatcher creates a dispatcher over the given node.
func NewDispatcher(config Config) (*Dispatcher, error) {
	if config.Node == nil {
		return nil, ErrNoNode
	}

	timeout := config.InvokeTimeout
	if timeout == 0 {
		timeout = DefaultInvokeTimeout
	}

	loggerFactory := config.LoggerFactory
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}

	return &Dispatcher{
		node:          config.Node,
		invokeTimeout: timeout,
		log:           loggerFactory.NewLogger("im"),
	}, nil
}

// InvokeRequest contains parameters for invoking a command.
type InvokeRequest struct {
	// Endpoint is the target endpoint. Ignored when Wildcard is set.
	Endpoint datamodel.EndpointID

	// Wildcard requests fan-out over every endpoint hosting the cluster.
	Wildcard bool

	// Cluster is the target cluster.
	Cluster datamodel.ClusterID

	// Command is the command to invoke.
	Command datamodel.CommandID

	// Data is the decoded command payload. May be nil.
	Data *tlv.Element

	// Subject is the requesting subject; nil for internal operations.
	Subject *datamodel.SubjectDescriptor
}

// InvokeResult is the per-endpoint outcome of a command invocation.
type InvokeResult struct {
	Endpoint datamodel.EndpointID
	Status   Status
}

// Invoke routes a command to its cluster handler(s) and collects the
// per-endpoint statuses. A wildcard endpoint fans out in ascending
// endpoint order; endpoints without the cluster are skipped. A concrete
// path yields exactly one result.
// Spec: Section 8.9 "Invoke Interaction"
func (d *Dispatcher) Invoke(ctx context.Context, req *InvokeRequest) []InvokeResult {
	if req.Wildcard {
		var results []InvokeResult
		for _, ep := range d.node.Endpoints() {
			if !ep.HasCluster(req.Cluster) {
				continue
			}
			results = append(results, InvokeResult{
				Endpoint: ep.ID(),
				Status:   d.invokeOne(ctx, ep.ID(), req),
			})
		}
		return results
	}

	return []InvokeResult{{
		Endpoint: req.Endpoint,
		Status:   d.invokeOne(ctx, req.Endpoint, req),
	}}
}

// invokeOne runs one command against one endpoint and maps the outcome
// to an IM status.
func (d *Dispatcher) invokeOne(ctx context.Context, endpoint datamodel.EndpointID, req *InvokeRequest) Status {
	cluster, err := d.node.GetCluster(endpoint, req.Cluster)
	if err != nil {
		return ErrorToStatus(err)
	}

	entry := datamodel.FindCommand(cluster.AcceptedCommands(), req.Command)
	if entry == nil {
		d.log.Debugf("invoke %d/%#x/%#x: unsupported command", endpoint, req.Cluster, req.Command)
		return StatusUnsupportedCommand
	}
	if !req.Subject.Allows(entry.InvokePrivilege) {
		d.log.Debugf("invoke %d/%#x/%#x: access denied", endpoint, req.Cluster, req.Command)
		return StatusUnsupportedAccess
	}

	cmdReq := &datamodel.CommandRequest{
		Path: datamodel.ConcreteCommandPath{
			Endpoint: endpoint,
			Cluster:  req.Cluster,
			Command:  req.Command,
		},
		Data:    req.Data,
		Subject: req.Subject,
		Trans:   datamodel.NewTransaction(),
	}

	err = d.runHandler(ctx, cluster, cmdReq)
	status := ErrorToStatus(err)
	if status != StatusSuccess {
		d.log.Debugf("invoke %d/%#x/%#x: %s", endpoint, req.Cluster, req.Command, status)
	}
	return status
}

// runHandler executes the cluster handler under the invoke deadline,
// containing panics. The handler runs on its own goroutine so a stuck
// handler cannot wedge the dispatcher.
func (d *Dispatcher) runHandler(ctx context.Context, cluster datamodel.ClusterType, req *datamodel.CommandRequest) error {
	ctx, cancel := context.WithTimeout(ctx, d.invokeTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				d.log.Errorf("command handler panic: %v", r)
				done <- NewStatusError(StatusFailure)
			}
		}()
		done <- cluster.HandleCommand(ctx, req)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ErrTimeout
	}
}

// ReadRequest contains parameters for reading an attribute via IM.
type ReadRequest struct {
	// Path identifies the attribute to read.
	Path datamodel.ConcreteAttributePath

	// Subject is the requesting subject; nil for internal operations.
	Subject *datamodel.SubjectDescriptor
}

// Read resolves the path and encodes the attribute value into w,
// returning the IM status of the operation. Nothing is written on a
// non-success status.
func (d *Dispatcher) Read(ctx context.Context, req *ReadRequest, w *tlv.Writer) Status {
	cluster, err := d.node.GetCluster(req.Path.Endpoint, req.Path.Cluster)
	if err != nil {
		return ErrorToStatus(err)
	}

	err = cluster.ReadAttribute(ctx, datamodel.ReadAttributeRequest{
		Path:    req.Path,
		Subject: req.Subject,
	}, w)
	status := ErrorToStatus(err)
	if status != StatusSuccess {
		d.log.Debugf("read %d/%#x/%#x: %s", req.Path.Endpoint, req.Path.Cluster, req.Path.Attribute, status)
	}
	return status
}

// WriteRequest contains parameters for writing an attribute via IM.
type WriteRequest struct {
	// Path identifies the attribute to write.
	Path datamodel.ConcreteAttributePath

	// Data is the encoded value.
	Data *tlv.Element

	// Subject is the requesting subject; nil for internal operations.
	Subject *datamodel.SubjectDescriptor
}

// Write resolves the path and stores the attribute value, returning the
// IM status of the operation.
func (d *Dispatcher) Write(ctx context.Context, req *WriteRequest) Status {
	cluster, err := d.node.GetCluster(req.Path.Endpoint, req.Path.Cluster)
	if err != nil {
		return ErrorToStatus(err)
	}

	err = cluster.WriteAttribute(ctx, datamodel.WriteAttributeRequest{
		Path:    req.Path,
		Subject: req.Subject,
	}, req.Data)
	status := ErrorToStatus(err)
	if status != StatusSuccess {
		d.log.Debugf("write %d/%#x/%#x: %s", req.Path.Endpoint, req.Path.Cluster, req.Path.Attribute, status)
	}
	return status
}
