// matter-light is a dimmable light device built on the cluster data
// model. It wires an On/Off and a Level Control cluster onto one
// endpoint, persists their state across restarts, and routes commands
// through the IM dispatcher.
//
// Usage:
//
//	matter-light [options]
//
// Options:
//
//	-config  Configuration file path (YAML)
//	-db      Attribute store path (overrides the config file)
//	-name    Device name (overrides the config file)
//
// While running, SIGUSR1 toggles the light through the dispatcher, as
// a stand-in for a local button.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pion/logging"

	"github.com/angelybo/matter-rs/pkg/clusters/levelcontrol"
	"github.com/angelybo/matter-rs/pkg/clusters/onoff"
	"github.com/angelybo/matter-rs/pkg/config"
	"github.com/angelybo/matter-rs/pkg/datamodel"
	"github.com/angelybo/matter-rs/pkg/im"
	"github.com/angelybo/matter-rs/pkg/persist"
)

// OnOffLightDeviceType is the device type for a dimmable light (0x0101).
const OnOffLightDeviceType datamodel.DeviceTypeID = 0x0101

func main() {
	var (
		configPath string
		dbPath     string
		name       string
	)
	flag.StringVar(&configPath, "config", "", "Configuration file path")
	flag.StringVar(&dbPath, "db", "", "Attribute store path")
	flag.StringVar(&name, "name", "", "Device name")
	flag.Parse()

	if err := run(configPath, dbPath, name); err != nil {
		fmt.Fprintf(os.Stderr, "matter-light: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, dbPath, name string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	if name != "" {
		cfg.DeviceName = name
	}

	loggerFactory := newLoggerFactory(cfg.LogLevel)
	log := loggerFactory.NewLogger("main")

	store, err := persist.NewStore(persist.Config{
		Path:          cfg.DatabasePath,
		QueueSize:     cfg.DirtyQueueSize,
		LoggerFactory: loggerFactory,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	node := datamodel.NewNode(datamodel.NodeConfig{OnDirty: store.Dirty})

	endpointID, err := node.AddEndpoint(datamodel.DeviceTypeEntry{
		DeviceType: OnOffLightDeviceType,
		Revision:   1,
	})
	if err != nil {
		return err
	}

	onOffCluster, err := onoff.New(onoff.Config{
		InitialOnOff:  cfg.InitialOnOff,
		LoggerFactory: loggerFactory,
	})
	if err != nil {
		return err
	}
	onOffCluster.OnCommand(func(_ datamodel.EndpointID, _ datamodel.CommandID, on bool) {
		state := "OFF"
		if on {
			state = "ON"
		}
		log.Infof("%s is now %s", cfg.DeviceName, state)
	})

	levelCluster, err := levelcontrol.New(levelcontrol.Config{
		OnOff:         onOffCluster,
		InitialLevel:  cfg.InitialLevel,
		TickInterval:  cfg.TickInterval,
		LoggerFactory: loggerFactory,
	})
	if err != nil {
		return err
	}
	defer levelCluster.Close()

	if err := node.AddCluster(endpointID, onOffCluster); err != nil {
		return err
	}
	if err := node.AddCluster(endpointID, levelCluster); err != nil {
		return err
	}

	if err := store.Restore(node); err != nil {
		return fmt.Errorf("restore attributes: %w", err)
	}

	dispatcher, err := im.NewDispatcher(im.Config{
		Node:          node,
		LoggerFactory: loggerFactory,
	})
	if err != nil {
		return err
	}

	log.Infof("%s ready: endpoint %d, on=%v, level=%d",
		cfg.DeviceName, endpointID, onOffCluster.IsOn(), levelCluster.CurrentLevel())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	toggle := make(chan os.Signal, 1)
	signal.Notify(toggle, syscall.SIGUSR1)
	defer signal.Stop(toggle)

	for {
		select {
		case <-toggle:
			results := dispatcher.Invoke(ctx, &im.InvokeRequest{
				Endpoint: endpointID,
				Cluster:  onoff.ClusterID,
				Command:  onoff.CmdToggle,
			})
			if s := results[0].Status; !s.IsSuccess() {
				log.Warnf("toggle: %s", s)
			}
		case <-ctx.Done():
			log.Infof("shutting down")
			store.Flush()
			return nil
		}
	}
}

// newLoggerFactory builds a pion logger factory at the configured
// level.
func newLoggerFactory(level string) *logging.DefaultLoggerFactory {
	factory := logging.NewDefaultLoggerFactory()
	switch level {
	case "trace":
		factory.DefaultLogLevel = logging.LogLevelTrace
	case "debug":
		factory.DefaultLogLevel = logging.LogLevelDebug
	case "warn":
		factory.DefaultLogLevel = logging.LogLevelWarn
	case "error":
		factory.DefaultLogLevel = logging.LogLevelError
	default:
		factory.DefaultLogLevel = logging.LogLevelInfo
	}
	return factory
}
