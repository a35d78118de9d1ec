// Package persist stores attribute values across restarts. Dirty marks
// from the data model are queued and written by a background goroutine,
// so attribute writes never block on disk I/O.
package persist

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/pion/logging"
	bolt "go.etcd.io/bbolt"

	"github.com/angelybo/matter-rs/pkg/datamodel"
)

var bucketAttrs = []byte("attributes")

// DefaultQueueSize is the dirty queue capacity.
const DefaultQueueSize = 64

// Config provides dependencies for a Store.
type Config struct {
	// Path is the database file path. Required.
	Path string

	// QueueSize is the dirty queue capacity.
	// Defaults to DefaultQueueSize if 0.
	QueueSize int

	// LoggerFactory is the factory for creating loggers.
	// Defaults to the pion default factory if nil.
	LoggerFactory logging.LoggerFactory
}

// Store is a bolt-backed attribute store.
type Store struct {
	db  *bolt.DB
	log logging.LeveledLogger

	queue chan event
	quit  chan struct{}
	done  chan struct{}

	closeOnce sync.Once
}

type event struct {
	endpoint datamodel.EndpointID
	cluster  datamodel.ClusterID
	attr     datamodel.AttributeID
	value    datamodel.AttrValue

	// flush, when set, acknowledges queue drain instead of writing.
	flush chan struct{}
}

// NewStore opens or creates the database and starts the background
// writer.
func NewStore(config Config) (*Store, error) {
	db, err := bolt.Open(config.Path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketAttrs)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	queueSize := config.QueueSize
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	loggerFactory := config.LoggerFactory
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}

	s := &Store{
		db:    db,
		log:   loggerFactory.NewLogger("persist"),
		queue: make(chan event, queueSize),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go s.run()
	return s, nil
}

// Dirty queues an attribute value for persistence. It satisfies
// datamodel.DirtyFunc and never blocks: when the queue is full the
// event is dropped and logged. The next write of the same attribute
// will carry the current value.
func (s *Store) Dirty(endpoint datamodel.EndpointID, cluster datamodel.ClusterID, attr datamodel.AttributeID, value datamodel.AttrValue) {
	ev := event{endpoint: endpoint, cluster: cluster, attr: attr, value: value}
	select {
	case s.queue <- ev:
	default:
		s.log.Warnf("dirty queue full, dropping %d/%#x/%#x", endpoint, cluster, attr)
	}
}

// Restore writes persisted values back into the node's clusters.
// Attributes with no persisted record keep their defaults.
func (s *Store) Restore(node *datamodel.Node) error {
	return node.ForEachCluster(func(ep datamodel.EndpointID, c datamodel.ClusterType) error {
		base := c.Base()
		for _, id := range base.AttributeIDs() {
			a, err := base.Attribute(id)
			if err != nil {
				return err
			}
			if !a.IsPersistent() {
				continue
			}

			v, ok, err := s.load(ep, base.ID(), id)
			if err != nil {
				return err
			}
			if !ok || v.Equal(a.Value) {
				continue
			}
			if err := base.WriteAttributeValue(id, v); err != nil {
				s.log.Warnf("restore %d/%#x/%#x: %v", ep, base.ID(), id, err)
			}
		}
		return nil
	})
}

// Flush blocks until every queued event at call time has been written.
func (s *Store) Flush() {
	ack := make(chan struct{})
	select {
	case s.queue <- event{flush: ack}:
		<-ack
	case <-s.done:
	}
}

// Close drains the queue, stops the writer and closes the database.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.quit)
		<-s.done
		err = s.db.Close()
	})
	return err
}

// run is the background writer loop.
func (s *Store) run() {
	defer close(s.done)

	for {
		select {
		case ev := <-s.queue:
			s.handle(ev)
		case <-s.quit:
			// Drain whatever was queued before shutdown.
			for {
				select {
				case ev := <-s.queue:
					s.handle(ev)
				default:
					return
				}
			}
		}
	}
}

func (s *Store) handle(ev event) {
	if ev.flush != nil {
		close(ev.flush)
		return
	}
	if err := s.write(ev); err != nil {
		s.log.Errorf("write %d/%#x/%#x: %v", ev.endpoint, ev.cluster, ev.attr, err)
	}
}

func (s *Store) write(ev event) error {
	data, err := cbor.Marshal(newRecord(ev.value))
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketAttrs)
		if b == nil {
			return fmt.Errorf("bucket %q not found", bucketAttrs)
		}
		return b.Put(attrKey(ev.endpoint, ev.cluster, ev.attr), data)
	})
}

func (s *Store) load(endpoint datamodel.EndpointID, cluster datamodel.ClusterID, attr datamodel.AttributeID) (datamodel.AttrValue, bool, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketAttrs)
		if b == nil {
			return nil
		}
		if v := b.Get(attrKey(endpoint, cluster, attr)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil || data == nil {
		return datamodel.AttrValue{}, false, err
	}

	var rec record
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return datamodel.AttrValue{}, false, fmt.Errorf("decode record: %w", err)
	}
	v, err := rec.value()
	if err != nil {
		return datamodel.AttrValue{}, false, err
	}
	return v, true, nil
}

// attrKey builds the 10-byte key endpoint|cluster|attribute.
func attrKey(endpoint datamodel.EndpointID, cluster datamodel.ClusterID, attr datamodel.AttributeID) []byte {
	key := make([]byte, 10)
	binary.BigEndian.PutUint16(key[0:2], uint16(endpoint))
	binary.BigEndian.PutUint32(key[2:6], uint32(cluster))
	binary.BigEndian.PutUint32(key[6:10], uint32(attr))
	return key
}
