package treesvc

import (
	"bytes"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/c9s/rbtree/pkg/metrics"
	"github.com/c9s/rbtree/pkg/rbtree"
)

var log = logrus.WithField("service", "treesvc")

type Option func(s *Service)

func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithDumpOnMutation logs the rendered tree at debug level after every insert and delete.
func WithDumpOnMutation(enabled bool) Option {
	return func(s *Service) {
		s.dumpOnMutation = enabled
	}
}

// Service guards one tree of int64 keys for concurrent callers.
// Mutations take the write lock, lookups and dumps share the read lock.
type Service struct {
	mu   sync.RWMutex
	tree *rbtree.Tree[int64]

	Name string

	logger         logrus.FieldLogger
	dumpOnMutation bool
}

func New(name string, options ...Option) *Service {
	s := &Service{
		Name:   name,
		tree:   rbtree.New[int64](),
		logger: log.WithField("tree", name),
	}

	for _, option := range options {
		option(s)
	}

	metrics.UpdateTreeShape(s.Name, 0, 0)
	return s
}

func (s *Service) Insert(keys ...int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		startTime := time.Now()
		s.tree.Insert(key)
		metrics.ObserveOperation(s.Name, "insert", "ok", startTime)
	}

	s.logger.Debugf("inserted %d keys, size = %d", len(keys), s.tree.Len())
	s.afterMutation()
}

func (s *Service) Search(key int64) (rbtree.Handle[int64], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	startTime := time.Now()
	h, err := s.tree.Search(key)
	metrics.ObserveOperation(s.Name, "search", resultLabel(err), startTime)
	if err != nil {
		s.logger.Debugf("search %d: %v", key, err)
		return h, errors.Wrapf(err, "search %d", key)
	}

	return h, nil
}

func (s *Service) Delete(key int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	startTime := time.Now()
	err := s.tree.Delete(key)
	metrics.ObserveOperation(s.Name, "delete", resultLabel(err), startTime)
	if err != nil {
		s.logger.Debugf("delete %d: %v", key, err)
		return errors.Wrapf(err, "delete %d", key)
	}

	s.logger.Debugf("deleted %d, size = %d", key, s.tree.Len())
	s.afterMutation()
	return nil
}

func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Len()
}

func (s *Service) Height() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Height()
}

// Dump returns a copy of the pre-order dump taken under the read lock.
func (s *Service) Dump() []rbtree.DumpEntry[int64] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Collect(s.tree.Dump())
}

// Snapshot is a consistent view of the tree taken under one read lock.
type Snapshot struct {
	Name   string                    `json:"name"`
	Size   int                       `json:"size"`
	Height int                       `json:"height"`
	Nodes  []rbtree.DumpEntry[int64] `json:"nodes"`
}

func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Name:   s.Name,
		Size:   s.tree.Len(),
		Height: s.tree.Height(),
		Nodes:  slices.Collect(s.tree.Dump()),
	}
}

func (s *Service) Render(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Render(w)
}

func (s *Service) Verify() error {
	s.mu.RLock()
	err := s.tree.Verify()
	size, height := s.tree.Len(), s.tree.Height()
	s.mu.RUnlock()

	metrics.UpdateTreeShape(s.Name, size, height)
	metrics.UpdateVerifyResult(s.Name, err)
	if err != nil {
		s.logger.WithError(err).Error("tree invariant check failed")
	}

	return err
}

// afterMutation must be called with the write lock held.
func (s *Service) afterMutation() {
	// height needs a full walk, it is refreshed by Verify only
	metrics.UpdateTreeSize(s.Name, s.tree.Len())

	if !s.dumpOnMutation {
		return
	}

	var buf bytes.Buffer
	if err := s.tree.Render(&buf); err != nil {
		s.logger.WithError(err).Warn("unable to render tree")
		return
	}

	s.logger.Debugf("tree %s:\n%s", s.Name, buf.String())
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, rbtree.ErrKeyNotFound):
		return "not_found"
	}

	return "error"
}
