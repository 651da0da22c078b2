package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// operadorasEndpoint keys the in-flight guard; one request per endpoint at a time.
const operadorasEndpoint = "/operadoras"

const (
	defaultFetchTimeout     = 10 * time.Second
	defaultSubscriberBuffer = 8
)

// OperadorasFetcher retrieves the operator collection from the API. Records are opaque
// JSON values and are kept exactly as returned.
type OperadorasFetcher interface {
	ListOperadoras(ctx context.Context) ([]json.RawMessage, error)
}

// Options tunes the store. Zero values pick defaults.
type Options struct {
	FetchTimeout     time.Duration
	SubscriberBuffer int
}

// State is a point-in-time copy of the store.
type State struct {
	Operadoras []json.RawMessage `json:"operadoras"`
	Loading    bool              `json:"loading"`
	Error      string            `json:"error,omitempty"`
	UpdatedAt  *time.Time        `json:"updated_at,omitempty"`
}

// OperadoraStore holds the operator collection shown by the painel views.
type OperadoraStore struct {
	fetcher OperadorasFetcher
	opts    Options
	logger  *zap.Logger
	group   singleflight.Group
	now     func() time.Time

	mu         sync.RWMutex
	operadoras []json.RawMessage
	loading    bool
	err        error
	updatedAt  time.Time
	subs       map[int]chan State
	nextSubID  int
}

// NewOperadoraStore returns an empty, idle store.
func NewOperadoraStore(fetcher OperadorasFetcher, opts Options, logger *zap.Logger) *OperadoraStore {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	if opts.SubscriberBuffer <= 0 {
		opts.SubscriberBuffer = defaultSubscriberBuffer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OperadoraStore{
		fetcher:    fetcher,
		opts:       opts,
		logger:     logger,
		now:        time.Now,
		operadoras: []json.RawMessage{},
		subs:       make(map[int]chan State),
	}
}

// FetchOperadoras loads the collection from the API. On success the collection is replaced
// wholesale; on failure it is left untouched and the error is recorded and returned. Calls made
// while a fetch is in flight join it instead of issuing a second request.
func (s *OperadoraStore) FetchOperadoras(ctx context.Context) error {
	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(operadorasEndpoint, func() (interface{}, error) {
		return nil, s.fetch(detached)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *OperadoraStore) fetch(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()

	s.setLoading(true)
	defer s.setLoading(false)

	start := s.now()
	operadoras, err := s.fetcher.ListOperadoras(ctx)
	if err != nil {
		s.logger.Warn("fetch operadoras failed", zap.Error(err), zap.Duration("duration", s.now().Sub(start)))
		s.mu.Lock()
		s.err = err
		s.publishLocked()
		s.mu.Unlock()
		return err
	}

	replaced := cloneRecords(operadoras)

	s.mu.Lock()
	s.operadoras = replaced
	s.err = nil
	s.updatedAt = s.now()
	s.publishLocked()
	s.mu.Unlock()

	s.logger.Debug("operadoras fetched", zap.Int("count", len(replaced)), zap.Duration("duration", s.now().Sub(start)))
	return nil
}

func (s *OperadoraStore) setLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
	s.publishLocked()
}

// Operadoras returns a copy of the current collection.
func (s *OperadoraStore) Operadoras() []json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecords(s.operadoras)
}

// Loading reports whether a fetch is in flight.
func (s *OperadoraStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the error of the last failed fetch, nil after a success.
func (s *OperadoraStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Snapshot returns the whole state at once.
func (s *OperadoraStore) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *OperadoraStore) snapshotLocked() State {
	st := State{
		Operadoras: cloneRecords(s.operadoras),
		Loading:    s.loading,
	}
	if s.err != nil {
		st.Error = s.err.Error()
	}
	if !s.updatedAt.IsZero() {
		t := s.updatedAt
		st.UpdatedAt = &t
	}
	return st
}

// Subscribe returns a channel receiving the state after every change and a func that
// unsubscribes and closes the channel. Updates are dropped for subscribers that fall behind.
func (s *OperadoraStore) Subscribe() (<-chan State, func()) {
	ch := make(chan State, s.opts.SubscriberBuffer)

	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *OperadoraStore) publishLocked() {
	if len(s.subs) == 0 {
		return
	}
	st := s.snapshotLocked()
	for id, ch := range s.subs {
		select {
		case ch <- st:
		default:
			s.logger.Debug("dropping state update, subscriber behind", zap.Int("subscriber", id))
		}
	}
}

// cloneRecords copies the slice and every record's bytes so callers cannot alias store state.
func cloneRecords(in []json.RawMessage) []json.RawMessage {
	out := make([]json.RawMessage, len(in))
	for i, r := range in {
		out[i] = append(json.RawMessage(nil), r...)
	}
	return out
}
