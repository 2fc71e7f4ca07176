package lookup

import (
	"context"
	"errors"
	"sync"

	"dictdoy/pkg/logger"
)

// Searcher runs lookups for a UI loop. Only the result of the latest Submit
// is delivered; a slower, superseded lookup is cancelled and dropped.
type Searcher struct {
	adapter  *Adapter
	fallback Fallback
	logger   *logger.Logger
	notify   func()

	results chan Result

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSearcher creates a Searcher. fallback may be nil. notify, when set, is
// called after each delivered result (typically window.Invalidate).
func NewSearcher(adapter *Adapter, fallback Fallback, log *logger.Logger, notify func()) *Searcher {
	return &Searcher{
		adapter:  adapter,
		fallback: fallback,
		logger:   log,
		notify:   notify,
		results:  make(chan Result, 1),
	}
}

// Results delivers one Result per Submit that was not superseded.
func (s *Searcher) Results() <-chan Result {
	return s.results
}

// Submit starts a lookup for query and supersedes any earlier one.
// A result for query is always delivered before Submit returns: the
// dictionary's answer, or a pending NoMatches while the fallback runs in the
// background.
func (s *Searcher) Submit(ctx context.Context, query string) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	res := s.adapter.Search(query)
	if res.Kind != NoMatches || s.fallback == nil {
		s.deliver(seq, res)
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		cancel()
		return
	}
	s.cancel = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	// replace the previous query's entries right away
	pending := res
	pending.Pending = true
	s.deliver(seq, pending)

	go func() {
		defer s.wg.Done()
		defer cancel()

		s.logger.Debugf("No dictionary entry for %q, asking fallback", res.Query)
		entries, err := s.fallback.Suggest(ctx, res.Query)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				s.logger.Tracef("Fallback for %q cancelled", res.Query)
				return
			}
			s.logger.Warnf("Fallback lookup for %q failed: %v", res.Query, err)
			entries = nil
		}
		s.deliver(seq, NewResult(res.Query, entries))
	}()
}

func (s *Searcher) deliver(seq uint64, res Result) {
	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		return
	}
	// keep only the newest result
	select {
	case <-s.results:
	default:
	}
	s.results <- res
	s.mu.Unlock()

	if s.notify != nil {
		s.notify()
	}
}

// Close cancels the running lookup and waits for it to finish.
func (s *Searcher) Close() {
	s.mu.Lock()
	s.seq++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()
	s.wg.Wait()
}
