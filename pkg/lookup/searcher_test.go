package lookup_test

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"dictdoy/pkg/dictionary"
	"dictdoy/pkg/logger"
	"dictdoy/pkg/lookup"
	mock_lookup "dictdoy/pkg/mocks/lookup"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newAdapter() *lookup.Adapter {
	return lookup.NewAdapter(dictionary.New([]dictionary.Entry{
		{Traditional: "你好", Simplified: "你好", PinyinMarks: "nǐ hǎo", English: []string{"hello", "hi"}},
		{Traditional: "貓", Simplified: "猫", PinyinMarks: "māo", English: []string{"cat"}},
	}, nil))
}

func receive(t *testing.T, s *lookup.Searcher) lookup.Result {
	t.Helper()
	select {
	case res := <-s.Results():
		return res
	case <-time.After(2 * time.Second):
		require.FailNow(t, "no result delivered")
		return lookup.Result{}
	}
}

// receiveFinal skips pending results and returns the first final one.
func receiveFinal(t *testing.T, s *lookup.Searcher) lookup.Result {
	t.Helper()
	for {
		res := receive(t, s)
		if !res.Pending {
			return res
		}
	}
}

func assertNoResult(t *testing.T, s *lookup.Searcher) {
	t.Helper()
	select {
	case res := <-s.Results():
		assert.Failf(t, "unexpected result", "%+v", res)
	default:
	}
}

func TestSearcher_DictionaryHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	fallback := mock_lookup.NewMockFallback(ctrl)
	var notified atomic.Int32

	s := lookup.NewSearcher(newAdapter(), fallback, logger.New(io.Discard, 10), func() { notified.Add(1) })
	defer s.Close()

	s.Submit(context.Background(), " cat ")

	select {
	case res := <-s.Results():
		assert.Equal(t, lookup.HasMatches, res.Kind)
		assert.Equal(t, "cat", res.Query)
		require.Len(t, res.Entries, 1)
		assert.Equal(t, "猫", res.Entries[0].Simplified)
	default:
		require.FailNow(t, "dictionary hits are delivered synchronously")
	}
	assert.Equal(t, int32(1), notified.Load())
}

func TestSearcher_BlankQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	fallback := mock_lookup.NewMockFallback(ctrl)

	s := lookup.NewSearcher(newAdapter(), fallback, logger.New(io.Discard, 10), nil)
	defer s.Close()

	s.Submit(context.Background(), "")

	res := receive(t, s)
	assert.Equal(t, lookup.NotYetSearched, res.Kind)
	assert.Empty(t, res.Entries)
}

func TestSearcher_Fallback(t *testing.T) {
	suggested := []dictionary.Entry{{Simplified: "量子", PinyinMarks: "liàng zǐ", English: []string{"quantum"}}}

	tests := []struct {
		name      string
		setupMock func(*mock_lookup.MockFallback)
		wantKind  lookup.Kind
		wantLen   int
		wantLog   string
	}{
		{
			name: "suggestions become matches",
			setupMock: func(m *mock_lookup.MockFallback) {
				m.EXPECT().Suggest(gomock.Any(), "quantum").Return(suggested, nil)
			},
			wantKind: lookup.HasMatches,
			wantLen:  1,
		},
		{
			name: "no suggestions",
			setupMock: func(m *mock_lookup.MockFallback) {
				m.EXPECT().Suggest(gomock.Any(), "quantum").Return(nil, nil)
			},
			wantKind: lookup.NoMatches,
		},
		{
			name: "failure is reported as no matches",
			setupMock: func(m *mock_lookup.MockFallback) {
				m.EXPECT().Suggest(gomock.Any(), "quantum").Return(nil, errors.New("rate limited"))
			},
			wantKind: lookup.NoMatches,
			wantLog:  "rate limited",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			fallback := mock_lookup.NewMockFallback(ctrl)
			tt.setupMock(fallback)
			log := logger.New(io.Discard, 10)

			s := lookup.NewSearcher(newAdapter(), fallback, log, nil)
			s.Submit(context.Background(), "quantum")

			res := receiveFinal(t, s)
			s.Close()

			assert.Equal(t, tt.wantKind, res.Kind)
			assert.False(t, res.Pending)
			assert.Equal(t, "quantum", res.Query)
			assert.Len(t, res.Entries, tt.wantLen)
			if tt.wantLog != "" {
				assert.Contains(t, log.LastProblem(), tt.wantLog)
			}
		})
	}
}

func TestSearcher_SupersededLookupIsDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	fallback := mock_lookup.NewMockFallback(ctrl)
	fallback.EXPECT().
		Suggest(gomock.Any(), "quantum").
		DoAndReturn(func(ctx context.Context, _ string) ([]dictionary.Entry, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}).
		MaxTimes(1)

	s := lookup.NewSearcher(newAdapter(), fallback, logger.New(io.Discard, 10), nil)

	s.Submit(context.Background(), "quantum")
	s.Submit(context.Background(), "hello")

	res := receive(t, s)
	assert.Equal(t, "hello", res.Query)
	assert.Equal(t, lookup.HasMatches, res.Kind)

	s.Close()
	assertNoResult(t, s)
}

func TestSearcher_CloseCancelsFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	fallback := mock_lookup.NewMockFallback(ctrl)
	started := make(chan struct{})
	fallback.EXPECT().
		Suggest(gomock.Any(), "quantum").
		DoAndReturn(func(ctx context.Context, _ string) ([]dictionary.Entry, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		})

	s := lookup.NewSearcher(newAdapter(), fallback, logger.New(io.Discard, 10), nil)
	s.Submit(context.Background(), "quantum")
	<-started

	assert.True(t, receive(t, s).Pending)
	s.Close()
	assertNoResult(t, s)
}

func TestSearcher_NewQueryReplacesPreviousEntriesImmediately(t *testing.T) {
	ctrl := gomock.NewController(t)
	fallback := mock_lookup.NewMockFallback(ctrl)
	fallback.EXPECT().
		Suggest(gomock.Any(), "quantum").
		DoAndReturn(func(ctx context.Context, _ string) ([]dictionary.Entry, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}).
		MaxTimes(1)

	s := lookup.NewSearcher(newAdapter(), fallback, logger.New(io.Discard, 10), nil)

	s.Submit(context.Background(), "hello")
	first := receive(t, s)
	require.Equal(t, lookup.HasMatches, first.Kind)

	s.Submit(context.Background(), "quantum")

	select {
	case res := <-s.Results():
		assert.Equal(t, "quantum", res.Query)
		assert.Equal(t, lookup.NoMatches, res.Kind)
		assert.True(t, res.Pending)
		assert.Empty(t, res.Entries)
	default:
		require.FailNow(t, "no result for the new query right after Submit")
	}

	s.Close()
	assertNoResult(t, s)
}
