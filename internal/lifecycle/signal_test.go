package lifecycle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder appends its name to a shared log when notified
type recorder struct {
	name string
	mu   *sync.Mutex
	log  *[]string
}

func (r *recorder) OnDead() {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.log = append(*r.log, r.name)
}

func newRecorders(names ...string) ([]*recorder, *[]string) {
	var (
		mu  sync.Mutex
		log []string
	)
	out := make([]*recorder, len(names))
	for i, n := range names {
		out[i] = &recorder{name: n, mu: &mu, log: &log}
	}
	return out, &log
}

func TestNew(t *testing.T) {
	s := New()
	assert.True(t, s.IsAlive())
	assert.Equal(t, 0, s.ListenerCount())

	select {
	case <-s.Done():
		t.Fatal("done channel closed on a live signal")
	default:
	}
}

func TestDefault_IsSingleton(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestMarkDead_NotifiesInRegistrationOrder(t *testing.T) {
	s := New()
	recs, log := newRecorders("a", "b", "c")
	for _, r := range recs {
		s.AddListener(r)
	}

	s.MarkDead()

	assert.False(t, s.IsAlive())
	assert.Equal(t, []string{"a", "b", "c"}, *log)
}

func TestMarkDead_Twice(t *testing.T) {
	s := New()
	recs, log := newRecorders("first", "second")
	for _, r := range recs {
		s.AddListener(r)
	}

	s.MarkDead()
	s.MarkDead()

	assert.Equal(t, []string{"first", "second"}, *log, "each listener fires exactly once")
	assert.False(t, s.IsAlive())
}

func TestMarkDead_DuplicatesFireTwice(t *testing.T) {
	s := New()
	recs, log := newRecorders("dup")
	s.AddListener(recs[0])
	s.AddListener(recs[0])
	require.Equal(t, 2, s.ListenerCount())

	s.MarkDead()

	assert.Equal(t, []string{"dup", "dup"}, *log)
}

func TestAddListener_AfterDeath(t *testing.T) {
	s := New()
	s.MarkDead()

	called := false
	s.AddListener(OnDead(func() { called = true }))
	s.MarkDead()

	assert.False(t, called)
	assert.False(t, s.IsAlive())
	assert.Equal(t, 0, s.ListenerCount())
}

func TestAddListener_Nil(t *testing.T) {
	s := New()
	s.AddListener(nil)
	assert.Equal(t, 0, s.ListenerCount())
}

func TestRemoveListener(t *testing.T) {
	tests := []struct {
		name   string
		add    []string
		remove []string
		want   []string
	}{
		{
			name:   "removed listener does not fire",
			add:    []string{"a", "b"},
			remove: []string{"a"},
			want:   []string{"b"},
		},
		{
			name:   "removes only the first duplicate",
			add:    []string{"a", "b", "a"},
			remove: []string{"a"},
			want:   []string{"b", "a"},
		},
		{
			name:   "removing unknown listener is a no-op",
			add:    []string{"a"},
			remove: []string{"zzz"},
			want:   []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			var (
				mu  sync.Mutex
				log []string
			)
			byName := make(map[string]*recorder)
			get := func(n string) *recorder {
				if r, ok := byName[n]; ok {
					return r
				}
				r := &recorder{name: n, mu: &mu, log: &log}
				byName[n] = r
				return r
			}

			for _, n := range tt.add {
				s.AddListener(get(n))
			}
			for _, n := range tt.remove {
				s.RemoveListener(get(n))
			}
			s.MarkDead()

			assert.Equal(t, tt.want, log)
		})
	}
}

func TestRemoveListener_AfterDeath(t *testing.T) {
	s := New()
	h := OnDead(func() {})
	s.AddListener(h)
	s.MarkDead()

	assert.NotPanics(t, func() {
		s.RemoveListener(h)
		s.RemoveListener(nil)
	})
}

func TestMarkDead_ListenerReentrancy(t *testing.T) {
	s := New()

	lateCalled := false
	late := OnDead(func() { lateCalled = true })

	var self Listener
	self = OnDead(func() {
		// both are no-ops once dead and must not deadlock
		s.AddListener(late)
		s.RemoveListener(self)
		assert.False(t, s.IsAlive())
	})
	s.AddListener(self)

	finished := make(chan struct{})
	go func() {
		s.MarkDead()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("MarkDead deadlocked on a reentrant listener")
	}
	assert.False(t, lateCalled)
}

func TestMarkDead_Concurrent(t *testing.T) {
	s := New()
	var (
		mu    sync.Mutex
		count int
	)
	s.AddListener(OnDead(func() {
		mu.Lock()
		count++
		mu.Unlock()
	}))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.MarkDead()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, count)
}

func TestDone_ClosedOnDeath(t *testing.T) {
	s := New()
	go func() {
		time.Sleep(10 * time.Millisecond)
		s.MarkDead()
	}()

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("done channel was not closed")
	}
}

func TestContext(t *testing.T) {
	t.Run("cancelled on death", func(t *testing.T) {
		s := New()
		ctx, cancel := s.Context(context.Background())
		defer cancel()

		s.MarkDead()

		select {
		case <-ctx.Done():
			assert.ErrorIs(t, ctx.Err(), context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("context was not cancelled after MarkDead")
		}
	})

	t.Run("cancel releases without killing signal", func(t *testing.T) {
		s := New()
		ctx, cancel := s.Context(context.Background())
		cancel()

		<-ctx.Done()
		assert.True(t, s.IsAlive())
	})
}
