package speech

import (
	"sync"

	domainspeech "github.com/johnquangdev/standup-assistant/internal/domain/speech"
)

// listener keeps the single open listen handle of a channel. Each open bumps a
// generation so a late stop from an older handle cannot close a newer one.
type listener struct {
	mu  sync.Mutex
	gen uint64
	fn  domainspeech.FragmentFunc
}

func (l *listener) open(fn domainspeech.FragmentFunc) domainspeech.StopFunc {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.fn = fn
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if l.gen == gen {
				l.fn = nil
			}
		})
	}
}

func (l *listener) deliver(f domainspeech.Fragment) bool {
	l.mu.Lock()
	fn := l.fn
	l.mu.Unlock()

	if fn == nil {
		return false
	}
	fn(f)
	return true
}

func (l *listener) isOpen() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fn != nil
}
