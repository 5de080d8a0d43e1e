package app

import "sync"

// KeyLimiter serializes work per key (an LRN) inside this process.
type KeyLimiter struct {
	mu    sync.Mutex
	byKey map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func NewKeyLimiter() *KeyLimiter {
	return &KeyLimiter{byKey: make(map[string]*keyLock)}
}

// lock blocks until key is free and returns the unlock func. Idle keys are dropped.
func (l *KeyLimiter) lock(key string) func() {
	l.mu.Lock()
	k, ok := l.byKey[key]
	if !ok {
		k = &keyLock{}
		l.byKey[key] = k
	}
	k.refs++
	l.mu.Unlock()

	k.mu.Lock()
	return func() {
		k.mu.Unlock()
		l.mu.Lock()
		k.refs--
		if k.refs == 0 {
			delete(l.byKey, key)
		}
		l.mu.Unlock()
	}
}

func (l *KeyLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byKey)
}
