package utils

import "sync"

// KeyedMutex serializes work per string key so that operations on the same
// (guild, user) pair never interleave while unrelated keys stay independent.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (km *KeyedMutex) get(key string) *sync.Mutex {
	km.mu.Lock()
	defer km.mu.Unlock()

	lock, ok := km.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		km.locks[key] = lock
	}
	return lock
}

// Do runs fn while holding the lock for key. Entries are kept for the
// process lifetime; one mutex per moderated member is cheap enough.
func (km *KeyedMutex) Do(key string, fn func() error) error {
	lock := km.get(key)
	lock.Lock()
	defer lock.Unlock()
	return fn()
}
