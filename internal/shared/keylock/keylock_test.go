package keylock_test

import (
	"sync"
	"testing"

	"timeclock/internal/shared/keylock"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := keylock.New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("user-a")
			counter++
			km.Unlock("user-a")
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	km := keylock.New()

	km.Lock("user-a")
	done := make(chan struct{})
	go func() {
		// Must not block behind user-a's lock
		km.Lock("user-b")
		km.Unlock("user-b")
		close(done)
	}()
	<-done
	km.Unlock("user-a")
}
