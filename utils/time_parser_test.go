package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"30s": 30 * time.Second,
		"10m": 10 * time.Minute,
		"2h":  2 * time.Hour,
		"1d":  24 * time.Hour,
		"7d":  7 * 24 * time.Hour,
	}
	for input, want := range cases {
		got, err := ParseDuration(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseDuration("soond")
	assert.Error(t, err)
	_, err = ParseDuration("abc")
	assert.Error(t, err)
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := NewKeyedMutex()

	release := make(chan struct{})
	held := make(chan struct{})
	go km.Do("a", func() error {
		close(held)
		<-release
		return nil
	})
	<-held

	// A different key must not be blocked by the held one.
	done := make(chan struct{})
	go func() {
		_ = km.Do("b", func() error { return nil })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("independent key blocked by unrelated lock")
	}
	close(release)
}
