package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_DeliversToSubscriber(t *testing.T) {
	bus := NewBus()
	received := make(chan CredentialUpdated, 1)

	require.NoError(t, bus.SubscribeCredentialUpdated(func(e CredentialUpdated) {
		received <- e
	}))

	bus.PublishCredentialUpdated(CredentialUpdated{Wallet: "0xabc", Provider: "google"})
	bus.WaitAsync()

	select {
	case event := <-received:
		assert.Equal(t, "0xabc", event.Wallet)
		assert.Equal(t, "google", event.Provider)
	case <-time.After(time.Second):
		t.Fatal("expected delivery")
	}
}

func TestBus_MultipleSubscribers(t *testing.T) {
	bus := NewBus()
	var mu sync.Mutex
	counts := 0

	for i := 0; i < 3; i++ {
		require.NoError(t, bus.SubscribeCredentialUpdated(func(CredentialUpdated) {
			mu.Lock()
			counts++
			mu.Unlock()
		}))
	}

	bus.PublishCredentialUpdated(CredentialUpdated{Wallet: "0xabc"})
	bus.WaitAsync()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, counts)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	received := make(chan CredentialUpdated, 1)
	handler := func(e CredentialUpdated) { received <- e }

	require.NoError(t, bus.SubscribeCredentialUpdated(handler))
	require.NoError(t, bus.UnsubscribeCredentialUpdated(handler))

	bus.PublishCredentialUpdated(CredentialUpdated{Wallet: "0xabc"})
	bus.WaitAsync()

	select {
	case <-received:
		t.Fatal("unsubscribed handler must not receive events")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBus_PublishWithoutSubscribersIsSafe(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() {
		bus.PublishCredentialUpdated(CredentialUpdated{Wallet: "0xabc"})
	})
}
