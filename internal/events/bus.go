// Package events provides a typed publish/subscribe channel for credential
// lifecycle notifications. It replaces ad hoc global event dispatch with a bus
// that is constructed once, passed by reference, and carries typed payloads.
package events

import (
	evbus "github.com/asaskevich/EventBus"
)

const topicCredentialUpdated = "credential:updated"

// CredentialUpdated is published whenever a wallet's credential set changes:
// a verification result was saved, a credential was re-verified, or the holder
// deleted one.
type CredentialUpdated struct {
	Wallet   string
	Provider string
	Deleted  bool
}

// Bus is a typed wrapper around an in-process event bus.
// Safe for concurrent use.
type Bus struct {
	bus evbus.Bus
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{bus: evbus.New()}
}

// PublishCredentialUpdated notifies subscribers of a credential change.
// Delivery is asynchronous; publishers never block on slow subscribers.
func (b *Bus) PublishCredentialUpdated(ev CredentialUpdated) {
	b.bus.Publish(topicCredentialUpdated, ev)
}

// SubscribeCredentialUpdated registers a handler for credential changes.
func (b *Bus) SubscribeCredentialUpdated(fn func(CredentialUpdated)) error {
	return b.bus.SubscribeAsync(topicCredentialUpdated, fn, false)
}

// UnsubscribeCredentialUpdated removes a previously registered handler.
func (b *Bus) UnsubscribeCredentialUpdated(fn func(CredentialUpdated)) error {
	return b.bus.Unsubscribe(topicCredentialUpdated, fn)
}

// WaitAsync blocks until all asynchronous deliveries have completed.
// Intended for tests and orderly shutdown.
func (b *Bus) WaitAsync() {
	b.bus.WaitAsync()
}
