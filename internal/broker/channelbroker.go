package broker

type publication[TID comparable, TPayload any] struct {
	ID      TID
	Channel chan TPayload
}

type subscription[TID comparable, TPayload any] struct {
	ID      TID
	Channel chan chan TPayload
}

// ChannelBroker passes a channel with ID from a producer to the first consumer.
// Consumers arriving before the producer publishes, or after it unpublishes,
// get a closed channel so that they can resolve the situation e.g. by fetching
// persisted data from the database.
//
// We use this for streaming AI narrative reports through SSE: the producer is
// the goroutine generating the report after a screening session completes, and
// the consumer is the HTTP handler that returns the SSE stream for the result
// page.
type ChannelBroker[TID comparable, TPayload any] struct {
	stopChannel      chan struct{}
	publishChannel   chan publication[TID, TPayload]
	unpublishChannel chan TID
	subscribeChannel chan subscription[TID, TPayload]
}

// NewChannelBroker creates a new ChannelBroker. Call Start in a goroutine to
// run it and Stop to shut it down.
func NewChannelBroker[TID comparable, TPayload any]() *ChannelBroker[TID, TPayload] {
	broker := ChannelBroker[TID, TPayload]{
		stopChannel:      make(chan struct{}),
		publishChannel:   make(chan publication[TID, TPayload]),
		unpublishChannel: make(chan TID),
		subscribeChannel: make(chan subscription[TID, TPayload]),
	}
	return &broker
}

// Start listening for publish, unpublish, and subscribe events. Blocks until
// Stop is called, so it should be called in a goroutine.
func (b *ChannelBroker[TID, TPayload]) Start() {
	publishedChannels := map[TID]chan TPayload{}
	claimed := map[TID]bool{}
	for {
		select {
		case <-b.stopChannel:
			return

		case sub := <-b.subscribeChannel:
			c := publishedChannels[sub.ID]
			if c == nil || claimed[sub.ID] {
				// Signal to the subscriber that there is nothing to stream.
				close(sub.Channel)
				break
			}
			// First subscriber gets the channel from the producer.
			claimed[sub.ID] = true
			sub.Channel <- c

		case pub := <-b.publishChannel:
			publishedChannels[pub.ID] = pub.Channel
			delete(claimed, pub.ID)

		case id := <-b.unpublishChannel:
			delete(publishedChannels, id)
			delete(claimed, id)
		}
	}
}

// Stop the goroutine that handles the broker.
func (b *ChannelBroker[TID, TPayload]) Stop() {
	close(b.stopChannel)
}

// Subscribe to the channel with ID. The returned channel yields the producer's
// channel, or is closed when nothing is published under the ID or another
// consumer already claimed it.
func (b *ChannelBroker[TID, TPayload]) Subscribe(id TID) chan chan TPayload {
	channel := make(chan chan TPayload, 1)
	b.subscribeChannel <- subscription[TID, TPayload]{
		ID:      id,
		Channel: channel,
	}
	return channel
}

// Publish the channel with ID. The channel will be handed to the first subscriber.
func (b *ChannelBroker[TID, TPayload]) Publish(id TID, channel chan TPayload) {
	b.publishChannel <- publication[TID, TPayload]{
		ID:      id,
		Channel: channel,
	}
}

// Unpublish the channel with ID. Subscribers arriving afterwards fall back to
// persisted data.
func (b *ChannelBroker[TID, TPayload]) Unpublish(id TID) {
	b.unpublishChannel <- id
}
