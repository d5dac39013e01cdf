package broker_test

import (
	"testing"

	"github.com/myrtti/sightline/internal/broker"
	"github.com/stretchr/testify/require"
)

func newStartedBroker(t *testing.T) *broker.ChannelBroker[string, string] {
	t.Helper()
	b := broker.NewChannelBroker[string, string]()
	go b.Start()
	t.Cleanup(b.Stop)
	return b
}

func TestChannelBroker_subscribeBeforePublish(t *testing.T) {
	b := newStartedBroker(t)

	_, ok := <-b.Subscribe("report-1")
	require.False(t, ok, "channel should be closed when nothing is published")
}

func TestChannelBroker_firstSubscriberGetsChannel(t *testing.T) {
	b := newStartedBroker(t)

	produced := make(chan string, 2)
	produced <- "first chunk"
	produced <- "second chunk"
	close(produced)
	b.Publish("report-1", produced)

	ch, ok := <-b.Subscribe("report-1")
	require.True(t, ok)

	var chunks []string
	for chunk := range ch {
		chunks = append(chunks, chunk)
	}
	require.Equal(t, []string{"first chunk", "second chunk"}, chunks)

	// A second subscriber cannot claim the same stream.
	_, ok = <-b.Subscribe("report-1")
	require.False(t, ok)
}

func TestChannelBroker_unpublish(t *testing.T) {
	b := newStartedBroker(t)

	b.Publish("report-1", make(chan string))
	b.Unpublish("report-1")

	_, ok := <-b.Subscribe("report-1")
	require.False(t, ok, "unpublished stream should not be claimable")
}

func TestChannelBroker_independentIDs(t *testing.T) {
	b := newStartedBroker(t)

	one := make(chan string, 1)
	one <- "for one"
	close(one)
	b.Publish("report-1", one)

	_, ok := <-b.Subscribe("report-2")
	require.False(t, ok)

	ch, ok := <-b.Subscribe("report-1")
	require.True(t, ok)
	require.Equal(t, "for one", <-ch)
}
