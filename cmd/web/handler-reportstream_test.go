package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_publishChunk(t *testing.T) {
	t.Run("keeps chunks for a busy subscriber", func(t *testing.T) {
		// The subscriber may be flushing earlier chunks to the SSE stream
		// while the producer keeps receiving. Nothing reads here until the
		// producer is done, yet every chunk must come through in order.
		chunks := make(chan string, narrativeChunkBuffer)
		want := make([]string, 0, 10)
		for i := 0; i < 10; i++ {
			chunk := fmt.Sprintf("chunk-%02d", i)
			publishChunk(chunks, chunk)
			want = append(want, chunk)
		}
		close(chunks)

		got := make([]string, 0, len(want))
		for chunk := range chunks {
			got = append(got, chunk)
		}
		require.Equal(t, want, got)
	})

	t.Run("skips chunks once the buffer is full", func(t *testing.T) {
		chunks := make(chan string, 1)
		publishChunk(chunks, "kept")
		publishChunk(chunks, "skipped")
		close(chunks)

		require.Equal(t, "kept", <-chunks)
		_, more := <-chunks
		require.False(t, more)
	})
}
