package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jabolina/gompi/pkg/gompi/types"
)

func TestPeerBuffersPopMatchingWildcard(t *testing.T) {
	var b peerBuffers
	b.pushInbound(types.Message{Tag: 7, Count: 4, Payload: []byte("ABCD")})

	msg, ok := b.popMatching(4, types.Wildcard)
	assert.True(t, ok)
	assert.Equal(t, types.Tag(7), msg.Tag)
	assert.Equal(t, "ABCD", string(msg.Payload))

	_, ok = b.popMatching(4, types.Wildcard)
	assert.False(t, ok, "message should only be returned once")
}

func TestPeerBuffersPopMatchingExactTagOrdering(t *testing.T) {
	var b peerBuffers
	b.pushInbound(types.Message{Tag: 1, Count: 1, Payload: []byte("a")})
	b.pushInbound(types.Message{Tag: 2, Count: 1, Payload: []byte("b")})
	b.pushInbound(types.Message{Tag: 1, Count: 1, Payload: []byte("c")})

	msg, ok := b.popMatching(1, 1)
	assert.True(t, ok)
	assert.Equal(t, "a", string(msg.Payload), "first matching arrival should be returned first")

	msg, ok = b.popMatching(1, 1)
	assert.True(t, ok)
	assert.Equal(t, "c", string(msg.Payload))
}

func TestPeerBuffersPendingHeadOnlyMatch(t *testing.T) {
	var b peerBuffers
	b.pushPending(5, 10)
	b.pushPending(6, 10)

	// A WAITING advertisement for the second entry should NOT match, since
	// only the head is checked.
	assert.False(t, b.popPendingHeadIfMatches(10, 6))
	assert.True(t, b.popPendingHeadIfMatches(10, 5))
	assert.True(t, b.popPendingHeadIfMatches(10, 6))
}

func TestPeerBuffersWaitHeadMatch(t *testing.T) {
	var b peerBuffers
	b.pushWait(types.Wildcard, 8)

	head, ok := b.peekWaitHead()
	assert.True(t, ok)
	assert.False(t, head.placeholder)

	b.popWaitHeadIfMatches(8, 3)
	_, ok = b.peekWaitHead()
	assert.False(t, ok, "a Send matching the wildcard wait should consume it")
}

func TestPeerBuffersDeadlockPlaceholder(t *testing.T) {
	var b peerBuffers
	b.pushWaitPlaceholder()

	head, ok := b.peekWaitHead()
	assert.True(t, ok)
	assert.True(t, head.placeholder)

	b.popWaitHead()
	_, ok = b.peekWaitHead()
	assert.False(t, ok)
}
