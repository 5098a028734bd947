package core

import "github.com/jabolina/gompi/pkg/gompi/types"

// pendingSend is kept while deadlock detection is enabled, for every Send
// of a user tag that has not yet been acknowledged by a RECEIVED control
// frame from the destination.
type pendingSend struct {
	tag   types.Tag
	count int
}

// peerWait is kept while deadlock detection is enabled, recording a
// WAITING advertisement this peer sent us, or a placeholder pushed when a
// DEADLOCK control frame arrives so Recv's consumer can pop it
// symmetrically (see spec.md §4.2).
type peerWait struct {
	tag         types.Tag
	count       int
	placeholder bool
}

// peerBuffers holds everything buffered for one remote peer: the FIFO of
// fully-received inbound messages, and (deadlock mode only) the
// outstanding-send and advertised-wait buffers. All of peerBuffers is
// protected by the owning Process's mutex; none of its methods lock
// anything themselves.
type peerBuffers struct {
	inbound []types.Message
	pending []pendingSend
	waits   []peerWait
}

func (b *peerBuffers) pushInbound(m types.Message) {
	b.inbound = append(b.inbound, m)
}

// matchesRequest reports whether a stored tag satisfies a request for
// requested: the wildcard tag matches any non-reserved tag, otherwise the
// tags must match exactly.
func matchesRequest(requested, actual types.Tag) bool {
	if requested == types.Wildcard {
		return !actual.IsReserved()
	}
	return requested == actual
}

// popMatching returns and removes the first buffered message (in arrival
// order) with the given byte count whose tag satisfies requested.
func (b *peerBuffers) popMatching(count int, requested types.Tag) (types.Message, bool) {
	for i, m := range b.inbound {
		if m.Count == count && matchesRequest(requested, m.Tag) {
			b.inbound = append(b.inbound[:i], b.inbound[i+1:]...)
			return m, true
		}
	}
	return types.Message{}, false
}

func (b *peerBuffers) pushPending(tag types.Tag, count int) {
	b.pending = append(b.pending, pendingSend{tag: tag, count: count})
}

// popPendingHeadIfMatches implements spec.md §9's documented, deliberately
// limited behavior: only the head of the outstanding-send buffer is
// checked against an incoming WAITING advertisement, not the whole list.
func (b *peerBuffers) popPendingHeadIfMatches(count int, tag types.Tag) bool {
	if len(b.pending) == 0 {
		return false
	}
	head := b.pending[0]
	if head.count == count && matchesRequest(tag, head.tag) {
		b.pending = b.pending[1:]
		return true
	}
	return false
}

// removePendingMatch removes the first outstanding-send record matching
// the (count, tag) acknowledged by an incoming RECEIVED control frame.
func (b *peerBuffers) removePendingMatch(count int, tag types.Tag) {
	for i, p := range b.pending {
		if p.count == count && p.tag == tag {
			b.pending = append(b.pending[:i], b.pending[i+1:]...)
			return
		}
	}
}

func (b *peerBuffers) pushWait(tag types.Tag, count int) {
	b.waits = append(b.waits, peerWait{tag: tag, count: count})
}

func (b *peerBuffers) pushWaitPlaceholder() {
	b.waits = append(b.waits, peerWait{placeholder: true})
}

// peekWaitHead returns the head of the advertised-wait buffer, if any.
func (b *peerBuffers) peekWaitHead() (peerWait, bool) {
	if len(b.waits) == 0 {
		return peerWait{}, false
	}
	return b.waits[0], true
}

func (b *peerBuffers) popWaitHead() {
	if len(b.waits) > 0 {
		b.waits = b.waits[1:]
	}
}

// popWaitHeadIfMatches drops the advertised-wait head from destination's
// buffer when a new Send satisfies exactly what it was asking for,
// matching spec.md §4.3.
func (b *peerBuffers) popWaitHeadIfMatches(count int, tag types.Tag) {
	head, ok := b.peekWaitHead()
	if !ok || head.placeholder {
		return
	}
	if head.count == count && matchesRequest(head.tag, tag) {
		b.popWaitHead()
	}
}
