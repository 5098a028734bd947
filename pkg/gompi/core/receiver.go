package core

import "github.com/jabolina/gompi/pkg/gompi/types"

// receiveLoop is the background worker owning one remote peer's inbound
// channel (spec.md §4.2). It runs until the peer's write end closes.
func (p *Process) receiveLoop(ps *peerState) {
	defer p.wg.Done()
	for {
		f, peerClosed, err := readFrame(ps.channel)
		if peerClosed {
			p.handlePeerClose(ps, err)
			return
		}
		p.handleFrame(ps, f)
	}
}

func (p *Process) handlePeerClose(ps *peerState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ps.closed = true
	if err != nil {
		p.log.Debugf("peer %d closed: %v", ps.rank, err)
	}
	if p.slot.state == slotWaiting && p.slot.source == ps.rank {
		p.slot.state = slotPeerClosed
		p.cond.Broadcast()
	}
}

func (p *Process) handleFrame(ps *peerState, f frame) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch f.Tag {
	case types.Waiting:
		count, tag := decodeWaitPayload(f.Payload)
		if !ps.buffers.popPendingHeadIfMatches(count, tag) {
			ps.buffers.pushWait(tag, count)
			if p.slot.state == slotWaiting && p.slot.source == ps.rank {
				p.slot.state = slotDeadlocked
				p.cond.Broadcast()
			}
		}

	case types.Received:
		count, tag := decodeWaitPayload(f.Payload)
		ps.buffers.removePendingMatch(count, tag)

	case types.Deadlock:
		if p.slot.state == slotWaiting && p.slot.source == ps.rank {
			p.slot.state = slotDeadlocked
		}
		ps.buffers.pushWaitPlaceholder()
		p.cond.Broadcast()

	default:
		msg := types.Message{Tag: f.Tag, Count: f.Count, Source: ps.rank, Payload: f.Payload}
		ps.buffers.pushInbound(msg)
		if p.slot.state == slotWaiting && p.slot.source == ps.rank &&
			p.slot.count == f.Count && matchesRequest(p.slot.tag, f.Tag) {
			p.slot.state = slotDelivered
			p.cond.Broadcast()
		}
	}
}
