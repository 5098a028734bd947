package core

import (
	"sync"

	"github.com/jabolina/gompi/pkg/gompi/types"
)

// slotState is the wait-slot state machine from spec.md §4.7: idle ->
// waiting(source,count,tag) -> {delivered, deadlocked, peerClosed} -> idle.
type slotState int

const (
	slotIdle slotState = iota
	slotWaiting
	slotDelivered
	slotDeadlocked
	slotPeerClosed
)

// waitSlot is the single rendezvous structure through which Recv blocks
// until a receiver goroutine signals completion or termination. Exactly
// one exists per Process, reused across calls; only the user goroutine
// writes slotWaiting, only receiver goroutines write a terminal state.
type waitSlot struct {
	state  slotState
	source types.Rank
	count  int
	tag    types.Tag
}

// peerState is the per-remote-rank runtime: its channel, its buffers, and
// whether its write end has been observed closed.
type peerState struct {
	rank    types.Rank
	channel Channel
	buffers peerBuffers
	closed  bool
}

// Process is the per-process communication runtime: it multiplexes a
// single Recv API over N-1 concurrent inbound streams, buffers unmatched
// arrivals, detects peer termination, and optionally detects two-party
// deadlock. One Process exists per group member.
type Process struct {
	mu   sync.Mutex
	cond *sync.Cond

	rank     types.Rank
	size     int
	deadlock bool
	log      types.Logger

	peers map[types.Rank]*peerState
	slot  waitSlot

	wg sync.WaitGroup
}

// NewProcess builds the runtime for a single process out of a pre-wired
// Channel per peer, and spawns one receiver goroutine per peer. peers must
// contain one entry for every rank in [0, size) other than rank itself.
func NewProcess(config types.Config, peers map[types.Rank]Channel) *Process {
	p := &Process{
		rank:     config.Rank,
		size:     config.Size,
		deadlock: config.EnableDeadlockDetection,
		log:      config.Logger,
		peers:    make(map[types.Rank]*peerState, len(peers)),
	}
	p.cond = sync.NewCond(&p.mu)

	for r, ch := range peers {
		ps := &peerState{rank: r, channel: ch}
		p.peers[r] = ps
		p.wg.Add(1)
		go p.receiveLoop(ps)
	}
	return p
}

// Size returns the world size.
func (p *Process) Size() int { return p.size }

// Rank returns the local process rank.
func (p *Process) Rank() types.Rank { return p.rank }

func (p *Process) validateRank(rank types.Rank) error {
	if int(rank) < 0 || int(rank) >= p.size {
		return ErrNoSuchRank
	}
	if rank == p.rank {
		return ErrAttemptedSelfOp
	}
	return nil
}

// Finalize closes every peer channel (inducing peer-close on the remote
// read side) and joins every receiver goroutine. It must be the last call
// a process makes.
func (p *Process) Finalize() error {
	for _, ps := range p.peers {
		if err := ps.channel.Close(); err != nil {
			p.log.Warnf("closing channel to peer %d: %v", ps.rank, err)
		}
	}
	p.wg.Wait()
	return nil
}

// Send issues a point-to-point send to dest with the given tag. data may
// be empty for zero-payload tags.
func (p *Process) Send(data []byte, dest types.Rank, tag types.Tag) error {
	if err := p.validateRank(dest); err != nil {
		return err
	}

	ps := p.peers[dest]
	count := len(data)

	if p.deadlock && !tag.IsReserved() {
		p.mu.Lock()
		ps.buffers.popWaitHeadIfMatches(count, tag)
		ps.buffers.pushPending(tag, count)
		p.mu.Unlock()
	}

	peerClosed, err := writeFrame(ps.channel, tag, data)
	if peerClosed {
		p.log.Debugf("send to %d failed, remote finished: %v", dest, err)
		return ErrRemoteFinished
	}
	return nil
}

// Recv issues a point-to-point receive from source with the given tag,
// blocking until a matching message arrives, the peer closes, or (in
// deadlock-detection mode) a mutual wait is detected. buf must be sized to
// the exact expected payload length (zero for NoMessage).
func (p *Process) Recv(buf []byte, source types.Rank, tag types.Tag) error {
	if err := p.validateRank(source); err != nil {
		return err
	}

	ps := p.peers[source]
	count := len(buf)

	p.mu.Lock()
	if msg, ok := ps.buffers.popMatching(count, tag); ok {
		p.mu.Unlock()
		copy(buf, msg.Payload)
		p.ackReceived(ps, count, msg.Tag)
		return nil
	}

	p.slot = waitSlot{state: slotWaiting, source: source, count: count, tag: tag}

	deadlockNow := false
	if p.deadlock && !tag.IsReserved() {
		if head, ok := ps.buffers.peekWaitHead(); ok && !head.placeholder {
			ps.buffers.popWaitHead()
			deadlockNow = true
		}
	}

	if deadlockNow {
		p.slot = waitSlot{}
		p.mu.Unlock()
		_, _ = writeFrame(ps.channel, types.Deadlock, nil)
		return ErrDeadlockDetected
	}
	p.mu.Unlock()

	if p.deadlock && !tag.IsReserved() {
		if peerClosed, _ := writeFrame(ps.channel, types.Waiting, encodeWaitPayload(count, tag)); peerClosed {
			// The peer is already gone; the receiver goroutine will observe
			// the close and wake the slot shortly. Fall through to wait.
		}
	}

	p.mu.Lock()
	// A peer that closed before the slot was set has no receiver goroutine
	// left to wake it, so its closed flag also ends the wait.
	for p.slot.state == slotWaiting && !ps.closed {
		p.cond.Wait()
	}

	switch p.slot.state {
	case slotDeadlocked:
		ps.buffers.popWaitHead() // consume the advertised wait or DEADLOCK placeholder.
		p.slot = waitSlot{}
		p.mu.Unlock()
		return ErrDeadlockDetected
	case slotPeerClosed, slotWaiting:
		p.slot = waitSlot{}
		p.mu.Unlock()
		return ErrRemoteFinished
	default: // slotDelivered
		msg, ok := ps.buffers.popMatching(count, tag)
		p.slot = waitSlot{}
		p.mu.Unlock()
		if !ok {
			return ErrRemoteFinished
		}
		copy(buf, msg.Payload)
		p.ackReceived(ps, count, msg.Tag)
		return nil
	}
}

// ackReceived sends the RECEIVED control frame acknowledging a consumed
// message, when deadlock detection is enabled and the tag is a user tag.
// Its failure is not surfaced: the payload has already been delivered to
// the caller.
func (p *Process) ackReceived(ps *peerState, count int, tag types.Tag) {
	if p.deadlock && !tag.IsReserved() {
		_, _ = writeFrame(ps.channel, types.Received, encodeWaitPayload(count, tag))
	}
}
