package core

import "github.com/jabolina/gompi/pkg/gompi/types"

// barrierRooted runs the two-phase NoMessage rendezvous described in
// spec.md §4.5 over the binomial tree rooted at root: every process waits
// for its children, then its parent, before releasing its children.
// Barrier is the root=0 case; Bcast reuses it as its upward rendezvous
// phase.
func (p *Process) barrierRooted(root types.Rank) error {
	parent, hasParent, children := treeNeighbors(p.rank, p.size, root)

	for _, child := range children {
		if err := p.Recv(nil, child, types.NoMessage); err != nil {
			return err
		}
	}
	if hasParent {
		if err := p.Send(nil, parent, types.NoMessage); err != nil {
			return err
		}
		if err := p.Recv(nil, parent, types.NoMessage); err != nil {
			return err
		}
	}
	for _, child := range children {
		if err := p.Send(nil, child, types.NoMessage); err != nil {
			return err
		}
	}
	return nil
}

// Barrier blocks every process in the group until all have entered.
func (p *Process) Barrier() error {
	return p.barrierRooted(0)
}

// Bcast distributes data from root to every other process. On entry, data
// must hold the payload on root and be sized to receive it everywhere
// else. Any ErrRemoteFinished aborts the collective immediately.
func (p *Process) Bcast(data []byte, root types.Rank) error {
	if err := p.barrierRooted(root); err != nil {
		return err
	}

	parent, hasParent, children := treeNeighbors(p.rank, p.size, root)

	if hasParent {
		if err := p.Recv(data, parent, types.Broadcast); err != nil {
			return err
		}
	}
	for _, child := range children {
		if err := p.Send(data, child, types.Broadcast); err != nil {
			return err
		}
	}
	return nil
}

// Reduce combines send across every process with op, writing the result
// into recv on root (recv is ignored elsewhere). The reduction is applied
// at every interior tree node on the upward phase, so intermediate values
// depend on the tree's shape, but the final root result does not, since
// every supported operator is associative and commutative. A final
// downward NoMessage phase synchronizes completion so every process
// observes a consistent return code.
func (p *Process) Reduce(send, recv []byte, op types.ReduceOp, root types.Rank) error {
	parent, hasParent, children := treeNeighbors(p.rank, p.size, root)
	opTag := types.OpTag(op)

	working := make([]byte, len(send))
	copy(working, send)

	tmp := make([]byte, len(send))
	for _, child := range children {
		if err := p.Recv(tmp, child, opTag); err != nil {
			return err
		}
		applyReduceOp(op, working, tmp)
	}

	if hasParent {
		if err := p.Send(working, parent, opTag); err != nil {
			return err
		}
	} else {
		copy(recv, working)
	}

	if hasParent {
		if err := p.Recv(nil, parent, types.NoMessage); err != nil {
			return err
		}
	}
	for _, child := range children {
		if err := p.Send(nil, child, types.NoMessage); err != nil {
			return err
		}
	}
	return nil
}
