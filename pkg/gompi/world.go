// Package gompi implements a minimal message-passing runtime for a
// fixed-size group of cooperating processes on a single host: point-to-
// point Send/Recv multiplexed over N-1 concurrent inbound streams,
// collectives (Barrier, Bcast, Reduce) built as deterministic tree
// exchanges, and an optional two-party deadlock detector.
package gompi

import (
	"fmt"
	"os"

	"github.com/jabolina/gompi/internal/launch"
	"github.com/jabolina/gompi/pkg/gompi/core"
	"github.com/jabolina/gompi/pkg/gompi/definition"
	"github.com/jabolina/gompi/pkg/gompi/types"
)

// World is the handle a process holds onto for the lifetime of the group.
// It wraps a core.Process; the wrapping is where the launcher's
// environment bookkeeping (spec.md §6) is resolved into the concrete
// per-peer Channels the Process needs.
type World struct {
	process *core.Process
	logger  types.Logger
}

// Init bootstraps this process's World from the launcher's environment
// bookkeeping: the inherited pipe descriptors, GOMPI_WORLD_SIZE, and
// GOMPI_RANK_<pid>. It must be called before any other operation and
// exactly once per process.
func Init(enableDeadlockDetection bool) (*World, error) {
	log := definition.NewDefaultLogger()

	size, rank, err := launch.ResolveEnvironment(os.Getpid())
	if err != nil {
		return nil, fmt.Errorf("gompi: resolving launcher environment: %w", err)
	}

	channels, err := launch.OpenInheritedChannels(rank, size)
	if err != nil {
		return nil, fmt.Errorf("gompi: opening inherited channels: %w", err)
	}

	config := types.Config{
		Rank:                    rank,
		Size:                    size,
		EnableDeadlockDetection: enableDeadlockDetection,
		Logger:                  log,
	}
	process := core.NewProcess(config, channels)
	return &World{process: process, logger: log}, nil
}

// Finalize closes every peer channel and joins every receiver goroutine.
func (w *World) Finalize() error {
	return w.process.Finalize()
}

// Size returns the number of processes in the world.
func (w *World) Size() int { return w.process.Size() }

// Rank returns the local process's rank.
func (w *World) Rank() types.Rank { return w.process.Rank() }

// Send issues a point-to-point send to dest with the given tag.
func (w *World) Send(data []byte, dest types.Rank, tag types.Tag) error {
	if tag.IsReserved() {
		return fmt.Errorf("gompi: tag %d is reserved", tag)
	}
	return w.process.Send(data, dest, tag)
}

// Recv issues a point-to-point receive from source, blocking until a
// matching message arrives, the peer finishes, or deadlock is detected.
func (w *World) Recv(buf []byte, source types.Rank, tag types.Tag) error {
	if tag.IsReserved() {
		return fmt.Errorf("gompi: tag %d is reserved", tag)
	}
	return w.process.Recv(buf, source, tag)
}

// Barrier blocks until every process in the world has entered.
func (w *World) Barrier() error {
	return w.process.Barrier()
}

// Bcast distributes data from root to every other process.
func (w *World) Bcast(data []byte, root types.Rank) error {
	return w.process.Bcast(data, root)
}

// Reduce combines send across every process with op, writing the result
// into recv on root.
func (w *World) Reduce(send, recv []byte, op types.ReduceOp, root types.Rank) error {
	return w.process.Reduce(send, recv, op, root)
}
