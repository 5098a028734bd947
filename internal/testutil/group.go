// Package testutil wires in-process process groups over net.Pipe, for
// exercising pkg/gompi/core without a real forked launcher.
package testutil

import (
	"net"
	"runtime"
	"testing"
	"time"

	"github.com/jabolina/gompi/pkg/gompi/core"
	"github.com/jabolina/gompi/pkg/gompi/definition"
	"github.com/jabolina/gompi/pkg/gompi/types"
)

// Group is a fully-wired set of in-process Process runtimes sharing
// net.Pipe-backed Channels, standing in for a launcher-started world.
type Group struct {
	Processes []*core.Process
}

// NewGroup builds a group of size n processes, one net.Pipe per unordered
// pair of ranks (net.Pipe is already full-duplex, so one pipe serves both
// directions a real launcher would wire as two separate os.Pipes).
func NewGroup(n int, enableDeadlockDetection bool) *Group {
	peers := make([]map[types.Rank]core.Channel, n)
	for i := range peers {
		peers[i] = make(map[types.Rank]core.Channel, n-1)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := net.Pipe()
			peers[i][types.Rank(j)] = core.NewNetChannel(a)
			peers[j][types.Rank(i)] = core.NewNetChannel(b)
		}
	}

	group := &Group{Processes: make([]*core.Process, n)}
	for rank := 0; rank < n; rank++ {
		log := definition.NewDefaultLogger()
		log.ToggleDebug(false)
		config := types.Config{
			Rank:                    types.Rank(rank),
			Size:                    n,
			EnableDeadlockDetection: enableDeadlockDetection,
			Logger:                  log,
		}
		group.Processes[rank] = core.NewProcess(config, peers[rank])
	}
	return group
}

// FinalizeAll finalizes every process in the group, tolerating (logging via
// t) any individual failure rather than aborting the rest.
func (g *Group) FinalizeAll(t *testing.T) {
	for rank, p := range g.Processes {
		if err := p.Finalize(); err != nil {
			t.Errorf("finalizing rank %d: %v", rank, err)
		}
	}
}

// WaitOrTimeout runs cb on its own goroutine and reports whether it
// finished within duration.
func WaitOrTimeout(cb func(), duration time.Duration) bool {
	done := make(chan struct{})
	go func() {
		cb()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(duration):
		return false
	}
}

// PrintStackTrace dumps every goroutine's stack to t, for diagnosing a
// WaitOrTimeout timeout.
func PrintStackTrace(t *testing.T) {
	buf := make([]byte, 1<<16)
	n := runtime.Stack(buf, true)
	t.Errorf("%s", buf[:n])
}
