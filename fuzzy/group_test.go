// Package fuzzy runs longer, end-to-end scenarios over a whole process
// group rather than exercising pkg/gompi/core in isolation: many ranks
// exchanging traffic concurrently, interleaved with collectives, checked
// for goroutine leaks on teardown.
package fuzzy

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jabolina/gompi/internal/testutil"
	"github.com/jabolina/gompi/pkg/gompi/types"
)

// Test_RingSequentialSends passes a growing counter around a ring of
// processes, each one Recv-ing from its predecessor and Send-ing onward
// to its successor, and checks every hop saw the expected sequence.
func Test_RingSequentialSends(t *testing.T) {
	defer goleak.VerifyNone(t)

	const size = 5
	const rounds = 20

	g := testutil.NewGroup(size, false)
	defer func() {
		if !testutil.WaitOrTimeout(func() { g.FinalizeAll(t) }, 30*time.Second) {
			t.Error("failed shutting down group")
			testutil.PrintStackTrace(t)
		}
	}()

	var wg sync.WaitGroup
	wg.Add(size)
	for rank := 0; rank < size; rank++ {
		rank := rank
		go func() {
			defer wg.Done()
			predecessor := types.Rank((rank - 1 + size) % size)
			successor := types.Rank((rank + 1) % size)

			for round := 0; round < rounds; round++ {
				if rank == 0 {
					payload := []byte(fmt.Sprintf("%04d", round))
					require.NoError(t, g.Processes[rank].Send(payload, successor, 11))
					buf := make([]byte, 4)
					require.NoError(t, g.Processes[rank].Recv(buf, predecessor, 11))
					require.Equal(t, payload, buf, "round %d should come back around the ring unchanged", round)
				} else {
					buf := make([]byte, 4)
					require.NoError(t, g.Processes[rank].Recv(buf, predecessor, 11))
					require.Equal(t, fmt.Sprintf("%04d", round), string(buf), "rank %d should see round %d in order", rank, round)
					require.NoError(t, g.Processes[rank].Send(buf, successor, 11))
				}
			}
		}()
	}

	if !testutil.WaitOrTimeout(wg.Wait, 30*time.Second) {
		testutil.PrintStackTrace(t)
		t.Fatal("ring did not complete in time")
	}
}

// Test_ConcurrentCollectives interleaves Barrier, Bcast, and Reduce across
// a group under steady concurrent load, verifying every rank's view of
// each collective's result and leaving no goroutines behind.
func Test_ConcurrentCollectives(t *testing.T) {
	defer goleak.VerifyNone(t)

	const size = 4
	g := testutil.NewGroup(size, false)
	defer func() {
		if !testutil.WaitOrTimeout(func() { g.FinalizeAll(t) }, 30*time.Second) {
			t.Error("failed shutting down group")
			testutil.PrintStackTrace(t)
		}
	}()

	var wg sync.WaitGroup
	wg.Add(size)
	for rank := 0; rank < size; rank++ {
		rank := rank
		go func() {
			defer wg.Done()
			p := g.Processes[rank]

			require.NoError(t, p.Barrier())

			bcastBuf := make([]byte, 3)
			if rank == 1 {
				copy(bcastBuf, []byte{9, 9, 9})
			}
			require.NoError(t, p.Bcast(bcastBuf, 1))
			require.Equal(t, []byte{9, 9, 9}, bcastBuf)

			send := []byte{byte(rank), byte(rank), byte(rank)}
			recv := make([]byte, 3)
			require.NoError(t, p.Reduce(send, recv, types.OpMax, 0))
			if rank == 0 {
				require.Equal(t, []byte{byte(size - 1), byte(size - 1), byte(size - 1)}, recv)
			}

			require.NoError(t, p.Barrier())
		}()
	}

	if !testutil.WaitOrTimeout(wg.Wait, 30*time.Second) {
		testutil.PrintStackTrace(t)
		t.Fatal("collectives did not complete in time")
	}
}
