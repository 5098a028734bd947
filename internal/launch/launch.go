// Package launch implements the host side of the group bootstrap
// contract described in spec.md §6: fork N worker processes, wire one
// byte-stream pipe per ordered (sender, receiver) pair between them via
// inherited file descriptors, and publish world size and per-process rank
// through the environment. Workers resolve their half of the same
// contract via ResolveEnvironment and OpenInheritedChannels.
package launch

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/google/uuid"

	"github.com/jabolina/gompi/pkg/gompi/core"
	"github.com/jabolina/gompi/pkg/gompi/types"
)

// base is the first file descriptor past stdio that os/exec's ExtraFiles
// makes available to a child, matching spec.md §6's descriptor formula.
const base = 3

const (
	envWorldSize  = "GOMPI_WORLD_SIZE"
	envRunID      = "GOMPI_RUN_ID"
	envRankPrefix = "GOMPI_RANK_"

	// envBootRank carries the rank assignment across exec, since Go's
	// os/exec has no fork-then-inject window: a child's pid isn't known
	// until after it has already exec'd with its final environment.
	// ResolveEnvironment publishes the pid-keyed GOMPI_RANK_<pid> variable
	// itself, on first read, by re-keying this value under its own pid.
	envBootRank = "GOMPI_BOOT_RANK"
)

// descriptor computes the inherited file descriptor a process at the
// given logical slot (rank) uses for the pipe whose write end belongs to
// sender and whose read end belongs to receiver, per spec.md's
// `base + 2*(world_size*receiver + sender)` formula. The paired
// descriptor (the other end of the same os.Pipe) is descriptor+1.
func descriptor(worldSize, receiver, sender int) int {
	return base + 2*(worldSize*receiver+sender)
}

// Launch forks one child process per rank running programPath with args,
// wiring a full mesh of pipes between them and publishing the bookkeeping
// env vars described in spec.md §6. It blocks until every child exits and
// returns a joined error if any child exited non-zero.
func Launch(n int, programPath string, args []string) error {
	if n < 1 {
		return fmt.Errorf("launch: world size must be >= 1, got %d", n)
	}

	runID := uuid.NewString()

	// pipes[sender][receiver] is the os.Pipe carrying traffic from sender
	// to receiver. Only off-diagonal entries exist.
	type pipeEnds struct {
		read  *os.File
		write *os.File
	}
	pipes := make(map[[2]int]pipeEnds)
	for sender := 0; sender < n; sender++ {
		for receiver := 0; receiver < n; receiver++ {
			if sender == receiver {
				continue
			}
			r, w, err := os.Pipe()
			if err != nil {
				return fmt.Errorf("launch: creating pipe %d->%d: %w", sender, receiver, err)
			}
			pipes[[2]int{sender, receiver}] = pipeEnds{read: r, write: w}
		}
	}

	cmds := make([]*exec.Cmd, n)
	for rank := 0; rank < n; rank++ {
		cmd := exec.Command(programPath, args...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		cmd.Stdin = os.Stdin
		cmd.Env = append(os.Environ(),
			fmt.Sprintf("%s=%d", envWorldSize, n),
			fmt.Sprintf("%s=%s", envRunID, runID),
			fmt.Sprintf("%s=%d", envBootRank, rank),
		)

		// ExtraFiles lays descriptors out starting at fd 3, in slice order;
		// we size the slice to cover the full descriptor formula's range for
		// this rank and leave unused slots nil (os/exec skips nil entries).
		maxFd := descriptor(n, n-1, n-1) + 1
		extra := make([]*os.File, maxFd-base+1)
		for sender := 0; sender < n; sender++ {
			for receiver := 0; receiver < n; receiver++ {
				if sender == receiver {
					continue
				}
				ends := pipes[[2]int{sender, receiver}]
				fd := descriptor(n, receiver, sender)
				if sender == rank {
					extra[fd-base] = ends.write
				}
				if receiver == rank {
					extra[fd+1-base] = ends.read
				}
			}
		}
		cmd.ExtraFiles = extra
		cmds[rank] = cmd
	}

	for rank, cmd := range cmds {
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("launch: starting rank %d: %w", rank, err)
		}
	}

	// Close the parent's copies of every pipe end now that children have
	// inherited them; otherwise no child ever observes EOF from the others.
	for _, ends := range pipes {
		_ = ends.read.Close()
		_ = ends.write.Close()
	}

	var errs []error
	for rank, cmd := range cmds {
		if err := cmd.Wait(); err != nil {
			errs = append(errs, fmt.Errorf("rank %d: %w", rank, err))
		}
	}
	return errors.Join(errs...)
}

// ResolveEnvironment reads this process's world size and rank from the
// environment the launcher published. Rank is bookkept under the pid-keyed
// GOMPI_RANK_<pid> name spec.md §6 describes; since os/exec gives a parent
// no window to inject a variable between fork and exec, the process
// publishes that variable itself on first read, re-keying the boot-time
// rank the launcher passed under its own, now-known pid.
func ResolveEnvironment(pid int) (size int, rank types.Rank, err error) {
	rawSize, ok := os.LookupEnv(envWorldSize)
	if !ok {
		return 0, 0, fmt.Errorf("launch: %s not set; process was not started by the launcher", envWorldSize)
	}
	size, err = strconv.Atoi(rawSize)
	if err != nil {
		return 0, 0, fmt.Errorf("launch: invalid %s %q: %w", envWorldSize, rawSize, err)
	}

	rankKey := fmt.Sprintf("%s%d", envRankPrefix, pid)
	if _, ok := os.LookupEnv(rankKey); !ok {
		rawBoot, ok := os.LookupEnv(envBootRank)
		if !ok {
			return 0, 0, fmt.Errorf("launch: %s not set; process was not started by the launcher", envBootRank)
		}
		if err := os.Setenv(rankKey, rawBoot); err != nil {
			return 0, 0, fmt.Errorf("launch: publishing %s: %w", rankKey, err)
		}
	}

	rawRank, _ := os.LookupEnv(rankKey)
	r, err := strconv.Atoi(rawRank)
	if err != nil {
		return 0, 0, fmt.Errorf("launch: invalid %s %q: %w", rankKey, rawRank, err)
	}
	return size, types.Rank(r), nil
}

// OpenInheritedChannels builds one core.Channel per peer out of the
// descriptors the launcher wired in, per spec.md's descriptor formula.
func OpenInheritedChannels(rank types.Rank, size int) (map[types.Rank]core.Channel, error) {
	channels := make(map[types.Rank]core.Channel, size-1)
	for peer := 0; peer < size; peer++ {
		if types.Rank(peer) == rank {
			continue
		}
		outFd := descriptor(size, peer, int(rank))
		inFd := descriptor(size, int(rank), peer)

		writeFile := os.NewFile(uintptr(outFd), fmt.Sprintf("gompi-out-%d", peer))
		readFile := os.NewFile(uintptr(inFd+1), fmt.Sprintf("gompi-in-%d", peer))
		if writeFile == nil || readFile == nil {
			return nil, fmt.Errorf("launch: missing inherited descriptor for peer %d", peer)
		}
		channels[types.Rank(peer)] = core.NewPipeChannel(readFile, writeFile)
	}
	return channels, nil
}
