package core

import "os"

// pipeChannel is the Channel realization used by the real launcher: one
// local write end (towards the peer) and one local read end (from the
// peer), each an inherited os.Pipe() descriptor (spec.md §6's launcher
// contract).
type pipeChannel struct {
	read  *os.File
	write *os.File
}

// NewPipeChannel wraps a pair of inherited pipe descriptors as a Channel.
func NewPipeChannel(read, write *os.File) Channel {
	return &pipeChannel{read: read, write: write}
}

func (c *pipeChannel) Send(p []byte) (int, error) {
	return c.write.Write(p)
}

func (c *pipeChannel) Recv(p []byte) (int, error) {
	return c.read.Read(p)
}

func (c *pipeChannel) Close() error {
	writeErr := c.write.Close()
	readErr := c.read.Close()
	if writeErr != nil {
		return writeErr
	}
	return readErr
}
