package core

import "net"

// netChannel adapts a net.Conn (typically a net.Pipe() half) to Channel,
// used by internal/testutil to wire in-process process groups without a
// real launcher or real file descriptors.
type netChannel struct {
	conn net.Conn
}

// NewNetChannel wraps a net.Conn as a Channel.
func NewNetChannel(conn net.Conn) Channel {
	return &netChannel{conn: conn}
}

func (c *netChannel) Send(p []byte) (int, error) {
	return c.conn.Write(p)
}

func (c *netChannel) Recv(p []byte) (int, error) {
	return c.conn.Read(p)
}

func (c *netChannel) Close() error {
	return c.conn.Close()
}
