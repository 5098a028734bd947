package core

import (
	"encoding/binary"

	"github.com/jabolina/gompi/pkg/gompi/types"
)

// headerSize is the size in bytes of the two machine-width (64-bit)
// little-endian signed integers making up every frame's header: count
// then tag. No version, no checksum — spec.md §6.
const headerSize = 16

// waitPayloadSize is the size of the payload carried by WAITING/RECEIVED
// control frames: the embedded (count, tag) pair they advertise or
// acknowledge.
const waitPayloadSize = 16

// writeExact loops Channel.Send until all of p has been written, or the
// peer has closed its read end (a non-positive Send).
func writeExact(ch Channel, p []byte) (peerClosed bool, err error) {
	for written := 0; written < len(p); {
		n, sendErr := ch.Send(p[written:])
		if n <= 0 {
			return true, sendErr
		}
		written += n
	}
	return false, nil
}

// readExact loops Channel.Recv until p is fully populated, or the peer has
// closed its write end (a non-positive Recv).
func readExact(ch Channel, p []byte) (peerClosed bool, err error) {
	for read := 0; read < len(p); {
		n, recvErr := ch.Recv(p[read:])
		if n <= 0 {
			return true, recvErr
		}
		read += n
	}
	return false, nil
}

func isPayloadBearing(tag types.Tag) bool {
	return tag != types.NoMessage && tag != types.Deadlock
}

// writeFrame builds and writes one wire frame: header-only for
// NoMessage/Deadlock, header+payload for every other tag.
func writeFrame(ch Channel, tag types.Tag, payload []byte) (peerClosed bool, err error) {
	count := 0
	if isPayloadBearing(tag) {
		count = len(payload)
	}

	header := make([]byte, headerSize)
	binary.LittleEndian.PutUint64(header[0:8], uint64(int64(count)))
	binary.LittleEndian.PutUint64(header[8:16], uint64(int64(tag)))

	if closed, err := writeExact(ch, header); closed || err != nil {
		return closed, err
	}

	if count == 0 {
		return false, nil
	}
	return writeExact(ch, payload)
}

// frame is one fully-received wire frame.
type frame struct {
	Count int
	Tag   types.Tag
	Payload []byte
}

// readFrame reads one complete wire frame from ch, blocking until the
// header (and, for payload-bearing tags, the payload) has fully arrived.
func readFrame(ch Channel) (f frame, peerClosed bool, err error) {
	header := make([]byte, headerSize)
	if closed, err := readExact(ch, header); closed || err != nil {
		return frame{}, closed, err
	}

	count := int64(binary.LittleEndian.Uint64(header[0:8]))
	tag := types.Tag(int64(binary.LittleEndian.Uint64(header[8:16])))

	f = frame{Count: int(count), Tag: tag}
	if !isPayloadBearing(tag) {
		f.Count = 0
		return f, false, nil
	}

	if count > 0 {
		f.Payload = make([]byte, count)
		if closed, err := readExact(ch, f.Payload); closed || err != nil {
			return frame{}, closed, err
		}
	}
	return f, false, nil
}

// encodeWaitPayload packs the (count, tag) pair advertised by WAITING or
// acknowledged by RECEIVED into a control-frame payload.
func encodeWaitPayload(count int, tag types.Tag) []byte {
	buf := make([]byte, waitPayloadSize)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(int64(count)))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(int64(tag)))
	return buf
}

// decodeWaitPayload unpacks a WAITING/RECEIVED control-frame payload.
func decodeWaitPayload(b []byte) (count int, tag types.Tag) {
	count = int(int64(binary.LittleEndian.Uint64(b[0:8])))
	tag = types.Tag(int64(binary.LittleEndian.Uint64(b[8:16])))
	return count, tag
}
