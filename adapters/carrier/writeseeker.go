package carrier

import (
	"errors"
	"io"
)

// writeSeeker is an in-memory io.WriteSeeker. The WAV encoder needs to seek
// back and patch chunk sizes into the header after writing the samples.
type writeSeeker struct {
	buf []byte
	pos int
}

func newWriteSeeker() *writeSeeker {
	return &writeSeeker{}
}

func (ws *writeSeeker) Write(p []byte) (int, error) {
	if grow := ws.pos + len(p) - len(ws.buf); grow > 0 {
		ws.buf = append(ws.buf, make([]byte, grow)...)
	}
	copy(ws.buf[ws.pos:], p)
	ws.pos += len(p)
	return len(p), nil
}

func (ws *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = int64(ws.pos) + offset
	case io.SeekEnd:
		next = int64(len(ws.buf)) + offset
	default:
		return 0, errors.New("invalid whence")
	}
	if next < 0 {
		return 0, errors.New("negative seek position")
	}
	ws.pos = int(next)
	return next, nil
}

func (ws *writeSeeker) Bytes() []byte {
	return ws.buf
}
