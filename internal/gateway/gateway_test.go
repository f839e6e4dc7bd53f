package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"sync"
)

// fakeConn is an in-memory ClientConn for tests. Reads block until frames are
// fed in or the conn is closed; writes are captured for assertions.
type fakeConn struct {
	mu        sync.Mutex
	written   [][]byte
	readCh    chan []byte
	closed    bool
	failWrite bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{readCh: make(chan []byte, 16)}
}

func (f *fakeConn) ReadMessage() ([]byte, error) {
	data, ok := <-f.readCh
	if !ok {
		return nil, io.EOF
	}
	return data, nil
}

func (f *fakeConn) WriteMessage(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errors.New("write on closed conn")
	}
	if f.failWrite {
		return errors.New("write failed")
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	f.written = append(f.written, cp)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.readCh)
	}
	return nil
}

// writtenFrames returns a copy of everything written so far.
func (f *fakeConn) writtenFrames() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.written))
	copy(out, f.written)
	return out
}

// lastResponse decodes the most recent frame as a WSResponse.
func (f *fakeConn) lastResponse() (*WSResponse, bool) {
	frames := f.writtenFrames()
	if len(frames) == 0 {
		return nil, false
	}
	var resp WSResponse
	if err := json.Unmarshal(frames[len(frames)-1], &resp); err != nil {
		return nil, false
	}
	return &resp, true
}
