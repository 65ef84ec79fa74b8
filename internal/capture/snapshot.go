package capture

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Snapshots keeps the most recent frame as JPEG so that viewers never read
// the camera themselves.
type Snapshots struct {
	mu      sync.Mutex
	jpeg    []byte
	seq     uint64
	updated chan struct{}
	viewers atomic.Int32
}

func NewSnapshots() *Snapshots {
	return &Snapshots{updated: make(chan struct{})}
}

// Attach registers a viewer until the returned func is called.
func (s *Snapshots) Attach() (detach func()) {
	s.viewers.Add(1)
	var once sync.Once
	return func() {
		once.Do(func() { s.viewers.Add(-1) })
	}
}

// Watched reports whether any viewer is attached.
func (s *Snapshots) Watched() bool {
	return s.viewers.Load() > 0
}

// Store encodes frame as JPEG and publishes it.
func (s *Snapshots) Store(frame *gocv.Mat) error {
	if frame == nil || frame.Empty() {
		return ErrNoFrame
	}
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return errors.Wrap(err, "encode jpeg")
	}
	defer buf.Close()

	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	s.Put(data)
	return nil
}

// Put publishes an already encoded JPEG.
func (s *Snapshots) Put(jpeg []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jpeg = jpeg
	s.seq++
	close(s.updated)
	s.updated = make(chan struct{})
}

// Latest returns the newest JPEG and its sequence number, 0 if none yet.
func (s *Snapshots) Latest() ([]byte, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jpeg, s.seq
}

// Next blocks until a frame newer than seq is available.
func (s *Snapshots) Next(ctx context.Context, seq uint64) ([]byte, uint64, error) {
	for {
		s.mu.Lock()
		if s.seq > seq {
			data, cur := s.jpeg, s.seq
			s.mu.Unlock()
			return data, cur, nil
		}
		wait := s.updated
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, seq, ctx.Err()
		case <-wait:
		}
	}
}
