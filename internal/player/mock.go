package player

import "sync"

// Mock is a deterministic Client for tests: the snapshot is whatever
// the test last set.
type Mock struct {
	mu        sync.Mutex
	snap      Snapshot
	trackPath string
	connErr   error
	closed    bool
}

// NewMock starts disconnected.
func NewMock() *Mock {
	return &Mock{}
}

// Set replaces the snapshot the mock will report.
func (m *Mock) Set(snap Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap
}

// SetTrackPath sets the path reported by TrackPath.
func (m *Mock) SetTrackPath(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trackPath = path
}

// FailConnect makes Connect return err.
func (m *Mock) FailConnect(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connErr = err
}

// Closed reports whether Close was called.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connErr
}

func (m *Mock) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

func (m *Mock) TrackPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trackPath
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
