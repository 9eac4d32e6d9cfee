package input

import (
	"bufio"
	"errors"
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// ErrTimeout is returned by a Source when no byte arrived in time.
var ErrTimeout = errors.New("input: read timed out")

// Source yields raw terminal bytes one at a time.
type Source interface {
	// ReadTimeout returns the next byte, waiting at most timeout.
	// A timeout <= 0 waits indefinitely.
	ReadTimeout(timeout time.Duration) (byte, error)
}

// FileSource reads from a terminal file descriptor, polling when a
// timeout is requested.
type FileSource struct {
	fd      int
	buf     [256]byte
	pending []byte
}

// NewFileSource creates a source over f, usually os.Stdin.
func NewFileSource(f *os.File) *FileSource {
	return &FileSource{fd: int(f.Fd())}
}

// ReadTimeout implements Source. Interrupted system calls are retried.
func (s *FileSource) ReadTimeout(timeout time.Duration) (byte, error) {
	for len(s.pending) == 0 {
		if timeout > 0 {
			fds := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLIN}}
			n, err := unix.Poll(fds, int(timeout.Milliseconds()))
			if err == unix.EINTR {
				continue
			}
			if err != nil {
				return 0, err
			}
			if n == 0 {
				return 0, ErrTimeout
			}
		}

		n, err := unix.Read(s.fd, s.buf[:])
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, err
		}
		if n == 0 {
			return 0, io.EOF
		}
		s.pending = s.buf[:n]
	}

	b := s.pending[0]
	s.pending = s.pending[1:]
	return b, nil
}

// ReaderSource adapts an io.Reader. It cannot time out, so the timeout
// argument is ignored.
type ReaderSource struct {
	r *bufio.Reader
}

// NewReaderSource wraps r.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: bufio.NewReader(r)}
}

// ReadTimeout implements Source.
func (s *ReaderSource) ReadTimeout(time.Duration) (byte, error) {
	for {
		b, err := s.r.ReadByte()
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return b, err
	}
}
