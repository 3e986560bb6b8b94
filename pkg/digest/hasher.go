package digest

import (
	"context"
	"encoding/hex"
	"io"
	"sync"

	"github.com/sdejongh/hadidi/pkg/models"
	"github.com/sdejongh/hadidi/pkg/storage"
)

// ReaderWrapper wraps a file reader before hashing (e.g., for rate limiting)
type ReaderWrapper func(io.ReadCloser) io.ReadCloser

// Hasher computes file digests with a single algorithm, streaming file
// content through pooled buffers
type Hasher struct {
	algorithm     *Algorithm
	bufferSize    int
	bufferPool    *sync.Pool
	readerWrapper ReaderWrapper
}

// NewHasher creates a hasher for the given algorithm
func NewHasher(algorithm *Algorithm, bufferSize int) *Hasher {
	if bufferSize < 4096 {
		bufferSize = 4096
	}
	return &Hasher{
		algorithm:  algorithm,
		bufferSize: bufferSize,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// SetReaderWrapper sets a function to wrap readers (e.g., for rate limiting)
func (h *Hasher) SetReaderWrapper(wrapper ReaderWrapper) {
	h.readerWrapper = wrapper
}

// Algorithm returns the algorithm in use
func (h *Hasher) Algorithm() *Algorithm {
	return h.algorithm
}

// HashFile returns the lowercase hex digest of the file at path (relative to
// the backend root) and the number of bytes read. Open and read failures are
// reported as io errors carrying the path.
func (h *Hasher) HashFile(ctx context.Context, backend storage.Backend, path string) (string, int64, error) {
	reader, err := backend.Read(ctx, path)
	if err != nil {
		return "", 0, models.NewError(models.KindIO, path, err)
	}
	if h.readerWrapper != nil {
		reader = h.readerWrapper(reader)
	}
	defer reader.Close()

	sum, n, err := h.HashReader(ctx, reader)
	if err != nil {
		return "", n, models.NewError(models.KindIO, path, err)
	}
	return sum, n, nil
}

// HashReader returns the hex digest of everything read from r
func (h *Hasher) HashReader(ctx context.Context, r io.Reader) (string, int64, error) {
	hasher := h.algorithm.New()

	bufPtr := h.bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer h.bufferPool.Put(bufPtr)

	var totalRead int64
	for {
		select {
		case <-ctx.Done():
			return "", totalRead, ctx.Err()
		default:
		}

		n, err := r.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
			totalRead += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", totalRead, err
		}
	}

	return hex.EncodeToString(hasher.Sum(nil)), totalRead, nil
}
