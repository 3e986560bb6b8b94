package compare

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sdejongh/hadidi/pkg/digest"
	"github.com/sdejongh/hadidi/pkg/models"
	"github.com/sdejongh/hadidi/pkg/storage"
)

// Verifier compares two files byte-by-byte. It backs up a digest match
// when the algorithm in use is weak against collisions.
type Verifier struct {
	bufferSize    int
	bufferPool    *sync.Pool
	readerWrapper digest.ReaderWrapper
}

// NewVerifier creates a new byte-by-byte verifier
func NewVerifier(bufferSize int) *Verifier {
	if bufferSize < 4096 {
		bufferSize = 4096
	}
	return &Verifier{
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
func (v *Verifier) SetReaderWrapper(wrapper digest.ReaderWrapper) {
	v.readerWrapper = wrapper
}

// Verify reports whether the two files hold the same bytes. When they do not,
// the reason names the first differing offset.
func (v *Verifier) Verify(ctx context.Context, left, right storage.Backend, leftPath, rightPath string) (bool, string, error) {
	leftInfo, err := left.Stat(ctx, leftPath)
	if err != nil {
		return false, "", models.NewError(models.KindIO, leftPath, err)
	}
	rightInfo, err := right.Stat(ctx, rightPath)
	if err != nil {
		return false, "", models.NewError(models.KindIO, rightPath, err)
	}

	// Quick check: if sizes differ, files are different
	if leftInfo.Size != rightInfo.Size {
		return false, fmt.Sprintf("size mismatch: left=%d, right=%d", leftInfo.Size, rightInfo.Size), nil
	}

	leftReader, err := v.open(ctx, left, leftPath)
	if err != nil {
		return false, "", err
	}
	defer leftReader.Close()

	rightReader, err := v.open(ctx, right, rightPath)
	if err != nil {
		return false, "", err
	}
	defer rightReader.Close()

	// Get buffers from pool
	leftBufPtr := v.bufferPool.Get().(*[]byte)
	defer v.bufferPool.Put(leftBufPtr)
	leftBuf := *leftBufPtr

	rightBufPtr := v.bufferPool.Get().(*[]byte)
	defer v.bufferPool.Put(rightBufPtr)
	rightBuf := *rightBufPtr

	var offset int64
	for {
		select {
		case <-ctx.Done():
			return false, "", ctx.Err()
		default:
		}

		// ReadFull keeps both sides aligned on short reads
		leftN, leftErr := io.ReadFull(leftReader, leftBuf)
		rightN, rightErr := io.ReadFull(rightReader, rightBuf)

		n := leftN
		if rightN < n {
			n = rightN
		}
		if !bytes.Equal(leftBuf[:n], rightBuf[:n]) {
			for i := 0; i < n; i++ {
				if leftBuf[i] != rightBuf[i] {
					return false, fmt.Sprintf("content differs at byte offset %d", offset+int64(i)), nil
				}
			}
		}
		if leftN != rightN {
			return false, fmt.Sprintf("length differs after byte offset %d", offset+int64(n)), nil
		}
		offset += int64(n)

		leftDone := leftErr == io.EOF || leftErr == io.ErrUnexpectedEOF
		rightDone := rightErr == io.EOF || rightErr == io.ErrUnexpectedEOF
		if leftErr != nil && !leftDone {
			return false, "", models.NewError(models.KindIO, leftPath, leftErr)
		}
		if rightErr != nil && !rightDone {
			return false, "", models.NewError(models.KindIO, rightPath, rightErr)
		}
		if leftDone || rightDone {
			return true, "", nil
		}
	}
}

func (v *Verifier) open(ctx context.Context, backend storage.Backend, path string) (io.ReadCloser, error) {
	reader, err := backend.Read(ctx, path)
	if err != nil {
		return nil, models.NewError(models.KindIO, path, err)
	}
	if v.readerWrapper != nil {
		reader = v.readerWrapper(reader)
	}
	return reader, nil
}
