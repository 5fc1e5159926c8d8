package raw

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Source is a byte source over a shower file. Plain files support Seek;
// compressed sources only support Reopen, which restarts the stream from
// the beginning so the framed layer can discard forward to a target.
type Source interface {
	io.ReadCloser

	// Seek moves the read cursor to an absolute byte offset.
	Seek(off int64) error

	// Tell reports the current byte offset.
	Tell() (int64, error)

	// Seekable reports whether Seek works.
	Seekable() bool

	// Reopen restarts the source from byte zero.
	Reopen() error
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// OpenSource opens path, sniffing the leading magic bytes to pick between
// a plain file and a gzip or zstd wrapped one.
func OpenSource(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var magic [4]byte
	n, err := io.ReadFull(f, magic[:])
	if err != nil && err != io.ErrUnexpectedEOF {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	switch {
	case n >= 2 && bytes.Equal(magic[:2], gzipMagic):
		f.Close()
		return newGzipSource(path)
	case n == 4 && bytes.Equal(magic[:], zstdMagic):
		f.Close()
		return newZstdSource(path)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}
	return &fileSource{f: f, path: path}, nil
}

type fileSource struct {
	f    *os.File
	path string
}

func (s *fileSource) Read(p []byte) (int, error) { return s.f.Read(p) }

func (s *fileSource) Seek(off int64) error {
	_, err := s.f.Seek(off, io.SeekStart)
	return err
}

func (s *fileSource) Tell() (int64, error) {
	return s.f.Seek(0, io.SeekCurrent)
}

func (s *fileSource) Seekable() bool { return true }

func (s *fileSource) Reopen() error {
	return s.Seek(0)
}

func (s *fileSource) Close() error { return s.f.Close() }

type gzipSource struct {
	f    *os.File
	zr   *gzip.Reader
	path string
	off  int64
}

func newGzipSource(path string) (*gzipSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &gzipSource{f: f, zr: zr, path: path}, nil
}

func (s *gzipSource) Read(p []byte) (int, error) {
	n, err := s.zr.Read(p)
	s.off += int64(n)
	return n, err
}

func (s *gzipSource) Seek(int64) error { return ErrNotSeekable }

func (s *gzipSource) Tell() (int64, error) { return s.off, nil }

func (s *gzipSource) Seekable() bool { return false }

func (s *gzipSource) Reopen() error {
	fresh, err := newGzipSource(s.path)
	if err != nil {
		return err
	}
	s.Close()
	*s = *fresh
	return nil
}

func (s *gzipSource) Close() error {
	s.zr.Close()
	return s.f.Close()
}

type zstdSource struct {
	f    *os.File
	zr   *zstd.Decoder
	path string
	off  int64
}

func newZstdSource(path string) (*zstdSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	zr, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &zstdSource{f: f, zr: zr, path: path}, nil
}

func (s *zstdSource) Read(p []byte) (int, error) {
	n, err := s.zr.Read(p)
	s.off += int64(n)
	return n, err
}

func (s *zstdSource) Seek(int64) error { return ErrNotSeekable }

func (s *zstdSource) Tell() (int64, error) { return s.off, nil }

func (s *zstdSource) Seekable() bool { return false }

func (s *zstdSource) Reopen() error {
	fresh, err := newZstdSource(s.path)
	if err != nil {
		return err
	}
	s.Close()
	*s = *fresh
	return nil
}

func (s *zstdSource) Close() error {
	s.zr.Close()
	return s.f.Close()
}
