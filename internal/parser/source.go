package parser

import (
	"compress/bzip2"
	"compress/gzip"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// source is an opened play-by-play file, decompressed by extension.
type source struct {
	io.Reader
	closers []func() error
}

func (s *source) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openSource hashes the file at path and returns a reader over its
// decompressed contents. The hash covers the bytes on disk.
func openSource(path string) (*source, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open play-by-play: %w", err)
	}

	hash, err := hashReader(f)
	if err != nil {
		f.Close()
		return nil, "", err
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, "", fmt.Errorf("seek play-by-play: %w", err)
	}

	src := &source{Reader: f, closers: []func() error{f.Close}}
	switch {
	case strings.HasSuffix(path, ".bz2"):
		src.Reader = bzip2.NewReader(f)
	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, "", fmt.Errorf("zstd: %w", err)
		}
		src.Reader = dec
		src.closers = append(src.closers, func() error { dec.Close(); return nil })
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, "", fmt.Errorf("gzip: %w", err)
		}
		src.Reader = gz
		src.closers = append(src.closers, gz.Close)
	}
	return src, hash, nil
}

// SourceHash returns the sha256 of the file at path as stored with a built
// season, so an unchanged file can be recognized without parsing it.
func SourceHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open play-by-play: %w", err)
	}
	defer f.Close()
	return hashReader(f)
}

func hashReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("hash play-by-play: %w", err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
