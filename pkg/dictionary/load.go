package dictionary

import (
	"bytes"
	"compress/gzip"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
)

//go:embed data/cedict_sample.u8
var embeddedCedict []byte

//go:embed data/hsk.yaml
var embeddedHSK []byte

// Source says where dictionary data is read from. An empty path selects the
// data set embedded in the binary. Paths ending in ".gz" are decompressed.
type Source struct {
	CedictPath string
	HSKPath    string
}

// Load reads the CC-CEDICT and HSK sources concurrently and builds the index.
func Load(ctx context.Context, src Source) (*Dictionary, error) {
	var (
		entries []Entry
		levels  HSKLevels
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rc, err := open(src.CedictPath, embeddedCedict)
		if err != nil {
			return fmt.Errorf("failed to open CC-CEDICT data: %w", err)
		}
		defer rc.Close()

		entries, err = Parse(ctx, rc)
		return err
	})
	g.Go(func() error {
		rc, err := open(src.HSKPath, embeddedHSK)
		if err != nil {
			return fmt.Errorf("failed to open HSK levels: %w", err)
		}
		defer rc.Close()

		levels, err = ParseHSK(rc)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return New(entries, levels), nil
}

type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g gzipFile) Close() error {
	err := g.Reader.Close()
	if cerr := g.file.Close(); err == nil {
		err = cerr
	}
	return err
}

func open(path string, embedded []byte) (io.ReadCloser, error) {
	if path == "" {
		return io.NopCloser(bytes.NewReader(embedded)), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(strings.ToLower(path), ".gz") {
		return f, nil
	}

	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read gzip header of %s: %w", path, err)
	}
	return gzipFile{Reader: zr, file: f}, nil
}
