// Package source loads container files into immutable byte buffers.
//
// Local paths are memory-mapped read-only, so a decoder that tried to
// write into its input would fault instead of silently corrupting it.
// s3:// URIs are downloaded into memory.
package source

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/eunmann/risu-inspect/internal/logctx"
	"github.com/eunmann/risu-inspect/pkg/humanfmt"
	"github.com/eunmann/risu-inspect/pkg/s3fetch"
)

// ObjectFetcher downloads a whole S3 object. *s3fetch.Client implements it.
type ObjectFetcher interface {
	FetchObject(ctx context.Context, bucket, key string) ([]byte, *s3fetch.DownloadResult, error)
}

// Buffer is one input's bytes. Data must not be modified, and must not be
// used after Close.
type Buffer struct {
	// URI is the input as given.
	URI string
	// Name is the base file name used for suffix dispatch.
	Name string
	Data []byte

	closer func() error
}

// Close releases the buffer's backing storage.
func (b *Buffer) Close() error {
	if b.closer == nil {
		return nil
	}
	c := b.closer
	b.closer = nil
	return c()
}

// Opener resolves input URIs to buffers.
type Opener struct {
	// S3 is used for s3:// inputs. When nil, they fail to open.
	S3 ObjectFetcher
}

// Open loads uri.
func (o *Opener) Open(ctx context.Context, uri string) (*Buffer, error) {
	log := logctx.FromContext(ctx)

	if s3fetch.IsS3URI(uri) {
		if o.S3 == nil {
			return nil, fmt.Errorf("open %s: no S3 client configured", uri)
		}
		bucket, key, err := s3fetch.ParseObjectURI(uri)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", uri, err)
		}
		data, res, err := o.S3.FetchObject(ctx, bucket, key)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", uri, err)
		}
		if res != nil {
			log.Debug().
				Str("uri", uri).
				Str("size", humanfmt.Bytes(res.BytesDownloaded)).
				Str("elapsed", humanfmt.Duration(res.Duration)).
				Msg("downloaded object")
		}
		return &Buffer{URI: uri, Name: s3fetch.ObjectName(key), Data: data}, nil
	}

	m, err := openMmap(uri)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", uri, err)
	}
	log.Debug().Str("uri", uri).Str("size", humanfmt.Bytes(int64(len(m.data)))).Msg("mapped file")
	return &Buffer{URI: uri, Name: filepath.Base(uri), Data: m.data, closer: m.Close}, nil
}

// NameOf returns the file name Open will report for uri, without opening
// it.
func NameOf(uri string) string {
	if s3fetch.IsS3URI(uri) {
		if _, key, err := s3fetch.ParseS3URI(uri); err == nil && key != "" {
			return s3fetch.ObjectName(key)
		}
	}
	return filepath.Base(uri)
}
