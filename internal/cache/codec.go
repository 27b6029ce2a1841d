package cache

import (
	"bytes"
	"compress/gzip"
	"io"

	"github.com/DataDog/zstd"

	"github.com/home-lang/pantry/internal/pantryerr"
)

// Codec names a body compression scheme.
type Codec string

const (
	CodecNone Codec = "none"
	CodecGzip Codec = "gzip"
	CodecZstd Codec = "zstd"
)

// Compress encodes body under codec. CodecNone returns body unchanged.
func Compress(codec Codec, body []byte) ([]byte, error) {
	switch codec {
	case CodecNone, "":
		return body, nil
	case CodecGzip:
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(body); err != nil {
			return nil, pantryerr.Wrap(pantryerr.KindCacheCorrupted, err, "gzip compress")
		}
		if err := w.Close(); err != nil {
			return nil, pantryerr.Wrap(pantryerr.KindCacheCorrupted, err, "gzip compress")
		}
		return buf.Bytes(), nil
	case CodecZstd:
		out, err := zstd.Compress(nil, body)
		if err != nil {
			return nil, pantryerr.Wrap(pantryerr.KindCacheCorrupted, err, "zstd compress")
		}
		return out, nil
	default:
		return nil, pantryerr.New(pantryerr.KindCacheCorrupted, "unknown compression codec "+string(codec))
	}
}

// Decompress reverses Compress. decompress(compress(x)) == x for every
// codec this package supports.
func Decompress(codec Codec, body []byte) ([]byte, error) {
	switch codec {
	case CodecNone, "":
		return body, nil
	case CodecGzip:
		r, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, pantryerr.Wrap(pantryerr.KindCacheCorrupted, err, "gzip decompress")
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, pantryerr.Wrap(pantryerr.KindCacheCorrupted, err, "gzip decompress")
		}
		return out, nil
	case CodecZstd:
		out, err := zstd.Decompress(nil, body)
		if err != nil {
			return nil, pantryerr.Wrap(pantryerr.KindCacheCorrupted, err, "zstd decompress")
		}
		return out, nil
	default:
		return nil, pantryerr.New(pantryerr.KindCacheCorrupted, "unknown compression codec "+string(codec))
	}
}
