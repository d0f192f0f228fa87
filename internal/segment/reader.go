package segment

import (
	"os"

	sealcrypto "github.com/iamNilotpal/sealkv/internal/crypto"
	"github.com/iamNilotpal/sealkv/pkg/errors"
	"github.com/iamNilotpal/sealkv/pkg/valuecodec"
)

// Reader is an opened, parsed segment file: footer and sparse index are
// resident; the data region is read into memory once at open and then
// scanned per lookup, since the footer already tells us exactly how large
// each region is.
type Reader[V any] struct {
	path     string
	footer   Footer
	index    []indexEntry
	data     []byte
	envelope *sealcrypto.Envelope
	codec    valuecodec.Codec[V]
}

// OpenSegment reads a segment file's footer and index region, and derives
// the per-segment decrypter from the given password and the footer's
// salt, per §4.C.
func OpenSegment[V any](path, password string, codec valuecodec.Codec[V]) (*Reader[V], error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, path, path)
	}

	if len(raw) < FooterSize {
		return nil, errors.NewStorageError(
			nil, errors.ErrorCodeSegmentCorrupted, "segment file shorter than footer",
		).WithPath(path)
	}

	footer, err := DecodeFooter(raw[len(raw)-FooterSize:])
	if err != nil {
		return nil, err
	}

	if footer.DataLen+footer.IndexLen+FooterSize != uint64(len(raw)) {
		return nil, errors.NewStorageError(
			nil, errors.ErrorCodeSegmentCorrupted, "segment region lengths do not match file size",
		).WithPath(path).
			WithDetail("data_len", footer.DataLen).
			WithDetail("index_len", footer.IndexLen).
			WithDetail("file_size", len(raw))
	}

	data := raw[:footer.DataLen]
	indexBuf := raw[footer.DataLen : footer.DataLen+footer.IndexLen]

	index, err := decodeIndexRegion(indexBuf)
	if err != nil {
		return nil, err
	}

	envelope, err := sealcrypto.NewWithSalt(password, footer.Salt)
	if err != nil {
		return nil, err
	}

	return &Reader[V]{
		path:     path,
		footer:   footer,
		index:    index,
		data:     data,
		envelope: envelope,
		codec:    codec,
	}, nil
}

// Get performs the bracketing point lookup from §4.C: walk the sparse
// index to find the offset of the largest indexed key <= k, then scan the
// data region forward from there until an exact match, an overshoot (key
// absent), or the index-region boundary (key absent).
func (r *Reader[V]) Get(key string) (value V, found bool, err error) {
	startOffset := uint64(0)
	for _, entry := range r.index {
		if entry.key > key {
			break
		}
		startOffset = entry.offset
		if entry.key == key {
			break
		}
	}

	pos := startOffset
	for pos < r.footer.DataLen {
		rec, err := decodeRecordAt(r.data, pos)
		if err != nil {
			return value, false, err
		}

		switch {
		case rec.key == key:
			plaintext, err := r.envelope.Open([]byte(rec.key), rec.nonce, rec.ciphertext)
			if err != nil {
				return value, false, err
			}
			v, err := r.codec.Unmarshal(plaintext)
			if err != nil {
				return value, false, errors.NewCryptoError(err, errors.ErrorCodeCodecMalformed, "failed to binary-decode value").
					WithPhase("unmarshal").WithKey(rec.key)
			}
			return v, true, nil
		case rec.key > key:
			return value, false, nil
		}

		pos = rec.next
	}

	return value, false, nil
}
