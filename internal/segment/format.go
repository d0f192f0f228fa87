// Package segment implements the sorted, immutable on-disk file a flush
// produces: a data region of encrypted records, a sparse index over a
// subsequence of those records, and a fixed-size footer. All multi-byte
// integers are big-endian.
package segment

import (
	"encoding/binary"

	sealcrypto "github.com/iamNilotpal/sealkv/internal/crypto"
	"github.com/iamNilotpal/sealkv/pkg/errors"
)

const (
	// FooterSize is the fixed trailing region every segment file carries:
	// data_region_length(8) + index_region_length(8) + salt(16).
	FooterSize = 8 + 8 + sealcrypto.SaltSize

	keyLenSize    = 4
	cipherLenSize = 4
	offsetSize    = 8
)

// Footer is the last FooterSize bytes of a segment file.
type Footer struct {
	DataLen  uint64
	IndexLen uint64
	Salt     [sealcrypto.SaltSize]byte
}

// Encode lays out the footer exactly as §3 describes it:
// [0..8) data_region_length, [8..16) index_region_length, [16..32) salt.
func (f Footer) Encode() []byte {
	buf := make([]byte, FooterSize)
	binary.BigEndian.PutUint64(buf[0:8], f.DataLen)
	binary.BigEndian.PutUint64(buf[8:16], f.IndexLen)
	copy(buf[16:16+sealcrypto.SaltSize], f.Salt[:])
	return buf
}

// DecodeFooter parses a FooterSize-byte buffer. It does not check the
// footer against the file's actual size; callers are expected to combine
// it with the file length to validate data_region_length +
// index_region_length + FooterSize == file_size.
func DecodeFooter(buf []byte) (Footer, error) {
	if len(buf) != FooterSize {
		return Footer{}, errors.NewIndexError(
			nil, errors.ErrorCodeIndexCorrupted, "truncated segment footer",
		).WithOperation("DecodeFooter").WithDetail("got_size", len(buf)).WithDetail("want_size", FooterSize)
	}

	var f Footer
	f.DataLen = binary.BigEndian.Uint64(buf[0:8])
	f.IndexLen = binary.BigEndian.Uint64(buf[8:16])
	copy(f.Salt[:], buf[16:16+sealcrypto.SaltSize])
	return f, nil
}

// encodeRecord lays out one data-region record per §3:
// [key_len u32][key][nonce 12B][cipher_len u32][ciphertext||tag].
func encodeRecord(key string, nonce [sealcrypto.NonceSize]byte, ciphertext []byte) []byte {
	size := keyLenSize + len(key) + sealcrypto.NonceSize + cipherLenSize + len(ciphertext)
	buf := make([]byte, size)

	off := 0
	binary.BigEndian.PutUint32(buf[off:], uint32(len(key)))
	off += keyLenSize
	off += copy(buf[off:], key)
	off += copy(buf[off:], nonce[:])
	binary.BigEndian.PutUint32(buf[off:], uint32(len(ciphertext)))
	off += cipherLenSize
	copy(buf[off:], ciphertext)

	return buf
}

// encodeIndexEntry lays out one sparse-index entry per §3:
// [key_len u32][key][data_offset u64].
func encodeIndexEntry(key string, offset uint64) []byte {
	buf := make([]byte, keyLenSize+len(key)+offsetSize)
	off := 0
	binary.BigEndian.PutUint32(buf[off:], uint32(len(key)))
	off += keyLenSize
	off += copy(buf[off:], key)
	binary.BigEndian.PutUint64(buf[off:], offset)
	return buf
}

// indexEntry is one decoded sparse-index tuple.
type indexEntry struct {
	key    string
	offset uint64
}

// decodeIndexRegion parses the full index region into an ordered slice;
// ordering is preserved from the file since the writer emits index entries
// in ascending key order (a subsequence of the data region's order).
func decodeIndexRegion(buf []byte) ([]indexEntry, error) {
	var entries []indexEntry
	off := 0
	for off < len(buf) {
		if off+keyLenSize > len(buf) {
			return nil, errors.NewIndexCorruptionError("decodeIndexRegion", len(entries), nil)
		}
		keyLen := int(binary.BigEndian.Uint32(buf[off : off+keyLenSize]))
		off += keyLenSize

		if off+keyLen+offsetSize > len(buf) {
			return nil, errors.NewIndexCorruptionError("decodeIndexRegion", len(entries), nil)
		}
		key := string(buf[off : off+keyLen])
		off += keyLen

		offset := binary.BigEndian.Uint64(buf[off : off+offsetSize])
		off += offsetSize

		entries = append(entries, indexEntry{key: key, offset: offset})
	}
	return entries, nil
}

// decodedRecord is one decoded data-region record, before decryption.
type decodedRecord struct {
	key        string
	nonce      [sealcrypto.NonceSize]byte
	ciphertext []byte
	// next is the offset immediately following this record.
	next uint64
}

// decodeRecordAt parses exactly one record starting at offset within buf
// (the full data region). It reports where the next record begins so a
// forward scan can continue without re-deriving offsets.
func decodeRecordAt(buf []byte, offset uint64) (decodedRecord, error) {
	pos := int(offset)
	if pos+keyLenSize > len(buf) {
		return decodedRecord{}, errors.NewStorageError(
			nil, errors.ErrorCodeSegmentCorrupted, "truncated record header",
		).WithOffset(pos)
	}
	keyLen := int(binary.BigEndian.Uint32(buf[pos : pos+keyLenSize]))
	pos += keyLenSize

	if pos+keyLen+sealcrypto.NonceSize+cipherLenSize > len(buf) {
		return decodedRecord{}, errors.NewStorageError(
			nil, errors.ErrorCodeSegmentCorrupted, "truncated record key/nonce/cipher_len",
		).WithOffset(pos)
	}
	key := string(buf[pos : pos+keyLen])
	pos += keyLen

	var nonce [sealcrypto.NonceSize]byte
	copy(nonce[:], buf[pos:pos+sealcrypto.NonceSize])
	pos += sealcrypto.NonceSize

	cipherLen := int(binary.BigEndian.Uint32(buf[pos : pos+cipherLenSize]))
	pos += cipherLenSize

	if pos+cipherLen > len(buf) {
		return decodedRecord{}, errors.NewStorageError(
			nil, errors.ErrorCodeSegmentCorrupted, "truncated record ciphertext",
		).WithOffset(pos)
	}
	ciphertext := buf[pos : pos+cipherLen]
	pos += cipherLen

	return decodedRecord{key: key, nonce: nonce, ciphertext: ciphertext, next: uint64(pos)}, nil
}
