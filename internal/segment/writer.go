package segment

import (
	"os"

	"go.uber.org/zap"

	sealcrypto "github.com/iamNilotpal/sealkv/internal/crypto"
	"github.com/iamNilotpal/sealkv/internal/memtable"
	"github.com/iamNilotpal/sealkv/pkg/errors"
	"github.com/iamNilotpal/sealkv/pkg/valuecodec"
)

// WriterConfig configures a single WriteSegment call.
type WriterConfig struct {
	// Envelope seals every record; its current salt is stamped into the
	// footer so a reader can re-derive the same key.
	Envelope *sealcrypto.Envelope

	// Density is the sparse-index divisor (D in §3/§4.B): an index entry
	// is written every max(1, N/Density) records.
	Density int

	// Sync, if true, calls File.Sync after the write_all completes. The
	// engine does not fsync by default (§7); this is the explicit opt-in
	// mentioned there.
	Sync bool

	Logger *zap.SugaredLogger
}

// WriteSegment builds and writes a segment file from a sorted snapshot,
// exactly as §4.B describes: for every record in ascending key order, seal
// it, append it to the data region, and emit a sparse-index entry every
// stride-th record; then a 32-byte footer; then one write_all.
//
// entries MUST already be in ascending key order — the caller (the flush
// worker, via memtable.Table.Take) is responsible for that.
func WriteSegment[V any](path string, entries []memtable.Entry[V], codec valuecodec.Codec[V], cfg WriterConfig) error {
	n := len(entries)
	stride := 1
	if cfg.Density > 0 && n/cfg.Density > 1 {
		stride = n / cfg.Density
	}

	var data []byte
	var index []byte

	for i, entry := range entries {
		plaintext, err := codec.Marshal(entry.Value)
		if err != nil {
			return errors.NewCryptoError(err, errors.ErrorCodeCodecMalformed, "failed to binary-encode value").
				WithPhase("marshal").WithKey(entry.Key)
		}

		ciphertext, nonce, err := cfg.Envelope.Seal([]byte(entry.Key), plaintext)
		if err != nil {
			return err
		}

		offset := uint64(len(data))
		data = append(data, encodeRecord(entry.Key, nonce, ciphertext)...)

		if i%stride == 0 {
			index = append(index, encodeIndexEntry(entry.Key, offset)...)
		}
	}

	footer := Footer{
		DataLen:  uint64(len(data)),
		IndexLen: uint64(len(index)),
		Salt:     cfg.Envelope.SaltBytes(),
	}

	buf := make([]byte, 0, len(data)+len(index)+FooterSize)
	buf = append(buf, data...)
	buf = append(buf, index...)
	buf = append(buf, footer.Encode()...)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.ClassifyFileOpenError(err, path, path)
	}
	defer file.Close()

	if _, err := file.Write(buf); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to write segment file").WithPath(path)
	}

	if cfg.Sync {
		if err := file.Sync(); err != nil {
			return errors.ClassifySyncError(err, path, path, len(buf))
		}
	}

	if cfg.Logger != nil {
		cfg.Logger.Infow("wrote segment", "path", path, "records", n, "data_len", footer.DataLen, "index_len", footer.IndexLen)
	}

	return nil
}
