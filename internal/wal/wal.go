// Package wal implements the write-ahead log: one self-describing text
// line per accepted SET, appended before the corresponding memtable
// insert, and replayed at startup to recover writes a crash lost from the
// memtable.
package wal

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	sealcrypto "github.com/iamNilotpal/sealkv/internal/crypto"
	"github.com/iamNilotpal/sealkv/pkg/errors"
	"github.com/iamNilotpal/sealkv/pkg/valuecodec"
)

// Handle is the shared, mutex-guarded WAL file the foreground appends to
// and the flush worker rotates. Exclusive access for both operations, per
// §5's lock discipline.
type Handle struct {
	mu   sync.Mutex
	file *os.File
	path string
}

// Open opens (creating if absent) the WAL file for append.
func Open(path string) (*Handle, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, path, filepath.Base(path))
	}
	return &Handle{file: file, path: path}, nil
}

// Append binary-encodes value, seals it with AAD=key under envelope, and
// writes one self-describing line: the line carries its own salt and
// nonce so a future session can replay it given the right password even
// if the live envelope's salt has since changed.
func Append[V any](h *Handle, key string, value V, codec valuecodec.Codec[V], envelope *sealcrypto.Envelope) error {
	plaintext, err := codec.Marshal(value)
	if err != nil {
		return errors.NewCryptoError(err, errors.ErrorCodeCodecMalformed, "failed to binary-encode value").
			WithPhase("marshal").WithKey(key)
	}

	ciphertext, nonce, err := envelope.Seal([]byte(key), plaintext)
	if err != nil {
		return err
	}
	salt := envelope.SaltBytes()

	line := fmt.Sprintf(
		"SET %s %s %s %s\n",
		key,
		base64.StdEncoding.EncodeToString(ciphertext),
		base64.StdEncoding.EncodeToString(nonce[:]),
		base64.StdEncoding.EncodeToString(salt[:]),
	)

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, err := h.file.WriteString(line); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to append WAL line").WithPath(h.path)
	}
	return nil
}

// Close closes the underlying file handle.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.file.Close()
}

// Rotate implements §4.F step 4: create the archive directory if absent,
// rename the active WAL into it under a fixed name (clobbering any
// previous archive — see §9's design note), then reopen the active path
// fresh and swap it in under the same lock a concurrent Append would take.
func (h *Handle) Rotate(archiveDir string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return errors.ClassifyDirectoryCreationError(err, archiveDir)
	}

	if err := h.file.Close(); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to close WAL before rotation").WithPath(h.path)
	}

	archivePath := filepath.Join(archiveDir, "wal_log")
	if err := os.Rename(h.path, archivePath); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to archive WAL").
			WithPath(h.path).WithDetail("archive_path", archivePath)
	}

	fresh, err := os.OpenFile(h.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.ClassifyFileOpenError(err, h.path, filepath.Base(h.path))
	}
	h.file = fresh
	return nil
}

// Replay reads an existing WAL file from the start, line by line, and
// calls insert for every line that decrypts successfully. Per §4.D:
// structural problems (wrong token count, unknown command, malformed
// base64) are fatal and abort replay; a per-line decrypt failure (wrong
// password, tampering) is not — that line is skipped and replay continues.
// A missing file is not an error: there is simply nothing to replay.
func Replay[V any](path, password string, codec valuecodec.Codec[V], insert func(key string, value V)) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.ClassifyFileOpenError(err, path, filepath.Base(path))
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		if len(tokens) != 5 {
			return errors.NewValidationError(
				nil, errors.ErrorCodeProtocolArity, "malformed WAL line: wrong token count",
			).WithField("line").WithProvided(len(tokens)).WithExpected(5).WithDetail("line_no", lineNo)
		}
		if tokens[0] != "SET" {
			return errors.NewValidationError(
				nil, errors.ErrorCodeProtocolUnknownCommand, "malformed WAL line: unknown command",
			).WithField("command").WithProvided(tokens[0]).WithDetail("line_no", lineNo)
		}

		key := tokens[1]
		ciphertext, err := base64.StdEncoding.DecodeString(tokens[2])
		if err != nil {
			return errors.NewCryptoError(err, errors.ErrorCodeCodecMalformed, "malformed WAL ciphertext").
				WithPhase("decode").WithKey(key).WithDetail("line_no", lineNo)
		}
		nonceBytes, err := base64.StdEncoding.DecodeString(tokens[3])
		if err != nil || len(nonceBytes) != sealcrypto.NonceSize {
			return errors.NewCryptoError(err, errors.ErrorCodeCodecMalformed, "malformed WAL nonce").
				WithPhase("decode").WithKey(key).WithDetail("line_no", lineNo)
		}
		saltBytes, err := base64.StdEncoding.DecodeString(tokens[4])
		if err != nil || len(saltBytes) != sealcrypto.SaltSize {
			return errors.NewCryptoError(err, errors.ErrorCodeCodecMalformed, "malformed WAL salt").
				WithPhase("decode").WithKey(key).WithDetail("line_no", lineNo)
		}

		var nonce [sealcrypto.NonceSize]byte
		copy(nonce[:], nonceBytes)
		var salt [sealcrypto.SaltSize]byte
		copy(salt[:], saltBytes)

		envelope, err := sealcrypto.NewWithSalt(password, salt)
		if err != nil {
			return err
		}

		plaintext, err := envelope.Open([]byte(key), nonce, ciphertext)
		if err != nil {
			// Non-fatal: wrong password or tampered line. Skip it.
			continue
		}

		value, err := codec.Unmarshal(plaintext)
		if err != nil {
			// Binary decode failure after a successful decrypt indicates
			// the stored bytes themselves are malformed, not a password
			// mismatch; skip this line the same way.
			continue
		}

		insert(key, value)
	}

	if err := scanner.Err(); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed reading WAL").WithPath(path)
	}
	return nil
}
