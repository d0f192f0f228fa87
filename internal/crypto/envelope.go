// Package crypto implements the AES-256-GCM envelope that protects every
// record sealkv writes to the write-ahead log and to segment files. A key
// is never stored; it is re-derived from a password and a 16-byte salt
// with Argon2id on every process start, and again for every foreign salt a
// segment footer or WAL line carries.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"
	"sync"

	"golang.org/x/crypto/argon2"

	sealerrors "github.com/iamNilotpal/sealkv/pkg/errors"
)

const (
	// SaltSize is the width of the salt fed to Argon2id alongside the
	// password, in bytes.
	SaltSize = 16

	// NonceSize is the width of the random nonce generated for each seal,
	// in bytes. AES-GCM's standard nonce size.
	NonceSize = 12

	// keySize is the derived key length in bytes: 256 bits for AES-256.
	keySize = 32

	// Argon2id tuning. Fixed rather than configurable: the salt already
	// makes every derived key instance-specific, and a fixed cost lets a
	// segment written by one process be opened by any other without
	// negotiating parameters out of band.
	argonTime      = 3
	argonMemoryKiB = 64 * 1024
	argonThreads   = 4
)

// Envelope derives a key once at construction and reuses it for every Seal
// and Open call. It is guarded by a RWMutex per the package's lock
// discipline: the key never changes after construction, but the lock keeps
// Envelope's access pattern consistent with the other shared resources
// (memtable, sequence counter, log handle) that do mutate.
type Envelope struct {
	mu   sync.RWMutex
	key  []byte
	salt [SaltSize]byte
}

// New derives a fresh Envelope for the given password with a newly
// generated random salt. Used once, at store startup, to protect
// everything written from that point on.
func New(password string) (*Envelope, error) {
	var salt [SaltSize]byte
	if _, err := io.ReadFull(rand.Reader, salt[:]); err != nil {
		return nil, sealerrors.NewKeyDerivationError(err).WithDetail("stage", "salt_generation")
	}
	return NewWithSalt(password, salt)
}

// NewWithSalt reconstructs the Envelope that produced a given salt. Used to
// open a segment footer's salt or a WAL line's trailing salt field, which
// may differ from the envelope currently protecting new writes (e.g. after
// a password rotation a reimplementation might add).
func NewWithSalt(password string, salt [SaltSize]byte) (*Envelope, error) {
	key := argon2.IDKey([]byte(password), salt[:], argonTime, argonMemoryKiB, argonThreads, keySize)
	return &Envelope{key: key, salt: salt}, nil
}

// SaltBytes returns the salt this envelope's key was derived from.
func (e *Envelope) SaltBytes() [SaltSize]byte {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.salt
}

func (e *Envelope) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext under this envelope's key, authenticating aad
// alongside it. It returns the ciphertext with GCM's authentication tag
// appended, and the random nonce used. The AAD is the record's key name:
// it binds a sealed value to the key it was stored under, so ciphertext
// cannot be copied to a different key and still open successfully.
func (e *Envelope) Seal(aad, plaintext []byte) (sealed []byte, nonce [NonceSize]byte, err error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, err = io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, nonce, sealerrors.NewEncryptError(err, string(aad)).WithDetail("stage", "nonce_generation")
	}

	aead, err := e.aead()
	if err != nil {
		return nil, nonce, sealerrors.NewEncryptError(err, string(aad)).WithDetail("stage", "cipher_init")
	}

	sealed = aead.Seal(nil, nonce[:], plaintext, aad)
	return sealed, nonce, nil
}

// Open decrypts ciphertext (with its trailing authentication tag) produced
// by Seal, verifying aad. A wrong password, a wrong salt, or any mutation
// of ciphertext, nonce, or aad produces the same DecryptError: AEAD gives
// no signal to tell these apart.
func (e *Envelope) Open(aad []byte, nonce [NonceSize]byte, ciphertext []byte) ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	aead, err := e.aead()
	if err != nil {
		return nil, sealerrors.NewDecryptError(err, string(aad)).WithDetail("stage", "cipher_init")
	}

	plaintext, err := aead.Open(nil, nonce[:], ciphertext, aad)
	if err != nil {
		return nil, sealerrors.NewDecryptError(err, string(aad)).WithDetail("stage", "authentication")
	}
	return plaintext, nil
}
