package errors

// CryptoError is a specialized error type for failures in the crypto
// envelope: key derivation and AES-256-GCM sealing/opening, plus the value
// encoding around them. It embeds baseError for the standard
// chaining/code/details behavior and adds the phase and record key that
// were involved. A failed open does not tell a bad password apart from a
// corrupted record.
type CryptoError struct {
	*baseError

	// phase names which operation failed: "derive", "seal", or "open" for
	// the envelope; "marshal", "unmarshal", or "decode" for the value and
	// WAL-line encoding around it.
	phase string

	// key is the record key the operation was sealing or opening, when
	// known. Empty during key derivation.
	key string
}

// NewCryptoError creates a new crypto-specific error.
func NewCryptoError(err error, code ErrorCode, msg string) *CryptoError {
	return &CryptoError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while maintaining the CryptoError type.
func (ce *CryptoError) WithMessage(msg string) *CryptoError {
	ce.baseError.WithMessage(msg)
	return ce
}

// WithCode sets the error code while preserving the CryptoError type.
func (ce *CryptoError) WithCode(code ErrorCode) *CryptoError {
	ce.baseError.WithCode(code)
	return ce
}

// WithDetail adds contextual information while maintaining the CryptoError type.
func (ce *CryptoError) WithDetail(key string, value any) *CryptoError {
	ce.baseError.WithDetail(key, value)
	return ce
}

// WithPhase records which envelope operation was in progress.
func (ce *CryptoError) WithPhase(phase string) *CryptoError {
	ce.phase = phase
	return ce
}

// WithKey records which record key was being sealed or opened.
func (ce *CryptoError) WithKey(key string) *CryptoError {
	ce.key = key
	return ce
}

// Phase returns which envelope operation failed.
func (ce *CryptoError) Phase() string {
	return ce.phase
}

// Key returns the record key involved in the failure, if any.
func (ce *CryptoError) Key() string {
	return ce.key
}

// NewKeyDerivationError wraps a failure to set up key derivation; the
// envelope raises it when the random salt for a new key cannot be read.
func NewKeyDerivationError(cause error) *CryptoError {
	return NewCryptoError(cause, ErrorCodeKeyDerivationFailed, "key derivation failed").
		WithPhase("derive")
}

// NewEncryptError wraps an AES-256-GCM seal failure for the given key.
func NewEncryptError(cause error, key string) *CryptoError {
	return NewCryptoError(cause, ErrorCodeEncryptFailure, "encryption failed").
		WithPhase("seal").
		WithKey(key)
}

// NewDecryptError wraps an AES-256-GCM open failure for the given key. This
// is the error a wrong password or a tampered/corrupt record produces; the
// two are indistinguishable by design, per the AEAD contract.
func NewDecryptError(cause error, key string) *CryptoError {
	return NewCryptoError(cause, ErrorCodeDecryptFailure, "decryption failed").
		WithPhase("open").
		WithKey(key)
}
