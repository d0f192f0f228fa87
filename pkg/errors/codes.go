package errors

// ErrorCode represents a standardized way to categorize different types of errors.
type ErrorCode string

// Base error codes represent the fundamental categories of failures that can
// occur across any software system. These codes provide the foundation layer
// of error classification.
const (
	// ErrorCodeIO represents failures in input/output operations across any
	// system boundary. This includes file system operations like reading or
	// writing segment files, network operations when communicating with remote
	// systems, and device I/O when accessing storage hardware.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeInvalidInput represents client-side errors where the provided
	// data doesn't meet the system's requirements or constraints. This maps
	// to HTTP 400-series errors and indicates problems with the request itself
	// rather than system failures.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrorCodeInternal represents unexpected system failures that don't fit
	// into other categories. These are the equivalent of HTTP 500 errors and
	// indicate bugs, assertion failures, or other programming errors that
	// shouldn't occur during normal operation.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Storage-specific error codes extend the base error taxonomy to handle the
// unique failure modes that occur in persistent storage systems. These codes
// represent problems that are specific to the storage layer of your key-value
// store, particularly focusing on segment file management and data persistence.
const (
	// ErrorCodeSegmentCorrupted indicates that a segment file's data has been
	// damaged or is in an inconsistent state.
	ErrorCodeSegmentCorrupted ErrorCode = "SEGMENT_CORRUPTED"

	// ErrorCodeHeaderReadFailure occurs when the system cannot read the header
	// portion of a segment file. Headers contain critical metadata about the
	// segment's structure, so header read failures prevent access to the
	// entire segment and all data it contains.
	ErrorCodeHeaderReadFailure ErrorCode = "HEADER_READ_FAILURE"

	// ErrorCodePayloadReadFailure indicates problems reading the actual data
	// content from segment files after successfully reading the header. This
	// represents a more localized failure compared to header problems, as the
	// segment structure is intact but specific data regions are inaccessible.
	ErrorCodePayloadReadFailure ErrorCode = "PAYLOAD_READ_FAILURE"

	// ErrorCodeRecoveryFailed indicates that the storage system's attempt to
	// recover from a previous failure was unsuccessful. This represents a
	// compound failure where both the original problem and the recovery
	// mechanism have failed, creating a more serious operational situation.
	ErrorCodeRecoveryFailed ErrorCode = "STORAGE_RECOVERY_FAILED"

	// ErrorCodePermissionDenied indicates insufficient permissions to access a resource.
	// This is distinct from generic IO errors because it has a specific resolution path:
	// the user needs to adjust file/directory permissions or run with elevated privileges.
	ErrorCodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// ErrorCodeDiskFull indicates that the storage device has run out of space.
	// This requires specific handling like cleanup operations or alerting administrators.
	ErrorCodeDiskFull ErrorCode = "DISK_FULL"

	// ErrorCodeFilesystemReadonly indicates that the filesystem is mounted read-only.
	// This requires administrative intervention to remount the filesystem with write permissions.
	ErrorCodeFilesystemReadonly ErrorCode = "FILESYSTEM_READONLY"
)

// Index-specific error codes cover the sparse in-segment index: lookups,
// bracketing, and the structural checks applied while a segment footer and
// index region are loaded into memory.
const (
	// ErrorCodeIndexKeyNotFound indicates a key has no entry in the sparse
	// index and was not found by the bracketing scan that follows it.
	ErrorCodeIndexKeyNotFound ErrorCode = "INDEX_KEY_NOT_FOUND"

	// ErrorCodeIndexInvalidSegmentID indicates a segment id referenced by
	// the engine has no corresponding file on disk.
	ErrorCodeIndexInvalidSegmentID ErrorCode = "INDEX_INVALID_SEGMENT_ID"

	// ErrorCodeIndexTimestampExtraction indicates a segment filename could
	// not be parsed for its sequence number.
	ErrorCodeIndexTimestampExtraction ErrorCode = "INDEX_TIMESTAMP_EXTRACTION_FAILURE"

	// ErrorCodeIndexCorrupted indicates the sparse index region failed a
	// structural check (a truncated footer, or an entry whose length runs
	// past the end of the index region). Key order is not checked.
	ErrorCodeIndexCorrupted ErrorCode = "INDEX_CORRUPTED"
)

// Crypto error codes cover the envelope: key derivation and the two AEAD
// directions.
const (
	// ErrorCodeKeyDerivationFailed indicates a key could not be derived for
	// a password. The envelope raises it when the random salt for a new key
	// cannot be read; argon2.IDKey itself returns no error.
	ErrorCodeKeyDerivationFailed ErrorCode = "KEY_DERIVATION_FAILED"

	// ErrorCodeEncryptFailure indicates AES-256-GCM sealing failed.
	ErrorCodeEncryptFailure ErrorCode = "ENCRYPT_FAILURE"

	// ErrorCodeDecryptFailure indicates AES-256-GCM opening failed: either
	// the password/salt pair derives the wrong key, or the ciphertext,
	// nonce, tag, or AAD has been altered.
	ErrorCodeDecryptFailure ErrorCode = "DECRYPT_FAILURE"
)

// Protocol error codes cover the line-oriented command format. WAL replay
// raises the unknown-command and arity codes; the CLI reports its own
// command errors as INVALID_INPUT validation errors.
const (
	// ErrorCodeProtocolUnknownCommand indicates the first token of a
	// command line was not a known command (for a WAL line, anything other
	// than SET).
	ErrorCodeProtocolUnknownCommand ErrorCode = "PROTOCOL_UNKNOWN_COMMAND"

	// ErrorCodeProtocolArity indicates a command line had the wrong number
	// of whitespace-separated tokens for its command.
	ErrorCodeProtocolArity ErrorCode = "PROTOCOL_ARITY"

	// ErrorCodeProtocolOversized indicates a key or value exceeded the
	// 255-byte limit.
	ErrorCodeProtocolOversized ErrorCode = "PROTOCOL_OVERSIZED"
)

// ErrorCodeCodecMalformed indicates a value's binary encoding could not be
// produced or parsed back (marshal/unmarshal failure, or malformed base64
// in a WAL line).
const ErrorCodeCodecMalformed ErrorCode = "CODEC_MALFORMED"

// ErrorCodeChannelClosed indicates a send on the flush handoff channel
// raced with the engine shutting it down.
const ErrorCodeChannelClosed ErrorCode = "CHANNEL_CLOSED"
