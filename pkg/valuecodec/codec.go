// Package valuecodec isolates the two capabilities a stored value type
// needs: a text form for the CLI protocol (parse/format) and a binary form
// for what actually gets sealed into the WAL and segment files
// (marshal/unmarshal). sealkv commits to string as its concrete value type
// (StringCodec) while keeping every downstream package — memtable,
// segment, wal — generic over Codec[V], so a future value type only needs
// a new Codec implementation, not changes to the storage engine.
package valuecodec

// Codec binds a value type V to its text and binary representations.
type Codec[V any] interface {
	// Parse converts a CLI-supplied text argument into a value. Used once,
	// at the point a SET command is accepted.
	Parse(text string) (V, error)

	// Format converts a value back into text for a GET response.
	Format(v V) string

	// Marshal converts a value into the bytes that get sealed into the WAL
	// and into segment data records.
	Marshal(v V) ([]byte, error)

	// Unmarshal is Marshal's inverse, used when a record is decrypted
	// during WAL replay or a segment read.
	Unmarshal(data []byte) (V, error)
}

// StringCodec is the Codec sealkv uses today: values are opaque UTF-8 text,
// so every conversion is a no-op reinterpretation of the same bytes.
type StringCodec struct{}

func (StringCodec) Parse(text string) (string, error) { return text, nil }

func (StringCodec) Format(v string) string { return v }

func (StringCodec) Marshal(v string) ([]byte, error) { return []byte(v), nil }

func (StringCodec) Unmarshal(data []byte) (string, error) { return string(data), nil }
