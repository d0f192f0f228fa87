package segment

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"go.uber.org/zap"

	sealcrypto "github.com/iamNilotpal/sealkv/internal/crypto"
	"github.com/iamNilotpal/sealkv/internal/memtable"
	"github.com/iamNilotpal/sealkv/pkg/errors"
	"github.com/iamNilotpal/sealkv/pkg/valuecodec"
)

func writeTestSegment(t *testing.T, dir string, n uint64, envelope *sealcrypto.Envelope, entries []memtable.Entry[string], density int) string {
	t.Helper()
	path := filepath.Join(dir, "segment_"+strconv.FormatUint(n, 10)+".sstable")
	cfg := WriterConfig{Envelope: envelope, Density: density, Logger: zap.NewExample().Sugar()}
	if err := WriteSegment(path, entries, valuecodec.StringCodec{}, cfg); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWriteAndReadSegmentRoundTrip(t *testing.T) {
	dir := t.TempDir()
	envelope, err := sealcrypto.New("hunter2")
	if err != nil {
		t.Fatal(err)
	}

	entries := []memtable.Entry[string]{
		{Key: "a", Value: "1"},
		{Key: "b", Value: "2"},
		{Key: "c", Value: "3"},
		{Key: "d", Value: "4"},
	}
	path := writeTestSegment(t, dir, 0, envelope, entries, 2)

	reader, err := OpenSegment(path, "hunter2", valuecodec.StringCodec{})
	if err != nil {
		t.Fatal(err)
	}

	for _, e := range entries {
		v, ok, err := reader.Get(e.Key)
		if err != nil {
			t.Fatalf("Get(%q): %v", e.Key, err)
		}
		if !ok || v != e.Value {
			t.Fatalf("Get(%q) = (%q, %v), want (%q, true)", e.Key, v, ok, e.Value)
		}
	}

	if _, ok, err := reader.Get("missing"); err != nil || ok {
		t.Fatalf("Get(missing) = (_, %v, %v), want (_, false, nil)", ok, err)
	}
}

func TestFooterRegionLengthsMatchFileSize(t *testing.T) {
	dir := t.TempDir()
	envelope, err := sealcrypto.New("hunter2")
	if err != nil {
		t.Fatal(err)
	}

	entries := []memtable.Entry[string]{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}}
	path := writeTestSegment(t, dir, 0, envelope, entries, 2)

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	footer, err := DecodeFooter(raw[len(raw)-FooterSize:])
	if err != nil {
		t.Fatal(err)
	}
	if footer.DataLen+footer.IndexLen+FooterSize != uint64(len(raw)) {
		t.Fatalf("data_len(%d)+index_len(%d)+footer(%d) != file_size(%d)",
			footer.DataLen, footer.IndexLen, FooterSize, len(raw))
	}
}

func TestOpenSegmentWrongPasswordYieldsDecryptError(t *testing.T) {
	dir := t.TempDir()
	envelope, err := sealcrypto.New("correct-password")
	if err != nil {
		t.Fatal(err)
	}

	entries := []memtable.Entry[string]{{Key: "a", Value: "1"}}
	path := writeTestSegment(t, dir, 0, envelope, entries, 2)

	reader, err := OpenSegment(path, "wrong-password", valuecodec.StringCodec{})
	if err != nil {
		t.Fatal(err)
	}

	_, _, err = reader.Get("a")
	if err == nil {
		t.Fatal("expected a decrypt error with the wrong password")
	}
	if !errors.IsCryptoError(err) {
		t.Fatalf("got %v (%T), want a CryptoError", err, err)
	}
}

func TestIteratorNewestSegmentWins(t *testing.T) {
	dir := t.TempDir()
	envelope, err := sealcrypto.New("hunter2")
	if err != nil {
		t.Fatal(err)
	}

	writeTestSegment(t, dir, 0, envelope, []memtable.Entry[string]{{Key: "a", Value: "old"}}, 2)
	writeTestSegment(t, dir, 1, envelope, []memtable.Entry[string]{{Key: "a", Value: "new"}}, 2)

	it := NewIterator(dir, "segment", "hunter2", valuecodec.StringCodec{})
	v, ok, err := it.Get("a", 2)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || v != "new" {
		t.Fatalf("got (%q, %v), want (new, true)", v, ok)
	}
}
