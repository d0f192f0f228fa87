package wal

import (
	"os"
	"path/filepath"
	"testing"

	sealcrypto "github.com/iamNilotpal/sealkv/internal/crypto"
	"github.com/iamNilotpal/sealkv/pkg/valuecodec"
)

func TestAppendAndReplayRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wal.log")

	handle, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	envelope, err := sealcrypto.New("hunter2")
	if err != nil {
		t.Fatal(err)
	}
	codec := valuecodec.StringCodec{}

	if err := Append(handle, "a", "1", codec, envelope); err != nil {
		t.Fatal(err)
	}
	if err := Append(handle, "b", "2", codec, envelope); err != nil {
		t.Fatal(err)
	}
	if err := handle.Close(); err != nil {
		t.Fatal(err)
	}

	recovered := map[string]string{}
	if err := Replay(path, "hunter2", codec, func(k, v string) { recovered[k] = v }); err != nil {
		t.Fatal(err)
	}

	if recovered["a"] != "1" || recovered["b"] != "2" {
		t.Fatalf("got %#v, want a=1 b=2", recovered)
	}
}

func TestReplayMissingFileIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wal.log")

	if err := Replay(path, "hunter2", valuecodec.StringCodec{}, func(k, v string) {
		t.Fatalf("unexpected insert for missing file: %q=%q", k, v)
	}); err != nil {
		t.Fatal(err)
	}
}

func TestReplaySkipsLinesThatFailToDecrypt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wal.log")

	handle, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	codec := valuecodec.StringCodec{}

	goodEnv, err := sealcrypto.New("correct-password")
	if err != nil {
		t.Fatal(err)
	}
	if err := Append(handle, "good", "1", codec, goodEnv); err != nil {
		t.Fatal(err)
	}

	badEnv, err := sealcrypto.New("a-different-password")
	if err != nil {
		t.Fatal(err)
	}
	if err := Append(handle, "bad", "2", codec, badEnv); err != nil {
		t.Fatal(err)
	}
	if err := handle.Close(); err != nil {
		t.Fatal(err)
	}

	recovered := map[string]string{}
	if err := Replay(path, "correct-password", codec, func(k, v string) { recovered[k] = v }); err != nil {
		t.Fatal(err)
	}

	if _, ok := recovered["bad"]; ok {
		t.Fatal("line sealed under a different password should have been skipped")
	}
	if recovered["good"] != "1" {
		t.Fatalf("got %#v, want good=1", recovered)
	}
}

func TestReplayRejectsMalformedLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wal.log")

	if err := os.WriteFile(path, []byte("SET only-two-tokens\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Replay(path, "hunter2", valuecodec.StringCodec{}, func(k, v string) {}); err == nil {
		t.Fatal("expected a structural replay error for a malformed line")
	}
}

func TestReplayRejectsUnknownCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wal.log")

	if err := os.WriteFile(path, []byte("DELETE a b c d\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Replay(path, "hunter2", valuecodec.StringCodec{}, func(k, v string) {}); err == nil {
		t.Fatal("expected a structural replay error for an unknown command")
	}
}

func TestRotateArchivesAndReopens(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wal.log")
	archiveDir := filepath.Join(dir, "archive")

	handle, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	envelope, err := sealcrypto.New("hunter2")
	if err != nil {
		t.Fatal(err)
	}
	codec := valuecodec.StringCodec{}
	if err := Append(handle, "a", "1", codec, envelope); err != nil {
		t.Fatal(err)
	}

	if err := handle.Rotate(archiveDir); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(archiveDir, "wal_log")); err != nil {
		t.Fatalf("expected archived WAL at archive/wal_log: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected a fresh wal.log after rotation: %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("fresh WAL should be empty, got size %d", info.Size())
	}

	if err := Append(handle, "b", "2", codec, envelope); err != nil {
		t.Fatal(err)
	}
	if err := handle.Close(); err != nil {
		t.Fatal(err)
	}
}
