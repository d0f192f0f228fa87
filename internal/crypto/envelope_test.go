package crypto

import "testing"

func TestEnvelopeSealOpenRoundTrip(t *testing.T) {
	env, err := New("hunter2")
	if err != nil {
		t.Fatal(err)
	}

	plaintext := []byte("the quick brown fox")
	aad := []byte("my-key")

	sealed, nonce, err := env.Seal(aad, plaintext)
	if err != nil {
		t.Fatal(err)
	}

	got, err := env.Open(aad, nonce, sealed)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(plaintext) {
		t.Fatalf("got %q, want %q", got, plaintext)
	}
}

func TestEnvelopeWrongPasswordFailsToOpen(t *testing.T) {
	writer, err := New("correct-password")
	if err != nil {
		t.Fatal(err)
	}

	aad := []byte("k1")
	sealed, nonce, err := writer.Seal(aad, []byte("value"))
	if err != nil {
		t.Fatal(err)
	}

	reader, err := NewWithSalt("wrong-password", writer.SaltBytes())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := reader.Open(aad, nonce, sealed); err == nil {
		t.Fatal("expected decryption to fail with the wrong password")
	}
}

func TestEnvelopeWrongAADFailsToOpen(t *testing.T) {
	env, err := New("hunter2")
	if err != nil {
		t.Fatal(err)
	}

	sealed, nonce, err := env.Seal([]byte("key-a"), []byte("value"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := env.Open([]byte("key-b"), nonce, sealed); err == nil {
		t.Fatal("expected decryption to fail when AAD does not match the sealing key")
	}
}

func TestNewWithSaltReconstructsIdenticalKey(t *testing.T) {
	original, err := New("hunter2")
	if err != nil {
		t.Fatal(err)
	}

	aad := []byte("k1")
	sealed, nonce, err := original.Seal(aad, []byte("value"))
	if err != nil {
		t.Fatal(err)
	}

	reconstructed, err := NewWithSalt("hunter2", original.SaltBytes())
	if err != nil {
		t.Fatal(err)
	}

	got, err := reconstructed.Open(aad, nonce, sealed)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "value" {
		t.Fatalf("got %q, want %q", got, "value")
	}
}
