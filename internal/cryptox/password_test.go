package cryptox

import (
	"strings"
	"testing"
)

// testHasher uses light parameters so the suite stays fast.
func testHasher() *PasswordHasher {
	return &PasswordHasher{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}
}

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := testHasher()

	encoded, err := h.Hash([]byte("p@ss"))
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Fatalf("expected encoded argon2id hash, got %q", encoded)
	}

	ok, err := h.Verify(encoded, []byte("p@ss"))
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Errorf("expected correct password to verify")
	}

	ok, err = h.Verify(encoded, []byte("wrong"))
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if ok {
		t.Errorf("expected wrong password to fail verification")
	}
}

func TestPasswordHasher_SaltedHashesDiffer(t *testing.T) {
	h := testHasher()

	h1, err := h.Hash([]byte("p@ss"))
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	h2, err := h.Hash([]byte("p@ss"))
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if h1 == h2 {
		t.Errorf("expected different encodings for the same password (fresh salts)")
	}

	// Both must still verify.
	for _, enc := range []string{h1, h2} {
		ok, err := h.Verify(enc, []byte("p@ss"))
		if err != nil || !ok {
			t.Fatalf("expected %q to verify, got ok=%v err=%v", enc, ok, err)
		}
	}
}

func TestPasswordHasher_VerifyUsesStoredParameters(t *testing.T) {
	// The verifier must honour the parameters embedded in the encoded hash,
	// not its own, so hashes survive a parameter upgrade.
	old := &PasswordHasher{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}
	encoded, err := old.Hash([]byte("p@ss"))
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	upgraded := &PasswordHasher{Time: 2, Memory: 16 * 1024, Threads: 2, KeyLen: 32, SaltLen: 16}
	ok, err := upgraded.Verify(encoded, []byte("p@ss"))
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Errorf("expected hash created under old parameters to verify")
	}
}

func TestPasswordHasher_MalformedEncoding(t *testing.T) {
	h := testHasher()

	for _, bad := range []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192,t=1,p=1$not-base64!$aGFzaA",
	} {
		if _, err := h.Verify(bad, []byte("p@ss")); err == nil {
			t.Errorf("expected error for malformed hash %q", bad)
		}
	}
}
