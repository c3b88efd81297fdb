package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPasswordCost is the bcrypt work factor used outside of tests.
const DefaultPasswordCost = 12

// Stored values shorter than this without a bcrypt prefix are legacy plaintext.
const legacyDigestMaxLen = 30

// PasswordHasher hashes and verifies passwords.
//
// Besides bcrypt digests it can accept legacy plaintext records imported from
// the previous system. That path is weaker and only exists so those accounts
// can log in once and be re-hashed; disable it with AllowLegacy=false once all
// records are migrated.
type PasswordHasher struct {
	Cost        int
	AllowLegacy bool
}

func NewPasswordHasher(cost int, allowLegacy bool) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultPasswordCost
	}
	return PasswordHasher{Cost: cost, AllowLegacy: allowLegacy}
}

func (h PasswordHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether password matches digest, and whether digest was a
// legacy plaintext value that should be re-hashed.
func (h PasswordHasher) Verify(password, digest string) (match, legacy bool) {
	if IsLegacyDigest(digest) {
		if !h.AllowLegacy {
			return false, true
		}
		return subtle.ConstantTimeCompare([]byte(password), []byte(digest)) == 1, true
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil, false
}

func IsLegacyDigest(digest string) bool {
	return len(digest) < legacyDigestMaxLen && !strings.HasPrefix(digest, "$2")
}
