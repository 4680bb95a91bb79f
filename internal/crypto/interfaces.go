package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/password_hasher_mock.go -package=mock

// PasswordHasher derives and verifies password hashes for the credential
// store. Hashes are self-describing strings, so the parameters used at
// signup travel with the stored identity.
type PasswordHasher interface {
	// Hash derives a salted hash of password with a fresh random salt.
	Hash(password string) (string, error)

	// Verify reports whether password matches the encoded hash. A malformed
	// hash is an error, a mismatch is (false, nil).
	Verify(password, encodedHash string) (bool, error)
}
