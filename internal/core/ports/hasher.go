package ports

// PasswordHasher performs one-way, salted hashing of plaintext passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}
