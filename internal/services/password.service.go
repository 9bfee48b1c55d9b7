package services

import (
	"strings"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

var defaultArgon2Params = &argon2id.Params{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

// PasswordService hashes new passwords with argon2id and still verifies bcrypt
// hashes imported from the previous system.
type PasswordService struct {
	params *argon2id.Params
	log    logger.Logger
}

func NewPasswordService() *PasswordService {
	return &PasswordService{
		params: defaultArgon2Params,
		log:    logger.New("passwordService"),
	}
}

func (s *PasswordService) Hash(password string) (string, error) {
	hash, err := argon2id.CreateHash(password, s.params)
	if err != nil {
		return "", s.log.Function("Hash").Err("failed to hash password", err)
	}
	return hash, nil
}

// Verify never errors on a mismatch; an error means the stored hash is unusable.
func (s *PasswordService) Verify(password, encodedHash string) (bool, error) {
	if isBcryptHash(encodedHash) {
		err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return false, nil
		}
		if err != nil {
			return false, s.log.Function("Verify").Err("invalid bcrypt hash", err)
		}
		return true, nil
	}

	match, err := argon2id.ComparePasswordAndHash(password, encodedHash)
	if err != nil {
		return false, s.log.Function("Verify").Err("invalid argon2id hash", err)
	}
	return match, nil
}

func isBcryptHash(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") ||
		strings.HasPrefix(hash, "$2b$") ||
		strings.HasPrefix(hash, "$2y$")
}
