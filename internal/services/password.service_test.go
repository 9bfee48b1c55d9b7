package services

import (
	"testing"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/alexedwards/argon2id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestPasswordService() *PasswordService {
	return &PasswordService{
		params: &argon2id.Params{
			Memory:      8 * 1024,
			Iterations:  1,
			Parallelism: 1,
			SaltLength:  16,
			KeyLength:   32,
		},
		log: logger.New("passwordService"),
	}
}

func TestPasswordService_HashAndVerify(t *testing.T) {
	service := newTestPasswordService()

	hash, err := service.Hash("camarera123")
	require.NoError(t, err)
	assert.NotEqual(t, "camarera123", hash)

	match, err := service.Verify("camarera123", hash)
	require.NoError(t, err)
	assert.True(t, match)

	match, err = service.Verify("wrong", hash)
	require.NoError(t, err)
	assert.False(t, match)
}

func TestPasswordService_VerifyBcrypt(t *testing.T) {
	service := newTestPasswordService()

	legacy, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)

	match, err := service.Verify("admin123", string(legacy))
	require.NoError(t, err)
	assert.True(t, match)

	match, err = service.Verify("admin124", string(legacy))
	require.NoError(t, err)
	assert.False(t, match)
}

func TestPasswordService_VerifyInvalidHash(t *testing.T) {
	service := newTestPasswordService()

	match, err := service.Verify("admin123", "not-a-hash")
	assert.Error(t, err)
	assert.False(t, match)
}
