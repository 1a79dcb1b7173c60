package identity

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	SaltLen = 16

	kdfTime    = 1
	kdfMemory  = 64 * 1024
	kdfThreads = 1
	kdfKeyLen  = chacha20poly1305.KeySize
)

var ErrWrongPassword = errors.New("wrong password")

func randomBytes(n int) ([]byte, error) {
	data := make([]byte, n)
	if _, err := rand.Read(data); err != nil {
		return nil, err
	}
	return data, nil
}

func deriveKey(password []byte, salt []byte) ([]byte, error) {
	if len(salt) != SaltLen {
		return nil, fmt.Errorf("invalid salt length: %d", len(salt))
	}
	return argon2.IDKey(password, salt, kdfTime, kdfMemory, kdfThreads, kdfKeyLen), nil
}

// Seal encrypts privateKey under a key derived from password. The returned
// salt must be stored alongside the sealed key.
func Seal(privateKey PrivateKey, password []byte) (salt []byte, sealed []byte, err error) {
	salt, err = randomBytes(SaltLen)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key, err := deriveKey(password, salt)
	if err != nil {
		return nil, nil, err
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, nil, err
	}

	nonce, err := randomBytes(aead.NonceSize())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed = aead.Seal(nonce, nonce, privateKey, nil)
	return salt, sealed, nil
}

func Open(sealed []byte, salt []byte, password []byte) (PrivateKey, error) {
	key, err := deriveKey(password, salt)
	if err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}

	if len(sealed) < aead.NonceSize() {
		return nil, errors.New("sealed key too short")
	}

	opened, err := aead.Open(nil, sealed[:aead.NonceSize()], sealed[aead.NonceSize():], nil)
	if err != nil {
		return nil, ErrWrongPassword
	}

	return PrivateKeyFromBytes(opened)
}
