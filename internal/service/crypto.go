package service

import (
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const minMasterKeyLen = 32

// SessionKeys are the cookie signing (HMAC-SHA256) and encryption (AES-256)
// keys for the session store.
type SessionKeys struct {
	HashKey  []byte
	BlockKey []byte
}

// DeriveSessionKeys expands the configured master secret into independent
// hash and block keys so the same bytes never serve both purposes.
func DeriveSessionKeys(master string) (*SessionKeys, error) {
	if len(master) < minMasterKeyLen {
		return nil, errors.New("session key must be at least 32 characters")
	}

	hashKey := make([]byte, 64)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(master), nil, []byte("queryadmin cookie hash")), hashKey); err != nil {
		return nil, err
	}

	blockKey := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(master), nil, []byte("queryadmin cookie block")), blockKey); err != nil {
		return nil, err
	}

	return &SessionKeys{HashKey: hashKey, BlockKey: blockKey}, nil
}
