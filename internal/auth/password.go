package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// Employee portal credentials are stored as "salt:derivedKeyHex": a random
// 16-byte salt and a 32-byte scrypt key, both hex encoded.
const (
	scryptN       = 16384
	scryptR       = 8
	scryptP       = 1
	scryptKeyLen  = 32
	scryptSaltLen = 16
)

var ErrMalformedCredential = errors.New("malformed stored credential")

// HashEmployeePassword derives a fresh salted credential for storage.
func HashEmployeePassword(password string) (string, error) {
	salt := make([]byte, scryptSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// VerifyEmployeePassword re-derives the key with the stored salt and compares
// in constant time.
func VerifyEmployeePassword(stored, password string) (bool, error) {
	saltHex, keyHex, ok := strings.Cut(stored, ":")
	if !ok {
		return false, ErrMalformedCredential
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false, ErrMalformedCredential
	}
	expected, err := hex.DecodeString(keyHex)
	if err != nil {
		return false, ErrMalformedCredential
	}

	derived, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, len(expected))
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare(derived, expected) == 1, nil
}
