// Package cipherbox provides password-keyed AES-CBC encryption for hidden
// messages. Ciphertext travels as base64(IV ‖ cipher output) so it can be
// embedded as plain text bits.
package cipherbox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/stegavox/stegavox/domain/entities"
)

// DeriveKey hashes the UTF-8 password bytes into a 32-byte AES key. The
// derivation is deterministic and unsalted: the same password always yields
// the same key. Known weakness of the scheme, kept for wire compatibility.
func DeriveKey(password string) []byte {
	key := sha256.Sum256([]byte(password))
	return key[:]
}

// Encrypt encrypts plaintext under a password-derived key with a fresh random
// IV per call, so two encryptions of the same message never produce the same
// output.
func Encrypt(plaintext, password string) (string, error) {
	block, err := aes.NewCipher(DeriveKey(password))
	if err != nil {
		return "", fmt.Errorf("creating cipher: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("generating IV: %w", err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	envelope := make([]byte, 0, len(iv)+len(ciphertext))
	envelope = append(envelope, iv...)
	envelope = append(envelope, ciphertext...)
	return base64.StdEncoding.EncodeToString(envelope), nil
}

// Decrypt reverses Encrypt. Wrong passwords and corrupted ciphertext surface
// as *entities.DecryptionError; the error never carries the password or any
// recovered bytes.
func Decrypt(encoded, password string) (string, error) {
	envelope, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", &entities.DecryptionError{Reason: "ciphertext is not valid base64"}
	}
	if len(envelope) < aes.BlockSize || (len(envelope)-aes.BlockSize)%aes.BlockSize != 0 {
		return "", &entities.DecryptionError{Reason: "ciphertext length is not aligned with the cipher block size"}
	}

	block, err := aes.NewCipher(DeriveKey(password))
	if err != nil {
		return "", fmt.Errorf("creating cipher: %w", err)
	}

	iv := envelope[:aes.BlockSize]
	ciphertext := envelope[aes.BlockSize:]
	if len(ciphertext) == 0 {
		return "", &entities.DecryptionError{Reason: "ciphertext is empty"}
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	plaintext, err := pkcs7Unpad(padded)
	if err != nil {
		return "", &entities.DecryptionError{Reason: "invalid padding, wrong password or corrupted ciphertext"}
	}
	if !utf8.Valid(plaintext) {
		return "", &entities.DecryptionError{Reason: "decrypted bytes are not valid UTF-8"}
	}
	return string(plaintext), nil
}
