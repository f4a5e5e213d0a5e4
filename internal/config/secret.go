// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/brightfold/studio-tui/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// EncryptedPrefix marks a config value as encrypted (format: ENC:base64(nonce|ciphertext|tag))
const EncryptedPrefix = "ENC:"

// NonceSize is the size of the nonce/IV for AES-GCM (12 bytes / 96 bits)
const NonceSize = 12

// KeySize is the size of the AES-256 key (32 bytes / 256 bits)
const KeySize = 32

// SaltSize is the size of the salt for key derivation (32 bytes)
const SaltSize = 32

// PBKDF2Iterations is the number of iterations for PBKDF2-SHA-256 key derivation.
// OWASP 2023 recommends 600,000+ to resist brute force on modern hardware.
const PBKDF2Iterations = 600000

// saltFileName is the salt sidecar stored next to the config file.
const saltFileName = "secret.salt"

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidCiphertext indicates the ciphertext format is invalid
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")
	// ErrDecryptionFailed indicates decryption failed (wrong passphrase or tampered data)
	ErrDecryptionFailed = errors.New("decryption failed: authentication tag mismatch")
)

// =============================================================================
// SECRET BOX
// =============================================================================

// SecretBox encrypts and decrypts sensitive config values, primarily the
// backend API key, so they can live on disk with an ENC: prefix instead of
// plaintext. Keys are derived from a passphrase with PBKDF2-SHA-256 and a
// per-installation salt stored beside the config file.
type SecretBox struct {
	aead cipher.AEAD
}

// OpenSecretBox derives a key from the passphrase and the salt stored in dir,
// creating a new random salt on first use.
func OpenSecretBox(passphrase, dir string) (*SecretBox, error) {
	salt, err := loadOrCreateSalt(dir)
	if err != nil {
		return nil, err
	}

	key := DeriveKey(passphrase, salt)
	// SECURITY: Zero key material to prevent memory disclosure via crash dumps.
	defer zeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GCM: %w", err)
	}

	return &SecretBox{aead: aead}, nil
}

// DeriveKey derives an AES-256 key from a passphrase and salt using PBKDF2-SHA-256.
func DeriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, PBKDF2Iterations, KeySize, sha256.New)
}

// GenerateSalt generates a cryptographically secure random salt.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// loadOrCreateSalt reads the installation salt from dir, creating it if absent.
func loadOrCreateSalt(dir string) ([]byte, error) {
	path := filepath.Join(dir, saltFileName)

	salt, err := os.ReadFile(path)
	if err == nil {
		if len(salt) != SaltSize {
			return nil, fmt.Errorf("corrupted salt file %s: expected %d bytes, got %d", path, SaltSize, len(salt))
		}
		return salt, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read salt file: %w", err)
	}

	salt, err = GenerateSalt()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	// RELIABILITY: Atomic write with fsync prevents data loss on crash
	if err := util.AtomicWriteFile(path, salt, 0600); err != nil {
		return nil, fmt.Errorf("failed to write salt file: %w", err)
	}
	return salt, nil
}

// =============================================================================
// ENCRYPT / DECRYPT
// =============================================================================

// EncryptString encrypts a value and returns base64-encoded ciphertext with
// the ENC: prefix. Empty and already-encrypted values pass through unchanged.
func (b *SecretBox) EncryptString(plaintext string) (string, error) {
	if plaintext == "" || IsEncrypted(plaintext) {
		return plaintext, nil
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Output layout: nonce || ciphertext || tag
	ciphertext := b.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return EncryptedPrefix + base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptString decrypts a base64-encoded value with the ENC: prefix.
// Values without the prefix are returned as-is.
func (b *SecretBox) DecryptString(value string) (string, error) {
	if !IsEncrypted(value) {
		return value, nil
	}

	encoded := strings.TrimPrefix(value, EncryptedPrefix)
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("invalid base64 encoding: %w", err)
	}
	if len(data) < NonceSize {
		return "", ErrInvalidCiphertext
	}

	nonce, ciphertext := data[:NonceSize], data[NonceSize:]
	plaintext, err := b.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}

// IsEncrypted checks if a string value is encrypted (has ENC: prefix).
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, EncryptedPrefix)
}

// zeroBytes zeros sensitive byte slices after use.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// =============================================================================
// CONFIG INTEGRATION
// =============================================================================

// SealAPIKey encrypts the backend API key in place so the config can be
// saved without a plaintext secret.
func (c *Config) SealAPIKey(box *SecretBox) error {
	sealed, err := box.EncryptString(c.Backend.APIKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt api key: %w", err)
	}
	c.Backend.APIKey = sealed
	return nil
}

// UnsealAPIKey decrypts the backend API key in place after loading.
// A plaintext key is left untouched.
func (c *Config) UnsealAPIKey(box *SecretBox) error {
	plain, err := box.DecryptString(c.Backend.APIKey)
	if err != nil {
		return fmt.Errorf("failed to decrypt api key: %w", err)
	}
	c.Backend.APIKey = plain
	return nil
}
