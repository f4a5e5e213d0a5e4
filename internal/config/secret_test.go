// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSecretBox_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	box, err := OpenSecretBox("correct horse battery", dir)
	if err != nil {
		t.Fatalf("OpenSecretBox() error = %v", err)
	}

	sealed, err := box.EncryptString("sk-backend-key-42")
	if err != nil {
		t.Fatalf("EncryptString() error = %v", err)
	}
	if !strings.HasPrefix(sealed, EncryptedPrefix) {
		t.Errorf("sealed value missing %s prefix: %q", EncryptedPrefix, sealed)
	}
	if strings.Contains(sealed, "sk-backend-key-42") {
		t.Error("sealed value contains plaintext")
	}

	plain, err := box.DecryptString(sealed)
	if err != nil {
		t.Fatalf("DecryptString() error = %v", err)
	}
	if plain != "sk-backend-key-42" {
		t.Errorf("round trip = %q", plain)
	}
}

func TestSecretBox_SaltPersists(t *testing.T) {
	dir := t.TempDir()

	box1, err := OpenSecretBox("pass", dir)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	sealed, err := box1.EncryptString("secret")
	if err != nil {
		t.Fatalf("EncryptString() error = %v", err)
	}

	// A second box with the same passphrase and directory must derive the
	// same key from the persisted salt.
	box2, err := OpenSecretBox("pass", dir)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	plain, err := box2.DecryptString(sealed)
	if err != nil {
		t.Fatalf("DecryptString() error = %v", err)
	}
	if plain != "secret" {
		t.Errorf("got %q", plain)
	}

	info, err := os.Stat(filepath.Join(dir, "secret.salt"))
	if err != nil {
		t.Fatalf("salt file missing: %v", err)
	}
	if info.Size() != SaltSize {
		t.Errorf("salt size = %d, want %d", info.Size(), SaltSize)
	}
}

func TestSecretBox_WrongPassphrase(t *testing.T) {
	dir := t.TempDir()

	box1, _ := OpenSecretBox("right", dir)
	sealed, err := box1.EncryptString("secret")
	if err != nil {
		t.Fatalf("EncryptString() error = %v", err)
	}

	box2, _ := OpenSecretBox("wrong", dir)
	if _, err := box2.DecryptString(sealed); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestSecretBox_Passthrough(t *testing.T) {
	dir := t.TempDir()
	box, err := OpenSecretBox("pass", dir)
	if err != nil {
		t.Fatalf("OpenSecretBox() error = %v", err)
	}

	// Plaintext values without the prefix decrypt to themselves.
	plain, err := box.DecryptString("not-encrypted")
	if err != nil {
		t.Fatalf("DecryptString() error = %v", err)
	}
	if plain != "not-encrypted" {
		t.Errorf("got %q", plain)
	}

	// Empty values never get sealed.
	sealed, err := box.EncryptString("")
	if err != nil {
		t.Fatalf("EncryptString() error = %v", err)
	}
	if sealed != "" {
		t.Errorf("empty value should pass through, got %q", sealed)
	}

	// Double encryption is a no-op.
	once, _ := box.EncryptString("value")
	twice, err := box.EncryptString(once)
	if err != nil {
		t.Fatalf("EncryptString() error = %v", err)
	}
	if once != twice {
		t.Error("already-encrypted value was re-encrypted")
	}
}

func TestConfig_SealUnsealAPIKey(t *testing.T) {
	dir := t.TempDir()
	box, err := OpenSecretBox("pass", dir)
	if err != nil {
		t.Fatalf("OpenSecretBox() error = %v", err)
	}

	cfg := Default()
	cfg.Backend.APIKey = "sk-live-key"

	if err := cfg.SealAPIKey(box); err != nil {
		t.Fatalf("SealAPIKey() error = %v", err)
	}
	if !IsEncrypted(cfg.Backend.APIKey) {
		t.Error("API key should be encrypted after sealing")
	}

	if err := cfg.UnsealAPIKey(box); err != nil {
		t.Fatalf("UnsealAPIKey() error = %v", err)
	}
	if cfg.Backend.APIKey != "sk-live-key" {
		t.Errorf("unsealed key = %q", cfg.Backend.APIKey)
	}
}

func TestSecretBox_TamperedCiphertext(t *testing.T) {
	dir := t.TempDir()
	box, err := OpenSecretBox("pass", dir)
	if err != nil {
		t.Fatalf("OpenSecretBox() error = %v", err)
	}

	if _, err := box.DecryptString("ENC:!!!not-base64!!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
	if _, err := box.DecryptString("ENC:AAAA"); !errors.Is(err, ErrInvalidCiphertext) {
		t.Errorf("expected ErrInvalidCiphertext for short payload, got %v", err)
	}
}
