// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for studio.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - BackendConfig: Toolkit backend connection settings
//   - StorageConfig: Thread and results library persistence settings
//   - SecretBox: Encryption for API keys at rest (ENC: prefixed values)
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (STUDIO_*)
//   - ~/.studio/config.toml
//   - ~/.studio/config.json
//   - Built-in defaults
package config
