// Package config loads and validates captrack configuration.
//
// Configuration comes from three layers, later layers overriding earlier:
//
//  1. Hardcoded defaults (defaultConfig)
//  2. A YAML file (configs/config.yaml by default)
//  3. CAPTRACK_* environment variables (for secrets and deploy overrides)
//
// The loaded Config is immutable after Load returns; packages receive the
// sub-section they need (config.DatabaseConfig, config.MQTTConfig, ...) rather
// than the whole tree.
package config
