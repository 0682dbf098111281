// Package file provides file-based implementations of driven port interfaces.
// These adapters read configuration and instructions from the local filesystem.
//
// Adapters:
//   - Loader: layered settings (defaults, TOML file, .env, environment)
//   - InstructionStore: system instructions from user-editable files
package file
