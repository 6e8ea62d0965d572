// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem under ~/.healthrag.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: user-editable synthesis prompts
package file
