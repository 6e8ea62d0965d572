package driven

// ConfigStore holds flattened dot-keyed settings such as "llm.provider".
// Typed getters return the zero value for missing keys or mismatched types.
type ConfigStore interface {
	// Get returns the raw value and whether the key exists.
	Get(key string) (any, bool)

	GetString(key string) string

	// GetInt accepts the int64 values a TOML decode produces.
	GetInt(key string) int

	GetBool(key string) bool

	GetStringSlice(key string) []string

	// Set stores a value. File-backed stores persist it immediately.
	Set(key string, value any) error

	// Save writes the current values to storage.
	Save() error

	// Load replaces the current values with those in storage.
	Load() error

	// Path returns the backing file, or ":memory:".
	Path() string
}
