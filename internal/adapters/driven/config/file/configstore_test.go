package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	nestedPath := filepath.Join(t.TempDir(), "nested", "deep")

	store, err := NewConfigStore(nestedPath)

	require.NoError(t, err)
	info, err := os.Stat(nestedPath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
	assert.Equal(t, filepath.Join(nestedPath, "config.toml"), store.Path())
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not valid {{[["), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.provider", "gemini"))
	require.NoError(t, store.Set("orchestrator.source_timeout", 10))
	require.NoError(t, store.Set("debug.enabled", true))
	require.NoError(t, store.Set("sources.extra", []string{"a", "b"}))

	assert.Equal(t, "gemini", store.GetString("llm.provider"))
	assert.Equal(t, 10, store.GetInt("orchestrator.source_timeout"))
	assert.True(t, store.GetBool("debug.enabled"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("sources.extra"))

	// Wrong types and missing keys return zero values.
	assert.Empty(t, store.GetString("orchestrator.source_timeout"))
	assert.Zero(t, store.GetInt("llm.provider"))
	assert.False(t, store.GetBool("llm.provider"))
	assert.Nil(t, store.GetStringSlice("missing"))

	val, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store1.Set("orchestrator.strategy", "iterative"))
	require.NoError(t, store1.Set("orchestrator.source_timeout", 12))
	require.NoError(t, store1.Set("sources.pubmed_email", "ops@example.org"))
	require.NoError(t, store1.Set("top_level", 3.5))

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "iterative", store2.GetString("orchestrator.strategy"))
	assert.Equal(t, 12, store2.GetInt("orchestrator.source_timeout"))
	assert.Equal(t, "ops@example.org", store2.GetString("sources.pubmed_email"))
	floatVal, ok := store2.Get("top_level")
	require.True(t, ok)
	assert.InDelta(t, 3.5, floatVal, 0.0001)
}

func TestConfigStore_WritesTables(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.provider", "ollama"))
	require.NoError(t, store.Set("llm.model", "llama3.2"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[llm]")
	assert.Contains(t, string(data), "provider = 'ollama'")
}

func TestConfigStore_ReadsHandWrittenTables(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[orchestrator]
strategy = "sequential"
source_timeout = 4

[sources]
corpus_path = "/srv/Data.txt"
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "sequential", store.GetString("orchestrator.strategy"))
	assert.Equal(t, 4, store.GetInt("orchestrator.source_timeout"))
	assert.Equal(t, "/srv/Data.txt", store.GetString("sources.corpus_path"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.api_key", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("# comment only\n"), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	_, ok := store.Get("any_key")
	assert.False(t, ok)
}

func TestConfigStore_Set_WriteFailureRollsBack(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("llm.model", "original"))

	// Replace the file with a directory so the write fails.
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("llm.model", "updated"))
	assert.Equal(t, "original", store.GetString("llm.model"))

	assert.Error(t, store.Set("llm.base_url", "http://x"))
	_, ok := store.Get("llm.base_url")
	assert.False(t, ok)
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Set("channel", make(chan int)))
	_, ok := store.Get("channel")
	assert.False(t, ok)
}

func TestConfigStore_Load_InvalidTOML(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("valid", "data"))

	require.NoError(t, os.WriteFile(store.Path(), []byte("invalid ][}{"), 0600))

	assert.Error(t, store.Load())
}

func TestConfigStore_Save_Explicit(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	store.mu.Lock()
	store.data["sources.who_base_url"] = "http://who.test"
	store.mu.Unlock()
	require.NoError(t, store.Save())

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "http://who.test", store2.GetString("sources.who_base_url"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := "workers.key" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_, _ = store.Get(key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 7, store.GetInt("workers.key7"))
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"llm.provider": "openai",
		"llm.model":    "gpt-4o-mini",
		"plain":        1,
	})

	assert.Equal(t, map[string]any{
		"llm":   map[string]any{"provider": "openai", "model": "gpt-4o-mini"},
		"plain": 1,
	}, nested)
}

func TestNestMap_LeafAndTableConflict(t *testing.T) {
	nested := nestMap(map[string]any{
		"llm.options":      "flat",
		"llm.options.seed": 7,
	})

	// Whichever key lands second keeps its full dotted name.
	flat := flattenMap(nested, "")
	assert.Equal(t, "flat", flat["llm.options"])
	assert.Equal(t, 7, flat["llm.options.seed"])
}
