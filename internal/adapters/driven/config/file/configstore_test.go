package file

import (
	"os"
	"path/filepath"
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
	assert.Empty(t, store.Keys())
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	nestedPath := filepath.Join(t.TempDir(), "nested", "deep")

	store, err := NewConfigStore(nestedPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(nestedPath, "config.toml"), store.Path())

	info, err := os.Stat(nestedPath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("this is not valid TOML {{{[["), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("sync.past_horizon", "-1h"))
	require.NoError(t, store.Set("sync.page_size", 128))
	require.NoError(t, store.Set("google.requests_per_second", 2.5))
	require.NoError(t, store.Set("watch.enabled", true))

	assert.Equal(t, "-1h", store.GetString("sync.past_horizon"))
	assert.Equal(t, 128, store.GetInt("sync.page_size"))
	assert.InDelta(t, 2.5, store.GetFloat("google.requests_per_second"), 0.0001)
	assert.InDelta(t, 128.0, store.GetFloat("sync.page_size"), 0.0001)
	assert.True(t, store.GetBool("watch.enabled"))

	// Wrong types and missing keys yield zero values
	assert.Empty(t, store.GetString("sync.page_size"))
	assert.Zero(t, store.GetInt("sync.past_horizon"))
	assert.Zero(t, store.GetFloat("sync.past_horizon"))
	assert.False(t, store.GetBool("sync.past_horizon"))
	assert.Empty(t, store.GetString("missing"))

	val, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_PersistsAsTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("sync.cleanup", "delete_old"))
	require.NoError(t, store.Set("sync.page_size", 64))
	require.NoError(t, store.Set("server.address", "127.0.0.1:9000"))

	content, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(content), "[sync]")
	assert.Contains(t, string(content), "[server]")
	assert.NotContains(t, string(content), `"sync.cleanup"`)

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "delete_old", reloaded.GetString("sync.cleanup"))
	assert.Equal(t, 64, reloaded.GetInt("sync.page_size"))
	assert.Equal(t, "127.0.0.1:9000", reloaded.GetString("server.address"))
	assert.Equal(t, []string{"server.address", "sync.cleanup", "sync.page_size"}, reloaded.Keys())
}

func TestConfigStore_LoadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[sync]
past_horizon = "-2w"
refresh_interval = "4h"
page_size = 250

[google]
requests_per_second = 10
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "-2w", store.GetString("sync.past_horizon"))
	assert.Equal(t, "4h", store.GetString("sync.refresh_interval"))
	assert.Equal(t, 250, store.GetInt("sync.page_size"))
	assert.InDelta(t, 10.0, store.GetFloat("google.requests_per_second"), 0.0001)
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("# Just a comment\n\n"), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	_, ok := store.Get("sync.page_size")
	assert.False(t, ok)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("sync.cleanup", "none"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Save_Explicit(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	store.mu.Lock()
	store.data["sync.default_owner"] = "42"
	store.mu.Unlock()

	require.NoError(t, store.Save())

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "42", reloaded.GetString("sync.default_owner"))
}

func TestConfigStore_Save_WriteFileError(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("sync.cleanup", "none"))

	// Replace the file with a directory to cause write error
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("sync.page_size", 10))
}

func TestConfigStore_Load_InvalidTOML(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("sync.cleanup", "none"))

	require.NoError(t, os.WriteFile(store.Path(), []byte("invalid toml syntax ][}{"), 0600))

	assert.Error(t, store.Load())
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Set("channel", make(chan int)))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			key := "sync.key" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_ = store.GetFloat(key)
			_ = store.Keys()
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestNestMap(t *testing.T) {
	tests := []struct {
		name string
		flat map[string]any
		want map[string]any
	}{
		{
			name: "groups by table",
			flat: map[string]any{"sync.a": 1, "sync.b": 2, "top": true},
			want: map[string]any{"sync": map[string]any{"a": 1, "b": 2}, "top": true},
		},
		{
			name: "scalar collision keeps quoted key",
			flat: map[string]any{"sync": "x", "sync.a": 1},
			want: map[string]any{"sync": "x", "sync.a": 1},
		},
		{
			name: "deep keys",
			flat: map[string]any{"a.b.c": "v"},
			want: map[string]any{"a": map[string]any{"b": map[string]any{"c": "v"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nestMap(tt.flat))
			assert.Equal(t, tt.flat, flattenMap(nestMap(tt.flat), ""))
		})
	}
}
