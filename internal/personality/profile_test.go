package personality

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProfileClampsTraits(t *testing.T) {
	p, err := ParseProfile([]byte(`
name: jittery
traits:
  openness: 0.2
  neuroticism: 3
  agreeableness: -7
`))
	require.NoError(t, err)
	assert.Equal(t, "jittery", p.Name)
	assert.Equal(t, float32(0.2), p.Traits.Openness)
	assert.Equal(t, float32(1), p.Traits.Neuroticism)
	assert.Equal(t, float32(-1), p.Traits.Agreeableness)
}

func TestParseProfileRejectsBadYAML(t *testing.T) {
	_, err := ParseProfile([]byte("traits: [1, 2"))
	assert.Error(t, err)
}

func TestProfileSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calm.yaml")
	want := Profile{Name: "calm", Traits: NewTraits(0.1, 0.6, -0.2, 0.8, -0.5)}
	require.NoError(t, want.Save(path))

	got, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadProfileDefaultsNameToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("traits:\n  openness: 1\n"), 0644))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "anon", p.Name)
}

func TestResolvePresets(t *testing.T) {
	for _, name := range PresetNames() {
		p, err := Resolve(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, p.Name)
	}

	_, err := Resolve(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.yaml")
	require.NoError(t, Profile{Name: "live"}.Save(path))

	changes := make(chan Profile, 4)
	w, err := NewWatcher(path, func(p Profile) { changes <- p }, zerolog.Nop())
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, Profile{Name: "live", Traits: Traits{Extraversion: 0.75}}.Save(path))

	// A truncating write can surface an empty file first.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case p := <-changes:
			if p.Traits.Extraversion == 0.75 {
				return
			}
		case <-deadline:
			t.Fatal("watcher did not report the profile change")
		}
	}
}

func TestWatcherReportsBadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.yaml")
	require.NoError(t, Profile{Name: "live"}.Save(path))

	failures := make(chan error, 4)
	w, err := NewWatcher(path, func(Profile) {}, zerolog.Nop(), OnReloadError(func(err error) { failures <- err }))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("traits: [unclosed"), 0644))

	select {
	case err := <-failures:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the bad profile")
	}
}
