package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docimages/internal/host"
)

func nopFactory(app *host.App, _ Config) (Backend, error) {
	return &fakeBackend{BaseBackend: BaseBackend{App: app}}, nil
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	info := BackendInfo{Name: "Fake", Package: "example.com/fake", Factory: nopFactory}

	require.NoError(t, r.Register(info))
	assert.True(t, r.Has("Fake"))
	assert.Equal(t, 1, r.Count())

	err := r.Register(info)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered by example.com/fake")

	got, ok := r.Get("Fake")
	require.True(t, ok)
	assert.Equal(t, "example.com/fake", got.Package)

	require.NoError(t, r.Unregister("Fake"))
	assert.False(t, r.Has("Fake"))
	assert.Error(t, r.Unregister("Fake"))
}

func TestRegistryRejectsInvalidMetadata(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(BackendInfo{Package: "p", Factory: nopFactory}))
	assert.Error(t, r.Register(BackendInfo{Name: "n", Factory: nopFactory}))
	assert.Error(t, r.Register(BackendInfo{Name: "n", Package: "p"}))
	assert.Zero(t, r.Count())
}

func TestRegistryListNaturalOrder(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"Gallery10", "Gallery2", "Alpha"} {
		require.NoError(t, r.Register(BackendInfo{Name: name, Package: "p", Factory: nopFactory}))
	}
	assert.Equal(t, []string{"Alpha", "Gallery2", "Gallery10"}, r.Names())
}

func TestRegisterBackendPanicsOnDuplicate(t *testing.T) {
	info := BackendInfo{Name: "registry-test-dup", Package: "p", Factory: nopFactory}
	RegisterBackend(info)
	t.Cleanup(func() { _ = DefaultRegistry().Unregister(info.Name) })
	assert.Panics(t, func() { RegisterBackend(info) })
}
