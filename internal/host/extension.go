package host

import (
	"fmt"
	"sort"
	"sync"
)

// Metadata is returned by an extension's setup function.
type Metadata struct {
	Version          string
	ParallelReadSafe bool
}

// SetupFunc installs an extension into an App.
type SetupFunc func(app *App) (Metadata, error)

var (
	extensionsMu sync.RWMutex
	extensions   = make(map[string]SetupFunc)
)

// RegisterExtension makes an extension available by name. It is intended to
// be called from the init function of the extension's package and panics if
// setup is nil or the name is taken.
func RegisterExtension(name string, setup SetupFunc) {
	extensionsMu.Lock()
	defer extensionsMu.Unlock()
	if setup == nil {
		panic("host: RegisterExtension setup is nil")
	}
	if _, dup := extensions[name]; dup {
		panic("host: RegisterExtension called twice for extension " + name)
	}
	extensions[name] = setup
}

// LookupExtension returns the setup function registered under name.
func LookupExtension(name string) (SetupFunc, bool) {
	extensionsMu.RLock()
	defer extensionsMu.RUnlock()
	setup, ok := extensions[name]
	return setup, ok
}

// Extensions returns the sorted names of all registered extensions.
func Extensions() []string {
	extensionsMu.RLock()
	defer extensionsMu.RUnlock()
	names := make([]string, 0, len(extensions))
	for name := range extensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExtensionError reports a failure inside an extension.
type ExtensionError struct {
	Extension string
	Operation string
	Err       error
}

func (e *ExtensionError) Error() string {
	return fmt.Sprintf("extension %s failed during %s: %v", e.Extension, e.Operation, e.Err)
}

func (e *ExtensionError) Unwrap() error {
	return e.Err
}
