package plugin

import "github.com/dalnet/irccd/internal/ircerr"

// Loader resolves a plugin identifier to a plugin instance. Load returns
// (nil, nil) when this loader simply doesn't know the id -- the chain
// keeps trying the next loader; it returns an error only for an actual
// failure to load a plugin it does recognize (spec §6.4: "given id or
// (id, path) yields a plugin instance... first non-null wins").
type Loader interface {
	Load(id string) (Handlers, error)
}

// LoaderFunc adapts a plain function to Loader.
type LoaderFunc func(id string) (Handlers, error)

func (f LoaderFunc) Load(id string) (Handlers, error) { return f(id) }

// Chain tries each Loader in order and returns the first non-nil plugin.
type Chain []Loader

func (c Chain) Load(id string) (Handlers, error) {
	for _, l := range c {
		p, err := l.Load(id)
		if err != nil {
			return nil, err
		}
		if p != nil {
			return p, nil
		}
	}
	return nil, ircerr.PluginNotFound(id)
}

// NativeLoader resolves plugin ids against a static table of in-process Go
// constructors, registered at build time by an embedder. This is the only
// loader this module ships a real implementation for: spec §1 keeps the
// scripting-plugin runtime itself an external collaborator (a non-goal is
// "providing a scripting engine"), so there is nothing to load a Lua/JS
// plugin with here.
type NativeLoader struct {
	constructors map[string]func() Handlers
}

func NewNativeLoader() *NativeLoader {
	return &NativeLoader{constructors: make(map[string]func() Handlers)}
}

// Register associates id with a constructor, callable later by Load.
func (l *NativeLoader) Register(id string, ctor func() Handlers) {
	l.constructors[id] = ctor
}

func (l *NativeLoader) Load(id string) (Handlers, error) {
	ctor, ok := l.constructors[id]
	if !ok {
		return nil, nil
	}
	return ctor(), nil
}
