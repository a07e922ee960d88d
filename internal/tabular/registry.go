// internal/tabular/registry.go
package tabular

import "sync"

// Rejestr formatów tabel: nazwa formatu (klucz w "formats" configu) -> Factory.
// Formaty rejestrują się same w init() swoich plików (xlsx.go, xls.go, csv.go),
// a NewReader buduje z rejestru wszystkie naraz.
var (
	regMu    sync.RWMutex
	registry = map[string]Factory{}
)

// Register dodaje format; ta sama nazwa nadpisuje poprzednią fabrykę.
func Register(name string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	registry[name] = f
}

func Get(name string) (Factory, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// All zwraca kopię rejestru.
func All() map[string]Factory {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make(map[string]Factory, len(registry))
	for k, v := range registry {
		out[k] = v
	}
	return out
}
