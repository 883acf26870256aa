// Package cachestrategy defines cache eviction strategy interfaces.
package cachestrategy

// Strategy defines the interface for cache eviction strategies.
// Keys are scenario names.
type Strategy interface {
	Get(key string) ([]byte, bool)
	Add(key string, value []byte) bool
	Len() int
}
