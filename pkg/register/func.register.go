// Package register collects init-time hooks so that packages can register
// themselves (store implementations for example) without import cycles.
package register

import "sync"

type Handler[T any] func(T)

var (
	locker   sync.Mutex
	handlers = make(map[any][]any)
)

func RegisterFunc[T any](key any, handler Handler[T]) {
	locker.Lock()
	defer locker.Unlock()
	handlers[key] = append(handlers[key], handler)
}

func ResolveFuncHandlers[T any](key any) []Handler[T] {
	locker.Lock()
	defer locker.Unlock()

	var result []Handler[T]
	for _, v := range handlers[key] {
		if h, ok := v.(Handler[T]); ok {
			result = append(result, h)
		}
	}
	return result
}
