package envelope

// HasAttachments reports whether any node reachable from root carries a
// non-empty filename. It walks with an explicit stack, so deeply nested
// payloads cannot exhaust the goroutine stack.
func HasAttachments[T any](root T, filename func(T) string, children func(T) []T) bool {
	stack := []T{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if filename(n) != "" {
			return true
		}
		stack = append(stack, children(n)...)
	}
	return false
}
