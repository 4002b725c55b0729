package interfaces

type CursorCache interface {
	Lookup(fingerprint string, page int) (string, bool)
	Store(fingerprint string, page int, cursor string)
	Len() int
}
