package infra

// Integer indices accepted by CheckBounds.
type Index interface {
	~int | ~int32 | ~int64 | ~uint32 | ~uint64
}

// InvariantsEnabled reports whether the debug assertions are compiled in.
// They are enabled by the "invariants" or "race" build tags:
//
//	go test -tags invariants ./...
func InvariantsEnabled() bool {
	return invariantsEnabled
}
