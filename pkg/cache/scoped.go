package cache

// ScopedKeyer prefixes every key of an inner Keyer, so that several
// projects or users can share one Redis instance:
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "project:demo:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// CodeKey returns the prefixed code key.
func (k *ScopedKeyer) CodeKey(graphHash, target string) string {
	return k.prefix + k.inner.CodeKey(graphHash, target)
}

// DiagramKey returns the prefixed diagram key.
func (k *ScopedKeyer) DiagramKey(graphHash string, opts DiagramKeyOpts) string {
	return k.prefix + k.inner.DiagramKey(graphHash, opts)
}
