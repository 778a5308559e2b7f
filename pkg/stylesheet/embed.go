package stylesheet

import _ "embed"

//go:embed assets/default.css
var defaultCSS []byte

// DefaultCSS returns a copy of the embedded system default stylesheet.
func DefaultCSS() []byte {
	return append([]byte(nil), defaultCSS...)
}
