package common

// WipeByteArray overwrites b with zeros. Used for passwords read from the
// terminal.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
