package model

const redacted = "********"

// Password holds secret material. Formatting it with fmt or logging it
// prints a mask; the clear text is only reachable through Reveal.
type Password struct {
	secret string
}

// NewPassword wraps clear text
func NewPassword(s string) Password {
	return Password{secret: s}
}

// Reveal returns the clear text. Call it only where the value is encoded for an
// external invocation.
func (p Password) Reveal() string {
	return p.secret
}

// Empty reports whether no password was supplied
func (p Password) Empty() bool {
	return p.secret == ""
}

func (p Password) String() string {
	return redacted
}

// GoString keeps %#v from printing the struct field
func (p Password) GoString() string {
	return redacted
}

// MarshalText keeps encoders from writing the secret
func (p Password) MarshalText() ([]byte, error) {
	return []byte(redacted), nil
}
