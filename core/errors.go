package core

// Coder is implemented by the small numeric error types of the bootloader
// packages.
type Coder interface {
	Code() uint8
}

// CodeUnknown is reported for errors that carry no code.
const CodeUnknown = 9

// CodeOf returns the numeric code of err: 0 for nil, the code for Coder
// errors, CodeUnknown otherwise.
func CodeOf(err error) uint8 {
	if err == nil {
		return 0
	}
	if c, ok := err.(Coder); ok {
		return c.Code()
	}
	return CodeUnknown
}

// CodeDigit renders a code as the single diagnostic character.
func CodeDigit(code uint8) byte {
	if code > 9 {
		code = CodeUnknown
	}
	return '0' + code
}
