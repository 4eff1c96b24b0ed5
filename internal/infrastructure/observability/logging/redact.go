package logging

const redactionMask = "****"

// Redact masks the middle of a sensitive value before it is logged. Values of
// four characters or fewer collapse to the bare mask so their length is not
// revealed; empty values stay empty.
func Redact(value string) string {
	if value == "" {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= 4 {
		return redactionMask
	}
	return string(runes[:2]) + redactionMask + string(runes[len(runes)-2:])
}
