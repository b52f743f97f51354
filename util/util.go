package util

func IsNumber(b byte) bool {
	return b >= '0' && b <= '9'
}

func IsLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func IsLetterOrNumber(b byte) bool {
	return IsLetter(b) || IsNumber(b)
}

// IsBlank reports the characters skipped between tokens. Newlines are included, callers
// count them separately.
func IsBlank(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
