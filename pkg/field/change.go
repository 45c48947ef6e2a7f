package field

import "unicode/utf8"

// ChangeType classifies a raw edit.
type ChangeType string

const (
	ChangeAdd       ChangeType = "add"
	ChangeReplace   ChangeType = "replace"
	ChangeDelete    ChangeType = "delete"
	ChangeBackspace ChangeType = "backspace"
)

// Deletes reports whether the edit removed characters.
func (c ChangeType) Deletes() bool {
	return c == ChangeDelete || c == ChangeBackspace
}

// Classify derives the change type from the last key pressed and the cursor
// position relative to the new raw value, both counted in characters.
func Classify(lastKey string, selectionEnd, length int) ChangeType {
	switch {
	case lastKey == "Backspace":
		return ChangeBackspace
	case lastKey == "Delete" || lastKey == "Del":
		return ChangeDelete
	case selectionEnd < length:
		return ChangeReplace
	default:
		return ChangeAdd
	}
}

// truncate keeps the first n characters of s. A negative n keeps all of s.
func truncate(s string, n int) string {
	if n < 0 || n >= utf8.RuneCountInString(s) {
		return s
	}
	return string([]rune(s)[:n])
}
