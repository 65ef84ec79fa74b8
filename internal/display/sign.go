// Package display turns per-frame gesture estimates into a debounced
// on-screen message.
package display

import "strings"

// Sign is a displayable gesture identity.
type Sign int

const (
	SignNone Sign = iota
	SignYes
	SignILY
	SignNamaste
	SignPeace
	SignOK
)

var signNames = [...]string{
	SignNone:    "none",
	SignYes:     "yes",
	SignILY:     "ily",
	SignNamaste: "namaste",
	SignPeace:   "peace",
	SignOK:      "ok",
}

var messages = [...]string{
	SignNone:    "",
	SignYes:     "YES! 👍",
	SignILY:     "I LOVE YOU! 🤟❤️",
	SignNamaste: "NAMASTE 🙏",
	SignPeace:   "PEACE! ✌️",
	SignOK:      "OK! 👌",
}

// aliases maps library gesture names onto the product vocabulary.
var aliases = map[string]string{
	"victory":   "peace",
	"thumbs_up": "yes",
}

func (s Sign) String() string {
	if s < 0 || int(s) >= len(signNames) {
		return "unknown"
	}
	return signNames[s]
}

// MarshalText encodes the sign by name.
func (s Sign) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Message returns the text shown for s. SignNone has no message.
func (s Sign) Message() string {
	if s < 0 || int(s) >= len(messages) {
		return ""
	}
	return messages[s]
}

// Resolve maps a gesture name to its sign, applying the alias table first.
// It reports false for names with no displayable message.
func Resolve(name string) (Sign, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	for s := SignYes; int(s) < len(signNames); s++ {
		if signNames[s] == name {
			return s, true
		}
	}
	return SignNone, false
}

// Signs lists every displayable sign.
func Signs() []Sign {
	return []Sign{SignYes, SignILY, SignNamaste, SignPeace, SignOK}
}
