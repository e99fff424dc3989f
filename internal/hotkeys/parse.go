package hotkeys

import (
	"fmt"
	"strings"

	"golang.design/x/hotkey"
)

// ParseCombo parses a combination string such as "<ctrl>+<alt>+s" into
// modifiers and a key. The syntax follows the configuration file: tokens
// joined by '+', modifiers wrapped in angle brackets, exactly one
// non-modifier key.
func ParseCombo(combo string) ([]hotkey.Modifier, hotkey.Key, error) {
	cleaned := strings.ToLower(strings.ReplaceAll(combo, " ", ""))
	if cleaned == "" {
		return nil, 0, fmt.Errorf("empty combination")
	}

	var (
		modifiers []hotkey.Modifier
		key       hotkey.Key
		haveKey   bool
	)
	for _, token := range strings.Split(cleaned, "+") {
		token = strings.TrimSuffix(strings.TrimPrefix(token, "<"), ">")
		if token == "" {
			return nil, 0, fmt.Errorf("empty token in %q", combo)
		}
		if modifier, ok := modifierTable[token]; ok {
			modifiers = append(modifiers, modifier)
			continue
		}
		parsed, ok := keyTable[token]
		if !ok {
			return nil, 0, fmt.Errorf("unknown token %q", token)
		}
		if haveKey {
			return nil, 0, fmt.Errorf("more than one key in %q", combo)
		}
		key = parsed
		haveKey = true
	}
	if !haveKey {
		return nil, 0, fmt.Errorf("no key in %q", combo)
	}
	return modifiers, key, nil
}

var keyTable = map[string]hotkey.Key{
	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,
	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,
	"space":  hotkey.KeySpace,
	"return": hotkey.KeyReturn,
	"enter":  hotkey.KeyReturn,
	"escape": hotkey.KeyEscape,
	"esc":    hotkey.KeyEscape,
	"tab":    hotkey.KeyTab,
}
