//go:build linux

package hotkeys

import "golang.design/x/hotkey"

// X11 names: Mod1 is Alt, Mod4 is Super.
var modifierTable = map[string]hotkey.Modifier{
	"ctrl":    hotkey.ModCtrl,
	"control": hotkey.ModCtrl,
	"shift":   hotkey.ModShift,
	"alt":     hotkey.Mod1,
	"option":  hotkey.Mod1,
	"cmd":     hotkey.Mod4,
	"super":   hotkey.Mod4,
	"win":     hotkey.Mod4,
}
