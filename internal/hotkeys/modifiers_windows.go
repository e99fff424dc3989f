//go:build windows

package hotkeys

import "golang.design/x/hotkey"

var modifierTable = map[string]hotkey.Modifier{
	"ctrl":    hotkey.ModCtrl,
	"control": hotkey.ModCtrl,
	"shift":   hotkey.ModShift,
	"alt":     hotkey.ModAlt,
	"option":  hotkey.ModAlt,
	"cmd":     hotkey.ModWin,
	"super":   hotkey.ModWin,
	"win":     hotkey.ModWin,
}
