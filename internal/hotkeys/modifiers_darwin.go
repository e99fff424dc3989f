//go:build darwin

package hotkeys

import "golang.design/x/hotkey"

var modifierTable = map[string]hotkey.Modifier{
	"ctrl":    hotkey.ModCtrl,
	"control": hotkey.ModCtrl,
	"shift":   hotkey.ModShift,
	"alt":     hotkey.ModOption,
	"option":  hotkey.ModOption,
	"cmd":     hotkey.ModCmd,
	"super":   hotkey.ModCmd,
	"win":     hotkey.ModCmd,
}
