package hotkey

import "golang.design/x/hotkey"

// On X11 alt is Mod1 and super is Mod4 in the default keymap.
var modMap = map[string]hotkey.Modifier{
	"ctrl":    hotkey.ModCtrl,
	"control": hotkey.ModCtrl,
	"shift":   hotkey.ModShift,
	"alt":     hotkey.Mod1,
	"super":   hotkey.Mod4,
	"win":     hotkey.Mod4,
}
