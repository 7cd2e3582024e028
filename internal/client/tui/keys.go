package tui

// Key bindings shared by the editor screens.
const (
	keySave      = "ctrl+s"
	keyRevert    = "ctrl+r"
	keyLike      = "ctrl+l"
	keyDislike   = "ctrl+d"
	keyNext      = "ctrl+n"
	keyPrev      = "ctrl+p"
	keyBackFocus = "shift+tab"
	keyQuit      = "esc"
	keyInterrupt = "ctrl+c"
)
