package consts

// Colors
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[91m"
	ColorGreen  = "\033[92m"
	ColorYellow = "\033[93m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[96m"
	ColorDim    = "\033[2m"
)

// Terminal tags printed in front of status lines.
const (
	RedFailed      string = ColorRed + "[Failed] " + ColorReset
	GreenDone      string = ColorGreen + "[Done] " + ColorReset
	YellowPrompt   string = ColorYellow + "[?] " + ColorReset
	CyanStatus     string = ColorCyan + "[ytxtract] " + ColorReset
	PurpleCanceled string = ColorPurple + "[Cancelled] " + ColorReset
)
