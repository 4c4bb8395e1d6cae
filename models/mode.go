package models

// Mode is the evasion tier a fetch runs under.
type Mode string

const (
	// ModeBasic is a plain HTTP fetch with spoofed browser headers.
	ModeBasic Mode = "basic"
	// ModeStealth renders the page in a headless browser and waits for the network to settle.
	ModeStealth Mode = "stealth"
	// ModeMaxStealth adds WebRTC blocking on top of ModeStealth and never blocks resources.
	ModeMaxStealth Mode = "max-stealth"
)

// Modes lists every tier, cheapest first.
func Modes() []Mode {
	return []Mode{ModeBasic, ModeStealth, ModeMaxStealth}
}

// Valid reports whether m is a known tier.
func (m Mode) Valid() bool {
	switch m {
	case ModeBasic, ModeStealth, ModeMaxStealth:
		return true
	}
	return false
}

// Format is the shape of the content returned to the caller.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// BrowserType selects the engine for quick-browse requests.
type BrowserType string

const (
	BrowserBasic   BrowserType = "basic"
	BrowserStealth BrowserType = "stealth"
)
