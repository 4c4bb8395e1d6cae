package models

import "time"

const (
	DefaultBrowseTimeout = 30 * time.Second
	MaxBrowseTimeout     = 10 * time.Minute
)

// MaxHumanizeSeconds caps how long the cursor may wander before a page is read.
const MaxHumanizeSeconds = 60

// QuickBrowseRequest is a quick-browse call: an optional CSS selector scopes
// the extraction, and the auto-match/auto-save hints let selectors survive
// page redesigns.
type QuickBrowseRequest struct {
	URL              string      `json:"url" yaml:"url"`
	BrowserType      BrowserType `json:"browser_type" yaml:"browser_type"`
	Selector         string      `json:"selector,omitempty" yaml:"selector,omitempty"`
	Format           Format      `json:"format" yaml:"format"`
	AutoMatch        bool        `json:"auto_match" yaml:"auto_match"`
	AutoSave         bool        `json:"auto_save" yaml:"auto_save"`
	NetworkIdle      bool        `json:"network_idle" yaml:"network_idle"`
	Headless         bool        `json:"headless" yaml:"headless"`
	DisableResources bool        `json:"disable_resources" yaml:"disable_resources"`
	Proxy            string      `json:"proxy,omitempty" yaml:"proxy,omitempty"`
	Window
}

func ParseQuickBrowseRequest(args map[string]any) (*QuickBrowseRequest, error) {
	r := newArgReader(args)
	req := &QuickBrowseRequest{
		URL:              r.requiredString("url"),
		BrowserType:      r.browserType("browser_type"),
		Selector:         r.optionalString("selector", ""),
		Format:           r.format("format", FormatText, FormatText, FormatHTML),
		AutoMatch:        r.optionalBool("auto_match", false),
		AutoSave:         r.optionalBool("auto_save", false),
		NetworkIdle:      r.optionalBool("network_idle", true),
		Headless:         r.optionalBool("headless", true),
		DisableResources: r.optionalBool("disable_resources", false),
		Proxy:            r.optionalString("proxy", ""),
		Window:           r.window(),
	}
	if err := r.err("QuickBrowsingRequest"); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *argReader) browserType(field string) BrowserType {
	raw := r.optionalString(field, string(BrowserBasic))
	switch bt := BrowserType(raw); bt {
	case BrowserBasic, BrowserStealth:
		return bt
	}
	r.fail(field, "unsupported browser type %q, expected one of basic, stealth", raw)
	return BrowserBasic
}

// StealthyBrowseRequest exposes every knob of the stealth browser. Its
// result is always the visible text of the page.
type StealthyBrowseRequest struct {
	URL              string        `json:"url" yaml:"url"`
	Headless         bool          `json:"headless" yaml:"headless"`
	BlockImages      bool          `json:"block_images" yaml:"block_images"`
	DisableResources bool          `json:"disable_resources" yaml:"disable_resources"`
	BlockWebRTC      bool          `json:"block_webrtc" yaml:"block_webrtc"`
	Humanize         time.Duration `json:"humanize,omitempty" yaml:"humanize,omitempty"`
	NetworkIdle      bool          `json:"network_idle" yaml:"network_idle"`
	Timeout          time.Duration `json:"timeout" yaml:"timeout"`
	Proxy            string        `json:"proxy,omitempty" yaml:"proxy,omitempty"`
	Window
}

func ParseStealthyBrowseRequest(args map[string]any) (*StealthyBrowseRequest, error) {
	r := newArgReader(args)
	req := &StealthyBrowseRequest{
		URL:              r.requiredString("url"),
		Headless:         r.optionalBool("headless", true),
		BlockImages:      r.optionalBool("block_images", false),
		DisableResources: r.optionalBool("disable_resources", false),
		BlockWebRTC:      r.optionalBool("block_webrtc", true),
		NetworkIdle:      r.optionalBool("network_idle", true),
		Timeout:          DefaultBrowseTimeout,
		Proxy:            r.optionalString("proxy", ""),
	}

	if secs, set, ok := r.optionalFloat("humanize"); ok && set {
		switch {
		case secs < 0:
			r.fail("humanize", "input should be greater than or equal to 0, got %g", secs)
		case !(secs <= MaxHumanizeSeconds):
			r.fail("humanize", "input should be less than or equal to %d, got %g", MaxHumanizeSeconds, secs)
		default:
			req.Humanize = time.Duration(secs * float64(time.Second))
		}
	}

	if ms, ok := r.optionalInt("timeout", int(DefaultBrowseTimeout/time.Millisecond)); ok {
		switch {
		case ms <= 0:
			r.fail("timeout", "input should be greater than 0, got %d", ms)
		case int64(ms) > MaxBrowseTimeout.Milliseconds():
			r.fail("timeout", "input should be less than or equal to %d, got %d", MaxBrowseTimeout.Milliseconds(), ms)
		default:
			req.Timeout = time.Duration(ms) * time.Millisecond
		}
	}

	req.Window = r.window()
	if err := r.err("StealthyBrowsingRequest"); err != nil {
		return nil, err
	}
	return req, nil
}
