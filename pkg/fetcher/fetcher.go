package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/dtnitsch/stealth-fetch-mcp/models"
)

// Engine resolves a URL into raw HTML. Implementations do exactly one
// attempt per call and never retry.
type Engine interface {
	Name() string
	Fetch(ctx context.Context, req *Request) (*models.Page, error)
}

// Profile is the evasion parameter set handed to an engine. Fields that an
// engine cannot honour are ignored by it.
type Profile struct {
	// StealthyHeaders sends a real browser User-Agent and matching headers (HTTP engine).
	StealthyHeaders bool
	// Headless runs the browser without a window (browser engine).
	Headless bool
	// NetworkIdle waits for in-flight requests to settle before reading the DOM.
	NetworkIdle bool
	// BlockWebRTC stops WebRTC from leaking the real IP address.
	BlockWebRTC bool
	// DisableResources drops fonts, media, stylesheets and similar non-essential requests.
	DisableResources bool
	// BlockImages drops image requests.
	BlockImages bool
	// Humanize moves the cursor around for up to this long after load.
	Humanize time.Duration
	// Timeout bounds the whole engine call; zero means no engine-level timeout.
	Timeout time.Duration
	Proxy   string
}

type Request struct {
	URL     string
	Profile Profile
}

// FetchError wraps any failure of an engine to retrieve or render a page.
type FetchError struct {
	URL    string
	Engine string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s fetch of %s failed: %v", e.Engine, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// StatusError is returned by the HTTP engine for responses with status >= 400.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d %s", e.StatusCode, e.Status)
}

// UnsupportedModeError is returned when a mode has no strategy.
type UnsupportedModeError struct {
	Mode models.Mode
}

func (e *UnsupportedModeError) Error() string {
	return fmt.Sprintf("Unknown mode: %s", e.Mode)
}
