package models

// Page is what a fetch engine hands back for one URL. It lives only for the
// call that fetched it; nothing but HTML is read by normalization.
type Page struct {
	URL        string `json:"url"`
	FinalURL   string `json:"final_url,omitempty"` // after redirects
	StatusCode int    `json:"status_code,omitempty"`
	HTML       string `json:"-"`
	Engine     string `json:"engine"`
}

// BaseURL is the URL relative links on the page resolve against.
func (p *Page) BaseURL() string {
	if p.FinalURL != "" {
		return p.FinalURL
	}
	return p.URL
}
