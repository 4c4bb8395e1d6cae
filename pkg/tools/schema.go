package tools

import "github.com/dtnitsch/stealth-fetch-mcp/models"

const (
	ScraplingFetchName        = "scrapling-fetch"
	ScraplingFetchDescription = "Fetches a URL using Scrapling with bot-detection avoidance. " +
		"For best performance, start with 'basic' mode (fastest), then only escalate to " +
		"'stealth' or 'max-stealth' modes if basic mode fails to retrieve the content. " +
		"Returns HTML or markdown content."

	QuickBrowseName        = "quick-browse"
	QuickBrowseDescription = "Browse a URL and return its text or HTML, optionally narrowed to a CSS selector. " +
		"Auto-save remembers the matched elements so auto-match can find them again after the site changes."

	StealthyBrowseName        = "stealthy-browse"
	StealthyBrowseDescription = "Browse a URL with a fully configurable stealth browser and return the visible text. " +
		"Use for sites with strong bot detection."
)

func windowProperties(props map[string]any) map[string]any {
	props["max_length"] = map[string]any{
		"type":             "integer",
		"title":            "Max Length",
		"description":      "Maximum number of characters to return.",
		"default":          models.DefaultMaxLength,
		"exclusiveMinimum": 0,
		"exclusiveMaximum": models.MaxLengthLimit,
	}
	props["start_index"] = map[string]any{
		"type":        "integer",
		"title":       "Start Index",
		"description": "On return output starting at this character index, useful if a previous fetch was truncated and more context is required.",
		"default":     models.DefaultStartIndex,
		"minimum":     0,
	}
	return props
}

// ScraplingFetchSchema returns the JSON schema for the scrapling-fetch tool.
func ScraplingFetchSchema() map[string]any {
	return map[string]any{
		"type":  "object",
		"title": "UrlFetchRequest",
		"properties": windowProperties(map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "URL to fetch",
			},
			"mode": map[string]any{
				"type":        "string",
				"description": "Fetching mode (basic, stealth, or max-stealth)",
				"enum":        models.Modes(),
				"default":     models.ModeBasic,
			},
			"format": map[string]any{
				"type":        "string",
				"description": "Output format (html or markdown)",
				"enum":        []models.Format{models.FormatHTML, models.FormatMarkdown},
				"default":     models.FormatMarkdown,
			},
		}),
		"required": []string{"url"},
	}
}

// QuickBrowseSchema returns the JSON schema for the quick-browse tool.
func QuickBrowseSchema() map[string]any {
	return map[string]any{
		"type":  "object",
		"title": "QuickBrowsingRequest",
		"properties": windowProperties(map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "URL to browse",
			},
			"browser_type": map[string]any{
				"type":        "string",
				"description": "Browser type for scraping (basic or stealth). Defaults to basic for efficiency; consider stealth for sites with bot detection.",
				"enum":        []models.BrowserType{models.BrowserBasic, models.BrowserStealth},
				"default":     models.BrowserBasic,
			},
			"selector": map[string]any{
				"type":        "string",
				"description": "CSS selector to extract specific content",
			},
			"format": map[string]any{
				"type":        "string",
				"description": "Output format (text or html)",
				"enum":        []models.Format{models.FormatText, models.FormatHTML},
				"default":     models.FormatText,
			},
			"auto_match": map[string]any{
				"type":        "boolean",
				"description": "Find elements saved with auto_save again after the website changes",
				"default":     false,
			},
			"auto_save": map[string]any{
				"type":        "boolean",
				"description": "Save element information for future auto-matching",
				"default":     false,
			},
			"network_idle": map[string]any{
				"type":        "boolean",
				"description": "Wait for network to be idle before scraping",
				"default":     true,
			},
			"headless": map[string]any{
				"type":        "boolean",
				"description": "Run browser in headless mode",
				"default":     true,
			},
			"disable_resources": map[string]any{
				"type":        "boolean",
				"description": "Disable loading of non-essential resources",
				"default":     false,
			},
			"proxy": map[string]any{
				"type":        "string",
				"description": "Proxy to use for the request",
			},
		}),
		"required": []string{"url"},
	}
}

// StealthyBrowseSchema returns the JSON schema for the stealthy-browse tool.
func StealthyBrowseSchema() map[string]any {
	return map[string]any{
		"type":  "object",
		"title": "StealthyBrowsingRequest",
		"properties": windowProperties(map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "URL to browse",
			},
			"headless": map[string]any{
				"type":        "boolean",
				"description": "Run browser in headless (invisible) mode by default. Setting to false shows the browser window, which can help bypass certain bot detection systems but may interrupt your workflow.",
				"default":     true,
			},
			"block_images": map[string]any{
				"type":        "boolean",
				"description": "Prevent loading of images",
				"default":     false,
			},
			"disable_resources": map[string]any{
				"type":        "boolean",
				"description": "Drop requests of unnecessary resources for a speed boost",
				"default":     false,
			},
			"block_webrtc": map[string]any{
				"type":        "boolean",
				"description": "Blocks WebRTC entirely to prevent IP leaks",
				"default":     true,
			},
			"humanize": map[string]any{
				"type":        []string{"boolean", "number"},
				"description": "Humanize cursor movement (set to max duration in seconds or true)",
			},
			"network_idle": map[string]any{
				"type":        "boolean",
				"description": "Wait for network connections to be idle",
				"default":     true,
			},
			"timeout": map[string]any{
				"type":             "integer",
				"description":      "Timeout in milliseconds for page operations",
				"default":          models.DefaultBrowseTimeout.Milliseconds(),
				"exclusiveMinimum": 0,
				"maximum":          models.MaxBrowseTimeout.Milliseconds(),
			},
			"proxy": map[string]any{
				"type":        "string",
				"description": "Proxy to use for the request",
			},
		}),
		"required": []string{"url"},
	}
}
