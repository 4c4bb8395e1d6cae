package fetch

import (
	"github.com/dtnitsch/stealth-fetch-mcp/models"
	"github.com/urfave/cli/v2"
)

// NewApp builds the stealth-fetch-mcp command line. Without a subcommand it
// serves MCP on stdio.
func NewApp() *cli.App {
	return &cli.App{
		Name:    "stealth-fetch-mcp",
		Usage:   "MCP server that fetches web pages with escalating bot-detection avoidance",
		Version: models.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file (default " + models.DefaultConfigPath + " if present)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
				Value: "info",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only log errors",
			},
		},
		Action: ServeAction,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the MCP server on stdin/stdout",
				Action: ServeAction,
			},
			{
				Name:      "fetch",
				Usage:     "Fetch one URL the way the scrapling-fetch tool does and print the result",
				ArgsUsage: "<url>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: string(models.ModeBasic), Usage: "basic, stealth or max-stealth"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: string(models.FormatMarkdown), Usage: "html or markdown"},
					&cli.IntFlag{Name: "max-length", Value: models.DefaultMaxLength, Usage: "maximum characters to print"},
					&cli.IntFlag{Name: "start-index", Value: models.DefaultStartIndex, Usage: "character offset to start from"},
				},
				Action: FetchAction,
			},
			{
				Name:   "tools",
				Usage:  "Print the tool descriptors as YAML",
				Action: ToolsAction,
			},
			{
				Name:      "elements",
				Usage:     "Print the element fingerprints auto_save stored for a site",
				ArgsUsage: "<domain> <selector>",
				Action:    ElementsAction,
			},
		},
	}
}
