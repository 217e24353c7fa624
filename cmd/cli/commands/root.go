// Package commands implements the tacticshub command line client.
package commands

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"tacticshub/internal/gateway"
	"tacticshub/internal/hybrid"
	"tacticshub/internal/localcache"
	"tacticshub/pkg/utils"
)

// CLI holds the root command and the settings its persistent flags fill in.
type CLI struct {
	rootCmd *cobra.Command
	client  *http.Client
	logger  *log.Logger

	baseURL   string
	tokenPath string
	cacheDir  string
	ttl       time.Duration
}

// New builds the command tree with flag defaults taken from cfg.
func New(cfg utils.ClientConfig) *CLI {
	c := &CLI{
		client: &http.Client{Timeout: cfg.HTTPTimeout},
		logger: log.Default(),
	}

	rootCmd := &cobra.Command{
		Use:           "tacticshub",
		Short:         "Browse the catalog and manage team compositions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&c.baseURL, "api", cfg.APIURL, "API base URL")
	pf.StringVar(&c.tokenPath, "token", cfg.TokenPath, "token file path")
	pf.StringVar(&c.cacheDir, "cache", cfg.CacheDir, "local cache directory")
	pf.DurationVar(&c.ttl, "ttl", cfg.CacheTTL, "cache freshness window")

	rootCmd.AddCommand(c.newAuthCmd())
	rootCmd.AddCommand(c.newCatalogCmd())
	rootCmd.AddCommand(c.newCacheCmd())
	rootCmd.AddCommand(c.newCompsCmd())

	c.rootCmd = rootCmd
	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects command output. Used for testing.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
	c.rootCmd.SetErr(w)
}

func (c *CLI) SetLogger(l *log.Logger) {
	if l != nil {
		c.logger = l
	}
}

// api returns a gateway authenticated with token, which may be empty.
func (c *CLI) api(token string) *gateway.HTTPGateway {
	return gateway.NewHTTPGateway(c.baseURL, c.client, token, c.logger)
}

// storage wires the cache coordinator for one invocation. A missing token
// still allows the public reads.
func (c *CLI) storage() *hybrid.Storage {
	token, _ := readToken(c.tokenPath)
	return hybrid.New(c.api(token),
		localcache.NewFileStore(c.cacheDir, c.logger),
		hybrid.WithWindow(c.ttl),
		hybrid.WithLogger(c.logger),
	)
}
