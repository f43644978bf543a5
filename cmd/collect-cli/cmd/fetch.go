package cmd

import (
	"fmt"
	"os"
	"strings"

	"collectkit/lib/htmlutil"
	"collectkit/lib/scraper"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	fetchBase       string
	fetchAgent      string
	fetchProxies    []string
	fetchLinks      bool
	fetchCloudflare bool
	fetchQuery      []string
)

func init() {
	fetchCmd.Flags().StringVar(&fetchBase, "base", "", "base url of the site")
	fetchCmd.Flags().StringVar(&fetchAgent, "agent", "", "custom user agent")
	fetchCmd.Flags().StringArrayVar(&fetchProxies, "proxy", nil, "proxy route, scheme=url, repeatable")
	fetchCmd.Flags().BoolVar(&fetchLinks, "links", false, "parse the page and print its anchors instead of raw text")
	fetchCmd.Flags().BoolVar(&fetchCloudflare, "cloudflare", false, "enable the cloudflare bypass transport")
	fetchCmd.Flags().StringArrayVarP(&fetchQuery, "query", "q", nil, "query parameter, key=value, repeatable")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <endpoint>",
	Short: "Fetch one page and print its raw text, or its links with --links.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if fetchBase == "" {
			fetchBase = cfg.BaseUrl
		}
		if fetchAgent == "" {
			fetchAgent = cfg.UserAgent
		}
		if fetchBase == "" {
			fmt.Fprintln(os.Stderr, "no base url given, pass --base or set base_url in collectkit.json5")
			os.Exit(1)
		}

		proxies := cfg.Proxies
		if len(fetchProxies) > 0 {
			proxies = map[string]string{}
			for _, pair := range fetchProxies {
				scheme, proxy, ok := strings.Cut(pair, "=")
				if !ok {
					fmt.Fprintln(os.Stderr, "proxy routes look like scheme=url, got:", pair)
					os.Exit(1)
				}
				proxies[scheme] = proxy
			}
		}

		fetcher := scraper.NewFetcher("collect-cli", scraper.Options{
			BaseUrl:          fetchBase,
			UserAgent:        fetchAgent,
			Proxies:          proxies,
			BypassCloudflare: fetchCloudflare,
			Output:           transcriptOutput("fetch"),
		})

		text, err := fetcher.Fetch(cmd.Context(), args[0], parseQuery(fetchQuery))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		if !fetchLinks {
			fmt.Println(text)
			return
		}

		doc, err := scraper.ParseDocument(text)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Name", "Href"})
		for _, anchor := range htmlutil.GetAnchors(doc.Find("a")) {
			t.AppendRow(table.Row{anchor.Name, anchor.Href})
		}
		t.Render()
	},
}
