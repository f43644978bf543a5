package cmd

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"

	"collectkit/lib/collector"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	dispatchBase     string
	dispatchMethod   string
	dispatchToken    string
	dispatchUsername string
	dispatchPassword string
	dispatchQuery    []string
	dispatchBody     string
)

func init() {
	dispatchCmd.Flags().StringVar(&dispatchBase, "base", "", "base url of the API")
	dispatchCmd.Flags().StringVarP(&dispatchMethod, "method", "X", "GET", "HTTP method")
	dispatchCmd.Flags().StringVar(&dispatchToken, "token", "", "bearer token")
	dispatchCmd.Flags().StringVar(&dispatchUsername, "username", "", "basic auth username")
	dispatchCmd.Flags().StringVar(&dispatchPassword, "password", "", "basic auth password")
	dispatchCmd.Flags().StringArrayVarP(&dispatchQuery, "query", "q", nil, "query parameter, key=value, repeatable")
	dispatchCmd.Flags().StringVarP(&dispatchBody, "body", "d", "", "request body as a JSON object")
	rootCmd.AddCommand(dispatchCmd)
}

func parseQuery(pairs []string) url.Values {
	if len(pairs) == 0 {
		return nil
	}
	query := url.Values{}
	for _, pair := range pairs {
		key, value, _ := strings.Cut(pair, "=")
		query.Add(key, value)
	}
	return query
}

var dispatchCmd = &cobra.Command{
	Use:   "dispatch <endpoint>",
	Short: "Issue one API request and print the structured result.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if dispatchBase == "" {
			dispatchBase = cfg.BaseUrl
		}
		if dispatchToken == "" {
			dispatchToken = cfg.Token
		}
		if dispatchUsername == "" {
			dispatchUsername = cfg.Username
		}
		if dispatchPassword == "" {
			dispatchPassword = cfg.Password
		}
		if dispatchBase == "" {
			fmt.Fprintln(os.Stderr, "no base url given, pass --base or set base_url in collectkit.json5")
			os.Exit(1)
		}

		var body any
		if dispatchBody != "" {
			if err := json.Unmarshal([]byte(dispatchBody), &body); err != nil {
				fmt.Fprintln(os.Stderr, "request body is not valid JSON:", err)
				os.Exit(1)
			}
		}

		executor := collector.NewExecutor("collect-cli", collector.Options{
			BaseUrl: dispatchBase,
			Credentials: collector.Credentials{
				Token:    dispatchToken,
				Username: dispatchUsername,
				Password: dispatchPassword,
			},
			Output: transcriptOutput("dispatch"),
		})

		result, err := executor.Dispatch(
			cmd.Context(),
			dispatchMethod,
			args[0],
			parseQuery(dispatchQuery),
			body,
		)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		keys := make([]string, 0, len(result))
		for k := range result {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Key", "Value"})
		for _, k := range keys {
			t.AppendRow(table.Row{k, fmt.Sprintf("%v", result[k])})
		}
		t.Render()
	},
}
