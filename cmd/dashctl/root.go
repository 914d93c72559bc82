package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dennisdiepolder/monti/dashboard/pkg/client"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// cli is the state shared by every subcommand
type cli struct {
	serverURL    string
	outputFormat string
	client       *client.Client
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "dashctl",
		Short:         "Inspect and manage the call-center dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch c.outputFormat {
			case "yaml", "json":
			default:
				return fmt.Errorf("unsupported output format %q (want yaml or json)", c.outputFormat)
			}
			c.client = client.NewClient(c.serverURL)
			return nil
		},
	}

	defaultServer := os.Getenv("DASHBOARD_URL")
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}
	root.PersistentFlags().StringVar(&c.serverURL, "server", defaultServer, "dashboard server URL (env DASHBOARD_URL)")
	root.PersistentFlags().StringVarP(&c.outputFormat, "output", "o", "yaml", "output format: yaml, json")

	root.AddCommand(
		c.agentsCmd(),
		c.callsCmd(),
		c.queuesCmd(),
		c.healthCmd(),
	)
	return root
}

// print writes data in the selected output format
func (c *cli) print(w io.Writer, data any) error {
	if strings.EqualFold(c.outputFormat, "json") {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

func (c *cli) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server is up",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := c.client.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}
			return c.print(cmd.OutOrStdout(), h)
		},
	}
}
