package main

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// listFlags are the list query options shared by list commands
type listFlags struct {
	search   string
	sort     string
	order    string
	page     int
	pageSize int
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "case-insensitive search term")
	cmd.Flags().StringVar(&f.sort, "sort", "", "sort field")
	cmd.Flags().StringVar(&f.order, "order", "", "sort order: asc, desc")
	cmd.Flags().IntVar(&f.page, "page", 0, "page number (1-based)")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "page size (0 shows everything)")
}

func (f *listFlags) values() url.Values {
	v := url.Values{}
	if f.search != "" {
		v.Set("q", f.search)
	}
	if f.sort != "" {
		v.Set("sort", f.sort)
	}
	if f.order != "" {
		v.Set("order", f.order)
	}
	if f.page > 0 {
		v.Set("page", strconv.Itoa(f.page))
	}
	if f.pageSize > 0 {
		v.Set("pageSize", strconv.Itoa(f.pageSize))
	}
	return v
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", raw)
	}
	return id, nil
}

func (c *cli) agentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "Manage agents",
	}

	var lf listFlags
	var statuses []string
	list := &cobra.Command{
		Use:   "list",
		Short: "List agents with search, status filter and sorting",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := lf.values()
			if len(statuses) > 0 {
				v.Set("status", strings.Join(statuses, ","))
			}
			page, err := c.client.AgentsPage(cmd.Context(), v)
			if err != nil {
				return fmt.Errorf("failed to list agents: %w", err)
			}
			return c.print(cmd.OutOrStdout(), page)
		},
	}
	lf.register(list)
	list.Flags().StringSliceVar(&statuses, "status", nil, "show only these statuses (online, busy, away, offline)")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			agent, err := c.client.GetAgent(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to get agent: %w", err)
			}
			return c.print(cmd.OutOrStdout(), agent)
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			agent, err := c.client.DeleteAgent(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to delete agent: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Agent %d (%s) deleted.\n", agent.ID, agent.Name)
			return nil
		},
	}

	cmd.AddCommand(list, get, del)
	return cmd
}

func (c *cli) callsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calls",
		Short: "Browse the call log",
	}

	var lf listFlags
	var status, queue, direction string
	list := &cobra.Command{
		Use:   "list",
		Short: "List calls, newest first unless --sort is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := lf.values()
			for key, val := range map[string]string{"status": status, "queue": queue, "direction": direction} {
				if val != "" {
					v.Set(key, val)
				}
			}
			page, err := c.client.CallsPage(cmd.Context(), v)
			if err != nil {
				return fmt.Errorf("failed to list calls: %w", err)
			}
			return c.print(cmd.OutOrStdout(), page)
		},
	}
	lf.register(list)
	list.Flags().StringVar(&status, "status", "", "completed, active, missed, transferred or all")
	list.Flags().StringVar(&queue, "queue", "", "queue name or all")
	list.Flags().StringVar(&direction, "direction", "", "inbound, outbound or all")

	cmd.AddCommand(list)
	return cmd
}

func (c *cli) queuesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queues",
		Short: "Inspect call queues",
	}

	var lf listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List queues with load levels",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := c.client.QueuesPage(cmd.Context(), lf.values())
			if err != nil {
				return fmt.Errorf("failed to list queues: %w", err)
			}
			return c.print(cmd.OutOrStdout(), page)
		},
	}
	lf.register(list)

	cmd.AddCommand(list)
	return cmd
}
