package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

func agentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "Manage trading agents",
	}
	cmd.AddCommand(agentsListCmd())
	cmd.AddCommand(agentsGetCmd())
	cmd.AddCommand(agentsStatusCmd())
	cmd.AddCommand(agentsDeleteCmd())
	cmd.AddCommand(agentsCreateCmd())
	return cmd
}

func agentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var list []any
			if err := apiClient().Get(cmd.Context(), "/api/v1/agents/", &list); err != nil {
				return err
			}
			return emit(cmd, list)
		},
	}
}

func agentsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var agent map[string]any
			if err := apiClient().Get(cmd.Context(), "/api/v1/agents/"+url.PathEscape(args[0]), &agent); err != nil {
				return err
			}
			return emit(cmd, agent)
		},
	}
}

func agentsStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id>",
		Short: "Show an agent's trading status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var view map[string]any
			if err := apiClient().Get(cmd.Context(), "/api/v1/agents/"+url.PathEscape(args[0])+"/status", &view); err != nil {
				return err
			}
			return emit(cmd, view)
		},
	}
}

func agentsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient().Delete(cmd.Context(), "/api/v1/agents/"+url.PathEscape(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func agentsCreateCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create --file agent.json",
		Short: "Create an agent from a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read agent file: %w", err)
			}
			var body map[string]any
			if err := json.Unmarshal(data, &body); err != nil {
				return fmt.Errorf("parse agent file %s: %w", file, err)
			}

			var created map[string]any
			if err := apiClient().Post(cmd.Context(), "/api/v1/agents/create", body, &created); err != nil {
				return err
			}
			return emit(cmd, created)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Path to the agent JSON definition")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
