package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ignite/trello-agent/internal/app"
	"github.com/ignite/trello-agent/internal/config"
	"github.com/ignite/trello-agent/internal/normalize"
	"github.com/ignite/trello-agent/internal/service/assistant"
)

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "boardctl",
		Short:         "boardctl - inspect Trello boards through the assistant's resolver",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config/config.yaml", "Path to the YAML config file")

	withService := func(run func(cmd *cobra.Command, svc *assistant.Service, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromEnv(configPath)
			if err != nil {
				return err
			}
			// the CLI never records activity
			cfg.Activity.Backend = config.ActivityBackendNone

			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			svc, err := a.RequireService()
			if err != nil {
				return err
			}
			return run(cmd, svc, args)
		}
	}

	rootCmd.AddCommand(boardsCmd(withService))
	rootCmd.AddCommand(listsCmd(withService))
	rootCmd.AddCommand(resolveCmd(withService))
	rootCmd.AddCommand(dueCmd())
	rootCmd.AddCommand(itemsCmd())

	return rootCmd
}

type serviceRunner func(run func(cmd *cobra.Command, svc *assistant.Service, args []string) error) func(*cobra.Command, []string) error

func boardsCmd(withService serviceRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "boards",
		Short: "List open boards",
		Args:  cobra.NoArgs,
		RunE: withService(func(cmd *cobra.Command, svc *assistant.Service, _ []string) error {
			boards, err := svc.Boards(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, boards)
		}),
	}
}

func listsCmd(withService serviceRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "lists [board]",
		Short: "List open lists of a board (default board when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: withService(func(cmd *cobra.Command, svc *assistant.Service, args []string) error {
			var board string
			if len(args) == 1 {
				board = args[0]
			}
			lists, err := svc.Lists(cmd.Context(), board)
			if err != nil {
				return err
			}
			return printJSON(cmd, lists)
		}),
	}
}

func resolveCmd(withService serviceRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve board or list hints to ids",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "board <hint>",
		Short: "Resolve a board name, id or short link",
		Args:  cobra.ExactArgs(1),
		RunE: withService(func(cmd *cobra.Command, svc *assistant.Service, args []string) error {
			id, err := svc.Resolver().Board(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{"hint": args[0], "id": id})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list <board> <hint>",
		Short: "Resolve a list name or id on a board",
		Args:  cobra.ExactArgs(2),
		RunE: withService(func(cmd *cobra.Command, svc *assistant.Service, args []string) error {
			boardID, err := svc.Resolver().Board(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			id, err := svc.Resolver().List(cmd.Context(), boardID, args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{"board_id": boardID, "hint": args[1], "id": id})
		}),
	})

	return cmd
}

func dueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "due <date>",
		Short: "Show the timestamp a due date normalizes to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			due, err := normalize.Due(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{"input": args[0], "due": due})
		},
	}
}

func itemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "items <a, b, c>",
		Short: "Show how a checklist items string is split",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, normalize.Items(normalize.CommaString(strings.Join(args, ","))))
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
