package cmd

import (
	"context"
	"fmt"

	"tablediff/core/endpoint"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var newConn endpoint.Connection

// connectionsCmd is the parent command for the connection registry.
var connectionsCmd = &cobra.Command{
	Use:   "connections",
	Short: "Manage registered database connections",
}

var connectionsAddCmd = &cobra.Command{
	Use:   "add [id]",
	Short: "Register a connection",
	Long: `Register a connection comparisons can refer to by id.

Examples:
  tablediff connections add local --engine sqlite --path ./app.db
  tablediff connections add dwh --engine postgres --host pg --port 5432 --user etl --password secret --database dwh`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.close(ctx)

		newConn.ID = args[0]
		if newConn.Name == "" {
			newConn.Name = args[0]
		}
		rec, err := env.connections.Create(ctx, newConn)
		if err != nil {
			return err
		}
		fmt.Printf("Registered %s (%s)\n", rec.ID, rec.Engine)
		return nil
	},
}

var connectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered connections",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.close(ctx)

		recs, err := env.connections.List(ctx)
		if err != nil {
			return err
		}
		for _, r := range recs {
			target := r.Path
			if target == "" {
				target = fmt.Sprintf("%s:%d/%s", r.Host, r.Port, r.Database)
			}
			fmt.Printf("%-20s %-8s %s\n", r.ID, r.Engine, target)
		}
		return nil
	},
}

var connectionsRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a registered connection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.close(ctx)

		if err := env.connections.Delete(ctx, args[0]); err != nil {
			return err
		}
		env.logger.Info("Connection removed", zap.String("id", args[0]))
		return nil
	},
}

var connectionsTestCmd = &cobra.Command{
	Use:   "test [id]",
	Short: "Check that a registered connection can be opened",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.close(ctx)

		conn, err := env.connections.GetConnection(ctx, args[0])
		if err != nil {
			return err
		}
		a, err := endpoint.Open(ctx, conn, env.cfg.Compare.EndpointOptions())
		if err != nil {
			return err
		}
		defer a.Close()
		env.logger.Info("Connection OK", zap.String("id", conn.ID), zap.String("engine", string(conn.Engine)))
		return nil
	},
}

func init() {
	f := connectionsAddCmd.Flags()
	f.StringVar(&newConn.Name, "name", "", "Display name (defaults to the id)")
	f.StringVar((*string)(&newConn.Engine), "engine", "", "Engine: sqlite, mysql, mariadb or postgres")
	f.StringVar(&newConn.Path, "path", "", "Database file (sqlite)")
	f.StringVar(&newConn.Host, "host", "", "Server host")
	f.IntVar(&newConn.Port, "port", 0, "Server port")
	f.StringVar(&newConn.User, "user", "", "User name")
	f.StringVar(&newConn.Password, "password", "", "Password")
	f.StringVar(&newConn.Database, "database", "", "Database name")
	f.StringToStringVar(&newConn.Params, "param", nil, "Extra driver parameters (key=value)")
	_ = connectionsAddCmd.MarkFlagRequired("engine")

	connectionsCmd.AddCommand(connectionsAddCmd, connectionsListCmd, connectionsRemoveCmd, connectionsTestCmd)
	RootCmd.AddCommand(connectionsCmd)
}
