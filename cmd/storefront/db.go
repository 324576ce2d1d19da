package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/livefir/storefront/internal/database"
	"github.com/livefir/storefront/internal/shop"
)

func (a *app) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	runner := func(cmd *cobra.Command, fn func(r *database.Runner) error) error {
		conn, err := a.openDB(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer conn.Close()
		return fn(database.NewRunner(conn, a.logger.Named("migrate")))
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner(cmd, func(r *database.Runner) error { return r.Up(cmd.Context()) })
		},
	}
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner(cmd, func(r *database.Runner) error { return r.Down(cmd.Context()) })
		},
	}
	status := &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner(cmd, func(r *database.Runner) error {
				if err := r.Status(cmd.Context()); err != nil {
					return err
				}
				v, err := r.Version(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version: %d\n", v)
				return nil
			})
		},
	}

	var dir string
	create := &cobra.Command{
		Use:         "create NAME",
		Short:       "Create an empty migration file",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := database.Create(dir, args[0], time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
			return nil
		},
	}
	create.Flags().StringVar(&dir, "dir", "internal/database/migrations", "Migrations directory")

	cmd.AddCommand(up, down, status, create)
	return cmd
}

func (a *app) seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample data",
	}

	demo := &cobra.Command{
		Use:   "demo",
		Short: "Insert the demo store (no-op when present)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, svc, err := a.openShop(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()
			store, err := svc.SeedDemo(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "demo store %q at /%s\n", store.Name, shop.DemoSlug)
			return nil
		},
	}

	var storeID string
	var count int
	var seed uint64
	fake := &cobra.Command{
		Use:   "fake",
		Short: "Add generated products to a store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive")
			}
			conn, svc, err := a.openShop(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()
			products, err := svc.SeedFake(cmd.Context(), storeID, count, seed)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d products to %s\n", len(products), storeID)
			return nil
		},
	}
	fake.Flags().StringVar(&storeID, "store", shop.DemoStoreID, "Store ID")
	fake.Flags().IntVar(&count, "count", 20, "Number of products")
	fake.Flags().Uint64Var(&seed, "seed", 1, "Generator seed")

	cmd.AddCommand(demo, fake)
	return cmd
}
