package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/livefir/storefront/internal/config"
	"github.com/livefir/storefront/internal/token"
	"github.com/livefir/storefront/internal/tui"
)

func (a *app) tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage merchant access tokens",
	}

	var userID string
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Issue an access token and panel link for a merchant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := token.NewTokenService([]byte(a.cfg.Auth.Secret), &token.Config{TTL: a.cfg.Auth.TokenTTL})
			if err != nil {
				return err
			}
			signed, err := tokens.GenerateToken(userID)
			if err != nil {
				return err
			}
			link := strings.TrimSuffix(a.cfg.Server.PublicURL, "/") + "/admin?token=" + url.QueryEscape(signed)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "token: %s\n", signed)
			fmt.Fprintf(out, "link:  %s\n", link)
			fmt.Fprintf(out, "valid for %s\n", a.cfg.Auth.TokenTTL)
			return nil
		},
	}
	issue.Flags().StringVar(&userID, "user", "", "Merchant user ID")
	_ = issue.MarkFlagRequired("user")

	cmd.AddCommand(issue)
	return cmd
}

func (a *app) storeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage stores",
	}

	var userID, name, rawSlug string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create (or rename) a merchant's store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, svc, err := a.openShop(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()
			store, saved, err := svc.CreateStore(cmd.Context(), userID, name, rawSlug)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "store %q (%s) at %s/%s\n",
				store.Name, store.ID, strings.TrimSuffix(a.cfg.Server.PublicURL, "/"), saved)
			return nil
		},
	}
	create.Flags().StringVar(&userID, "user", "", "Merchant user ID")
	create.Flags().StringVar(&name, "name", "", "Store name")
	create.Flags().StringVar(&rawSlug, "slug", "", "Catalog address (default: derived from the name)")
	_ = create.MarkFlagRequired("user")
	_ = create.MarkFlagRequired("name")

	list := &cobra.Command{
		Use:   "list",
		Short: "List stores with their catalog size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, svc, err := a.openShop(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()
			stores, err := svc.Stores(cmd.Context())
			if err != nil {
				return err
			}
			if len(stores) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no stores")
				return nil
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "NAME", "SLUG", "WHATSAPP", "PRODUCTS", "BUTTONS")
			for _, c := range stores {
				t.Row(c.Store.ID, c.Store.Name, c.Slug, c.Store.WhatsApp,
					strconv.Itoa(len(c.Products)), strconv.Itoa(len(c.Buttons)))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}

	cmd.AddCommand(create, list)
	return cmd
}

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:         "init [path]",
		Short:       "Write a config file with the defaults",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.FileName
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			cfg := config.Default()
			secret, err := randomSecret()
			if err != nil {
				return err
			}
			cfg.Auth.Secret = secret
			if err := config.Write(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}

func (a *app) browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse SLUG",
		Short: "Browse a catalog in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, svc, err := a.openShop(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()
			c, err := svc.CatalogBySlug(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(tui.NewBrowseModel(c),
				tea.WithAltScreen(),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			).Run()
			return err
		},
	}
}

// randomSecret returns a 32 byte signing key, hex encoded.
func randomSecret() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(key), nil
}
