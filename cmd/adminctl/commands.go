package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/TheManishHQ/shipos-kit/internal/config"
	"github.com/TheManishHQ/shipos-kit/internal/database"
	"github.com/TheManishHQ/shipos-kit/internal/models"
	"github.com/TheManishHQ/shipos-kit/internal/repository"
)

// storeOpener returns a store and a function releasing it.
type storeOpener func() (*repository.Store, func(), error)

func openStore() (*repository.Store, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	return repository.New(db), func() { _ = database.Close(db) }, nil
}

func setRoleCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <email> <user|admin>",
		Short: "Change the role of a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := strings.ToLower(strings.TrimSpace(args[0]))
			role := args[1]
			if role != models.RoleUser && role != models.RoleAdmin {
				return fmt.Errorf("invalid role %q: must be %s or %s", role, models.RoleUser, models.RoleAdmin)
			}

			store, closeFn, err := open()
			if err != nil {
				return err
			}
			defer closeFn()

			if err := store.Users.SetRoleByEmail(cmd.Context(), email, role); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("no user with email %s", email)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", email, role)
			return nil
		},
	}
}

func listUsersCmd(open storeOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-users",
		Short: "List users, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query, _ := cmd.Flags().GetString("query")
			limit, _ := cmd.Flags().GetInt("limit")
			offset, _ := cmd.Flags().GetInt("offset")
			if limit < 1 || limit > 100 {
				return fmt.Errorf("limit must be between 1 and 100")
			}

			store, closeFn, err := open()
			if err != nil {
				return err
			}
			defer closeFn()

			users, total, err := store.Users.List(cmd.Context(), query, limit, offset)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tBANNED")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", u.ID, u.Email, u.Name, u.Role, u.Banned)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d users\n", len(users), total)
			return nil
		},
	}

	cmd.Flags().StringP("query", "q", "", "Filter by name or email")
	cmd.Flags().IntP("limit", "n", 10, "Maximum users to list")
	cmd.Flags().Int("offset", 0, "Number of users to skip")

	return cmd
}
