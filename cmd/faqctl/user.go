package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewUserCmd creates the 'user' command group
func NewUserCmd(opener *appOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage legacy username/password accounts",
	}
	cmd.AddCommand(newUserCreateCmd(opener), newUserCheckCmd(opener))
	return cmd
}

func newUserCreateCmd(opener *appOpener) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a user with a bcrypt-hashed password",
		Example: `  faqctl user create --username alice --password 'correct horse'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opener.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := a.Users.Register(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User created\n  ID: %d\n  Username: %s\n", user.ID, user.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (at least 8 characters)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newUserCheckCmd(opener *appOpener) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify a username and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opener.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := a.Users.Authenticate(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK (user %d)\n", user.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
