package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/monthcal/internal/model"
)

func (c *cli) loginCmd() *cobra.Command {
	var idToken string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with an identity-provider token",
		Long:  `Exchange an identity-provider ID token for API credentials. The token can also be passed in MONTHCAL_ID_TOKEN.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if idToken == "" {
				idToken = os.Getenv("MONTHCAL_ID_TOKEN")
			}
			if idToken == "" {
				return errors.New("an ID token is required (--id-token or MONTHCAL_ID_TOKEN)")
			}

			svc, err := c.open()
			if err != nil {
				return err
			}
			user, err := svc.Login(cmd.Context(), idToken)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "✓ Signed in as %s\n", userLabel(user))
			return nil
		},
	}
	cmd.Flags().StringVar(&idToken, "id-token", "", "Identity-provider ID token")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			svc, err := c.open()
			if err != nil {
				return err
			}
			if err := svc.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "✓ Signed out")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Validate the session and show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.open()
			if err != nil {
				return err
			}
			status, err := svc.Probe(cmd.Context())
			if err != nil {
				return err
			}

			user, ok := svc.User().Get()
			if !ok {
				fmt.Fprintf(c.out, "Status: %s\n", status)
				return nil
			}
			fmt.Fprintf(c.out, "Status: %s\n", status)
			fmt.Fprintf(c.out, "User:   %s\n", userLabel(user))
			if user.Role != "" {
				fmt.Fprintf(c.out, "Role:   %s\n", user.Role)
			}
			return nil
		},
	}
}

func userLabel(u model.User) string {
	if name, ok := u.DisplayName.Get(); ok && name != "" {
		return fmt.Sprintf("%s <%s>", name, u.Email)
	}
	if u.Email != "" {
		return u.Email
	}
	return u.ID
}
