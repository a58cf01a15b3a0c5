package pathwayctl

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	runtimecmd "github.com/officialpathway/pathwei-website/internal/cmd/runtime"
	"github.com/officialpathway/pathwei-website/internal/platform/id"
	"github.com/officialpathway/pathwei-website/internal/services/auth"
	"github.com/officialpathway/pathwei-website/internal/services/newsletter"
	"github.com/officialpathway/pathwei-website/internal/storage"
)

func (a *app) newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage back-office accounts",
	}
	cmd.AddCommand(a.newUserCreateCmd())
	cmd.AddCommand(a.newUserListCmd())
	return cmd
}

func (a *app) newUserCreateCmd() *cobra.Command {
	var email, password, role, name string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			normalized, err := newsletter.NormalizeEmail(email)
			if err != nil {
				return err
			}
			parsedRole, err := auth.ParseRole(role)
			if err != nil {
				return err
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			userID, err := id.NewID()
			if err != nil {
				return err
			}
			now := a.cfg.Deps.Now().UTC()
			user := storage.User{
				ID:           userID,
				Email:        normalized,
				DisplayName:  name,
				Role:         string(parsedRole),
				PasswordHash: hash,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			return a.withRuntime(cmd, func(ctx context.Context, rt *runtimecmd.Runtime) error {
				if err := rt.Store.CreateUser(ctx, user); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) id=%s\n", user.Email, user.Role, user.ID)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Account password, at least 8 characters (required)")
	cmd.Flags().StringVar(&role, "role", string(auth.RoleEditor), "Role: user, editor or admin")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *app) newUserListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withRuntime(cmd, func(ctx context.Context, rt *runtimecmd.Runtime) error {
				users, err := rt.Store.ListUsers(ctx)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tEMAIL\tROLE\tCREATED")
				for _, user := range users {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", user.ID, user.Email, user.Role, user.CreatedAt.UTC().Format("2006-01-02"))
				}
				return w.Flush()
			})
		},
	}
}

func (a *app) newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue API tokens",
	}
	var email string
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Print a bearer token for an existing account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.TokenSecret == "" {
				return errMissingSecret
			}
			issuer, err := auth.NewIssuer(auth.IssuerConfig{
				Secret: []byte(a.cfg.TokenSecret),
				TTL:    a.cfg.TokenTTL,
				Now:    a.cfg.Deps.Now,
			})
			if err != nil {
				return err
			}
			normalized, err := newsletter.NormalizeEmail(email)
			if err != nil {
				return err
			}
			return a.withRuntime(cmd, func(ctx context.Context, rt *runtimecmd.Runtime) error {
				user, err := rt.Store.GetUserByEmail(ctx, normalized)
				if err != nil {
					return err
				}
				token, claims, err := issuer.Issue(user.ID, user.Email, auth.Role(user.Role))
				if err != nil {
					return err
				}
				if err := rt.Store.PutUserSession(ctx, claims.TokenID, user.ID, claims.IssuedAt); err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
				return err
			})
		},
	}
	issue.Flags().StringVar(&email, "email", "", "Account email (required)")
	_ = issue.MarkFlagRequired("email")
	cmd.AddCommand(issue)
	return cmd
}
