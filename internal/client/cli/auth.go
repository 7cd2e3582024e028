package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/slidesmith/slidesmith/internal/client/models"
	"github.com/slidesmith/slidesmith/internal/client/services"
	"github.com/slidesmith/slidesmith/internal/common"
)

func newLoginCmd(a *App) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.Login(cmd.Context(), cmd.OutOrStdout(), email)
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email (prompted when empty)")
	return cmd
}

func newRegisterCmd(a *App) *cobra.Command {
	var email, name string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.Register(cmd.Context(), cmd.OutOrStdout(), email, name)
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email (prompted when empty)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "display name (prompted when empty)")
	return cmd
}

func newLogoutCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := a.auth.Whoami(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Println(userLine(u))
			return nil
		},
	}
}

func userLine(u models.User) string {
	if u.Name == "" {
		return u.Email
	}
	return fmt.Sprintf("%s <%s>", u.Name, u.Email)
}

// Login prompts for the missing credentials and runs the login flow. The
// password never comes from a flag.
func (a *App) Login(ctx context.Context, w io.Writer, email string) error {
	form := services.NewAuthForm(a.auth, func(u models.User) {
		fmt.Fprintf(w, "Logged in as %s\n", userLine(u))
	})
	return a.submit(ctx, w, form, email, "")
}

// Register prompts for the missing fields and creates an account. On
// success the user is asked to log in.
func (a *App) Register(ctx context.Context, w io.Writer, email, name string) error {
	form := services.NewAuthForm(a.auth, nil)
	form.Toggle()
	return a.submit(ctx, w, form, email, name)
}

func (a *App) submit(ctx context.Context, w io.Writer, form *services.AuthForm, email, name string) error {
	var err error
	if email == "" {
		if email, err = getSimpleText(a.reader, "Enter email", w); err != nil {
			return err
		}
	}
	if form.Mode == services.ModeRegister && name == "" {
		if name, err = getSimpleText(a.reader, "Enter name", w); err != nil {
			return err
		}
	}

	password, err := getPassword(w)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	form.Email, form.Name, form.Password = email, name, string(password)
	if _, err := form.Submit(ctx); err != nil {
		return &messageError{msg: form.Message, err: err}
	}
	if form.Message != "" {
		fmt.Fprintln(w, form.Message)
	}
	return nil
}
