package main

import (
	"github.com/spf13/cobra"

	"devauth/internal/service"
)

type registerFlags struct {
	name     string
	email    string
	password string
	confirm  string
}

func newRegisterCmd(a *cliApp) *cobra.Command {
	f := &registerFlags{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRegister(cmd, a, f)
		},
	}
	cmd.Flags().StringVar(&f.name, "name", "", "full name")
	cmd.Flags().StringVar(&f.email, "email", "", "email address")
	cmd.Flags().StringVar(&f.password, "password", "", "password (prompted without echo when empty)")
	cmd.Flags().StringVar(&f.confirm, "confirm-password", "", "password confirmation")
	return cmd
}

func runRegister(cmd *cobra.Command, a *cliApp, f *registerFlags) error {
	out := cmd.OutOrStdout()

	name, err := a.prompt(out, "Name", f.name)
	if err != nil {
		return err
	}
	email, err := a.prompt(out, "Email", f.email)
	if err != nil {
		return err
	}
	password, err := a.promptPassword(out, "Password", f.password)
	if err != nil {
		return err
	}
	confirm, err := a.promptPassword(out, "Confirm password", f.confirm)
	if err != nil {
		return err
	}

	return a.withAuth(cmd.Context(), func(svc *service.AuthService) error {
		res, err := svc.Register(cmd.Context(), service.RegisterInput{
			FullName:        name,
			Email:           email,
			Password:        password,
			ConfirmPassword: confirm,
		})
		if err != nil {
			return flowError(err)
		}
		cmd.Println("Account created, Redirecting to login…")
		a.sleep(res.RedirectAfter)
		cmd.Println("Run `authctl login` to sign in.")
		return nil
	})
}
