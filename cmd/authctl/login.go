package main

import (
	"time"

	"github.com/spf13/cobra"

	"devauth/internal/service"
	"devauth/internal/session"
)

func newLoginCmd(a *cliApp) *cobra.Command {
	var emailFlag, passwordFlag string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session locally",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			email, err := a.prompt(out, "Email", emailFlag)
			if err != nil {
				return err
			}
			password, err := a.promptPassword(out, "Password", passwordFlag)
			if err != nil {
				return err
			}
			return a.withAuth(cmd.Context(), func(svc *service.AuthService) error {
				sess, err := svc.Login(cmd.Context(), service.LoginInput{Email: email, Password: password}, a.store)
				if err != nil {
					return flowError(err)
				}
				cmd.Printf("Welcome, %s!\n", session.DisplayName(sess))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&emailFlag, "email", "", "email address")
	cmd.Flags().StringVar(&passwordFlag, "password", "", "password (prompted without echo when empty)")
	return cmd
}

func newLogoutCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the local session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.store.Clear(); err != nil {
				return err
			}
			cmd.Println("Signed out.")
			return nil
		},
	}
}

func newWhoamiCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user (protected view)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, ok := session.Gate(a.store)
			if !ok {
				return errNotSignedIn
			}
			cmd.Printf("Welcome, %s!\n", session.DisplayName(sess))
			cmd.Printf("email: %s\nsigned in at: %s\n", sess.Email, sess.SignedInAt.Format(time.RFC3339))
			return nil
		},
	}
}
