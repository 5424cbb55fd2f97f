package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"devauth/internal/config"
	"devauth/internal/service"
	"devauth/internal/session"
)

// errNotSignedIn es la señal de "redirigir a login" del CLI.
var errNotSignedIn = errors.New("not signed in, run `authctl login` first")

// cliApp agrupa las dependencias de los comandos.
type cliApp struct {
	cfg    *config.Config
	logger *zap.Logger

	sessionFile string
	store       session.Store

	openAuth func(ctx context.Context) (*service.AuthService, func(), error)
	in       *bufio.Reader
	sleep    func(time.Duration)
}

func newCLIApp(cfg *config.Config, logger *zap.Logger) *cliApp {
	return &cliApp{
		cfg:         cfg,
		logger:      logger,
		sessionFile: cfg.SessionFile,
		in:          bufio.NewReader(os.Stdin),
		sleep:       time.Sleep,
	}
}

func newRootCmd(a *cliApp) *cobra.Command {
	root := &cobra.Command{
		Use:          "authctl",
		Short:        "Register, sign in and manage the local session",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if a.store == nil {
				a.store = session.NewFileStore(a.sessionFile)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.sessionFile, "session-file", a.sessionFile, "path of the local session slot")

	root.AddCommand(
		newRegisterCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
	)
	return root
}

// withAuth abre el directorio de usuarios solo para los comandos que lo usan.
func (a *cliApp) withAuth(ctx context.Context, fn func(*service.AuthService) error) error {
	if a.openAuth == nil {
		return errors.New("user directory not configured")
	}
	svc, closeFn, err := a.openAuth(ctx)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}
	return fn(svc)
}

// flowError convierte un error de flujo en el mensaje que ve el usuario.
func flowError(err error) error {
	if err == nil {
		return nil
	}
	return errors.New(service.UserMessage(err))
}

func (a *cliApp) prompt(w io.Writer, label, current string) (string, error) {
	if current != "" {
		return current, nil
	}
	return getSimpleText(a.in, label, w)
}

func (a *cliApp) promptPassword(w io.Writer, label, current string) (string, error) {
	if current != "" {
		return current, nil
	}
	pw, err := getPassword(w, label)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
