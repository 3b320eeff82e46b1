package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kbukum/sessionkit/agent"
	apperrors "github.com/kbukum/sessionkit/errors"
	"github.com/kbukum/sessionkit/httpclient"
	"github.com/kbukum/sessionkit/logger"
)

const (
	defaultServer = "http://localhost:8080"
	envPrefix     = "SESSIONCTL"
)

// cli holds settings shared by every subcommand.
type cli struct {
	v *viper.Viper
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:   "sessionctl",
		Short: "Create, inspect and join collaborative sessions",
		Long: `sessionctl talks to a sessiond server.

Session arguments accept either a bare code (AB12) or a share link
(https://host/?session=AB12).`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("server", defaultServer, "sessiond base URL (env SESSIONCTL_SERVER)")
	flags.Duration("verify-timeout", agent.DefaultVerifyTimeout, "how long to wait for a session check")
	flags.String("log-level", "warn", "log level for diagnostics on stderr")
	_ = c.v.BindPFlags(flags)
	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	root.AddCommand(
		c.createCmd(),
		c.verifyCmd(),
		c.rosterCmd(),
		c.watchCmd(),
		c.joinCmd(),
	)
	return root
}

func (c *cli) server() string { return c.v.GetString("server") }

func (c *cli) verifyTimeout() time.Duration { return c.v.GetDuration("verify-timeout") }

func (c *cli) logger(w io.Writer) *logger.Logger {
	return logger.NewWithWriter(&logger.Config{
		Level:   c.v.GetString("log-level"),
		Format:  logger.FormatConsole,
		NoColor: true,
	}, "sessionctl", w)
}

func (c *cli) lifecycle() (*agent.HTTPLifecycle, error) {
	return agent.NewHTTPLifecycle(httpclient.Config{
		BaseURL: c.server(),
		Timeout: c.verifyTimeout(),
	})
}

// sessionArg normalizes a code-or-link argument.
func sessionArg(args []string) (string, error) {
	code := agent.CodeFromInput(args[0])
	if code == "" {
		return "", fmt.Errorf("no session code in %q", args[0])
	}
	return code, nil
}

// friendly turns AppErrors into the message a user should see.
func friendly(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return errors.New(appErr.Message)
	}
	return err
}
