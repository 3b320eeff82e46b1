package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kbukum/sessionkit/agent"
	apperrors "github.com/kbukum/sessionkit/errors"
)

var errInputClosed = errors.New("input closed")

const joinHelp = `Commands:
  /progress STAGE VALUE [STATUS]  share progress (VALUE 0-100)
  /who                            show the current roster
  /quit                           leave the session
Anything else is sent as a chat message.
`

func (c *cli) joinCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "join CODE|LINK",
		Short: "Join a session and chat from the terminal",
		Long:  "Join a session as a participant. Lines read from stdin become chat messages.\n\n" + joinHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runJoin(cmd, args[0], name)
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "display name (default User-xxxx)")
	return cmd
}

func (c *cli) runJoin(cmd *cobra.Command, input, name string) error {
	lc, err := c.lifecycle()
	if err != nil {
		return err
	}
	out := newPrinter(cmd.OutOrStdout())

	lost := make(chan struct{})
	var lostOnce sync.Once
	a, err := agent.New(agent.Config{
		ServerURL:     c.server(),
		VerifyTimeout: c.verifyTimeout(),
		DisplayName:   name,
	}, lc,
		agent.WithLogger(c.logger(cmd.ErrOrStderr())),
		agent.WithHandlers(agent.Handlers{
			OnState: func(s agent.State) {
				if s == agent.StateDisconnected {
					lostOnce.Do(func() { close(lost) })
				}
			},
			OnRoster:   out.roster,
			OnChat:     out.chat,
			OnProgress: out.progress,
			OnError: func(err error) {
				if !apperrors.HasCode(err, apperrors.ErrCodeTransportFailure) {
					out.printf("! %s\n", friendly(err))
				}
			},
		}),
	)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if err := a.Join(cmd.Context(), input); err != nil {
		return friendly(err)
	}
	id := a.Identity()
	out.printf("Joined %s as %s. Type /quit to leave.\n", a.SessionID(), id.DisplayName)

	g, ctx := errgroup.WithContext(cmd.Context())
	lines := make(chan string)
	go scanLines(ctx, cmd.InOrStdin(), lines)

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok {
					return errInputClosed
				}
				if err := handleLine(a, out, line); err != nil {
					return err
				}
			}
		}
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
			return nil
		case <-lost:
			return apperrors.TransportFailure("session", errors.New("connection to the server was lost"))
		}
	})

	err = g.Wait()
	if errors.Is(err, errInputClosed) {
		return nil
	}
	return friendly(err)
}

// scanLines feeds lines from r into out and closes out at EOF. A read that is
// already blocked outlives ctx; the goroutine exits on its next line.
func scanLines(ctx context.Context, r io.Reader, out chan<- string) {
	defer close(out)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		select {
		case out <- sc.Text():
		case <-ctx.Done():
			return
		}
	}
}

// handleLine runs one line of input. errInputClosed ends the session.
func handleLine(a *agent.Agent, out *printer, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if !strings.HasPrefix(line, "/") {
		return report(out, a.SendChat(line))
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit":
		return errInputClosed
	case "/who":
		out.roster(a.Roster())
	case "/progress":
		if len(fields) < 3 {
			out.printf("usage: /progress STAGE VALUE [STATUS]\n")
			return nil
		}
		value, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			out.printf("! VALUE must be a number\n")
			return nil
		}
		return report(out, a.SendProgress(fields[1], value, strings.Join(fields[3:], " ")))
	default:
		out.printf("%s", joinHelp)
	}
	return nil
}

// report prints send failures that leave the session usable and returns the
// rest.
func report(out *printer, err error) error {
	switch {
	case err == nil:
		return nil
	case apperrors.HasCode(err, apperrors.ErrCodeInvalidInput):
		out.printf("! %s\n", friendly(err))
		return nil
	case errors.Is(err, agent.ErrNotJoined):
		return apperrors.TransportFailure("session", err)
	default:
		return err
	}
}
