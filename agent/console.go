package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

const (
	DefaultPrompt = ">> "
	BotPrefix     = "BOT: "
)

// Invoker answers one user query within a conversation.
type Invoker interface {
	Invoke(ctx context.Context, conv *Conversation, userQuery string) (string, error)
}

// Console is the interactive session: one prompt per query, one BOT line per answer.
type Console struct {
	In     io.Reader
	Out    io.Writer
	Prompt string
}

// Run reads queries until EOF or ctx is done. Errors from a single query are
// reported on Out and the session continues with the same conversation.
func (c *Console) Run(ctx context.Context, a Invoker, conv *Conversation) error {
	prompt := c.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}

	scanner := bufio.NewScanner(c.In)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		if err := ctx.Err(); err != nil {
			return errors.WithStack(err)
		}
		fmt.Fprint(c.Out, prompt)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return errors.Wrap(err, "input error")
			}
			return nil
		}
		query := strings.TrimRight(scanner.Text(), "\r")

		reply, err := a.Invoke(ctx, conv, query)
		if err != nil {
			if ctx.Err() != nil {
				return errors.WithStack(ctx.Err())
			}
			logger.ContextKV(ctx, xlog.ERROR,
				"conversation", conv.ID(),
				"reason", "invoke",
				"err", err.Error(),
			)
			fmt.Fprintf(c.Out, "ERROR: %v\n", err)
			continue
		}
		fmt.Fprintf(c.Out, "%s%s\n", BotPrefix, reply)
	}
}
