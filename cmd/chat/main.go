package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/wolfman30/coachflow/internal/app/bootstrap"
	"github.com/wolfman30/coachflow/internal/assistant"
	appconfig "github.com/wolfman30/coachflow/internal/config"
	"github.com/wolfman30/coachflow/pkg/logging"
)

// chat runs the assistant in a terminal against the configured store (memory unless DATABASE_URL is set).
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := appconfig.Load()
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	logger := logging.NewWithWriter(level, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("build runtime: %v", err)
	}
	defer rt.Close()

	if err := repl(ctx, rt.Manager, os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// conversation is the part of *assistant.Manager the REPL drives.
type conversation interface {
	Create(ctx context.Context) (*assistant.Session, error)
	Send(ctx context.Context, id, text string) (assistant.Message, error)
	Reset(ctx context.Context, id string) error
}

func repl(ctx context.Context, conv conversation, in io.Reader, out io.Writer) error {
	sess, err := conv.Create(ctx)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	fmt.Fprintln(out, "CoachFlow assistant. Type 'help' for commands, '/reset' to start over, '/quit' to exit.")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/reset":
			if err := conv.Reset(ctx, sess.ID); err != nil {
				return fmt.Errorf("reset: %w", err)
			}
			fmt.Fprintln(out, "(conversation cleared)")
			continue
		}

		msg, err := conv.Send(ctx, sess.ID, line)
		if err != nil && msg.Text == "" {
			return fmt.Errorf("send: %w", err)
		}
		printMessage(out, msg)
	}
}

func printMessage(out io.Writer, msg assistant.Message) {
	text := strings.ReplaceAll(msg.Text, "**", "")
	if msg.Failed {
		text = "! " + text
	}
	fmt.Fprintln(out, text)
	for _, action := range msg.Actions {
		fmt.Fprintf(out, "  [%s -> %s]\n", action.Label, action.View)
	}
}
