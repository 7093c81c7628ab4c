package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"ai-interview-be/pkg/events"
	pktNats "ai-interview-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/spf13/cobra"
)

type watchOptions struct {
	natsURL   string
	eventType string
	sessionId string
	durable   string
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow interview events on NATS",
		Long: `Print interview events as they are published to the EVENTS stream.

Without --durable only new events are shown. With --durable a named consumer
is used, so events published while the command was not running are replayed
on the next start.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd.OutOrStdout(), opts)
		},
	}

	defaultURL := os.Getenv("NATS_URL")
	if defaultURL == "" {
		defaultURL = "nats://localhost:4222"
	}
	cmd.Flags().StringVar(&opts.natsURL, "nats-url", defaultURL, "NATS server URL")
	cmd.Flags().StringVar(&opts.eventType, "type", "", "Only show one event type, e.g. ANSWER_SCORED")
	cmd.Flags().StringVar(&opts.sessionId, "session", "", "Only show events for one session id")
	cmd.Flags().StringVar(&opts.durable, "durable", "", "Durable consumer name")

	return cmd
}

func runWatch(ctx context.Context, w io.Writer, opts *watchOptions) error {
	subject := events.SubjectPrefix + ">"
	if opts.eventType != "" {
		if !events.IsKnown(opts.eventType) {
			return fmt.Errorf("unknown event type %q (want one of %v)", opts.eventType, events.Types())
		}
		subject = events.Subject(opts.eventType)
	}

	sub, err := pktNats.NewSubscriber(opts.natsURL)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	printer := &eventPrinter{w: w, sessionId: opts.sessionId}

	var cc jetstream.ConsumeContext
	if opts.durable != "" {
		cc, err = sub.Subscribe(ctx, subject, opts.durable, printer.handle)
	} else {
		cc, err = sub.Watch(ctx, subject, printer.handle)
	}
	if err != nil {
		return err
	}
	defer cc.Stop()

	color.New(color.Faint).Fprintf(w, "Watching %s on %s (Ctrl+C to stop)\n", subject, opts.natsURL)
	<-ctx.Done()
	return nil
}

type eventPrinter struct {
	mu        sync.Mutex
	w         io.Writer
	sessionId string
}

func (p *eventPrinter) handle(_ context.Context, event events.Event) error {
	sessionId := events.SessionIdOf(event)
	if p.sessionId != "" && sessionId != p.sessionId {
		return nil
	}

	payload := make(map[string]interface{}, len(event.Payload()))
	for k, v := range event.Payload() {
		if k != events.SessionIdKey {
			payload[k] = v
		}
	}
	details, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.w, "%s %s %s %s\n",
		color.New(color.Faint).Sprint(event.Timestamp().Local().Format(time.TimeOnly)),
		eventColor(event.EventType()).Sprintf("%-19s", event.EventType()),
		color.CyanString(sessionId),
		details,
	)
	return nil
}

func eventColor(eventType string) *color.Color {
	switch eventType {
	case events.InterviewStarted:
		return color.New(color.FgGreen, color.Bold)
	case events.InterviewCompleted:
		return color.New(color.FgMagenta, color.Bold)
	case events.AnswerScored:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgBlue)
	}
}
