package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/kanolab/patternshop/internal/pricing"
	"github.com/kanolab/patternshop/internal/store"
)

// SessionsOptions holds flags for the sessions command.
type SessionsOptions struct {
	*RootOptions
	Database string
}

// SessionRow is one session summary in sessions output.
type SessionRow struct {
	Token     string    `json:"token"`
	Events    int       `json:"events"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

// EventRow is one funnel event in session detail output.
type EventRow struct {
	Seq       int64     `json:"seq"`
	Category  string    `json:"category"`
	Step      string    `json:"step"`
	Type      string    `json:"type"`
	Variant   string    `json:"variant"`
	TotalYen  int       `json:"total_yen"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSessionsCommand creates the sessions command.
func NewSessionsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SessionsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sessions [token]",
		Short: "Inspect the funnel event log",
		Long: `List recorded sessions, or dump one session's funnel events.

Examples:
  patternshop sessions --db ./funnel.db
  patternshop sessions --db ./funnel.db 0190a7e2-... --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			token := ""
			if len(args) == 1 {
				token = args[0]
			}
			return runSessions(opts, token, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite funnel event log (required)")
	_ = cmd.MarkFlagRequired("db")
	return cmd
}

func runSessions(opts *SessionsOptions, token string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "open event log", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if token == "" {
		sums, err := st.Sessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "read sessions", err)
		}
		rows := make([]SessionRow, 0, len(sums))
		for _, s := range sums {
			rows = append(rows, SessionRow{
				Token:     s.Token,
				Events:    s.Events,
				FirstSeen: s.FirstSeen,
				LastSeen:  s.LastSeen,
			})
		}
		if formatter.JSON() {
			return formatter.Success(rows)
		}
		formatter.Textf("%d session(s)", len(rows))
		for _, r := range rows {
			formatter.Textf("  %s  events=%d  first=%s  last=%s",
				r.Token, r.Events, r.FirstSeen.Format(time.RFC3339), r.LastSeen.Format(time.RFC3339))
		}
		return nil
	}

	events, err := st.ReadSession(ctx, token)
	if err != nil {
		return WrapExitError(ExitCommandError, "read session", err)
	}
	rows := make([]EventRow, 0, len(events))
	for _, ev := range events {
		rows = append(rows, EventRow{
			Seq:       ev.Seq,
			Category:  ev.CategoryID,
			Step:      ev.Step,
			Type:      ev.Type,
			Variant:   string(ev.Variant),
			TotalYen:  ev.TotalYen,
			CreatedAt: ev.CreatedAt,
		})
	}
	if formatter.JSON() {
		return formatter.Success(rows)
	}
	formatter.Textf("session %s: %d event(s)", token, len(rows))
	for _, r := range rows {
		formatter.Textf("  [%d] %s/%s %s %s total=%s",
			r.Seq, r.Category, r.Step, r.Type, r.Variant, pricing.Yen(r.TotalYen))
	}
	return nil
}
