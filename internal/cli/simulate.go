package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"interview-scheduler/internal/app"
	"interview-scheduler/internal/dialogue"
	"interview-scheduler/internal/slots"
	"interview-scheduler/internal/store"
)

var (
	simCandidate string
	simJob       string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Talk to the voice agent from the terminal",
	Long: `simulate runs one scripted call against the configured store.
Each line you type is one candidate reply. Input is read from a prompt when
stdin is a terminal, otherwise one reply per line until EOF.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return simulate(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().StringVar(&simCandidate, "candidate", "", "candidate id (default: first candidate)")
	simulateCmd.Flags().StringVar(&simJob, "job", "", "job id (default: first job)")
}

// theme holds the colors of the transcript.
type theme struct {
	Agent     lipgloss.Style
	Candidate lipgloss.Style
	Hint      lipgloss.Style
	Success   lipgloss.Style
}

var defaultTheme = theme{
	Agent:     lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFD7")).Bold(true), // light blue
	Candidate: lipgloss.NewStyle().Foreground(lipgloss.Color("#D7AF5F")),            // amber
	Hint:      lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C")).Italic(true),
	Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("#00D787")).Bold(true),
}

// lineReader returns the next candidate reply, or io.EOF when there is none.
type lineReader func() (string, error)

func promptReader() lineReader {
	return func() (string, error) {
		p := promptui.Prompt{Label: "You"}
		line, err := p.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return "", io.EOF
		}
		return line, err
	}
}

func scanReader(r io.Reader) lineReader {
	sc := bufio.NewScanner(r)
	return func() (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return strings.TrimSpace(sc.Text()), nil
	}
}

func simulate(ctx context.Context, out io.Writer) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	if !cfg.Debug {
		// Log lines would interleave with the transcript.
		logger = zap.NewNop()
	}

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	candidateID, jobID, err := pickParticipants(ctx, st, simCandidate, simJob)
	if err != nil {
		return err
	}

	a := &app.App{
		Store:           st,
		Matcher:         slots.NewMatcher(cfg.Dialogue.MaxAlternatives, cfg.Dialogue.MaxSlotDistance),
		Location:        cfg.Location,
		Company:         cfg.Company,
		InterviewLength: cfg.Dialogue.InterviewLength,
		Logger:          logger,
	}

	read := scanReader(os.Stdin)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		read = promptReader()
	}
	_, err = converse(ctx, a, candidateID, jobID, read, out, defaultTheme)
	return err
}

// pickParticipants resolves the ids to call, defaulting to the first
// candidate and job in the store.
func pickParticipants(ctx context.Context, st store.Store, candidateID, jobID string) (string, string, error) {
	if candidateID == "" {
		cands, err := st.ListCandidates(ctx)
		if err != nil {
			return "", "", err
		}
		if len(cands) == 0 {
			return "", "", errors.New("no candidates to call, pass --seed-file")
		}
		candidateID = cands[0].ID
	}
	if jobID == "" {
		jobs, err := st.ListJobs(ctx)
		if err != nil {
			return "", "", err
		}
		if len(jobs) == 0 {
			return "", "", errors.New("no jobs to call about, pass --seed-file")
		}
		jobID = jobs[0].ID
	}
	return candidateID, jobID, nil
}

// converse runs a call until it completes or the reader runs dry.
func converse(ctx context.Context, a *app.App, candidateID, jobID string, read lineReader, out io.Writer, th theme) (*app.TurnResult, error) {
	call, err := a.StartCall(ctx, candidateID, jobID)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(out, th.Hint.Render(fmt.Sprintf("Calling %s about %s (conversation %s)", call.Candidate.Name, call.Job.Title, call.ConversationID)))
	fmt.Fprintln(out, th.Agent.Render("Agent: ")+call.InitialGreeting)

	state := string(dialogue.InitialState)
	for {
		line, err := read()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out, th.Hint.Render("Call ended before completion."))
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(out, th.Candidate.Render("You: ")+line)

		res, err := a.ProcessTurn(ctx, app.TurnRequest{
			ConversationID:  call.ConversationID,
			UserResponse:    line,
			CurrentQuestion: state,
		})
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(out, th.Agent.Render("Agent: ")+res.SystemResponse)

		if res.IsComplete {
			summarize(out, res, a.Location, th)
			return &res, nil
		}
		state = *res.NextQuestion
	}
}

func summarize(out io.Writer, res app.TurnResult, loc *time.Location, th theme) {
	e := res.Entities
	var parts []string
	if e.Interested != nil {
		parts = append(parts, fmt.Sprintf("interested=%t", *e.Interested))
	}
	if e.NoticePeriod != nil {
		parts = append(parts, fmt.Sprintf("notice=%dd", *e.NoticePeriod))
	}
	if e.CurrentCTC != nil && e.ExpectedCTC != nil {
		parts = append(parts, fmt.Sprintf("ctc=%g->%g", *e.CurrentCTC, *e.ExpectedCTC))
	}
	fmt.Fprintln(out, th.Hint.Render("Extracted: "+strings.Join(parts, " ")))
	if res.Appointment != nil {
		fmt.Fprintln(out, th.Success.Render(fmt.Sprintf("Booked %s (appointment %s)",
			dialogue.FormatSlot(res.Appointment.DateTime, loc), res.Appointment.ID)))
	}
}
