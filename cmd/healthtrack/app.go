// ABOUTME: Shared presentation logic used by one-shot commands and the shell.
// ABOUTME: Parses user input, calls the session controller, and formats results.
package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/healthtrack/internal/config"
	"github.com/harperreed/healthtrack/internal/models"
	"github.com/harperreed/healthtrack/internal/session"
	"github.com/harperreed/healthtrack/internal/storage"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
)

// app holds the per-process state: one store and one session.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	store storage.Repository
	sess  *session.Controller
	out   io.Writer
	now   func() time.Time
}

func newApp(cfg *config.Config, logger *zap.Logger, store storage.Repository, sess *session.Controller, out io.Writer) *app {
	return &app{
		cfg:   cfg,
		log:   logger,
		store: store,
		sess:  sess,
		out:   out,
		now:   time.Now,
	}
}

// Close releases the store and flushes the logger.
func (a *app) Close() error {
	_ = a.log.Sync()
	return a.store.Close()
}

// recordArgs is a parsed measurement before it reaches the session.
type recordArgs struct {
	systolic  int
	diastolic int
	pulse     int
	weight    *float64
}

// parseRecordArgs parses "<systolic> <diastolic> <pulse> [weight]".
func parseRecordArgs(args []string) (recordArgs, error) {
	var r recordArgs
	if len(args) < 3 || len(args) > 4 {
		return r, fmt.Errorf("expected <systolic> <diastolic> <pulse> [weight], got %d values", len(args))
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"systolic", &r.systolic},
		{"diastolic", &r.diastolic},
		{"pulse", &r.pulse},
	}
	for i, f := range ints {
		v, err := strconv.Atoi(args[i])
		if err != nil {
			return r, fmt.Errorf("invalid %s value: %s", f.name, args[i])
		}
		*f.dst = v
	}

	if len(args) == 4 && args[3] != "" {
		w, err := strconv.ParseFloat(args[3], 64)
		if err != nil {
			return r, fmt.Errorf("invalid weight value: %s", args[3])
		}
		r.weight = &w
	}
	return r, nil
}

// parseAge parses an optional age; empty means unset.
func parseAge(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	age, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("age must be a number: %s", s)
	}
	return &age, nil
}

// friendly adds a hint to the errors a user can fix, keeping the error chain.
func friendly(err error) error {
	switch {
	case errors.Is(err, session.ErrNoProfileSelected):
		return fmt.Errorf("%w: run 'healthtrack select <name>' or pass --profile", err)
	case errors.Is(err, session.ErrMissingRequiredField):
		return fmt.Errorf("%w: enter a value and try again", err)
	case errors.Is(err, storage.ErrDuplicateName):
		return fmt.Errorf("%w: choose another name", err)
	default:
		return err
	}
}

// selectRef resolves a profile name or id and makes it the acting profile.
func (a *app) selectRef(ref string) (models.ProfileSummary, error) {
	profiles, err := a.sess.ListProfiles()
	if err != nil {
		return models.ProfileSummary{}, err
	}
	p, ok := models.FindProfile(profiles, ref)
	if !ok {
		return models.ProfileSummary{}, fmt.Errorf("profile not found: %s", ref)
	}
	a.sess.SelectProfile(p.ID, p.Name)
	return p, nil
}

func (a *app) addProfile(name string, age *int, gender *string) (*models.Profile, error) {
	p, err := a.sess.CreateProfile(name, age, gender)
	if err != nil {
		return nil, friendly(err)
	}

	fmt.Fprintln(a.out, color.GreenString("✓ Added profile %s", p.Name))
	fmt.Fprintf(a.out, "  %s now selected\n", color.New(color.Faint).Sprintf("#%d", p.ID))
	return p, nil
}

// saveDefaultProfile records name as the profile later invocations start
// with. An empty name clears it.
func (a *app) saveDefaultProfile(name string) error {
	a.cfg.DefaultProfile = name
	if err := a.cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

func (a *app) listProfiles() error {
	profiles, err := a.sess.ListProfiles()
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		fmt.Fprintln(a.out, "No profiles yet. Add one with 'profile add <name>'.")
		return nil
	}

	sel, selected := a.sess.Current()
	faint := color.New(color.Faint)
	for _, p := range profiles {
		marker := " "
		if selected && sel.ProfileID == p.ID {
			marker = color.GreenString("*")
		}
		fmt.Fprintf(a.out, "%s %s %s\n", marker, faint.Sprint(padRight(strconv.FormatInt(p.ID, 10), 4)), p.Name)
	}
	return nil
}

func (a *app) whoami() error {
	p, err := a.sess.CurrentProfile()
	if errors.Is(err, session.ErrNoProfileSelected) {
		fmt.Fprintln(a.out, "No profile selected")
		return nil
	}
	if err != nil {
		return err
	}

	var details []string
	if p.Age != nil {
		details = append(details, fmt.Sprintf("age %d", *p.Age))
	}
	if p.Gender != nil && *p.Gender != "" {
		details = append(details, *p.Gender)
	}
	line := fmt.Sprintf("%s (#%d)", p.Name, p.ID)
	if len(details) > 0 {
		line += "  " + color.New(color.Faint).Sprint(strings.Join(details, ", "))
	}
	fmt.Fprintln(a.out, line)
	return nil
}

// logRecord stores one measurement. A missing weight falls back to the
// profile's last weight, the way the entry form is prefilled.
func (a *app) logRecord(args []string, at string, position *string) error {
	parsed, err := parseRecordArgs(args)
	if err != nil {
		return err
	}

	weight := parsed.weight
	reused := false
	if weight == nil {
		last, err := a.sess.SuggestedWeight()
		if err != nil && !errors.Is(err, session.ErrNoProfileSelected) {
			return err
		}
		weight, reused = last, last != nil
	}

	if at == "" {
		at = models.FormatMeasuredAt(a.now())
	}

	r, err := a.sess.LogRecord(session.RecordInput{
		Systolic:   parsed.systolic,
		Diastolic:  parsed.diastolic,
		Pulse:      parsed.pulse,
		Weight:     weight,
		MeasuredAt: at,
		Position:   position,
	})
	if err != nil {
		if errors.Is(err, session.ErrMissingRequiredField) {
			return fmt.Errorf("%w: weight is required for the first record", err)
		}
		return friendly(err)
	}

	sel, _ := a.sess.Current()
	fmt.Fprintln(a.out, color.GreenString("✓ Logged record for %s", sel.Name))
	note := ""
	if reused {
		note = color.New(color.Faint).Sprint(" (last weight)")
	}
	fmt.Fprintf(a.out, "  %s %d/%d mmHg  pulse %d  %.1f kg%s\n",
		color.New(color.Faint).Sprint(r.MeasuredAt), r.Systolic, r.Diastolic, r.Pulse, r.Weight, note)
	return nil
}

func (a *app) history() error {
	sel, records, err := a.sess.History()
	if err != nil {
		return friendly(err)
	}

	if len(records) == 0 {
		fmt.Fprintf(a.out, "No records for %s yet.\n", sel.Name)
		return nil
	}

	faint := color.New(color.Faint)
	fmt.Fprintln(a.out, faint.Sprintf("%s %s %s %s %s",
		padRight("MEASURED AT", 20), padRight("BP", 9), padRight("PULSE", 6), padRight("WEIGHT", 7), "POSITION"))
	for _, r := range records {
		position := ""
		if r.Position != nil {
			position = truncate(*r.Position, 20)
		}
		fmt.Fprintf(a.out, "%s %s %s %s %s\n",
			padRight(r.MeasuredAt, 20),
			padRight(fmt.Sprintf("%d/%d", r.Systolic, r.Diastolic), 9),
			padRight(strconv.Itoa(r.Pulse), 6),
			padRight(strconv.FormatFloat(r.Weight, 'f', -1, 64), 7),
			position)
	}
	return nil
}

// truncate and padRight work in terminal columns, so wide (CJK) text is
// never cut mid-character and table columns stay aligned.
func truncate(s string, maxWidth int) string {
	return runewidth.Truncate(s, maxWidth, "...")
}

func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}
