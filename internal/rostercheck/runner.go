package rostercheck

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/mergington/pkg/logger"
)

// Run executes the complete roster check against a live service.
func Run(ctx context.Context, config *Config) (*Report, error) {
	cfg := config.withDefaults()
	report := &Report{StartTime: time.Now()}
	log := logger.Named("rostercheck")

	log.Info(ctx, "starting roster check",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("activity", cfg.Activity),
		logger.Int("students", cfg.Students),
		logger.Int("workers", cfg.Workers),
		logger.String("timeout", cfg.Timeout.String()))

	client := NewClient(cfg.BaseURL, cfg.Timeout)

	// Step 1: Check service health
	if err := client.Health(ctx); err != nil {
		return report, fmt.Errorf("service health check failed: %w", err)
	}
	report.pass()

	// Step 2: Record the baseline roster
	baseline, err := roster(ctx, client, cfg.Activity)
	if err != nil {
		return report, err
	}
	report.BaselineSize = len(baseline)
	report.pass()

	report.Students = make([]string, cfg.Students)
	for i := range report.Students {
		report.Students[i] = uuid.NewString() + "@" + studentDomain
	}

	// Step 3: Anonymous mutations are rejected
	status, err := client.Signup(ctx, cfg.Activity, report.Students[0])
	if err := expectStatus("anonymous signup", status, err, http.StatusUnauthorized); err != nil {
		return report, err
	}
	report.pass()

	// Step 4: Wrong password is rejected
	if err := client.Login(ctx, cfg.Username, cfg.Password+"-wrong"); err == nil {
		return report, fmt.Errorf("%w: login with a wrong password succeeded", ErrUnexpectedStatus)
	}
	report.pass()

	// Step 5: Login
	if err := client.Login(ctx, cfg.Username, cfg.Password); err != nil {
		return report, fmt.Errorf("login failed: %w", err)
	}
	log.Info(ctx, "logged in", logger.String("username", cfg.Username))
	report.pass()

	// Step 6: Concurrent signups
	if err := fanOut(ctx, cfg.Workers, report.Students, func(ctx context.Context, email string) error {
		status, err := client.Signup(ctx, cfg.Activity, email)
		return expectStatus("signup "+email, status, err, http.StatusOK)
	}); err != nil {
		return report, err
	}
	report.Signups = len(report.Students)
	report.pass()

	// Step 7: Every student is listed exactly once
	after, err := roster(ctx, client, cfg.Activity)
	if err != nil {
		return report, err
	}
	report.PeakSize = len(after)
	if err := verifyGrown(baseline, after, report.Students); err != nil {
		return report, err
	}
	report.pass()

	// Step 8: Duplicate signup is rejected
	status, err = client.Signup(ctx, cfg.Activity, report.Students[0])
	if err := expectStatus("duplicate signup", status, err, http.StatusBadRequest); err != nil {
		return report, err
	}
	report.pass()

	// Step 9: Concurrent unregisters
	if err := fanOut(ctx, cfg.Workers, report.Students, func(ctx context.Context, email string) error {
		status, err := client.Unregister(ctx, cfg.Activity, email)
		return expectStatus("unregister "+email, status, err, http.StatusOK)
	}); err != nil {
		return report, err
	}
	report.Unregisters = len(report.Students)
	report.pass()

	// Step 10: The roster is back to the baseline
	restored, err := roster(ctx, client, cfg.Activity)
	if err != nil {
		return report, err
	}
	if err := verifyRestored(baseline, restored); err != nil {
		return report, err
	}
	report.pass()

	// Step 11: Unregistering an absent student is rejected
	status, err = client.Unregister(ctx, cfg.Activity, report.Students[0])
	if err := expectStatus("unregister absent", status, err, http.StatusBadRequest); err != nil {
		return report, err
	}
	report.pass()

	// Step 12: Logout revokes the token
	status, err = client.Logout(ctx)
	if err := expectStatus("logout", status, err, http.StatusOK); err != nil {
		return report, err
	}
	status, err = client.Signup(ctx, cfg.Activity, report.Students[0])
	if err := expectStatus("signup after logout", status, err, http.StatusUnauthorized); err != nil {
		return report, err
	}
	report.pass()

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)

	log.Info(ctx, "roster check completed",
		logger.Int("checksPassed", report.ChecksPassed),
		logger.Int("signups", report.Signups),
		logger.Int("unregisters", report.Unregisters),
		logger.Int("baselineSize", report.BaselineSize),
		logger.Int("peakSize", report.PeakSize),
		logger.String("duration", report.Duration.String()))
	if cfg.Verbose {
		log.Debug(ctx, "generated students", logger.Any("students", report.Students))
	}
	return report, nil
}

// fanOut runs fn for every email with at most workers in flight.
func fanOut(ctx context.Context, workers int, emails []string, fn func(context.Context, string) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, email := range emails {
		g.Go(func() error { return fn(gctx, email) })
	}
	return g.Wait()
}

func roster(ctx context.Context, client *Client, activity string) ([]string, error) {
	catalog, err := client.Activities(ctx)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	a, ok := catalog[activity]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrActivityMissing, activity)
	}
	return a.Participants, nil
}

func expectStatus(step string, status int, err error, want int) error {
	if err != nil {
		return fmt.Errorf("%s: %w", step, err)
	}
	if status != want {
		return fmt.Errorf("%w: %s: got %d want %d", ErrUnexpectedStatus, step, status, want)
	}
	return nil
}
