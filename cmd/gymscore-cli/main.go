// Command gymscore-cli answers season questions and scores roster files
// from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	app "github.com/okian/gymscore/internal/app"
	"github.com/okian/gymscore/internal/config"
	"github.com/okian/gymscore/internal/domain/model"
	"github.com/okian/gymscore/internal/domain/season"
	"github.com/okian/gymscore/internal/domain/types"
	"github.com/okian/gymscore/pkg/logger"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/urfave/cli/v2"
)

const dateLayout = "2006-01-02"

func main() {
	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}
	_ = logger.SetLevelString("warn")

	if err := newApp(os.Stdout, nil).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cliEnv carries what commands need beyond their flags.
type cliEnv struct {
	out   io.Writer
	clock season.Clock
}

// newApp builds the command tree. A nil clock means the wall clock.
func newApp(out io.Writer, clock season.Clock) *cli.App {
	env := &cliEnv{out: out, clock: clock}
	return &cli.App{
		Name:      "gymscore-cli",
		Usage:     "gymnastics seasons and team scores",
		Writer:    out,
		ErrWriter: out,
		// Errors are returned to main rather than exiting inside Run.
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			env.seasonCommand(),
			env.teamScoreCommand(),
		},
	}
}

func (e *cliEnv) now() time.Time {
	if e.clock != nil {
		return e.clock.Now()
	}
	return time.Now()
}

// service loads configuration, applies flag overrides and builds a service
// around it. Overridden values are validated like loaded ones.
func (e *cliEnv) service(c *cli.Context, mutate func(*config.Config)) (*app.Service, error) {
	cfg, err := config.Load(c.Context)
	if err != nil {
		return nil, err
	}
	if mutate != nil {
		mutate(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	seasonOpts := app.SeasonOptions(cfg)
	if e.clock != nil {
		seasonOpts = append(seasonOpts, season.WithClock(e.clock))
	}
	svc := app.FromConfig(cfg, logger.Named("cli"), app.WithSeasonCalculator(season.New(seasonOpts...)))
	if err := svc.Start(c.Context); err != nil {
		return nil, err
	}
	return svc, nil
}

func (e *cliEnv) seasonCommand() *cli.Command {
	return &cli.Command{
		Name:  "season",
		Usage: "show the season for today or a date",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "date",
				Aliases: []string{"d"},
				Usage:   "YYYY-MM-DD or a phrase such as \"next saturday\"",
			},
		},
		Action: func(c *cli.Context) error {
			svc, err := e.service(c, nil)
			if err != nil {
				return err
			}
			defer svc.Stop()

			if raw := c.String("date"); raw != "" {
				t, err := parseDate(raw, e.now())
				if err != nil {
					return err
				}
				e.printSeason(svc.SeasonAt(c.Context, t))
				return nil
			}
			e.printSeason(svc.CurrentSeason(c.Context))
			return nil
		},
		Subcommands: []*cli.Command{
			{
				Name:      "next",
				Usage:     "season after LABEL",
				ArgsUsage: "LABEL",
				Action: func(c *cli.Context) error {
					return e.walkSeason(c, (*app.Service).NextSeason)
				},
			},
			{
				Name:      "previous",
				Usage:     "season before LABEL",
				ArgsUsage: "LABEL",
				Action: func(c *cli.Context) error {
					return e.walkSeason(c, (*app.Service).PreviousSeason)
				},
			},
		},
	}
}

type seasonStep func(*app.Service, context.Context, string) (types.SeasonInfo, error)

func (e *cliEnv) walkSeason(c *cli.Context, step seasonStep) error {
	if c.NArg() != 1 {
		return errors.New("expected exactly one season label, e.g. 2024-2025")
	}
	svc, err := e.service(c, nil)
	if err != nil {
		return err
	}
	defer svc.Stop()

	info, err := step(svc, c.Context, c.Args().First())
	if err != nil {
		return err
	}
	e.printSeason(info)
	return nil
}

func (e *cliEnv) printSeason(info types.SeasonInfo) {
	if info.Date != "" {
		fmt.Fprintf(e.out, "%s: %s\n", info.Date, info.Season)
	} else {
		fmt.Fprintln(e.out, info.Season)
	}
	fmt.Fprintf(e.out, "previous: %s\nnext: %s\n", info.Previous, info.Next)
}

// parseDate accepts an ISO date or a natural-language phrase relative to now.
func parseDate(raw string, now time.Time) (time.Time, error) {
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	r, err := w.Parse(raw, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("parse date %q: not a recognised date", raw)
	}
	return r.Time, nil
}

func (e *cliEnv) teamScoreCommand() *cli.Command {
	return &cli.Command{
		Name:  "team-score",
		Usage: "print team scores for the meets in a roster file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "roster", Aliases: []string{"r"}, Usage: "YAML roster file", Required: true},
			&cli.StringFlag{Name: "meet", Aliases: []string{"m"}, Usage: "only this meet id"},
			&cli.IntFlag{Name: "counting", Aliases: []string{"n"}, Usage: "marks counted per event, for every level"},
			&cli.StringFlag{Name: "xlsx", Usage: "also write the meet to this workbook"},
		},
		Action: func(c *cli.Context) error {
			svc, err := e.service(c, func(cfg *config.Config) {
				cfg.RosterFile = c.String("roster")
				if c.IsSet("counting") {
					cfg.CountingCount = c.Int("counting")
					cfg.CountingOverrides = map[string]int{}
				}
			})
			if err != nil {
				return err
			}
			defer svc.Stop()

			meets, err := svc.Store().Meets(c.Context, "")
			if err != nil {
				return err
			}
			if id := c.String("meet"); id != "" {
				m, err := svc.Store().Meet(c.Context, id)
				if err != nil {
					return err
				}
				meets = []model.Meet{m}
			}

			for _, m := range meets {
				results, err := svc.MeetTeamScores(c.Context, m.ID)
				if err != nil {
					return err
				}
				e.printMeet(m, svc.SeasonAt(c.Context, m.Date), results)
			}

			if path := c.String("xlsx"); path != "" {
				if len(meets) != 1 {
					return errors.New("--xlsx needs --meet when the roster has several meets")
				}
				return writeWorkbook(c, svc, meets[0].ID, path)
			}
			return nil
		},
	}
}

// printMeet prints one line per group. The meet's recorded season wins over
// the one computed from its date.
func (e *cliEnv) printMeet(m model.Meet, info types.SeasonInfo, results []types.ComboResult) {
	label := m.Season
	if label == "" {
		label = info.Season
	}
	fmt.Fprintf(e.out, "%s (%s, %s)\n", m.Name, info.Date, label)
	tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	for _, r := range results {
		cols := make([]string, 0, len(r.Display.Events)+2)
		cols = append(cols, fmt.Sprintf("  %s %s (top %d)", r.Level, r.Discipline, r.CountingCount))
		for _, ev := range r.Display.Events {
			cols = append(cols, ev.ShortName+" "+ev.Total)
		}
		cols = append(cols, "Total "+r.Display.TotalScore)
		fmt.Fprintln(tw, strings.Join(cols, "\t"))
	}
	_ = tw.Flush()
}

func writeWorkbook(c *cli.Context, svc *app.Service, meetID, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return svc.ExportMeet(c.Context, meetID, f)
}
