// Package jobs holds the commands that read and change the shop board from the shell.
package jobs

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/cli"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/models"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/projection"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/scheduler"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/utils"
)

// apply opens the scheduler, runs one intent and prints its outcome and the new projection
func apply(ctx *cli.Context, intent func(*scheduler.Scheduler) (scheduler.Result, error)) error {
	sched, err := ctx.OpenScheduler()
	if err != nil {
		return err
	}
	if err := ctx.Report(intent(sched)); err != nil {
		return err
	}
	p := sched.Project()
	fmt.Fprintf(ctx.Stdout(), "Projected end %s · Shift end %s · %s\n",
		utils.Clock(p.ProjectedEnd), utils.Clock(p.Shift.End), p.StatusText())
	return nil
}

type StatusCmd struct {
	JSON bool `help:"Print the board as JSON."`
}

type board struct {
	State      models.State          `json:"state"`
	Projection projection.Projection `json:"projection"`
	Status     string                `json:"status"`
}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	sched, err := ctx.OpenScheduler()
	if err != nil {
		return err
	}
	st, p := sched.Read()

	if c.JSON {
		enc := json.NewEncoder(ctx.Stdout())
		enc.SetIndent("", "  ")
		return enc.Encode(board{State: st, Projection: p, Status: p.StatusText()})
	}
	cli.RenderStatus(ctx.Stdout(), sched.Catalog(), st, p)
	return nil
}

type ServicesCmd struct{}

func (c *ServicesCmd) Run(ctx *cli.Context) error {
	sched, err := ctx.OpenScheduler()
	if err != nil {
		return err
	}
	out := ctx.Stdout()
	fmt.Fprintf(out, "%-16s %-22s %-10s %s\n", "ID", "SERVICE", "KIND", "MINUTES (fast/normal/slow)")
	for _, svc := range sched.Catalog().List() {
		minutes := fmt.Sprintf("%d", svc.FixedMinutes)
		if !svc.IsParallel() {
			minutes = fmt.Sprintf("%d/%d/%d",
				svc.Minutes(models.SpeedFast), svc.Minutes(models.SpeedNormal), svc.Minutes(models.SpeedSlow))
		}
		fmt.Fprintf(out, "%-16s %-22s %-10s %s\n", svc.ID, svc.Label, svc.Category, minutes)
	}
	return nil
}

type StartCmd struct {
	Service string `arg:"" help:"Service id (see 'turnos services')."`
	Speed   string `help:"Client speed." enum:"fast,normal,slow" default:"normal"`
}

func (c *StartCmd) Run(ctx *cli.Context) error {
	if err := ctx.ValidateService(c.Service); err != nil {
		return err
	}
	return apply(ctx, func(s *scheduler.Scheduler) (scheduler.Result, error) {
		return s.StartSequential(c.Service, models.ParseSpeed(c.Speed))
	})
}

type EnqueueCmd struct {
	Service string `arg:"" help:"Service id (see 'turnos services')."`
	Speed   string `help:"Client speed." enum:"fast,normal,slow" default:"normal"`
}

func (c *EnqueueCmd) Run(ctx *cli.Context) error {
	if err := ctx.ValidateService(c.Service); err != nil {
		return err
	}
	return apply(ctx, func(s *scheduler.Scheduler) (scheduler.Result, error) {
		return s.EnqueueSequential(c.Service, models.ParseSpeed(c.Speed))
	})
}

type ParallelCmd struct {
	Service string `arg:"" help:"Parallel service id."`
}

func (c *ParallelCmd) Run(ctx *cli.Context) error {
	if err := ctx.ValidateService(c.Service); err != nil {
		return err
	}
	return apply(ctx, func(s *scheduler.Scheduler) (scheduler.Result, error) {
		return s.StartParallel(c.Service)
	})
}

type NextCmd struct{}

func (c *NextCmd) Run(ctx *cli.Context) error {
	return apply(ctx, (*scheduler.Scheduler).StartNext)
}

type FinishCmd struct{}

func (c *FinishCmd) Run(ctx *cli.Context) error {
	return apply(ctx, (*scheduler.Scheduler).FinishActive)
}

type FinishParallelCmd struct {
	ID string `arg:"" help:"Parallel job id."`
}

func (c *FinishParallelCmd) Run(ctx *cli.Context) error {
	return apply(ctx, func(s *scheduler.Scheduler) (scheduler.Result, error) {
		return s.FinishParallel(c.ID)
	})
}

type RemoveCmd struct {
	ID string `arg:"" help:"Queued job id."`
}

func (c *RemoveCmd) Run(ctx *cli.Context) error {
	return apply(ctx, func(s *scheduler.Scheduler) (scheduler.Result, error) {
		return s.RemoveQueued(c.ID)
	})
}

type UpCmd struct {
	ID string `arg:"" help:"Queued job id."`
}

func (c *UpCmd) Run(ctx *cli.Context) error {
	return apply(ctx, func(s *scheduler.Scheduler) (scheduler.Result, error) {
		return s.MoveQueuedUp(c.ID)
	})
}

type DownCmd struct {
	ID string `arg:"" help:"Queued job id."`
}

func (c *DownCmd) Run(ctx *cli.Context) error {
	return apply(ctx, func(s *scheduler.Scheduler) (scheduler.Result, error) {
		return s.MoveQueuedDown(c.ID)
	})
}

type ResetCmd struct {
	Yes bool `help:"Skip the confirmation prompt." short:"y"`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	out := ctx.Stdout()
	if !c.Yes {
		fmt.Fprint(out, "Clear the chair, the queue and every parallel service? [y/N]: ")
		response, _ := bufio.NewReader(ctx.Stdin()).ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(out, "Reset cancelled.")
			return nil
		}
	}

	if err := ctx.Backup(); err != nil {
		fmt.Fprintf(ctx.Stderr(), "Warning: backup before reset failed: %v\n", err)
	}
	return apply(ctx, (*scheduler.Scheduler).ResetAll)
}
