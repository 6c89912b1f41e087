// Package monitor drives the automatic status-transition rule: it
// periodically walks the factory registry and invokes a status change
// on every project whose fund deadline has passed while still funding.
package monitor

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/photon-storage/go-common/log"

	"github.com/riskless-finance/riskless/contract/factory"
	"github.com/riskless-finance/riskless/contract/project"
	"github.com/riskless-finance/riskless/host"
)

// Monitor evaluates project fund deadlines on a fixed interval.
type Monitor struct {
	host      *host.Host
	factory   string
	sender    string
	interval  time.Duration
	scheduler gocron.Scheduler
	now       func() time.Time
}

// New returns a monitor over the factory at factoryAddress, invoking
// status changes as sender.
func New(
	h *host.Host,
	factoryAddress string,
	sender string,
	interval time.Duration,
) (*Monitor, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &Monitor{
		host:      h,
		factory:   factoryAddress,
		sender:    sender,
		interval:  interval,
		scheduler: s,
		now:       time.Now,
	}, nil
}

// Start schedules the periodic evaluation.
func (m *Monitor) Start() error {
	if _, err := m.scheduler.NewJob(
		gocron.DurationJob(m.interval),
		gocron.NewTask(func() {
			if err := m.Evaluate(context.Background()); err != nil {
				log.Error("deadline evaluation failed", "error", err)
			}
		}),
	); err != nil {
		return err
	}

	m.scheduler.Start()
	return nil
}

// Stop shuts the scheduler down.
func (m *Monitor) Stop() error {
	return m.scheduler.Shutdown()
}

// Evaluate runs one pass over the registry.
func (m *Monitor) Evaluate(ctx context.Context) error {
	list := &factory.ProjectListResponse{}
	if err := m.host.Query(ctx, m.factory, &factory.QueryMsg{
		ListProjects: &factory.ListProjectsMsg{},
	}, list); err != nil {
		return err
	}

	now := m.now().Unix()
	for _, entry := range list.Projects {
		status := &project.ProjectStatusResponse{}
		if err := m.host.Query(ctx, entry.Address, &project.QueryMsg{
			GetProjectStatus: &project.GetProjectStatusMsg{},
		}, status); err != nil {
			log.Error("query project status failed",
				"name", entry.Name,
				"error", err,
			)
			continue
		}

		p := status.ProjectStatus
		if p.Status != project.StatusFundingInProgress ||
			now < p.FundDeadline {
			continue
		}

		if _, err := m.host.Execute(
			ctx,
			entry.Address,
			m.sender,
			nil,
			&project.ExecuteMsg{
				ChangeProjectStatus: &project.ChangeProjectStatusMsg{},
			},
		); err != nil {
			log.Error("change project status failed",
				"name", entry.Name,
				"error", err,
			)
			continue
		}

		log.Info("evaluated expired project deadline",
			"name", entry.Name,
			"address", entry.Address,
		)
	}

	return nil
}
