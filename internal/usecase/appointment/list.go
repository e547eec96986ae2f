package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	"github.com/BruksfildServices01/clinic-scheduler/internal/wallclock"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type GetAppointment struct {
	repo domain.Repository
}

func NewGetAppointment(repo domain.Repository) *GetAppointment {
	return &GetAppointment{repo: repo}
}

func (uc *GetAppointment) Execute(ctx context.Context, id, actorRef string) (*domain.Appointment, error) {
	return loadForActor(ctx, uc.repo, id, actorRef)
}

// ListProviderAgenda returns every appointment of a provider on one date,
// whatever the status, ordered by time.
type ListProviderAgenda struct {
	repo domain.Repository
}

func NewListProviderAgenda(repo domain.Repository) *ListProviderAgenda {
	return &ListProviderAgenda{repo: repo}
}

func (uc *ListProviderAgenda) Execute(
	ctx context.Context,
	providerRef string,
	date string,
) ([]*domain.Appointment, error) {

	d, err := wallclock.ParseDate(date)
	if err != nil {
		return nil, err
	}
	return uc.repo.ListForProviderOnDate(ctx, providerRef, d)
}

type PatientListInput struct {
	PatientRef string
	View       string
	Page       int
	Limit      int
}

type Pagination struct {
	Current int  `json:"current"`
	Total   int  `json:"total"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

type PatientListResult struct {
	Appointments []*domain.Appointment
	Total        int64
	Pagination   Pagination
}

type ListPatientAppointments struct {
	repo  domain.Repository
	clock timezone.Clock
}

func NewListPatientAppointments(repo domain.Repository, clock timezone.Clock) *ListPatientAppointments {
	return &ListPatientAppointments{repo: repo, clock: clock}
}

func (uc *ListPatientAppointments) Execute(
	ctx context.Context,
	in PatientListInput,
) (*PatientListResult, error) {

	view := domain.PatientView(in.View)
	switch view {
	case "":
		view = domain.ViewAll
	case domain.ViewAll, domain.ViewUpcoming, domain.ViewPast:
	default:
		return nil, domain.ValidationError{Field: "view", Message: "must be all, upcoming or past"}
	}

	page, limit := normalizePage(in.Page, in.Limit)

	now := uc.clock.Now()
	items, total, err := uc.repo.ListForPatient(ctx, domain.PatientQuery{
		PatientRef: in.PatientRef,
		View:       view,
		Today:      wallclock.DateOf(now.In(uc.clock.Location())),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}

	return &PatientListResult{
		Appointments: items,
		Total:        total,
		Pagination:   paginate(page, limit, total),
	}, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func paginate(page, limit int, total int64) Pagination {
	return Pagination{
		Current: page,
		Total:   int((total + int64(limit) - 1) / int64(limit)),
		HasNext: int64(page*limit) < total,
		HasPrev: page > 1,
	}
}
