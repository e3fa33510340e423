package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"

	assignmentdomain "tripdesk_backend/internal/assignment/domain"
	"tripdesk_backend/internal/assignment/engine"
	"tripdesk_backend/internal/bookings/repository"
	"tripdesk_backend/internal/bookings/transport"
	directoryrepo "tripdesk_backend/internal/directory/repository"
	"tripdesk_backend/internal/events"
	leadsrepo "tripdesk_backend/internal/leads/repository"
	leadssvc "tripdesk_backend/internal/leads/service"
	packagesrepo "tripdesk_backend/internal/packages/repository"
	"tripdesk_backend/platform/apperr"
	"tripdesk_backend/platform/logger"
)

type fakeBookingRepo struct {
	bookings map[uuid.UUID]repository.Booking
	// last lead params passed to CreateWithLead, for inspecting the
	// companion lead.
	lastLeadParams *leadsrepo.CreateParams
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]repository.Booking)}
}

func (f *fakeBookingRepo) CreateWithLead(ctx context.Context, params repository.CreateParams, leadParams leadsrepo.CreateParams) (repository.Booking, leadsrepo.Lead, error) {
	f.lastLeadParams = &leadParams
	now := time.Now()
	lead := leadsrepo.Lead{
		ID:             uuid.New(),
		CustomerName:   leadParams.CustomerName,
		CustomerEmail:  leadParams.CustomerEmail,
		Source:         leadParams.Source,
		Status:         leadParams.Status,
		AssignedTo:     leadParams.AssignedTo,
		AssignmentMode: leadParams.AssignmentMode,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	booking := repository.Booking{
		ID:                uuid.New(),
		Reference:         params.Reference,
		LeadID:            lead.ID,
		PackageID:         params.PackageID,
		PackageName:       params.PackageName,
		CustomerName:      params.CustomerName,
		CustomerEmail:     params.CustomerEmail,
		CustomerPhone:     params.CustomerPhone,
		TravelersCount:    params.TravelersCount,
		DepartureDate:     params.DepartureDate,
		Notes:             params.Notes,
		Status:            params.Status,
		AssignedTo:        params.AssignedTo,
		AssignedAgentName: params.AssignedAgentName,
		AssignmentMode:    params.AssignmentMode,
		AssignedBy:        params.AssignedBy,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	f.bookings[booking.ID] = booking
	return booking, lead, nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (repository.Booking, error) {
	booking, ok := f.bookings[id]
	if !ok {
		return repository.Booking{}, apperr.NotFound("booking not found")
	}
	return booking, nil
}

func (f *fakeBookingRepo) GetByReference(ctx context.Context, reference string) (repository.Booking, error) {
	for _, booking := range f.bookings {
		if booking.Reference == reference {
			return booking, nil
		}
	}
	return repository.Booking{}, apperr.NotFound("booking not found")
}

func (f *fakeBookingRepo) List(ctx context.Context, filter repository.ListFilter) ([]repository.Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, params repository.UpdateStatusParams) (repository.Booking, error) {
	booking := f.bookings[params.ID]
	booking.Status = params.Status
	f.bookings[params.ID] = booking
	return booking, nil
}

func (f *fakeBookingRepo) UpdateAssignment(ctx context.Context, params repository.UpdateAssignmentParams) (repository.Booking, error) {
	booking := f.bookings[params.ID]
	booking.AssignedTo = params.AssignedTo
	booking.AssignedAgentName = params.AssignedAgentName
	booking.AssignmentMode = params.AssignmentMode
	booking.AssignedBy = params.AssignedBy
	f.bookings[params.ID] = booking
	return booking, nil
}

func (f *fakeBookingRepo) ListHistory(ctx context.Context, bookingID uuid.UUID) ([]repository.HistoryEntry, error) {
	return nil, nil
}

type fakePackages struct {
	packages map[uuid.UUID]packagesrepo.Package
}

func (f *fakePackages) GetByID(ctx context.Context, id uuid.UUID) (packagesrepo.Package, error) {
	pkg, ok := f.packages[id]
	if !ok {
		return packagesrepo.Package{}, apperr.NotFound("package not found")
	}
	return pkg, nil
}

func (f *fakePackages) List(ctx context.Context, activeOnly bool) ([]packagesrepo.Package, error) {
	return nil, nil
}

type fakeAssigner struct {
	assignTo *assignmentdomain.Agent
	calls    int
}

func (f *fakeAssigner) AssignIfNeeded(ctx context.Context, draft *engine.Draft) (engine.Decision, error) {
	f.calls++
	if f.assignTo == nil || draft.AssignedTo != nil {
		return engine.Decision{}, nil
	}
	draft.AssignedTo = &f.assignTo.ID
	draft.AssignmentMode = assignmentdomain.ModeAuto
	return engine.Decision{Assigned: true, Agent: *f.assignTo, Strategy: assignmentdomain.StrategyRotating}, nil
}

type fakeDirectory struct{}

func (f *fakeDirectory) GetByID(ctx context.Context, id uuid.UUID) (directoryrepo.Agent, error) {
	return directoryrepo.Agent{ID: id, Name: "Agent"}, nil
}

func (f *fakeDirectory) GetByEmail(ctx context.Context, email string) (directoryrepo.Agent, error) {
	return directoryrepo.Agent{}, apperr.NotFound("agent not found")
}

func (f *fakeDirectory) List(ctx context.Context) ([]directoryrepo.Agent, error) {
	return nil, nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(ctx context.Context, event events.Event)           { b.published = append(b.published, event) }
func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error { b.Publish(ctx, event); return nil }
func (b *recordingBus) Subscribe(eventName string, handler events.Handler)        {}

type bookingFixture struct {
	svc      *Service
	repo     *fakeBookingRepo
	packages *fakePackages
	assigner *fakeAssigner
	bus      *recordingBus
}

func newFixture(assignTo *assignmentdomain.Agent) *bookingFixture {
	repo := newFakeBookingRepo()
	packages := &fakePackages{packages: make(map[uuid.UUID]packagesrepo.Package)}
	assigner := &fakeAssigner{assignTo: assignTo}
	bus := &recordingBus{}
	return &bookingFixture{
		svc:      New(repo, assigner, &fakeDirectory{}, packages, bus, logger.New("test")),
		repo:     repo,
		packages: packages,
		assigner: assigner,
		bus:      bus,
	}
}

var referencePattern = regexp.MustCompile(`^TD-[0-9A-F]{8}$`)

func TestCreateFromPublicFormSharedAssignment(t *testing.T) {
	winner := assignmentdomain.Agent{ID: uuid.New(), Name: "Alice", Active: true}
	f := newFixture(&winner)
	pkg := packagesrepo.Package{ID: uuid.New(), Name: "Bali Escape", Destination: "Bali", IsActive: true}
	f.packages.packages[pkg.ID] = pkg

	resp, err := f.svc.CreateFromPublicForm(context.Background(), transport.PublicBookingRequest{
		Name:           "Jane Doe",
		Email:          "jane@example.com",
		PackageID:      &pkg.ID,
		TravelersCount: 2,
	})
	if err != nil {
		t.Fatalf("CreateFromPublicForm() error = %v", err)
	}

	if !referencePattern.MatchString(resp.Reference) {
		t.Errorf("reference = %q, want match for %s", resp.Reference, referencePattern)
	}
	if resp.PackageName != "Bali Escape" {
		t.Errorf("package name = %q, want catalog name", resp.PackageName)
	}
	if resp.AssignedTo == nil || *resp.AssignedTo != winner.ID {
		t.Error("booking not stamped with the engine's pick")
	}

	// The companion lead carries the same decision, made exactly once.
	if f.assigner.calls != 1 {
		t.Errorf("assigner called %d times, want 1", f.assigner.calls)
	}
	lead := f.repo.lastLeadParams
	if lead == nil {
		t.Fatal("no companion lead created")
	}
	if lead.AssignedTo == nil || *lead.AssignedTo != winner.ID {
		t.Error("companion lead not stamped with the same agent")
	}
	if lead.Source != leadssvc.SourceBookingForm {
		t.Errorf("companion lead source = %q, want %q", lead.Source, leadssvc.SourceBookingForm)
	}
	if lead.Destination == nil || *lead.Destination != "Bali Escape" {
		t.Errorf("companion lead destination = %v, want the package name", lead.Destination)
	}

	var created, assigned int
	for _, event := range f.bus.published {
		switch event.(type) {
		case events.BookingCreated:
			created++
		case events.WorkItemAssigned:
			assigned++
		}
	}
	if created != 1 || assigned != 1 {
		t.Errorf("published %d BookingCreated and %d WorkItemAssigned events, want 1 and 1", created, assigned)
	}
}

func TestCreateFromPublicFormInactivePackage(t *testing.T) {
	f := newFixture(nil)
	pkg := packagesrepo.Package{ID: uuid.New(), Name: "Retired Tour", IsActive: false}
	f.packages.packages[pkg.ID] = pkg

	_, err := f.svc.CreateFromPublicForm(context.Background(), transport.PublicBookingRequest{
		Name:           "Jane Doe",
		Email:          "jane@example.com",
		PackageID:      &pkg.ID,
		TravelersCount: 1,
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("inactive package error kind = %v, want %v", apperr.GetKind(err), apperr.KindValidation)
	}
}

func TestCreateFromPublicFormUnknownPackage(t *testing.T) {
	f := newFixture(nil)

	unknown := uuid.New()
	_, err := f.svc.CreateFromPublicForm(context.Background(), transport.PublicBookingRequest{
		Name:           "Jane Doe",
		Email:          "jane@example.com",
		PackageID:      &unknown,
		TravelersCount: 1,
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("unknown package error kind = %v, want %v", apperr.GetKind(err), apperr.KindValidation)
	}
}

func TestCreateFromPublicFormInvalidDepartureDate(t *testing.T) {
	f := newFixture(nil)

	bad := "31-12-2026"
	_, err := f.svc.CreateFromPublicForm(context.Background(), transport.PublicBookingRequest{
		Name:           "Jane Doe",
		Email:          "jane@example.com",
		PackageName:    "Custom Trip",
		TravelersCount: 1,
		DepartureDate:  &bad,
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("invalid date error kind = %v, want %v", apperr.GetKind(err), apperr.KindValidation)
	}
}

func TestNewReferenceFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref, err := newReference()
		if err != nil {
			t.Fatalf("newReference() error = %v", err)
		}
		if !referencePattern.MatchString(ref) {
			t.Fatalf("newReference() = %q, want match for %s", ref, referencePattern)
		}
		seen[ref] = true
	}
	if len(seen) < 90 {
		t.Errorf("got %d distinct references out of 100, collisions too frequent", len(seen))
	}
}
