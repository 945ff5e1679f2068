package service

import (
	"bytes"
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/baroform/lead-service/internal/clicksource"
	"github.com/baroform/lead-service/internal/domain"
	"github.com/baroform/lead-service/internal/events"
	"github.com/baroform/lead-service/internal/export"
	"github.com/baroform/lead-service/internal/persistence"
	"github.com/baroform/lead-service/internal/query"
	"github.com/baroform/lead-service/internal/repository"
	apperrors "github.com/baroform/lead-service/pkg/util"
)

// LeadService coordinates the capture funnel and the admin dashboard flows.
// Every mutation goes straight to the repository; callers re-fetch the list
// afterwards, so no local state is ever patched speculatively.
type LeadService struct {
	leads      repository.LeadRepository
	dispatcher events.Dispatcher
	facets     *persistence.FacetCache
	logger     *zap.Logger
	loc        *time.Location
	now        func() time.Time
}

// LeadDependencies bundles collaborator requirements for the lead service.
type LeadDependencies struct {
	LeadRepo   repository.LeadRepository
	Dispatcher events.Dispatcher
	FacetCache *persistence.FacetCache
	Logger     *zap.Logger
	Location   *time.Location
}

// NewLeadService constructs the service.
func NewLeadService(deps LeadDependencies) *LeadService {
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadService{
		leads:      deps.LeadRepo,
		dispatcher: deps.Dispatcher,
		facets:     deps.FacetCache,
		logger:     logger,
		loc:        loc,
		now:        time.Now,
	}
}

// SubmitInput is the funnel submission contract: required applicant fields
// plus the inbound tracking parameters read once at page load.
type SubmitInput struct {
	Name       string
	Contact    string
	Education  string
	Reasons    []domain.ReasonTag
	HopeCourse *string
	Channel    string
	MaterialID string
}

// ManualInput is the admin "add lead" payload. No tracking parameters:
// manual entries carry no attribution unless one is supplied verbatim.
type ManualInput struct {
	Name        string
	Contact     string
	Education   string
	Reasons     []domain.ReasonTag
	HopeCourse  *string
	ClickSource *string
	Memo        string
	Residence   string
	Manager     string
	SubjectCost *int64
	Concerns    []domain.Concern
	Status      domain.LeadStatus
}

// ListResult is one dashboard view: the visible page, summary counts, and
// the facet lists for the filter menus.
type ListResult struct {
	Page       query.Page
	TodayCount int
	Facets     query.Facets
}

// Submit records a funnel submission. Validation failures never reach the
// datastore.
func (s *LeadService) Submit(ctx context.Context, input SubmitInput) (*domain.Lead, error) {
	if err := validateRequired(input.Name, input.Contact, input.Education, input.Reasons); err != nil {
		return nil, err
	}

	lead := &domain.Lead{
		Name:       input.Name,
		Contact:    domain.FormatContact(input.Contact),
		Education:  input.Education,
		HopeCourse: input.HopeCourse,
		Reasons:    input.Reasons,
		Status:     domain.LeadStatusAwaiting,
	}
	if input.Channel != "" {
		encoded := clicksource.Encode(input.Channel, input.MaterialID)
		lead.ClickSource = &encoded
	}

	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.afterMutation(ctx)
	s.publish(ctx, events.Event{
		Type:   events.EventLeadCreated,
		LeadID: lead.ID,
		Payload: events.LeadCreatedPayload{
			Name:        lead.Name,
			Contact:     lead.Contact,
			ClickSource: lead.ClickSource,
			Manual:      false,
		},
	})
	return lead, nil
}

// AddManual records a lead entered by an admin, flagged as manual.
func (s *LeadService) AddManual(ctx context.Context, input ManualInput) (*domain.Lead, error) {
	if err := validateRequired(input.Name, input.Contact, input.Education, input.Reasons); err != nil {
		return nil, err
	}
	if err := validateConcerns(input.Concerns); err != nil {
		return nil, err
	}
	status := input.Status
	if status == "" {
		status = domain.LeadStatusAwaiting
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": string(status)})
	}

	lead := &domain.Lead{
		Name:        input.Name,
		Contact:     domain.FormatContact(input.Contact),
		Education:   input.Education,
		HopeCourse:  input.HopeCourse,
		Reasons:     input.Reasons,
		ClickSource: input.ClickSource,
		Concerns:    input.Concerns,
		Memo:        input.Memo,
		Residence:   input.Residence,
		Manager:     input.Manager,
		SubjectCost: input.SubjectCost,
		Status:      status,
		Manual:      true,
	}
	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.afterMutation(ctx)
	s.publish(ctx, events.Event{
		Type:   events.EventLeadCreated,
		LeadID: lead.ID,
		Payload: events.LeadCreatedPayload{
			Name:        lead.Name,
			Contact:     lead.Contact,
			ClickSource: lead.ClickSource,
			Manual:      true,
		},
	})
	return lead, nil
}

// ListLeads fetches the full set and runs the filter/sort/page pipeline over
// it, with summary counts and facet menus.
func (s *LeadService) ListLeads(ctx context.Context, criteria query.Criteria) (*ListResult, error) {
	leads, err := s.leads.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	result := &ListResult{
		Page:       query.Run(leads, criteria, s.loc),
		TodayCount: query.TodayCount(leads, s.now(), s.loc),
	}

	major := criteria.Major
	if major == "" {
		major = query.FilterAll
	}
	cacheKey := "facets:" + major
	if !s.facets.Get(ctx, cacheKey, &result.Facets) {
		result.Facets = query.DeriveFacets(leads, major)
		if err := s.facets.Set(ctx, cacheKey, result.Facets); err != nil {
			s.logger.Warn("facet cache set failed", zap.Error(err))
		}
	}
	return result, nil
}

// GetLead fetches a single lead.
func (s *LeadService) GetLead(ctx context.Context, id string) (*domain.Lead, error) {
	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return lead, nil
}

// UpdateLead applies a partial patch. Only supplied fields change; a status
// transition is published separately.
func (s *LeadService) UpdateLead(ctx context.Context, id string, patch repository.LeadPatch) error {
	if err := validatePatch(patch); err != nil {
		return err
	}
	if patch.Contact != nil {
		formatted := domain.FormatContact(*patch.Contact)
		patch.Contact = &formatted
	}

	var oldStatus domain.LeadStatus
	if patch.Status != nil {
		current, err := s.leads.GetByID(ctx, id)
		if err != nil {
			return apperrors.MapError(err)
		}
		oldStatus = current.Status
	}

	if err := s.leads.UpdateFields(ctx, id, patch); err != nil {
		return apperrors.MapError(err)
	}
	s.afterMutation(ctx)

	if patch.Status != nil && oldStatus != *patch.Status {
		s.publish(ctx, events.Event{
			Type:   events.EventLeadStatusChanged,
			LeadID: id,
			Payload: events.LeadStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: *patch.Status,
			},
		})
	} else {
		s.publish(ctx, events.Event{
			Type:    events.EventLeadUpdated,
			LeadID:  id,
			Payload: events.LeadUpdatedPayload{Fields: patchedFields(patch)},
		})
	}
	return nil
}

// DeleteLeads removes the selected leads in one batched call and reports the
// number actually removed.
func (s *LeadService) DeleteLeads(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, apperrors.NewValidationError("ids required", nil)
	}
	removed, err := s.leads.Delete(ctx, ids)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	if removed != int64(len(ids)) {
		s.logger.Warn("bulk delete removed fewer rows than requested",
			zap.Int("requested", len(ids)), zap.Int64("removed", removed))
	}
	s.afterMutation(ctx)
	s.publish(ctx, events.Event{
		Type:    events.EventLeadsDeleted,
		Payload: events.LeadsDeletedPayload{IDs: ids, Removed: removed},
	})
	return removed, nil
}

// Export serializes the explicit id selection when non-empty, otherwise the
// full filtered set, into the CSV artifact plus its filename.
func (s *LeadService) Export(ctx context.Context, ids []string, criteria query.Criteria) ([]byte, string, error) {
	leads, err := s.leads.List(ctx)
	if err != nil {
		return nil, "", apperrors.MapError(err)
	}

	var selected []domain.Lead
	if len(ids) > 0 {
		wanted := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			wanted[id] = struct{}{}
		}
		for _, lead := range leads {
			if _, ok := wanted[lead.ID]; ok {
				selected = append(selected, lead)
			}
		}
	} else {
		selected = query.Filter(leads, criteria, s.loc)
	}
	query.SortByNewest(selected)

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, selected, s.loc); err != nil {
		return nil, "", apperrors.NewInternalError(err)
	}

	count := 0
	if len(ids) > 0 {
		count = len(selected)
	}
	return buf.Bytes(), export.Filename(count, s.now(), s.loc), nil
}

func (s *LeadService) afterMutation(ctx context.Context) {
	if err := s.facets.Invalidate(ctx, "facets:*"); err != nil {
		s.logger.Warn("facet cache invalidation failed", zap.Error(err))
	}
}

func (s *LeadService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now()
	_ = s.dispatcher.Publish(ctx, event)
}

func validateRequired(name, contact, education string, reasons []domain.ReasonTag) error {
	details := map[string]any{}
	if name == "" {
		details["name"] = "required"
	}
	if contact == "" {
		details["contact"] = "required"
	} else if err := domain.ValidateContact(contact); err != nil {
		details["contact"] = err.Error()
	}
	if education == "" {
		details["education"] = "required"
	}
	if len(reasons) == 0 {
		details["reason"] = "required"
	}
	for _, tag := range reasons {
		if !tag.Valid() {
			details["reason"] = "unknown tag: " + string(tag)
		}
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid lead fields", details)
	}
	return nil
}

func validateConcerns(concerns []domain.Concern) error {
	for _, c := range concerns {
		if !c.Kind.Valid() {
			return apperrors.NewValidationError("unknown concern tag", map[string]any{"concern": string(c.Kind)})
		}
		if c.Detail != "" && c.Kind != domain.ConcernEtc {
			return apperrors.NewValidationError("detail only allowed on 기타", map[string]any{"concern": string(c.Kind)})
		}
	}
	return nil
}

func validatePatch(patch repository.LeadPatch) error {
	if patch.Status != nil && !patch.Status.Valid() {
		return apperrors.NewValidationError("unknown status", map[string]any{"status": string(*patch.Status)})
	}
	if patch.Contact != nil {
		if err := domain.ValidateContact(*patch.Contact); err != nil {
			return apperrors.NewValidationError(err.Error(), nil)
		}
	}
	if patch.Reasons != nil {
		for _, tag := range *patch.Reasons {
			if !tag.Valid() {
				return apperrors.NewValidationError("unknown reason tag", map[string]any{"reason": string(tag)})
			}
		}
	}
	if patch.Concerns != nil {
		if err := validateConcerns(*patch.Concerns); err != nil {
			return err
		}
	}
	return nil
}

func patchedFields(patch repository.LeadPatch) []string {
	fields := []string{}
	if patch.Name != nil {
		fields = append(fields, "name")
	}
	if patch.Contact != nil {
		fields = append(fields, "contact")
	}
	if patch.Education != nil {
		fields = append(fields, "education")
	}
	if patch.HopeCourse != nil {
		fields = append(fields, "hope_course")
	}
	if patch.Reasons != nil {
		fields = append(fields, "reason")
	}
	if patch.ClickSource != nil {
		fields = append(fields, "click_source")
	}
	if patch.Concerns != nil {
		fields = append(fields, "counsel_check")
	}
	if patch.Memo != nil {
		fields = append(fields, "memo")
	}
	if patch.Residence != nil {
		fields = append(fields, "residence")
	}
	if patch.Manager != nil {
		fields = append(fields, "manager")
	}
	if patch.SubjectCost != nil {
		fields = append(fields, "subject_cost")
	}
	if patch.Status != nil {
		fields = append(fields, "status")
	}
	return fields
}
