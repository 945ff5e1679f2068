package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/baroform/lead-service/internal/api/dto"
	"github.com/baroform/lead-service/internal/clicksource"
	"github.com/baroform/lead-service/internal/domain"
	"github.com/baroform/lead-service/internal/query"
	"github.com/baroform/lead-service/internal/repository"
	"github.com/baroform/lead-service/internal/service"
	apperrors "github.com/baroform/lead-service/pkg/util"
)

const dateLayout = "2006-01-02"

// AdminLeadsHandler manages the dashboard lead endpoints.
type AdminLeadsHandler struct {
	leads *service.LeadService
	loc   *time.Location
}

// NewAdminLeadsHandler constructs handler.
func NewAdminLeadsHandler(leadService *service.LeadService, loc *time.Location) *AdminLeadsHandler {
	if loc == nil {
		loc = time.Local
	}
	return &AdminLeadsHandler{leads: leadService, loc: loc}
}

// List handles GET /admin/leads.
func (h *AdminLeadsHandler) List(c *fiber.Ctx) error {
	criteria := h.parseCriteria(c)
	result, err := h.leads.ListLeads(c.Context(), criteria)
	if err != nil {
		return err
	}

	items := make([]dto.LeadResponse, 0, len(result.Page.Leads))
	for i := range result.Page.Leads {
		items = append(items, leadResponse(&result.Page.Leads[i]))
	}

	return c.JSON(fiber.Map{"data": dto.LeadListResponse{
		Leads:      items,
		Page:       result.Page.Page,
		TotalPages: result.Page.TotalPages,
		Total:      result.Page.Total,
		TodayCount: result.TodayCount,
		Facets:     facetsResponse(result.Facets),
	}})
}

// Get handles GET /admin/leads/:id.
func (h *AdminLeadsHandler) Get(c *fiber.Ctx) error {
	lead, err := h.leads.GetLead(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": leadResponse(lead)})
}

// Create handles POST /admin/leads (manual entry).
func (h *AdminLeadsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	lead, err := h.leads.AddManual(c.Context(), service.ManualInput{
		Name:        req.Name,
		Contact:     req.Contact,
		Education:   req.Education,
		Reasons:     reasonTags(req.Reasons),
		HopeCourse:  req.HopeCourse,
		ClickSource: req.ClickSource,
		Memo:        req.Memo,
		Residence:   req.Residence,
		Manager:     req.Manager,
		SubjectCost: req.SubjectCost,
		Concerns:    concernsFromPayload(req.Concerns),
		Status:      domain.LeadStatus(req.Status),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": leadResponse(lead)})
}

// Update handles PATCH /admin/leads/:id.
func (h *AdminLeadsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	patch := repository.LeadPatch{
		Name:        req.Name,
		Contact:     req.Contact,
		Education:   req.Education,
		HopeCourse:  req.HopeCourse,
		ClickSource: req.ClickSource,
		Memo:        req.Memo,
		Residence:   req.Residence,
		Manager:     req.Manager,
		SubjectCost: req.SubjectCost,
	}
	if req.Reasons != nil {
		tags := reasonTags(*req.Reasons)
		patch.Reasons = &tags
	}
	if req.Concerns != nil {
		concerns := concernsFromPayload(*req.Concerns)
		patch.Concerns = &concerns
	}
	if req.Status != nil {
		status := domain.LeadStatus(*req.Status)
		patch.Status = &status
	}

	if err := h.leads.UpdateLead(c.Context(), c.Params("id"), patch); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "updated"}})
}

// Delete handles DELETE /admin/leads (bulk).
func (h *AdminLeadsHandler) Delete(c *fiber.Ctx) error {
	var req dto.DeleteLeadsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	removed, err := h.leads.DeleteLeads(c.Context(), req.IDs)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"removed": removed}})
}

// Export handles POST /admin/leads/export.
func (h *AdminLeadsHandler) Export(c *fiber.Ctx) error {
	var req dto.ExportLeadsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	criteria := query.Criteria{
		Search:  req.Search,
		Status:  req.Status,
		Manager: req.Manager,
		Major:   req.Major,
		Minor:   req.Minor,
		Reason:  req.Reason,
		Concern: req.Concern,
		From:    h.parseDate(req.From),
		To:      h.parseDate(req.To),
	}

	data, filename, err := h.leads.Export(c.Context(), req.IDs, criteria)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

func (h *AdminLeadsHandler) parseCriteria(c *fiber.Ctx) query.Criteria {
	criteria := query.Criteria{
		Search:  c.Query("search"),
		Status:  c.Query("status", query.FilterAll),
		Manager: c.Query("manager", query.FilterAll),
		Major:   c.Query("major", query.FilterAll),
		Minor:   c.Query("minor", query.FilterAll),
		Reason:  c.Query("reason", query.FilterAll),
		Concern: c.Query("concern", query.FilterAll),
		From:    h.parseDate(c.Query("from")),
		To:      h.parseDate(c.Query("to")),
		Page:    1,
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		criteria.Page = page
	}
	return criteria
}

func (h *AdminLeadsHandler) parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	parsed, err := time.ParseInLocation(dateLayout, value, h.loc)
	if err != nil {
		return nil
	}
	return &parsed
}

func concernsFromPayload(payloads []dto.ConcernPayload) []domain.Concern {
	concerns := make([]domain.Concern, 0, len(payloads))
	for _, p := range payloads {
		concerns = append(concerns, domain.Concern{Kind: domain.ConcernKind(p.Kind), Detail: p.Detail})
	}
	return concerns
}

func leadResponse(lead *domain.Lead) dto.LeadResponse {
	src := clicksource.Decode(lead.ClickSource)

	reasons := make([]string, 0, len(lead.Reasons))
	for _, tag := range lead.Reasons {
		reasons = append(reasons, string(tag))
	}
	concerns := make([]dto.ConcernPayload, 0, len(lead.Concerns))
	for _, concern := range lead.Concerns {
		concerns = append(concerns, dto.ConcernPayload{Kind: string(concern.Kind), Detail: concern.Detail})
	}

	return dto.LeadResponse{
		ID:          lead.ID,
		Name:        lead.Name,
		Contact:     lead.Contact,
		Education:   lead.Education,
		HopeCourse:  lead.HopeCourse,
		Reasons:     reasons,
		ClickSource: lead.ClickSource,
		Source:      dto.SourceResponse{Major: src.Major, Minor: src.Minor, Display: src.Display},
		Concerns:    concerns,
		Memo:        lead.Memo,
		Residence:   lead.Residence,
		Manager:     lead.Manager,
		SubjectCost: lead.SubjectCost,
		Status:      lead.Status,
		Manual:      lead.Manual,
		CreatedAt:   lead.CreatedAt,
	}
}

func facetsResponse(facets query.Facets) dto.FacetsResponse {
	reasons := make([]string, 0, len(domain.ReasonTags))
	for _, tag := range domain.ReasonTags {
		reasons = append(reasons, string(tag))
	}
	concerns := make([]string, 0, len(domain.ConcernKinds))
	for _, kind := range domain.ConcernKinds {
		concerns = append(concerns, string(kind))
	}
	statuses := make([]string, 0, len(domain.LeadStatuses))
	for _, status := range domain.LeadStatuses {
		statuses = append(statuses, string(status))
	}
	return dto.FacetsResponse{
		Managers: facets.Managers,
		Majors:   facets.Majors,
		Minors:   facets.Minors,
		Reasons:  reasons,
		Concerns: concerns,
		Statuses: statuses,
	}
}
