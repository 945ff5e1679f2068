package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/baroform/lead-service/internal/api/dto"
	"github.com/baroform/lead-service/internal/domain"
	"github.com/baroform/lead-service/internal/service"
	apperrors "github.com/baroform/lead-service/pkg/util"
)

// ConsultationsHandler exposes the public funnel submission endpoint.
type ConsultationsHandler struct {
	leads *service.LeadService
}

// NewConsultationsHandler constructs handler.
func NewConsultationsHandler(leadService *service.LeadService) *ConsultationsHandler {
	return &ConsultationsHandler{leads: leadService}
}

// Submit handles POST /consultations.
func (h *ConsultationsHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	lead, err := h.leads.Submit(c.Context(), service.SubmitInput{
		Name:       req.Name,
		Contact:    req.Contact,
		Education:  req.Education,
		Reasons:    reasonTags(req.Reasons),
		HopeCourse: req.HopeCourse,
		Channel:    req.UTMSource,
		MaterialID: req.MaterialID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": leadResponse(lead)})
}

func reasonTags(values []string) []domain.ReasonTag {
	tags := make([]domain.ReasonTag, 0, len(values))
	for _, v := range values {
		tags = append(tags, domain.ReasonTag(v))
	}
	return tags
}
