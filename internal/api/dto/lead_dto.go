package dto

import (
	"time"

	"github.com/baroform/lead-service/internal/domain"
)

// SubmitLeadRequest is the funnel submission payload. utm_source and
// material_id are the inbound tracking parameters forwarded by the form.
type SubmitLeadRequest struct {
	Name       string   `json:"name"`
	Contact    string   `json:"contact"`
	Education  string   `json:"education"`
	Reasons    []string `json:"reasons"`
	HopeCourse *string  `json:"hope_course,omitempty"`
	UTMSource  string   `json:"utm_source,omitempty"`
	MaterialID string   `json:"material_id,omitempty"`
}

// ConcernPayload carries one counseling concern; detail only with 기타.
type ConcernPayload struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

// CreateLeadRequest is the admin manual-entry payload.
type CreateLeadRequest struct {
	Name        string           `json:"name"`
	Contact     string           `json:"contact"`
	Education   string           `json:"education"`
	Reasons     []string         `json:"reasons"`
	HopeCourse  *string          `json:"hope_course,omitempty"`
	ClickSource *string          `json:"click_source,omitempty"`
	Memo        string           `json:"memo,omitempty"`
	Residence   string           `json:"residence,omitempty"`
	Manager     string           `json:"manager,omitempty"`
	SubjectCost *int64           `json:"subject_cost,omitempty"`
	Concerns    []ConcernPayload `json:"concerns,omitempty"`
	Status      string           `json:"status,omitempty"`
}

// UpdateLeadRequest is a partial patch; absent fields are left untouched.
type UpdateLeadRequest struct {
	Name        *string           `json:"name,omitempty"`
	Contact     *string           `json:"contact,omitempty"`
	Education   *string           `json:"education,omitempty"`
	HopeCourse  *string           `json:"hope_course,omitempty"`
	Reasons     *[]string         `json:"reasons,omitempty"`
	ClickSource *string           `json:"click_source,omitempty"`
	Concerns    *[]ConcernPayload `json:"concerns,omitempty"`
	Memo        *string           `json:"memo,omitempty"`
	Residence   *string           `json:"residence,omitempty"`
	Manager     *string           `json:"manager,omitempty"`
	SubjectCost *int64            `json:"subject_cost,omitempty"`
	Status      *string           `json:"status,omitempty"`
}

// DeleteLeadsRequest selects leads for bulk removal.
type DeleteLeadsRequest struct {
	IDs []string `json:"ids"`
}

// ExportLeadsRequest exports the explicit selection when ids is non-empty,
// otherwise the filtered set described by the criteria fields.
type ExportLeadsRequest struct {
	IDs     []string `json:"ids,omitempty"`
	Search  string   `json:"search,omitempty"`
	Status  string   `json:"status,omitempty"`
	Manager string   `json:"manager,omitempty"`
	Major   string   `json:"major,omitempty"`
	Minor   string   `json:"minor,omitempty"`
	Reason  string   `json:"reason,omitempty"`
	Concern string   `json:"concern,omitempty"`
	From    string   `json:"from,omitempty"`
	To      string   `json:"to,omitempty"`
}

// LeadResponse is the wire form of one lead row.
type LeadResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Contact     string            `json:"contact"`
	Education   string            `json:"education"`
	HopeCourse  *string           `json:"hope_course,omitempty"`
	Reasons     []string          `json:"reasons"`
	ClickSource *string           `json:"click_source"`
	Source      SourceResponse    `json:"source"`
	Concerns    []ConcernPayload  `json:"concerns"`
	Memo        string            `json:"memo"`
	Residence   string            `json:"residence"`
	Manager     string            `json:"manager"`
	SubjectCost *int64            `json:"subject_cost"`
	Status      domain.LeadStatus `json:"status"`
	Manual      bool              `json:"manual"`
	CreatedAt   time.Time         `json:"created_at"`
}

// SourceResponse is the decoded click-source view.
type SourceResponse struct {
	Major   string `json:"major"`
	Minor   string `json:"minor"`
	Display string `json:"display"`
}

// FacetsResponse carries the filter menu option lists.
type FacetsResponse struct {
	Managers []string `json:"managers"`
	Majors   []string `json:"majors"`
	Minors   []string `json:"minors"`
	Reasons  []string `json:"reasons"`
	Concerns []string `json:"concerns"`
	Statuses []string `json:"statuses"`
}

// LeadListResponse is one dashboard view.
type LeadListResponse struct {
	Leads      []LeadResponse `json:"leads"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	Total      int            `json:"total"`
	TodayCount int            `json:"today_count"`
	Facets     FacetsResponse `json:"facets"`
}
