package domain

import (
	"strings"
	"time"
)

// LeadStatus enumerates consultation progress states, in pipeline order.
type LeadStatus string

const (
	LeadStatusAwaiting   LeadStatus = "상담대기"
	LeadStatusInProgress LeadStatus = "상담중"
	LeadStatusOnHold     LeadStatus = "보류"
	LeadStatusPending    LeadStatus = "등록대기"
	LeadStatusEnrolled   LeadStatus = "등록완료"
)

// LeadStatuses lists every status in display order.
var LeadStatuses = []LeadStatus{
	LeadStatusAwaiting,
	LeadStatusInProgress,
	LeadStatusOnHold,
	LeadStatusPending,
	LeadStatusEnrolled,
}

// Valid reports whether the status is one of the known values.
func (s LeadStatus) Valid() bool {
	for _, known := range LeadStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ReasonTag is an applicant's stated motivation for the course.
type ReasonTag string

const (
	ReasonImmediateJob ReasonTag = "즉시취업"
	ReasonCareerChange ReasonTag = "이직"
	ReasonFuture       ReasonTag = "미래"
	ReasonHobby        ReasonTag = "취미"
	ReasonPreparation  ReasonTag = "준비"
)

// ReasonTags lists the fixed reason vocabulary.
var ReasonTags = []ReasonTag{
	ReasonImmediateJob,
	ReasonCareerChange,
	ReasonFuture,
	ReasonHobby,
	ReasonPreparation,
}

// Valid reports whether the tag belongs to the fixed vocabulary.
func (t ReasonTag) Valid() bool {
	for _, known := range ReasonTags {
		if t == known {
			return true
		}
	}
	return false
}

// ParseReasonTags splits the stored comma-joined form into a tag slice.
// Blanks are dropped; an empty string means no reason recorded yet.
func ParseReasonTags(s string) []ReasonTag {
	parts := strings.Split(s, ",")
	tags := make([]ReasonTag, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		tags = append(tags, ReasonTag(trimmed))
	}
	return tags
}

// JoinReasonTags renders tags into the stored comma-and-space-joined form.
func JoinReasonTags(tags []ReasonTag) string {
	parts := make([]string, 0, len(tags))
	for _, tag := range tags {
		parts = append(parts, string(tag))
	}
	return strings.Join(parts, ", ")
}

// Lead is a captured consultation request.
type Lead struct {
	ID          string
	Name        string
	Contact     string
	Education   string
	HopeCourse  *string
	Reasons     []ReasonTag
	ClickSource *string
	Concerns    []Concern
	Memo        string
	Residence   string
	Manager     string
	SubjectCost *int64
	Status      LeadStatus
	Manual      bool
	CreatedAt   time.Time
}

// ReasonText returns the comma-joined reason form used for display and search.
func (l *Lead) ReasonText() string {
	return JoinReasonTags(l.Reasons)
}

// ConcernText returns the comma-joined concern form used at the storage boundary.
func (l *Lead) ConcernText() string {
	return JoinConcerns(l.Concerns)
}
