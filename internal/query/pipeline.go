// Package query implements the in-memory filter/sort/page pipeline applied to
// the full lead list, plus the facet derivation used to populate filter menus.
// Everything here is a pure computation over already-fetched data.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/baroform/lead-service/internal/clicksource"
	"github.com/baroform/lead-service/internal/domain"
)

// PageSize is the fixed page length for the admin table.
const PageSize = 10

// FilterAll disables a predicate; FilterNone matches only empty values
// (manager predicate only).
const (
	FilterAll  = "all"
	FilterNone = "none"
)

// Criteria captures the active filter set and the requested page.
// Zero-value string fields are treated like FilterAll.
type Criteria struct {
	Search  string
	Status  string
	Manager string
	Major   string
	Minor   string
	Reason  string
	Concern string
	From    *time.Time
	To      *time.Time
	Page    int
}

// active reports whether a select-style filter value constrains results.
func active(v string) bool {
	return v != "" && v != FilterAll
}

// Page is one visible page of the filtered list.
type Page struct {
	Leads      []domain.Lead
	Page       int
	Total      int
	TotalPages int
}

// Filter keeps the leads matching every active predicate.
func Filter(leads []domain.Lead, c Criteria, loc *time.Location) []domain.Lead {
	out := make([]domain.Lead, 0, len(leads))
	for _, lead := range leads {
		if matches(&lead, c, loc) {
			out = append(out, lead)
		}
	}
	return out
}

func matches(lead *domain.Lead, c Criteria, loc *time.Location) bool {
	if c.Search != "" && !matchesSearch(lead, c.Search) {
		return false
	}
	if active(c.Status) && string(lead.Status) != c.Status {
		return false
	}
	if !matchesManager(lead.Manager, c.Manager) {
		return false
	}
	if active(c.Major) || active(c.Minor) {
		src := clicksource.Decode(lead.ClickSource)
		if active(c.Major) && src.Major != c.Major {
			return false
		}
		if active(c.Minor) && src.Minor != c.Minor {
			return false
		}
	}
	if active(c.Reason) && !hasReason(lead, c.Reason) {
		return false
	}
	if active(c.Concern) && !hasConcern(lead, c.Concern) {
		return false
	}
	return matchesDateRange(lead.CreatedAt, c.From, c.To, loc)
}

// matchesSearch is a case-insensitive substring match over name, the
// hyphen-stripped contact, the joined reason text, memo, and the decoded
// click-source display.
func matchesSearch(lead *domain.Lead, search string) bool {
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(lead.Name), q) {
		return true
	}
	contactQ := strings.ReplaceAll(q, "-", "")
	if contactQ != "" && strings.Contains(strings.ReplaceAll(lead.Contact, "-", ""), contactQ) {
		return true
	}
	if strings.Contains(strings.ToLower(lead.ReasonText()), q) {
		return true
	}
	if strings.Contains(strings.ToLower(lead.Memo), q) {
		return true
	}
	if lead.ClickSource != nil {
		display := clicksource.Decode(lead.ClickSource).Display
		if strings.Contains(strings.ToLower(display), q) {
			return true
		}
	}
	return false
}

func matchesManager(manager, filter string) bool {
	if !active(filter) {
		return true
	}
	if filter == FilterNone {
		return strings.TrimSpace(manager) == ""
	}
	return manager == filter
}

func hasReason(lead *domain.Lead, reason string) bool {
	for _, tag := range lead.Reasons {
		if string(tag) == reason {
			return true
		}
	}
	return false
}

// hasConcern matches exact tag membership, except the 기타 filter which
// matches both the bare tag and its 기타:<detail> form.
func hasConcern(lead *domain.Lead, concern string) bool {
	for _, c := range lead.Concerns {
		if concern == string(domain.ConcernEtc) {
			if strings.HasPrefix(c.String(), string(domain.ConcernEtc)) {
				return true
			}
			continue
		}
		if c.String() == concern {
			return true
		}
	}
	return false
}

// matchesDateRange checks createdAt against inclusive day bounds: the start
// bound is normalized to 00:00:00 and the end bound to 23:59:59.999999999
// in the given location. Either bound may be open.
func matchesDateRange(createdAt time.Time, from, to *time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	if from != nil {
		start := startOfDay(*from, loc)
		if createdAt.Before(start) {
			return false
		}
	}
	if to != nil {
		end := endOfDay(*to, loc)
		if createdAt.After(end) {
			return false
		}
	}
	return true
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func endOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, loc)
}

// SortByNewest orders leads by creation time, most recent first. The order
// is not user-configurable.
func SortByNewest(leads []domain.Lead) {
	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].CreatedAt.After(leads[j].CreatedAt)
	})
}

// Paginate slices out the requested 1-based page. Out-of-range pages clamp
// into [1, totalPages]; callers reset to page 1 whenever the filter set
// changes so a shrinking result never lands on an empty page.
func Paginate(leads []domain.Lead, page int) Page {
	total := len(leads)
	totalPages := (total + PageSize - 1) / PageSize
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
		if page < 1 {
			page = 1
		}
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Leads:      leads[start:end],
		Page:       page,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Run applies filter, sort, and pagination in order.
func Run(leads []domain.Lead, c Criteria, loc *time.Location) Page {
	filtered := Filter(leads, c, loc)
	SortByNewest(filtered)
	return Paginate(filtered, c.Page)
}

// TodayCount counts leads created today in the given location. Derived from
// the unfiltered full set for the dashboard summary.
func TodayCount(leads []domain.Lead, now time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}
	start := startOfDay(now, loc)
	end := endOfDay(now, loc)
	count := 0
	for _, lead := range leads {
		if !lead.CreatedAt.Before(start) && !lead.CreatedAt.After(end) {
			count++
		}
	}
	return count
}

// Facets are the distinct-value lists that populate the filter menus.
// Managers and Majors come from the unfiltered full set; Minors is scoped
// to the selected major and unioned with its predefined categories.
// Reason and concern menus are fixed vocabularies, not derived here.
type Facets struct {
	Managers []string
	Majors   []string
	Minors   []string
}

// DeriveFacets recomputes facet lists from the full lead set.
func DeriveFacets(leads []domain.Lead, selectedMajor string) Facets {
	managerSet := map[string]struct{}{}
	majorSet := map[string]struct{}{}
	minorSet := map[string]struct{}{}

	for _, lead := range leads {
		if strings.TrimSpace(lead.Manager) != "" {
			managerSet[lead.Manager] = struct{}{}
		}
		src := clicksource.Decode(lead.ClickSource)
		if src.Major != "" {
			majorSet[src.Major] = struct{}{}
		}
		if active(selectedMajor) && src.Major == selectedMajor && src.Minor != "" {
			minorSet[src.Minor] = struct{}{}
		}
	}

	if active(selectedMajor) {
		for _, minor := range clicksource.KnownMinors(selectedMajor) {
			minorSet[minor] = struct{}{}
		}
	}

	return Facets{
		Managers: sortedKeys(managerSet),
		Majors:   sortedKeys(majorSet),
		Minors:   sortedKeys(minorSet),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
