package query

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baroform/lead-service/internal/domain"
)

var seoul = time.FixedZone("KST", 9*60*60)

func strPtr(s string) *string { return &s }

func makeLead(name string, createdAt time.Time) domain.Lead {
	return domain.Lead{
		ID:        name,
		Name:      name,
		Contact:   "010-1234-5678",
		Education: "대졸",
		Status:    domain.LeadStatusAwaiting,
		CreatedAt: createdAt,
	}
}

func sampleLeads() []domain.Lead {
	base := time.Date(2025, 11, 3, 10, 0, 0, 0, seoul)

	a := makeLead("홍길동", base)
	a.Reasons = []domain.ReasonTag{domain.ReasonCareerChange}
	a.ClickSource = strPtr("바로폼_네이버")
	a.Manager = "김상담"

	b := makeLead("김영희", base.Add(-24*time.Hour))
	b.Contact = "010-9876-5432"
	b.Reasons = []domain.ReasonTag{domain.ReasonHobby}
	b.ClickSource = strPtr("바로폼_구글_소재_77")
	b.Status = domain.LeadStatusEnrolled
	b.Concerns = []domain.Concern{{Kind: domain.ConcernEtc, Detail: "직장 불안"}}

	c := makeLead("이철수", base.Add(-48*time.Hour))
	c.Contact = "011-222-3333"
	c.ClickSource = strPtr("당근채팅")
	c.Concerns = []domain.Concern{{Kind: domain.ConcernChildcare}}
	c.Memo = "재상담 예정"

	d := makeLead("박민수", base.Add(-72*time.Hour))
	d.Concerns = []domain.Concern{{Kind: domain.ConcernEtc}}

	return []domain.Lead{a, b, c, d}
}

func TestFilterIsIdempotent(t *testing.T) {
	leads := sampleLeads()
	c := Criteria{Search: "상담", Status: string(domain.LeadStatusAwaiting)}

	once := Filter(leads, c, seoul)
	twice := Filter(once, c, seoul)
	assert.Equal(t, once, twice)
}

func TestSearchMatchesContactIgnoringHyphens(t *testing.T) {
	leads := sampleLeads()

	got := Filter(leads, Criteria{Search: "01012345678"}, seoul)
	require.Len(t, got, 2)
	for _, lead := range got {
		assert.Equal(t, "010-1234-5678", lead.Contact)
	}

	got = Filter(leads, Criteria{Search: "010-9876"}, seoul)
	require.Len(t, got, 1)
	assert.Equal(t, "김영희", got[0].Name)
}

func TestSearchMatchesDecodedDisplayAndMemo(t *testing.T) {
	leads := sampleLeads()

	got := Filter(leads, Criteria{Search: "소재_77"}, seoul)
	require.Len(t, got, 1)
	assert.Equal(t, "김영희", got[0].Name)

	got = Filter(leads, Criteria{Search: "재상담"}, seoul)
	require.Len(t, got, 1)
	assert.Equal(t, "이철수", got[0].Name)
}

func TestStatusAndManagerFilters(t *testing.T) {
	leads := sampleLeads()

	got := Filter(leads, Criteria{Status: string(domain.LeadStatusEnrolled)}, seoul)
	require.Len(t, got, 1)
	assert.Equal(t, "김영희", got[0].Name)

	got = Filter(leads, Criteria{Manager: "김상담"}, seoul)
	require.Len(t, got, 1)
	assert.Equal(t, "홍길동", got[0].Name)

	got = Filter(leads, Criteria{Manager: FilterNone}, seoul)
	assert.Len(t, got, 3)
}

func TestCategoryFilterUsesDecodedSource(t *testing.T) {
	leads := sampleLeads()

	got := Filter(leads, Criteria{Major: "당근"}, seoul)
	require.Len(t, got, 1)
	assert.Equal(t, "이철수", got[0].Name)

	got = Filter(leads, Criteria{Major: "구글", Minor: "소재_77"}, seoul)
	require.Len(t, got, 1)
	assert.Equal(t, "김영희", got[0].Name)

	got = Filter(leads, Criteria{Major: "구글", Minor: "소재_78"}, seoul)
	assert.Empty(t, got)
}

func TestConcernFilterEtcMatchesPrefixedForms(t *testing.T) {
	leads := sampleLeads()

	got := Filter(leads, Criteria{Concern: "기타"}, seoul)
	require.Len(t, got, 2)

	got = Filter(leads, Criteria{Concern: "육아"}, seoul)
	require.Len(t, got, 1)
	assert.Equal(t, "이철수", got[0].Name)
}

func TestDateRangeBoundsAreInclusiveDayBoundaries(t *testing.T) {
	leads := sampleLeads()
	day := time.Date(2025, 11, 2, 15, 30, 0, 0, seoul)

	got := Filter(leads, Criteria{From: &day, To: &day}, seoul)
	require.Len(t, got, 1)
	assert.Equal(t, "김영희", got[0].Name)

	from := time.Date(2025, 11, 1, 0, 0, 0, 0, seoul)
	got = Filter(leads, Criteria{From: &from}, seoul)
	assert.Len(t, got, 3)

	to := time.Date(2025, 10, 31, 23, 0, 0, 0, seoul)
	got = Filter(leads, Criteria{To: &to}, seoul)
	require.Len(t, got, 1)
	assert.Equal(t, "박민수", got[0].Name)
}

func TestSortByNewestIsDescending(t *testing.T) {
	leads := sampleLeads()
	// shuffle deterministically
	leads[0], leads[3] = leads[3], leads[0]

	SortByNewest(leads)
	for i := 1; i < len(leads); i++ {
		assert.False(t, leads[i-1].CreatedAt.Before(leads[i].CreatedAt))
	}
}

func TestPaginationPartitionsFilteredSet(t *testing.T) {
	base := time.Date(2025, 11, 3, 10, 0, 0, 0, seoul)
	leads := make([]domain.Lead, 0, 23)
	for i := 0; i < 23; i++ {
		leads = append(leads, makeLead(fmt.Sprintf("lead-%02d", i), base.Add(-time.Duration(i)*time.Hour)))
	}

	page := Paginate(leads, 1)
	assert.Equal(t, 23, page.Total)
	assert.Equal(t, 3, page.TotalPages)

	sum := 0
	for i := 1; i <= page.TotalPages; i++ {
		p := Paginate(leads, i)
		if i < page.TotalPages {
			assert.Len(t, p.Leads, PageSize)
		}
		sum += len(p.Leads)
	}
	assert.Equal(t, 23, sum)
}

func TestPaginationClampsOutOfRangePages(t *testing.T) {
	leads := sampleLeads()

	page := Paginate(leads, 99)
	assert.Equal(t, 1, page.Page)
	assert.Len(t, page.Leads, 4)

	page = Paginate(leads, -1)
	assert.Equal(t, 1, page.Page)

	page = Paginate(nil, 5)
	assert.Equal(t, 1, page.Page)
	assert.Empty(t, page.Leads)
	assert.Zero(t, page.TotalPages)
}

func TestRunFiltersSortsAndPages(t *testing.T) {
	leads := sampleLeads()

	page := Run(leads, Criteria{Manager: FilterNone, Page: 1}, seoul)
	require.Len(t, page.Leads, 3)
	assert.Equal(t, "김영희", page.Leads[0].Name)
	assert.Equal(t, "박민수", page.Leads[2].Name)
}

func TestTodayCount(t *testing.T) {
	leads := sampleLeads()
	now := time.Date(2025, 11, 3, 23, 0, 0, 0, seoul)
	assert.Equal(t, 1, TodayCount(leads, now, seoul))
}

func TestDeriveFacets(t *testing.T) {
	leads := sampleLeads()

	facets := DeriveFacets(leads, FilterAll)
	assert.Equal(t, []string{"김상담"}, facets.Managers)
	assert.Equal(t, []string{"구글", "네이버", "당근"}, facets.Majors)
	assert.Empty(t, facets.Minors)

	facets = DeriveFacets(leads, "당근")
	assert.Equal(t, []string{"당근채팅", "대표전화(당근)"}, facets.Minors)

	facets = DeriveFacets(leads, "구글")
	assert.Equal(t, []string{"소재_77"}, facets.Minors)
}
