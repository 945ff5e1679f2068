package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/baroform/lead-service/internal/domain"
	"github.com/baroform/lead-service/internal/events"
	"github.com/baroform/lead-service/internal/query"
	"github.com/baroform/lead-service/internal/repository"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) List(ctx context.Context) ([]domain.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lead), args.Error(1)
}

func (m *MockLeadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) UpdateFields(ctx context.Context, id string, patch repository.LeadPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockLeadRepository) Delete(ctx context.Context, ids []string) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

// captureDispatcher records every published event.
type captureDispatcher struct {
	published []events.Event
}

func (d *captureDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *captureDispatcher) Subscribe(events.EventType, events.EventHandler) {}

var kst = time.FixedZone("KST", 9*3600)

func newTestService(repo repository.LeadRepository, dispatcher events.Dispatcher) *LeadService {
	svc := NewLeadService(LeadDependencies{
		LeadRepo:   repo,
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
		Location:   kst,
	})
	svc.now = func() time.Time {
		return time.Date(2026, 3, 2, 14, 0, 0, 0, kst)
	}
	return svc
}

func TestSubmitEncodesClickSourceAndDefaults(t *testing.T) {
	repo := new(MockLeadRepository)
	dispatcher := &captureDispatcher{}
	svc := newTestService(repo, dispatcher)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Lead")).
		Run(func(args mock.Arguments) {
			lead := args.Get(1).(*domain.Lead)
			lead.ID = "lead-1"
		}).Return(nil)

	lead, err := svc.Submit(context.Background(), SubmitInput{
		Name:      "김민수",
		Contact:   "01012345678",
		Education: "대졸",
		Reasons:   []domain.ReasonTag{domain.ReasonImmediateJob},
		Channel:   "naver",
	})

	require.NoError(t, err)
	assert.Equal(t, "010-1234-5678", lead.Contact)
	assert.Equal(t, domain.LeadStatusAwaiting, lead.Status)
	require.NotNil(t, lead.ClickSource)
	assert.Equal(t, "바로폼_네이버", *lead.ClickSource)
	assert.False(t, lead.Manual)

	require.Len(t, dispatcher.published, 1)
	assert.Equal(t, events.EventLeadCreated, dispatcher.published[0].Type)
	assert.Equal(t, "lead-1", dispatcher.published[0].LeadID)
	repo.AssertExpectations(t)
}

func TestSubmitWithMaterial(t *testing.T) {
	repo := new(MockLeadRepository)
	svc := newTestService(repo, &captureDispatcher{})

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	lead, err := svc.Submit(context.Background(), SubmitInput{
		Name:       "이영희",
		Contact:    "010-9876-5432",
		Education:  "고졸",
		Reasons:    []domain.ReasonTag{domain.ReasonHobby},
		Channel:    "daangn",
		MaterialID: "42",
	})

	require.NoError(t, err)
	require.NotNil(t, lead.ClickSource)
	assert.Equal(t, "바로폼_당근_소재_42", *lead.ClickSource)
}

func TestSubmitValidationNeverReachesRepository(t *testing.T) {
	repo := new(MockLeadRepository)
	svc := newTestService(repo, &captureDispatcher{})

	cases := []SubmitInput{
		{Contact: "01012345678", Education: "대졸", Reasons: []domain.ReasonTag{domain.ReasonFuture}},
		{Name: "김민수", Education: "대졸", Reasons: []domain.ReasonTag{domain.ReasonFuture}},
		{Name: "김민수", Contact: "021234567", Education: "대졸", Reasons: []domain.ReasonTag{domain.ReasonFuture}},
		{Name: "김민수", Contact: "01012345678", Reasons: []domain.ReasonTag{domain.ReasonFuture}},
		{Name: "김민수", Contact: "01012345678", Education: "대졸"},
		{Name: "김민수", Contact: "01012345678", Education: "대졸", Reasons: []domain.ReasonTag{"유학"}},
	}
	for _, input := range cases {
		_, err := svc.Submit(context.Background(), input)
		assert.Error(t, err)
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAddManualMarksManual(t *testing.T) {
	repo := new(MockLeadRepository)
	svc := newTestService(repo, &captureDispatcher{})

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Lead")).Return(nil)

	lead, err := svc.AddManual(context.Background(), ManualInput{
		Name:      "박철수",
		Contact:   "01055554444",
		Education: "대졸",
		Reasons:   []domain.ReasonTag{domain.ReasonCareerChange},
		Manager:   "담당자A",
		Status:    domain.LeadStatusInProgress,
	})

	require.NoError(t, err)
	assert.True(t, lead.Manual)
	assert.Equal(t, domain.LeadStatusInProgress, lead.Status)
	assert.Nil(t, lead.ClickSource)
}

func TestAddManualRejectsDetailOnFixedConcern(t *testing.T) {
	repo := new(MockLeadRepository)
	svc := newTestService(repo, &captureDispatcher{})

	_, err := svc.AddManual(context.Background(), ManualInput{
		Name:      "박철수",
		Contact:   "01055554444",
		Education: "대졸",
		Reasons:   []domain.ReasonTag{domain.ReasonCareerChange},
		Concerns:  []domain.Concern{{Kind: domain.ConcernOwnPrice, Detail: "비용이 걱정"}},
	})

	assert.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateLeadStatusChangePublishesTransition(t *testing.T) {
	repo := new(MockLeadRepository)
	dispatcher := &captureDispatcher{}
	svc := newTestService(repo, dispatcher)

	current := &domain.Lead{ID: "lead-1", Status: domain.LeadStatusAwaiting}
	repo.On("GetByID", mock.Anything, "lead-1").Return(current, nil)
	repo.On("UpdateFields", mock.Anything, "lead-1", mock.Anything).Return(nil)

	next := domain.LeadStatusEnrolled
	err := svc.UpdateLead(context.Background(), "lead-1", repository.LeadPatch{Status: &next})

	require.NoError(t, err)
	require.Len(t, dispatcher.published, 1)
	event := dispatcher.published[0]
	assert.Equal(t, events.EventLeadStatusChanged, event.Type)
	payload := event.Payload.(events.LeadStatusChangedPayload)
	assert.Equal(t, domain.LeadStatusAwaiting, payload.OldStatus)
	assert.Equal(t, domain.LeadStatusEnrolled, payload.NewStatus)
}

func TestUpdateLeadFormatsContact(t *testing.T) {
	repo := new(MockLeadRepository)
	svc := newTestService(repo, &captureDispatcher{})

	repo.On("UpdateFields", mock.Anything, "lead-1", mock.MatchedBy(func(patch repository.LeadPatch) bool {
		return patch.Contact != nil && *patch.Contact == "010-2222-3333"
	})).Return(nil)

	contact := "01022223333"
	err := svc.UpdateLead(context.Background(), "lead-1", repository.LeadPatch{Contact: &contact})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdateLeadRejectsUnknownStatus(t *testing.T) {
	repo := new(MockLeadRepository)
	svc := newTestService(repo, &captureDispatcher{})

	bad := domain.LeadStatus("종료")
	err := svc.UpdateLead(context.Background(), "lead-1", repository.LeadPatch{Status: &bad})

	assert.Error(t, err)
	repo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteLeads(t *testing.T) {
	repo := new(MockLeadRepository)
	dispatcher := &captureDispatcher{}
	svc := newTestService(repo, dispatcher)

	ids := []string{"a", "b"}
	repo.On("Delete", mock.Anything, ids).Return(int64(2), nil)

	removed, err := svc.DeleteLeads(context.Background(), ids)

	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	require.Len(t, dispatcher.published, 1)
	assert.Equal(t, events.EventLeadsDeleted, dispatcher.published[0].Type)
}

func TestDeleteLeadsRequiresIDs(t *testing.T) {
	repo := new(MockLeadRepository)
	svc := newTestService(repo, &captureDispatcher{})

	_, err := svc.DeleteLeads(context.Background(), nil)

	assert.Error(t, err)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func exportFixture() []domain.Lead {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, kst)
	return []domain.Lead{
		{ID: "a", Name: "김민수", Contact: "010-1111-2222", Education: "대졸",
			Reasons: []domain.ReasonTag{domain.ReasonImmediateJob},
			Status:  domain.LeadStatusAwaiting, CreatedAt: base},
		{ID: "b", Name: "이영희", Contact: "010-3333-4444", Education: "고졸",
			Reasons: []domain.ReasonTag{domain.ReasonHobby},
			Status:  domain.LeadStatusEnrolled, CreatedAt: base.Add(time.Hour)},
		{ID: "c", Name: "박철수", Contact: "010-5555-6666", Education: "대졸",
			Reasons: []domain.ReasonTag{domain.ReasonFuture},
			Status:  domain.LeadStatusInProgress, CreatedAt: base.Add(2 * time.Hour)},
	}
}

func TestExportSelectedIDs(t *testing.T) {
	repo := new(MockLeadRepository)
	svc := newTestService(repo, &captureDispatcher{})

	repo.On("List", mock.Anything).Return(exportFixture(), nil)

	data, filename, err := svc.Export(context.Background(), []string{"a", "c"}, query.Criteria{})

	require.NoError(t, err)
	assert.Equal(t, "leads_2건_20260302.csv", filename)

	body := string(data)
	assert.True(t, strings.HasPrefix(body, "\xEF\xBB\xBF"))
	assert.Contains(t, body, "이름,연락처")
	assert.Contains(t, body, "김민수")
	assert.Contains(t, body, "박철수")
	assert.NotContains(t, body, "이영희")
}

func TestExportFilteredSet(t *testing.T) {
	repo := new(MockLeadRepository)
	svc := newTestService(repo, &captureDispatcher{})

	repo.On("List", mock.Anything).Return(exportFixture(), nil)

	data, filename, err := svc.Export(context.Background(), nil, query.Criteria{
		Status: string(domain.LeadStatusEnrolled),
	})

	require.NoError(t, err)
	assert.Equal(t, "leads_all_20260302.csv", filename)
	assert.Contains(t, string(data), "이영희")
	assert.NotContains(t, string(data), "김민수")
}
