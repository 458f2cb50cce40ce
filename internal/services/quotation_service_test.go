package services

import (
	"context"
	"testing"
	"time"

	"quotabill/internal/caching"
	"quotabill/internal/common"
	"quotabill/internal/document"
	"quotabill/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MockQuotationRepo struct {
	mock.Mock
}

func (m *MockQuotationRepo) Create(ctx context.Context, q *models.Quotation) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuotationRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Quotation, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quotation), args.Error(1)
}

func (m *MockQuotationRepo) Update(ctx context.Context, q *models.Quotation) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuotationRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockQuotationRepo) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Quotation, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Quotation), args.Error(1)
}

func (m *MockQuotationRepo) ListDrafts(ctx context.Context, userID uuid.UUID) ([]*models.Quotation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Quotation), args.Error(1)
}

func (m *MockQuotationRepo) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status string) error {
	args := m.Called(ctx, userID, id, status)
	return args.Error(0)
}

func (m *MockQuotationRepo) NextSequence(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

var _ caching.CacheService = (*MockCacheService)(nil)

func (m *MockCacheService) GetDraftSummaries(ctx context.Context, userID uuid.UUID) ([]models.QuotationSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.QuotationSummary), args.Error(1)
}

func (m *MockCacheService) SetDraftSummaries(ctx context.Context, userID uuid.UUID, summaries []models.QuotationSummary, ttl time.Duration) error {
	args := m.Called(ctx, userID, summaries, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateDrafts(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCacheService) GetDocumentStats(ctx context.Context, userID uuid.UUID) (map[string]interface{}, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

func (m *MockCacheService) SetDocumentStats(ctx context.Context, userID uuid.UUID, stats map[string]interface{}, ttl time.Duration) error {
	args := m.Called(ctx, userID, stats, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateUserCache(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateAllCache(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

type QuotationServiceTestSuite struct {
	suite.Suite
	repo    *MockQuotationRepo
	cache   *MockCacheService
	service QuotationService
	userID  uuid.UUID
	ctx     context.Context
}

func (suite *QuotationServiceTestSuite) SetupTest() {
	suite.repo = new(MockQuotationRepo)
	suite.cache = new(MockCacheService)
	suite.service = NewQuotationService(suite.repo, suite.cache)
	suite.userID = uuid.New()
	suite.ctx = context.Background()
}

func TestQuotationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(QuotationServiceTestSuite))
}

func (suite *QuotationServiceTestSuite) TestSaveDraft_FirstSaveCreates() {
	data := wireQuotation()

	suite.repo.On("Create", suite.ctx, mock.MatchedBy(func(q *models.Quotation) bool {
		return q.UserID == suite.userID && q.Status == "draft" && q.ID != uuid.Nil
	})).Return(nil).Once()
	suite.cache.On("InvalidateDrafts", suite.ctx, suite.userID).Return(nil).Once()

	id, err := suite.service.SaveDraft(suite.ctx, suite.userID, nil, data)
	require.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), uuid.Nil, id)
	suite.repo.AssertExpectations(suite.T())
}

func (suite *QuotationServiceTestSuite) TestSaveDraft_SecondSaveUpdatesSameRow() {
	data := wireQuotation()
	existingID := uuid.New()
	existing := &models.Quotation{ID: existingID, UserID: suite.userID, Status: "draft"}

	suite.repo.On("GetByID", suite.ctx, suite.userID, existingID).Return(existing, nil).Once()
	suite.repo.On("Update", suite.ctx, mock.MatchedBy(func(q *models.Quotation) bool {
		return q.ID == existingID && q.Status == "draft"
	})).Return(nil).Once()
	suite.cache.On("InvalidateDrafts", suite.ctx, suite.userID).Return(nil).Once()

	id, err := suite.service.SaveDraft(suite.ctx, suite.userID, &existingID, data)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), existingID, id)
	suite.repo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *QuotationServiceTestSuite) TestSaveDraft_UpdatePreservesLifecycleState() {
	data := wireQuotation()
	existingID := uuid.New()
	existing := &models.Quotation{ID: existingID, UserID: suite.userID, Status: "sent"}

	suite.repo.On("GetByID", suite.ctx, suite.userID, existingID).Return(existing, nil).Once()
	suite.repo.On("Update", suite.ctx, mock.MatchedBy(func(q *models.Quotation) bool {
		return q.Status == "sent"
	})).Return(nil).Once()
	suite.cache.On("InvalidateDrafts", suite.ctx, suite.userID).Return(nil).Once()

	_, err := suite.service.SaveDraft(suite.ctx, suite.userID, &existingID, data)
	require.NoError(suite.T(), err)
}

func (suite *QuotationServiceTestSuite) TestSaveDraft_ValidationFailureNeverTouchesStorage() {
	data := wireQuotation()
	data.Items[0].UnitPrice = -5

	_, err := suite.service.SaveDraft(suite.ctx, suite.userID, nil, data)
	assert.True(suite.T(), common.IsValidation(err))
	suite.repo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
	suite.repo.AssertNotCalled(suite.T(), "Update", mock.Anything, mock.Anything)
}

func (suite *QuotationServiceTestSuite) TestSaveDraft_RecomputesTotalsBeforePersisting() {
	data := wireQuotation()
	data.Subtotal = 0
	data.Total = 999999

	suite.repo.On("Create", suite.ctx, mock.MatchedBy(func(q *models.Quotation) bool {
		return q.Subtotal == 1400 && q.Total == 1378
	})).Return(nil).Once()
	suite.cache.On("InvalidateDrafts", suite.ctx, suite.userID).Return(nil).Once()

	_, err := suite.service.SaveDraft(suite.ctx, suite.userID, nil, data)
	require.NoError(suite.T(), err)
	suite.repo.AssertExpectations(suite.T())
}

func (suite *QuotationServiceTestSuite) TestSaveDraft_UnknownIDSurfacesNotFound() {
	data := wireQuotation()
	missingID := uuid.New()

	suite.repo.On("GetByID", suite.ctx, suite.userID, missingID).Return(nil, common.ErrNotFound).Once()

	_, err := suite.service.SaveDraft(suite.ctx, suite.userID, &missingID, data)
	assert.True(suite.T(), common.IsNotFound(err))
}

func (suite *QuotationServiceTestSuite) TestListDrafts_CacheHitSkipsStorage() {
	cached := []models.QuotationSummary{{ID: uuid.New(), QuotationNumber: "#QUO000001", ProjectTitle: "Cached"}}

	suite.cache.On("GetDraftSummaries", suite.ctx, suite.userID).Return(cached, nil).Once()

	got, err := suite.service.ListDrafts(suite.ctx, suite.userID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), cached, got)
	suite.repo.AssertNotCalled(suite.T(), "ListDrafts", mock.Anything, mock.Anything)
}

func (suite *QuotationServiceTestSuite) TestListDrafts_CacheMissFillsCache() {
	draft := &models.Quotation{ID: uuid.New(), QuotationNumber: "#QUO000002", Status: "draft"}

	suite.cache.On("GetDraftSummaries", suite.ctx, suite.userID).Return(nil, nil).Once()
	suite.repo.On("ListDrafts", suite.ctx, suite.userID).Return([]*models.Quotation{draft}, nil).Once()
	suite.cache.On("SetDraftSummaries", suite.ctx, suite.userID, mock.Anything, draftCacheTTL).Return(nil).Once()

	got, err := suite.service.ListDrafts(suite.ctx, suite.userID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), got, 1)
	assert.Equal(suite.T(), "Untitled", got[0].ProjectTitle)
}

func (suite *QuotationServiceTestSuite) TestUpdateStatus_ValidTransition() {
	id := uuid.New()
	current := &models.Quotation{ID: id, UserID: suite.userID, Status: "draft"}

	suite.repo.On("GetByID", suite.ctx, suite.userID, id).Return(current, nil).Once()
	suite.repo.On("UpdateStatus", suite.ctx, suite.userID, id, "sent").Return(nil).Once()
	suite.cache.On("InvalidateDrafts", suite.ctx, suite.userID).Return(nil).Once()

	err := suite.service.UpdateStatus(suite.ctx, suite.userID, id, document.QuotationSent)
	assert.NoError(suite.T(), err)
}

func (suite *QuotationServiceTestSuite) TestUpdateStatus_IllegalTransitionRejected() {
	id := uuid.New()
	current := &models.Quotation{ID: id, UserID: suite.userID, Status: "accepted"}

	suite.repo.On("GetByID", suite.ctx, suite.userID, id).Return(current, nil).Once()

	err := suite.service.UpdateStatus(suite.ctx, suite.userID, id, document.QuotationSent)
	assert.True(suite.T(), common.IsValidation(err))
	suite.repo.AssertNotCalled(suite.T(), "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *QuotationServiceTestSuite) TestUpdateStatus_DisplayStatusRejected() {
	id := uuid.New()
	current := &models.Quotation{ID: id, UserID: suite.userID, Status: "sent"}

	suite.repo.On("GetByID", suite.ctx, suite.userID, id).Return(current, nil).Maybe()

	err := suite.service.UpdateStatus(suite.ctx, suite.userID, id, document.QuotationExpired)
	assert.True(suite.T(), common.IsValidation(err))
}

func (suite *QuotationServiceTestSuite) TestNextNumber() {
	suite.repo.On("NextSequence", suite.ctx, suite.userID).Return(12, nil).Once()

	number, err := suite.service.NextNumber(suite.ctx, suite.userID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "#QUO000012", number)
}
