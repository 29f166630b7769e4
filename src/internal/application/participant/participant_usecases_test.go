package participant

import (
	"errors"
	"testing"
	"time"

	"github.com/jackyeh168/green_events/src/internal/domain/participant"
	"github.com/jackyeh168/green_events/src/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ===========================
// Mocks
// ===========================

// MockParticipantRepository mock implementation of ParticipantRepository
type MockParticipantRepository struct {
	mock.Mock
}

func (m *MockParticipantRepository) Save(ctx shared.TransactionContext, p *participant.Participant) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockParticipantRepository) FindByID(ctx shared.TransactionContext, id participant.ParticipantID) (*participant.Participant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*participant.Participant), args.Error(1)
}

func (m *MockParticipantRepository) ExistsByEmail(ctx shared.TransactionContext, email participant.Email) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockParticipantRepository) Update(ctx shared.TransactionContext, p *participant.Participant) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// MockTransactionManager runs fn directly with a nil context
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) InTransaction(fn func(ctx shared.TransactionContext) error) error {
	return fn(nil)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(e shared.DomainEvent) error {
	return m.Called(e).Error(0)
}

func (m *MockPublisher) PublishBatch(events []shared.DomainEvent) error {
	return m.Called(events).Error(0)
}

// ===========================
// RegisterParticipantUseCase Tests
// ===========================

// Test 1: 註冊成功
func TestRegisterParticipantUseCase_Execute_Success(t *testing.T) {
	// Arrange
	mockRepo := new(MockParticipantRepository)
	publisher := new(MockPublisher)
	useCase := NewRegisterParticipantUseCase(mockRepo, new(MockTransactionManager), publisher)

	cmd := RegisterParticipantCommand{
		DisplayName: "Alice",
		Email:       "Alice@Example.org",
		PhoneNumber: "+886 912-345-678",
	}

	mockRepo.On("ExistsByEmail", mock.Anything, mock.MatchedBy(func(e participant.Email) bool {
		return e.String() == "alice@example.org"
	})).Return(false, nil)
	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(p *participant.Participant) bool {
		return p.DisplayName() == "Alice" &&
			p.Phone().String() == "+886912345678" &&
			p.RewardPoints().Value() == 0
	})).Return(nil)
	publisher.On("PublishBatch", mock.Anything).Return(nil)

	// Act
	result, err := useCase.Execute(cmd)

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, result.ParticipantID)
	assert.Equal(t, "Alice", result.DisplayName)
	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

// Test 2: 不提供 email 時不檢查重複
func TestRegisterParticipantUseCase_Execute_WithoutEmail(t *testing.T) {
	mockRepo := new(MockParticipantRepository)
	useCase := NewRegisterParticipantUseCase(mockRepo, new(MockTransactionManager), nil)

	mockRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	result, err := useCase.Execute(RegisterParticipantCommand{DisplayName: "Bob"})

	require.NoError(t, err)
	assert.NotEmpty(t, result.ParticipantID)
	mockRepo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
}

// Test 3: email 已註冊
func TestRegisterParticipantUseCase_Execute_EmailAlreadyRegistered(t *testing.T) {
	mockRepo := new(MockParticipantRepository)
	useCase := NewRegisterParticipantUseCase(mockRepo, new(MockTransactionManager), nil)

	mockRepo.On("ExistsByEmail", mock.Anything, mock.Anything).Return(true, nil)

	_, err := useCase.Execute(RegisterParticipantCommand{DisplayName: "Alice", Email: "alice@example.org"})

	assert.ErrorIs(t, err, participant.ErrEmailAlreadyRegistered)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// Test 4: 輸入驗證
func TestRegisterParticipantUseCase_Execute_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		cmd     RegisterParticipantCommand
		wantErr error
	}{
		{"空白名稱", RegisterParticipantCommand{DisplayName: "  "}, participant.ErrInvalidDisplayName},
		{"email 格式錯誤", RegisterParticipantCommand{DisplayName: "A", Email: "not-an-email"}, participant.ErrInvalidEmail},
		{"電話太短", RegisterParticipantCommand{DisplayName: "A", PhoneNumber: "123"}, participant.ErrInvalidPhoneNumberFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockParticipantRepository)
			useCase := NewRegisterParticipantUseCase(mockRepo, new(MockTransactionManager), nil)

			_, err := useCase.Execute(tt.cmd)

			assert.ErrorIs(t, err, tt.wantErr)
			mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

// Test 5: 資料庫錯誤直接返回
func TestRegisterParticipantUseCase_Execute_RepositoryError(t *testing.T) {
	mockRepo := new(MockParticipantRepository)
	useCase := NewRegisterParticipantUseCase(mockRepo, new(MockTransactionManager), nil)
	dbErr := errors.New("connection reset")

	mockRepo.On("Save", mock.Anything, mock.Anything).Return(dbErr)

	_, err := useCase.Execute(RegisterParticipantCommand{DisplayName: "Carol"})

	assert.ErrorIs(t, err, dbErr)
}

// Test 6: 發布失敗不影響註冊
func TestRegisterParticipantUseCase_Execute_PublishFailureIgnored(t *testing.T) {
	mockRepo := new(MockParticipantRepository)
	publisher := new(MockPublisher)
	useCase := NewRegisterParticipantUseCase(mockRepo, new(MockTransactionManager), publisher)

	mockRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	publisher.On("PublishBatch", mock.Anything).Return(errors.New("broker down"))

	result, err := useCase.Execute(RegisterParticipantCommand{DisplayName: "Dan"})

	require.NoError(t, err)
	assert.NotEmpty(t, result.ParticipantID)
}

// ===========================
// GetParticipantUseCase Tests
// ===========================

// Test 7: 查詢成功
func TestGetParticipantUseCase_Execute_Success(t *testing.T) {
	// Arrange
	mockRepo := new(MockParticipantRepository)
	id, _ := participant.ParticipantIDFromString("A1")
	email, _ := participant.NewEmail("a1@example.org")
	p, err := participant.ReconstructParticipant(id, "Alice", email, participant.PhoneNumber{}, 130, time.Now(), time.Now(), 3)
	require.NoError(t, err)
	mockRepo.On("FindByID", mock.Anything, id).Return(p, nil)

	// Act
	result, err := NewGetParticipantUseCase(mockRepo).Execute(GetParticipantQuery{ParticipantID: "A1"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "A1", result.ParticipantID)
	assert.Equal(t, 130, result.RewardPoints)
	assert.Equal(t, "a1@example.org", result.Email)
	assert.Empty(t, result.PhoneNumber)
}

// Test 8: 參加者不存在
func TestGetParticipantUseCase_Execute_NotFound(t *testing.T) {
	mockRepo := new(MockParticipantRepository)
	mockRepo.On("FindByID", mock.Anything, mock.Anything).Return(nil, participant.ErrParticipantNotFound)

	_, err := NewGetParticipantUseCase(mockRepo).Execute(GetParticipantQuery{ParticipantID: "missing"})

	assert.ErrorIs(t, err, participant.ErrParticipantNotFound)
}

// Test 9: ID 為空
func TestGetParticipantUseCase_Execute_InvalidID(t *testing.T) {
	mockRepo := new(MockParticipantRepository)

	_, err := NewGetParticipantUseCase(mockRepo).Execute(GetParticipantQuery{ParticipantID: ""})

	assert.ErrorIs(t, err, participant.ErrInvalidParticipantID)
	mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}
