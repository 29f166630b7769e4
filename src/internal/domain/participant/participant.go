package participant

import (
	"strings"
	"time"

	"github.com/jackyeh168/green_events/src/internal/domain/points"
	"github.com/jackyeh168/green_events/src/internal/domain/shared"
)

// ===========================
// Participant Aggregate Root
// ===========================

// Participant 參加者聚合根
//
// 不變條件：
// 1. 顯示名稱不能為空
// 2. rewardPoints >= 0，且只增不減（AwardPoints 是唯一的變更入口）
// 3. email、phone 皆為選填
type Participant struct {
	participantID ParticipantID
	displayName   string
	email         Email
	phone         PhoneNumber

	// 所有活動累積獲得的獎勵積分
	rewardPoints points.PointsAmount

	createdAt time.Time
	updatedAt time.Time
	version   int

	events []shared.DomainEvent
}

// NewParticipant 建立新參加者
func NewParticipant(displayName string, email Email, phone PhoneNumber) (*Participant, error) {
	name := strings.TrimSpace(displayName)
	if name == "" {
		return nil, ErrInvalidDisplayName
	}

	now := time.Now()
	p := &Participant{
		participantID: NewParticipantID(),
		displayName:   name,
		email:         email,
		phone:         phone,
		rewardPoints:  points.Zero(),
		createdAt:     now,
		updatedAt:     now,
		version:       1,
		events:        make([]shared.DomainEvent, 0),
	}

	p.addEvent(NewParticipantRegisteredEvent(p.participantID, name))
	return p, nil
}

// ReconstructParticipant 從資料庫重建參加者（不發布事件）
func ReconstructParticipant(
	participantID ParticipantID,
	displayName string,
	email Email,
	phone PhoneNumber,
	rewardPoints int,
	createdAt time.Time,
	updatedAt time.Time,
	version int,
) (*Participant, error) {
	if participantID.IsEmpty() {
		return nil, ErrInvalidParticipantID.WithContext("reason", "participantID cannot be empty")
	}
	if strings.TrimSpace(displayName) == "" {
		return nil, ErrInvalidDisplayName
	}

	total, err := points.NewPointsAmount(rewardPoints)
	if err != nil {
		return nil, ErrParticipantInvariantViolation.WithContext(
			"participant_id", participantID.String(),
			"reward_points", rewardPoints,
		)
	}

	return &Participant{
		participantID: participantID,
		displayName:   displayName,
		email:         email,
		phone:         phone,
		rewardPoints:  total,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		version:       version,
		events:        make([]shared.DomainEvent, 0),
	}, nil
}

// ===========================
// 命令方法
// ===========================

// AwardPoints 將活動獎勵加入累積總數
//
// 零積分同樣記錄事件（操作員可以選擇不給分）
func (p *Participant) AwardPoints(amount points.PointsAmount, eventID string) {
	previous := p.rewardPoints
	p.rewardPoints = p.rewardPoints.Add(amount)
	p.updatedAt = time.Now()
	p.version++

	p.addEvent(NewPointsAwardedEvent(p.participantID, eventID, amount, p.rewardPoints))
	p.assertInvariants(previous)
}

// assertInvariants 累積積分不得減少
func (p *Participant) assertInvariants(previous points.PointsAmount) {
	if p.rewardPoints.LessThan(previous) {
		panic(ErrParticipantInvariantViolation.WithContext(
			"participant_id", p.participantID.String(),
			"previous", previous.Value(),
			"current", p.rewardPoints.Value(),
		))
	}
}

// ===========================
// Getters
// ===========================

func (p *Participant) ParticipantID() ParticipantID {
	return p.participantID
}

func (p *Participant) DisplayName() string {
	return p.displayName
}

func (p *Participant) Email() Email {
	return p.email
}

func (p *Participant) Phone() PhoneNumber {
	return p.phone
}

// RewardPoints 累積獎勵積分
func (p *Participant) RewardPoints() points.PointsAmount {
	return p.rewardPoints
}

func (p *Participant) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Participant) UpdatedAt() time.Time {
	return p.updatedAt
}

// Version 樂觀鎖版本號
func (p *Participant) Version() int {
	return p.version
}

// ===========================
// 事件管理
// ===========================

func (p *Participant) addEvent(event shared.DomainEvent) {
	p.events = append(p.events, event)
}

// PullEvents 取出待發布事件並清空
func (p *Participant) PullEvents() []shared.DomainEvent {
	events := p.events
	p.events = make([]shared.DomainEvent, 0)
	return events
}
