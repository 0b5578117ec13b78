package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"

	"campuslink/internal/model/auth"
	"campuslink/internal/model/event"
	"campuslink/internal/pkg/id"
	"campuslink/internal/pkg/rolestate"
	eventRepo "campuslink/internal/repository/event"
)

var (
	ErrEventNotFound     = errors.New("活动不存在")
	ErrNotEventOwner     = errors.New("只能删除自己组织的活动")
	ErrEventFull         = errors.New("活动报名已满")
	ErrAlreadyRegistered = errors.New("已报名该活动")
	ErrEventStarted      = errors.New("活动已开始，不能报名")
	ErrTitleRequired     = errors.New("活动标题不能为空")
	ErrInvalidStartTime  = errors.New("活动开始时间必须晚于当前时间")
)

// EventService 活动服务
type EventService struct {
	eventRepo *eventRepo.EventRepo
}

// NewEventService 创建活动服务
func NewEventService(events *eventRepo.EventRepo) *EventService {
	return &EventService{eventRepo: events}
}

// CreateEventParams 创建活动参数
type CreateEventParams struct {
	Title       string
	Description string
	Venue       string
	StartsAt    time.Time
	Capacity    int
}

// CreateEvent 创建活动
// 创建权限与发帖一致：仅已验证的Contributor和管理员
func (s *EventService) CreateEvent(ctx context.Context, organizer *auth.User, params *CreateEventParams) (*event.Event, error) {
	if !rolestate.CanPublish(organizer) {
		return nil, ErrNotPublisher
	}

	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if !params.StartsAt.After(time.Now()) {
		return nil, ErrInvalidStartTime
	}
	if params.Capacity < 0 {
		return nil, errors.New("报名上限不能为负数")
	}

	e := &event.Event{
		ID:                id.New(),
		OrganizerID:       organizer.ID,
		CollegeName:       organizer.CollegeName,
		Title:             title,
		Description:       params.Description,
		Venue:             params.Venue,
		StartsAt:          params.StartsAt,
		Capacity:          params.Capacity,
		RegisteredUserIDs: []string{},
	}

	if err := s.eventRepo.Create(ctx, e); err != nil {
		log.Error().Err(err).Str("organizer_id", organizer.ID).Msg("failed to create event")
		return nil, errors.New("创建活动失败")
	}

	return e, nil
}

// GetEvent 查询单个活动
func (s *EventService) GetEvent(ctx context.Context, eventID string) (*event.Event, error) {
	e, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if eventRepo.IsNotFound(err) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

// ListEvents 查询活动列表，支持按学院筛选，按开始时间升序
func (s *EventService) ListEvents(ctx context.Context, collegeName string, upcomingOnly bool, page, pageSize int64) ([]*event.Event, int64, error) {
	filter := bson.M{}
	if collegeName != "" {
		filter["college_name"] = collegeName
	}
	if upcomingOnly {
		filter["starts_at"] = bson.M{"$gt": time.Now()}
	}
	return s.eventRepo.List(ctx, filter, page, pageSize)
}

// RegisterForEvent 报名活动
// 容量检查和重复报名检查在一次条件更新中原子完成，
// 更新未命中时回读活动区分具体原因
func (s *EventService) RegisterForEvent(ctx context.Context, eventID string, user *auth.User) error {
	e, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if !e.StartsAt.After(time.Now()) {
		return ErrEventStarted
	}

	matched, err := s.eventRepo.AddRegistration(ctx, eventID, user.ID)
	if err != nil {
		log.Error().Err(err).Str("event_id", eventID).Msg("failed to register for event")
		return errors.New("报名失败")
	}
	if matched {
		return nil
	}

	// 未命中：回读区分 不存在/已报名/已满
	current, ferr := s.eventRepo.FindByID(ctx, eventID)
	if ferr != nil {
		return ErrEventNotFound
	}
	for _, uid := range current.RegisteredUserIDs {
		if uid == user.ID {
			return ErrAlreadyRegistered
		}
	}
	if current.IsFull() {
		return ErrEventFull
	}
	return errors.New("报名失败")
}

// CancelRegistration 取消报名（未报名时为no-op）
func (s *EventService) CancelRegistration(ctx context.Context, eventID string, user *auth.User) error {
	if _, err := s.GetEvent(ctx, eventID); err != nil {
		return err
	}
	if err := s.eventRepo.RemoveRegistration(ctx, eventID, user.ID); err != nil {
		log.Error().Err(err).Str("event_id", eventID).Msg("failed to cancel registration")
		return errors.New("取消报名失败")
	}
	return nil
}

// DeleteEvent 删除活动
// 组织者本人或管理员可删除
func (s *EventService) DeleteEvent(ctx context.Context, eventID string, acting *auth.User) error {
	e, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}

	if e.OrganizerID != acting.ID && !rolestate.CanModerate(acting) {
		return ErrNotEventOwner
	}

	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		log.Error().Err(err).Str("event_id", eventID).Msg("failed to delete event")
		return errors.New("删除活动失败")
	}

	return nil
}
