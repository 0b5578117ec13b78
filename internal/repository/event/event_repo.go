package event

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campuslink/internal/model/event"
)

// EventRepo 活动仓库
type EventRepo struct {
	collection *mongo.Collection
}

// NewEventRepo 创建活动仓库
func NewEventRepo(db *mongo.Database) *EventRepo {
	return &EventRepo{
		collection: db.Collection("events"),
	}
}

// Create 创建活动
func (r *EventRepo) Create(ctx context.Context, e *event.Event) error {
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.RegisteredUserIDs == nil {
		e.RegisteredUserIDs = []string{}
	}

	_, err := r.collection.InsertOne(ctx, e)
	return err
}

// FindByID 根据ID查询活动
func (r *EventRepo) FindByID(ctx context.Context, id string) (*event.Event, error) {
	var e event.Event
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List 查询活动列表（按开始时间正序）
func (r *EventRepo) List(ctx context.Context, filter bson.M, page, pageSize int64) ([]*event.Event, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "starts_at", Value: 1}}).
		SetLimit(pageSize).
		SetSkip((page - 1) * pageSize)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var events []*event.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// AddRegistration 报名活动（条件更新，原子地检查容量和重复报名）
// 过滤条件排除已报名用户；capacity>0 时用 $expr 检查人数未满。
// matched=false 表示活动不存在、已报名或已满，由调用方区分
func (r *EventRepo) AddRegistration(ctx context.Context, eventID, userID string) (bool, error) {
	filter := bson.M{
		"_id":                 eventID,
		"registered_user_ids": bson.M{"$ne": userID},
		"$expr": bson.M{
			"$or": bson.A{
				bson.M{"$lte": bson.A{"$capacity", 0}},
				bson.M{"$lt": bson.A{bson.M{"$size": "$registered_user_ids"}, "$capacity"}},
			},
		},
	}
	update := bson.M{
		"$push": bson.M{"registered_user_ids": userID},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// RemoveRegistration 取消报名（未报名时为no-op）
func (r *EventRepo) RemoveRegistration(ctx context.Context, eventID, userID string) error {
	update := bson.M{
		"$pull": bson.M{"registered_user_ids": userID},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": eventID}, update)
	return err
}

// RemoveRegistrationsByUserID 清除用户在所有活动中的报名（级联清理）
func (r *EventRepo) RemoveRegistrationsByUserID(ctx context.Context, userID string) error {
	update := bson.M{
		"$pull": bson.M{"registered_user_ids": userID},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	_, err := r.collection.UpdateMany(ctx, bson.M{"registered_user_ids": userID}, update)
	return err
}

// Delete 删除活动
func (r *EventRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteByOrganizerID 删除组织者的所有活动（级联清理，记录不存在时为no-op）
func (r *EventRepo) DeleteByOrganizerID(ctx context.Context, organizerID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"organizer_id": organizerID})
	return err
}

// IsNotFound 判断是否为未找到错误
func IsNotFound(err error) bool {
	return err == mongo.ErrNoDocuments
}
