package event

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event 活动实体
// 只有Contributor和管理员可以创建；报名人数受 capacity 限制（0表示不限制）
type Event struct {
	ID                string    `bson:"_id,omitempty" json:"id"`          // UUID格式的ID
	OrganizerID       string    `bson:"organizer_id" json:"organizer_id"` // 组织者ID
	CollegeName       string    `bson:"college_name" json:"college_name"` // 所属学院
	Title             string    `bson:"title" json:"title"`               // 标题
	Description       string    `bson:"description" json:"description"`   // 描述
	Venue             string    `bson:"venue,omitempty" json:"venue,omitempty"` // 地点
	StartsAt          time.Time `bson:"starts_at" json:"starts_at"`       // 开始时间
	Capacity          int       `bson:"capacity" json:"capacity"`         // 报名上限（0表示不限）
	RegisteredUserIDs []string  `bson:"registered_user_ids" json:"registered_user_ids"` // 已报名用户ID列表
	CreatedAt         time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time `bson:"updated_at" json:"updated_at"`
}

// RegisteredCount 已报名人数
func (e *Event) RegisteredCount() int {
	return len(e.RegisteredUserIDs)
}

// IsFull 报名是否已满
func (e *Event) IsFull() bool {
	return e.Capacity > 0 && len(e.RegisteredUserIDs) >= e.Capacity
}

// Collection 返回集合名称
func (e *Event) Collection() string {
	return "events"
}

// EnsureIndexes 创建和维护索引
func (e *Event) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(e.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "college_name", Value: 1}, bson.E{Key: "starts_at", Value: 1}},
			Options: options.Index().SetName("idx_college_starts"),
		},
		{
			Keys:    bson.D{bson.E{Key: "organizer_id", Value: 1}},
			Options: options.Index().SetName("idx_organizer"),
		},
		{
			Keys:    bson.D{bson.E{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_created_at"),
		},
	}

	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
