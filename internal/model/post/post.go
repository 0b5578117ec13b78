package post

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Post 动态实体
// 只有Contributor和管理员可以发布；author_name/college_name 是发布时的冗余快照，
// 避免信息流每条记录都回查users集合。
type Post struct {
	ID          string    `bson:"_id,omitempty" json:"id"`                      // UUID格式的ID
	AuthorID    string    `bson:"author_id" json:"author_id"`                   // 作者ID
	AuthorName  string    `bson:"author_name" json:"author_name"`               // 作者姓名（快照）
	CollegeName string    `bson:"college_name" json:"college_name"`             // 所属学院
	Content     string    `bson:"content" json:"content"`                       // 正文
	ImageURL    string    `bson:"image_url,omitempty" json:"image_url,omitempty"` // 配图URL（可选）
	IsGlobal    bool      `bson:"is_global" json:"is_global"`                   // 是否展示在全局信息流
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// Collection 返回集合名称
func (p *Post) Collection() string {
	return "posts"
}

// EnsureIndexes 创建和维护索引
func (p *Post) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(p.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "college_name", Value: 1}, bson.E{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_college_created"),
		},
		{
			Keys:    bson.D{bson.E{Key: "author_id", Value: 1}},
			Options: options.Index().SetName("idx_author"),
		},
		{
			Keys:    bson.D{bson.E{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_created_at"),
		},
	}

	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
