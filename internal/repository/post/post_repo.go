package post

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campuslink/internal/model/post"
)

// PostRepo 动态仓库
type PostRepo struct {
	collection *mongo.Collection
}

// NewPostRepo 创建动态仓库
func NewPostRepo(db *mongo.Database) *PostRepo {
	return &PostRepo{
		collection: db.Collection("posts"),
	}
}

// Create 创建动态
func (r *PostRepo) Create(ctx context.Context, p *post.Post) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, p)
	return err
}

// FindByID 根据ID查询动态
func (r *PostRepo) FindByID(ctx context.Context, id string) (*post.Post, error) {
	var p post.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List 查询动态列表（信息流，按创建时间倒序）
func (r *PostRepo) List(ctx context.Context, filter bson.M, page, pageSize int64) ([]*post.Post, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "created_at", Value: -1}}).
		SetLimit(pageSize).
		SetSkip((page - 1) * pageSize)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var posts []*post.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// Delete 删除动态
func (r *PostRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteByAuthorID 删除作者的所有动态（级联清理，记录不存在时为no-op）
func (r *PostRepo) DeleteByAuthorID(ctx context.Context, authorID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"author_id": authorID})
	return err
}

// IsNotFound 判断是否为未找到错误
func IsNotFound(err error) bool {
	return err == mongo.ErrNoDocuments
}
