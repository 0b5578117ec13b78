package contributor

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campuslink/internal/model/contributor"
)

// ApplicationRepo Contributor申请仓库
type ApplicationRepo struct {
	collection *mongo.Collection
}

// NewApplicationRepo 创建申请仓库
func NewApplicationRepo(db *mongo.Database) *ApplicationRepo {
	return &ApplicationRepo{
		collection: db.Collection("contributor_applications"),
	}
}

// Create 创建申请
// user_id 唯一索引保证一个用户只能有一份在档申请
func (r *ApplicationRepo) Create(ctx context.Context, app *contributor.ContributorApplication) error {
	now := time.Now()
	app.CreatedAt = now
	app.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, app)
	return err
}

// FindByID 根据ID查询申请
func (r *ApplicationRepo) FindByID(ctx context.Context, id string) (*contributor.ContributorApplication, error) {
	var app contributor.ContributorApplication
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&app)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// FindByUserID 根据申请人ID查询申请
func (r *ApplicationRepo) FindByUserID(ctx context.Context, userID string) (*contributor.ContributorApplication, error) {
	var app contributor.ContributorApplication
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&app)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// List 查询申请列表（支持分页和筛选）
func (r *ApplicationRepo) List(ctx context.Context, filter bson.M, page, pageSize int64) ([]*contributor.ContributorApplication, int64, error) {
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

	var apps []*contributor.ContributorApplication
	if err := cursor.All(ctx, &apps); err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

// MarkApproved 将 pending 申请置为 approved（条件更新）
// 过滤条件带 status=pending：申请已被并发审核时 matched=false，
// 状态只能从 pending 单向进入终态，永不回退
func (r *ApplicationRepo) MarkApproved(ctx context.Context, id, reviewedBy, comments string) (bool, error) {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"status":         contributor.ApplicationApproved,
			"reviewed_by":    reviewedBy,
			"reviewed_at":    now,
			"admin_comments": comments,
			"updated_at":     now,
		},
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": contributor.ApplicationPending}, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// MarkRejected 将 pending 申请置为 rejected（条件更新）
func (r *ApplicationRepo) MarkRejected(ctx context.Context, id, reviewedBy, reason, comments string) (bool, error) {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"status":           contributor.ApplicationRejected,
			"reviewed_by":      reviewedBy,
			"reviewed_at":      now,
			"rejection_reason": reason,
			"admin_comments":   comments,
			"updated_at":       now,
		},
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": contributor.ApplicationPending}, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// Delete 删除申请（无条件，不影响关联用户的角色）
func (r *ApplicationRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteByUserID 删除用户的申请（级联清理，记录不存在时为no-op）
func (r *ApplicationRepo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}

// CountPendingByCollege 统计某学院待审核申请数量
func (r *ApplicationRepo) CountPendingByCollege(ctx context.Context, collegeName string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"status":       contributor.ApplicationPending,
		"college_name": collegeName,
	})
}

// IsNotFound 判断是否为未找到错误
func IsNotFound(err error) bool {
	return err == mongo.ErrNoDocuments
}
