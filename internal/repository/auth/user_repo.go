package auth

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campuslink/internal/model/auth"
)

// UserRepo 用户仓库
// 使用UUID作为ID，无需ObjectID转换
type UserRepo struct {
	collection *mongo.Collection
}

// NewUserRepo 创建用户仓库
func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{
		collection: db.Collection("users"),
	}
}

// Create 创建用户
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, user)
	return err
}

// FindByID 根据ID查询用户
func (r *UserRepo) FindByID(ctx context.Context, id string) (*auth.User, error) {
	var user auth.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail 根据邮箱查询用户
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	var user auth.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByPhone 根据手机号查询用户
func (r *UserRepo) FindByPhone(ctx context.Context, phone string) (*auth.User, error) {
	var user auth.User
	err := r.collection.FindOne(ctx, bson.M{"phone": phone}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindVerifiedContributorByCollege 查询某学院当前已验证的Contributor
// excludeUserID 非空时排除该用户（审批时排除申请人自己）
// 未找到时返回 mongo.ErrNoDocuments
func (r *UserRepo) FindVerifiedContributorByCollege(ctx context.Context, collegeName, excludeUserID string) (*auth.User, error) {
	filter := bson.M{
		"college_name":   collegeName,
		"role":           auth.RoleContributor,
		"account_status": auth.StatusVerified,
	}
	if excludeUserID != "" {
		filter["_id"] = bson.M{"$ne": excludeUserID}
	}

	var user auth.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update 更新用户
func (r *UserRepo) Update(ctx context.Context, id string, update bson.M) error {
	// 自动更新updated_at
	if setDoc, ok := update["$set"].(bson.M); ok {
		setDoc["updated_at"] = time.Now()
	} else {
		update["$set"] = bson.M{"updated_at": time.Now()}
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// SaveRoleAndStatus 持久化状态机在内存中应用的 role/account_status 变更
// users 集合上的部分唯一索引在这里生效：并发审批同一学院时，
// 第二个写入者会收到重复键错误，调用方用 IsDuplicateKey 判断
func (r *UserRepo) SaveRoleAndStatus(ctx context.Context, user *auth.User) error {
	update := bson.M{
		"$set": bson.M{
			"role":           user.Role,
			"account_status": user.AccountStatus,
			"email_verified": user.EmailVerified,
			"is_active":      user.IsActive,
			"updated_at":     time.Now(),
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	return err
}

// SaveRoleAndStatusIf 仅当用户当前角色为 expectedRole 时持久化变更（条件更新）
// matched=false 表示角色已被并发修改，本次写入未生效
func (r *UserRepo) SaveRoleAndStatusIf(ctx context.Context, user *auth.User, expectedRole auth.UserRole) (bool, error) {
	update := bson.M{
		"$set": bson.M{
			"role":           user.Role,
			"account_status": user.AccountStatus,
			"email_verified": user.EmailVerified,
			"is_active":      user.IsActive,
			"updated_at":     time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": user.ID, "role": expectedRole}, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// UpdateLastLoginAt 更新最后登录时间
func (r *UserRepo) UpdateLastLoginAt(ctx context.Context, id string) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"last_login_at": now,
			"updated_at":    now,
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// Delete 删除用户（硬删除，仅供管理员级联删除使用）
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// List 查询用户列表（支持分页和筛选）
func (r *UserRepo) List(ctx context.Context, filter bson.M, page, pageSize int64) ([]*auth.User, int64, error) {
	// 计算总数
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	// 分页选项
	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "created_at", Value: -1}}).
		SetLimit(pageSize).
		SetSkip((page - 1) * pageSize)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var users []*auth.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Count 统计用户数量
func (r *UserRepo) Count(ctx context.Context, filter bson.M) (int64, error) {
	return r.collection.CountDocuments(ctx, filter)
}

// IsNotFound 判断是否为未找到错误
func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// IsDuplicateKey 判断是否为唯一索引冲突
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
