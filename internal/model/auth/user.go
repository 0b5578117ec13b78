package auth

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// User 用户实体
// ID使用UUID格式（string），避免ObjectID转换的麻烦
type User struct {
	ID            string        `bson:"_id,omitempty" json:"id"`                            // UUID格式的ID
	FullName      string        `bson:"full_name" json:"full_name"`                         // 姓名
	Email         string        `bson:"email" json:"email"`                                 // 学院邮箱（唯一）
	Phone         string        `bson:"phone" json:"phone"`                                 // 手机号（唯一）
	StudentID     *string       `bson:"student_id,omitempty" json:"student_id,omitempty"`   // 学号（唯一，非学生可为空）
	Password      string        `bson:"password" json:"-"`                                  // 密码（加密存储，不返回）
	Role          UserRole      `bson:"role" json:"role"`                                   // 角色
	AccountStatus AccountStatus `bson:"account_status" json:"account_status"`               // 账号状态
	CollegeName   string        `bson:"college_name" json:"college_name"`                   // 学院名称
	Branch        string        `bson:"branch,omitempty" json:"branch,omitempty"`           // 专业
	YearOfStudy   int           `bson:"year_of_study,omitempty" json:"year_of_study,omitempty"` // 年级
	EmailVerified bool          `bson:"email_verified" json:"email_verified"`               // 邮箱是否已验证
	IsActive      bool          `bson:"is_active" json:"is_active"`                         // 是否激活（软删除/停用标记）
	LastLoginAt   *time.Time    `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
	CreatedAt     time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `bson:"updated_at" json:"updated_at"`
}

// UserRole 用户角色
type UserRole string

const (
	RoleStudent     UserRole = "student"     // 学生
	RoleContributor UserRole = "contributor" // 学院内容创作者（每个学院最多一个）
	RoleAdmin       UserRole = "admin"       // 平台管理员（全平台唯一，仅通过初始化脚本创建）
)

// IsValid 检查角色是否有效
func (r UserRole) IsValid() bool {
	return r == RoleStudent || r == RoleContributor || r == RoleAdmin
}

// String 返回角色字符串
func (r UserRole) String() string {
	return string(r)
}

// AccountStatus 账号状态
type AccountStatus string

const (
	StatusPendingEmailVerification AccountStatus = "pending_email_verification" // 待邮箱验证（注册初始状态）
	StatusPendingAdminApproval     AccountStatus = "pending_admin_approval"     // 待管理员审核
	StatusVerified                 AccountStatus = "verified"                   // 已验证
	StatusRejected                 AccountStatus = "rejected"                   // 已拒绝（保留状态，当前流程不会产生）
	StatusSuspended                AccountStatus = "suspended"                  // 已停用
)

// IsValid 检查状态是否有效
func (s AccountStatus) IsValid() bool {
	switch s {
	case StatusPendingEmailVerification, StatusPendingAdminApproval,
		StatusVerified, StatusRejected, StatusSuspended:
		return true
	}
	return false
}

// String 返回状态字符串
func (s AccountStatus) String() string {
	return string(s)
}

// Collection 返回集合名称
func (u *User) Collection() string {
	return "users"
}

// EnsureIndexes 创建和维护索引
// idx_college_contributor 是部分唯一索引：只对 role=contributor 且 account_status=verified
// 的文档生效，保证每个学院最多一个已验证的Contributor。并发审批同一学院的两份申请时，
// 第二个用户写入会触发重复键错误，由工作流捕获并报告名额冲突。
func (u *User) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(u.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_email").SetUnique(true),
		},
		{
			Keys:    bson.D{bson.E{Key: "phone", Value: 1}},
			Options: options.Index().SetName("idx_phone").SetUnique(true),
		},
		{
			Keys: bson.D{bson.E{Key: "student_id", Value: 1}},
			Options: options.Index().SetName("idx_student_id").
				SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{bson.E{Key: "role", Value: 1}, bson.E{Key: "account_status", Value: 1}},
			Options: options.Index().SetName("idx_role_status"),
		},
		{
			Keys: bson.D{bson.E{Key: "college_name", Value: 1}},
			Options: options.Index().SetName("idx_college_contributor").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"role":           string(RoleContributor),
					"account_status": string(StatusVerified),
				}),
		},
		{
			Keys:    bson.D{bson.E{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_created_at"),
		},
	}

	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
