package contributor

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MaxReasonLength 申请理由和经历的最大长度
const MaxReasonLength = 1000

// ContributorApplication Contributor申请实体
// 个人信息字段是提交时从User快照的冗余副本：申请是审核的历史凭证，
// 用户之后修改资料不影响已提交的申请内容。
type ContributorApplication struct {
	ID     string `bson:"_id,omitempty" json:"id"` // UUID格式的ID
	UserID string `bson:"user_id" json:"user_id"`  // 申请人ID（唯一，一个用户只能有一份申请）

	// 提交时的用户资料快照
	FullName    string  `bson:"full_name" json:"full_name"`
	Email       string  `bson:"email" json:"email"`
	CollegeName string  `bson:"college_name" json:"college_name"`
	StudentID   *string `bson:"student_id,omitempty" json:"student_id,omitempty"`
	Branch      string  `bson:"branch,omitempty" json:"branch,omitempty"`
	YearOfStudy int     `bson:"year_of_study,omitempty" json:"year_of_study,omitempty"`

	// 申请材料（两份必传的证明文件，存储为blob路径/URL）
	IDCardURL          string `bson:"id_card_url" json:"id_card_url"`                   // 学生证/身份证明
	EnrollmentProofURL string `bson:"enrollment_proof_url" json:"enrollment_proof_url"` // 在读证明

	ReasonForApplying string `bson:"reason_for_applying" json:"reason_for_applying"` // 申请理由（必填，≤1000字符）
	Experience        string `bson:"experience,omitempty" json:"experience,omitempty"` // 相关经历（可选，≤1000字符）

	Status ApplicationStatus `bson:"status" json:"status"` // 申请状态

	// 审核信息
	ReviewedBy      string     `bson:"reviewed_by,omitempty" json:"reviewed_by,omitempty"`           // 审核管理员ID
	ReviewedAt      *time.Time `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`           // 审核时间
	AdminComments   string     `bson:"admin_comments,omitempty" json:"admin_comments,omitempty"`     // 管理员备注
	RejectionReason string     `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"` // 拒绝原因（拒绝时必填）

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ApplicationStatus 申请状态
// pending → approved 或 pending → rejected，终态不可逆转、不可重开
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"  // 待审核
	ApplicationApproved ApplicationStatus = "approved" // 已通过（终态）
	ApplicationRejected ApplicationStatus = "rejected" // 已拒绝（终态）
)

// IsValid 检查状态是否有效
func (s ApplicationStatus) IsValid() bool {
	return s == ApplicationPending || s == ApplicationApproved || s == ApplicationRejected
}

// IsTerminal 检查是否为终态
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationApproved || s == ApplicationRejected
}

// String 返回状态字符串
func (s ApplicationStatus) String() string {
	return string(s)
}

// Collection 返回集合名称
func (a *ContributorApplication) Collection() string {
	return "contributor_applications"
}

// EnsureIndexes 创建和维护索引
// user_id 唯一索引保证一个用户同一时刻最多一份申请记录
func (a *ContributorApplication) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(a.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_user_id").SetUnique(true),
		},
		{
			Keys:    bson.D{bson.E{Key: "status", Value: 1}, bson.E{Key: "college_name", Value: 1}},
			Options: options.Index().SetName("idx_status_college"),
		},
		{
			Keys:    bson.D{bson.E{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_created_at"),
		},
	}

	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
