package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"campuslink/internal/model/auth"
	"campuslink/internal/model/contributor"
	"campuslink/internal/model/event"
	"campuslink/internal/model/post"
)

// EnsureIndexes 创建所有模型的索引
// 应用启动时调用。users 集合上的部分唯一索引（college_name, 仅 role=contributor 且
// account_status=verified 的文档）是"一个学院只有一个Contributor"约束的最终防线，
// 并发审批时第二个写入者会收到重复键错误。
func EnsureIndexes(db *mongo.Database) error {
	ctx := context.Background()

	models := []Model{
		&auth.User{},
		&auth.RefreshToken{},
		&contributor.ContributorApplication{},
		&post.Post{},
		&event.Event{},
	}

	return EnsureAllIndexes(ctx, db, models...)
}
