// Package tests 集成测试
//
// 运行集成测试：
//
//	MONGO_URI=mongodb://localhost:27017 go test ./tests -v
//
// 说明：
//   - MONGO_URI: MongoDB 连接地址（默认: mongodb://localhost:27017）
//   - KEEP_TEST_DATA: 设置为 "true" 时，测试完成后保留数据库数据（默认会自动清理）
//   - 测试使用本地文件系统存储（临时目录）
//   - 申请审核的并发语义依赖 users 集合的部分唯一索引，TestMain 会先建好索引
package tests

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campuslink/internal/config"
	"campuslink/internal/model/auth"
	"campuslink/internal/pkg/id"
	"campuslink/internal/pkg/mongodb"
	"campuslink/internal/pkg/password"
	"campuslink/internal/pkg/storage"
	"campuslink/internal/pkg/storagefactory"
	authRepo "campuslink/internal/repository/auth"
	contributorRepo "campuslink/internal/repository/contributor"
	eventRepo "campuslink/internal/repository/event"
	postRepo "campuslink/internal/repository/post"
	"campuslink/internal/service"
)

// 包级别的测试环境变量（在 TestMain 中初始化）
var (
	testCtx         context.Context
	testDB          *mongo.Database
	testStorage     storage.Storage
	testStorageDir  string
	testServices    *TestServices
	testMongoClient *mongo.Client
)

// TestServices 测试用的服务和仓库集合
type TestServices struct {
	UserRepo         *authRepo.UserRepo
	RefreshTokenRepo *authRepo.RefreshTokenRepo
	AppRepo          *contributorRepo.ApplicationRepo
	PostRepo         *postRepo.PostRepo
	EventRepo        *eventRepo.EventRepo

	ContributorService service.ContributorService
	AdminService       *service.AdminService
	PostService        *service.PostService
	EventService       *service.EventService
}

// TestMain 测试主函数，在所有测试运行前初始化和运行后清理
func TestMain(m *testing.M) {
	testCtx = context.Background()

	// 1. 初始化 MongoDB 连接（使用测试数据库）
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	var err error
	testMongoClient, err = mongo.Connect(testCtx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
	}

	testDB = testMongoClient.Database("campuslink_test")

	// 清理上一轮的残留数据，再重建索引
	dropTestCollections()
	if err := mongodb.EnsureIndexes(testDB); err != nil {
		panic(fmt.Sprintf("Failed to ensure indexes: %v", err))
	}

	// 2. 初始化存储（本地文件系统）
	testStorageDir = filepath.Join(os.TempDir(), fmt.Sprintf("campuslink_test_%d", time.Now().UnixNano()))
	storageCfg := &config.StorageConfig{
		Type: "local",
		Local: &config.LocalConfig{
			BasePath: testStorageDir,
			BaseURL:  "http://localhost:7080/storage",
		},
	}

	testStorage, err = storagefactory.NewStorage(storageCfg)
	if err != nil {
		panic(fmt.Sprintf("Failed to create storage: %v", err))
	}

	// 3. 初始化服务（邮件服务传nil，通知是尽力而为的）
	userRepo := authRepo.NewUserRepo(testDB)
	refreshTokenRepo := authRepo.NewRefreshTokenRepo(testDB)
	appRepo := contributorRepo.NewApplicationRepo(testDB)
	posts := postRepo.NewPostRepo(testDB)
	events := eventRepo.NewEventRepo(testDB)

	testServices = &TestServices{
		UserRepo:         userRepo,
		RefreshTokenRepo: refreshTokenRepo,
		AppRepo:          appRepo,
		PostRepo:         posts,
		EventRepo:        events,

		ContributorService: service.NewContributorService(appRepo, userRepo, testStorage, nil),
		AdminService:       service.NewAdminService(userRepo, refreshTokenRepo, appRepo, posts, events),
		PostService:        service.NewPostService(posts, nil),
		EventService:       service.NewEventService(events),
	}

	// 运行所有测试
	code := m.Run()

	// 清理资源
	if os.Getenv("KEEP_TEST_DATA") != "true" {
		dropTestCollections()
		_ = os.RemoveAll(testStorageDir)
	} else {
		fmt.Fprintf(os.Stderr, "保留测试数据：数据库=%s, 存储目录=%s\n", testDB.Name(), testStorageDir)
	}
	_ = testMongoClient.Disconnect(testCtx)

	os.Exit(code)
}

// dropTestCollections 清理测试数据库集合
func dropTestCollections() {
	for _, name := range []string{"users", "refresh_tokens", "contributor_applications", "posts", "events"} {
		_ = testDB.Collection(name).Drop(testCtx)
	}
}

// newStudent 创建一个已验证的学生用户并落库
func newStudent(t *testing.T, collegeName string) *auth.User {
	t.Helper()

	hashed, err := password.Hash("password123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	uid := id.New()
	user := &auth.User{
		ID:            uid,
		FullName:      "测试学生" + uid[:8],
		Email:         uid[:8] + "@test.campuslink.local",
		Phone:         "1" + uid[:10],
		Password:      hashed,
		Role:          auth.RoleStudent,
		AccountStatus: auth.StatusVerified,
		CollegeName:   collegeName,
		Branch:        "计算机科学",
		YearOfStudy:   2,
		EmailVerified: true,
		IsActive:      true,
	}

	if err := testServices.UserRepo.Create(testCtx, user); err != nil {
		t.Fatalf("create student: %v", err)
	}
	return user
}

// newAdmin 创建管理员用户并落库
func newAdmin(t *testing.T) *auth.User {
	t.Helper()

	hashed, err := password.Hash("admin123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	uid := id.New()
	user := &auth.User{
		ID:            uid,
		FullName:      "测试管理员",
		Email:         "admin-" + uid[:8] + "@test.campuslink.local",
		Phone:         "2" + uid[:10],
		Password:      hashed,
		Role:          auth.RoleAdmin,
		AccountStatus: auth.StatusVerified,
		CollegeName:   "平台",
		EmailVerified: true,
		IsActive:      true,
	}

	if err := testServices.UserRepo.Create(testCtx, user); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	return user
}

// uniqueCollege 为单个测试生成独立的学院名，避免测试间互相占用名额
func uniqueCollege(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, id.New()[:8])
}

// contributorFilter 查询某学院已验证Contributor的过滤条件
func contributorFilter(collegeName string) bson.M {
	return bson.M{
		"college_name":   collegeName,
		"role":           auth.RoleContributor,
		"account_status": auth.StatusVerified,
	}
}
