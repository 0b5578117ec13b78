package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"campuslink/internal/config"
	"campuslink/internal/model/auth"
	"campuslink/internal/pkg/id"
	"campuslink/internal/pkg/logger"
	"campuslink/internal/pkg/mongodb"
	"campuslink/internal/pkg/password"
	authrepo "campuslink/internal/repository/auth"
)

// 平台有且只有一个管理员账号，只能由这个脚本创建。
// 运行时平台的任何接口都不能产生第二个管理员。
func main() {
	// 1. 加载配置（与 cmd/root.go 保持一致的搜索路径）
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.campuslink")

	viper.SetEnvPrefix("CAMPUSLINK")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
		os.Exit(1)
	}

	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to unmarshal config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	// 2. 连接 MongoDB
	client, err := mongodb.New(&cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect mongo")
	}
	defer func() {
		_ = client.Close(context.Background())
	}()

	db := client.Database()
	ctx := context.Background()

	// 3. 初始化 UserRepo
	userRepo := authrepo.NewUserRepo(db)

	// 4. 读取环境变量或使用默认值
	email := os.Getenv("INIT_ADMIN_EMAIL")
	if email == "" {
		email = "admin@campuslink.local"
	}
	passwordPlain := os.Getenv("INIT_ADMIN_PASSWORD")
	if passwordPlain == "" {
		passwordPlain = "admin123"
	}
	fullName := os.Getenv("INIT_ADMIN_NAME")
	if fullName == "" {
		fullName = "平台管理员"
	}

	// 5. 已存在其他管理员时拒绝创建第二个
	existing, _, err := userRepo.List(ctx, bson.M{"role": auth.RoleAdmin}, 1, 2)
	if err == nil {
		for _, admin := range existing {
			if admin.Email != email {
				log.Fatal().
					Str("existing_admin", admin.Email).
					Msg("platform already has an admin, refusing to create a second one")
			}
		}
	}

	// 6. 检查目标账号是否已存在
	user, ferr := userRepo.FindByEmail(ctx, email)
	if ferr != nil {
		if errors.Is(ferr, mongo.ErrNoDocuments) {
			log.Info().Str("email", email).Msg("admin user not found, will create")
			if err := createAdmin(ctx, userRepo, fullName, email, passwordPlain); err != nil {
				log.Fatal().Err(err).Msg("create admin user failed")
			}
		} else {
			log.Fatal().Err(ferr).Msg("failed to query user")
		}
	} else {
		// 已存在，确保其为 admin + verified（幂等）
		log.Info().Str("email", email).Msg("admin user exists, will update role/status")
		update := bson.M{
			"$set": bson.M{
				"role":           auth.RoleAdmin,
				"account_status": auth.StatusVerified,
				"email_verified": true,
				"is_active":      true,
			},
		}
		if err := userRepo.Update(ctx, user.ID, update); err != nil {
			log.Fatal().Err(err).Msg("update admin user failed")
		}
	}

	fmt.Printf("Admin initialized: email=%s role=admin account_status=verified\n", email)
}

func createAdmin(ctx context.Context, repo *authrepo.UserRepo, fullName, email, pwd string) error {
	hashed, err := password.Hash(pwd)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &auth.User{
		ID:            id.New(),
		FullName:      fullName,
		Email:         email,
		Phone:         "00000000000",
		Password:      hashed,
		Role:          auth.RoleAdmin,
		AccountStatus: auth.StatusVerified,
		CollegeName:   "平台",
		EmailVerified: true,
		IsActive:      true,
	}

	return repo.Create(ctx, user)
}
