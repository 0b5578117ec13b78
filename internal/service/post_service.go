package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"

	"campuslink/internal/model/auth"
	"campuslink/internal/model/post"
	"campuslink/internal/pkg/cache"
	"campuslink/internal/pkg/id"
	"campuslink/internal/pkg/rolestate"
	postRepo "campuslink/internal/repository/post"
)

var (
	ErrNotPublisher    = errors.New("仅已验证的Contributor或管理员可以发布")
	ErrNotPostOwner    = errors.New("只能删除自己发布的内容")
	ErrPostNotFound    = errors.New("帖子不存在")
	ErrContentRequired = errors.New("正文不能为空")
)

// MaxPostContentLength 帖子正文最大长度
const MaxPostContentLength = 5000

// PostService 动态服务
type PostService struct {
	postRepo *postRepo.PostRepo
	cache    *cache.RedisCache
}

// NewPostService 创建动态服务
func NewPostService(posts *postRepo.PostRepo, redisCache *cache.RedisCache) *PostService {
	return &PostService{
		postRepo: posts,
		cache:    redisCache,
	}
}

// CreatePostParams 创建帖子参数
type CreatePostParams struct {
	Content  string
	ImageURL string
	IsGlobal bool
}

// CreatePost 发布帖子
// 发布权限由状态机判定：仅已验证的Contributor和管理员
func (s *PostService) CreatePost(ctx context.Context, author *auth.User, params *CreatePostParams) (*post.Post, error) {
	if !rolestate.CanPublish(author) {
		return nil, ErrNotPublisher
	}

	content := strings.TrimSpace(params.Content)
	if content == "" {
		return nil, ErrContentRequired
	}
	if len(content) > MaxPostContentLength {
		return nil, errors.New("正文超出长度限制")
	}

	p := &post.Post{
		ID:          id.New(),
		AuthorID:    author.ID,
		AuthorName:  author.FullName,
		CollegeName: author.CollegeName,
		Content:     content,
		ImageURL:    params.ImageURL,
		IsGlobal:    params.IsGlobal,
	}

	if err := s.postRepo.Create(ctx, p); err != nil {
		log.Error().Err(err).Str("author_id", author.ID).Msg("failed to create post")
		return nil, errors.New("发布失败")
	}

	// 新帖使所属学院的信息流缓存失效
	s.invalidateFeed(ctx, author.CollegeName)

	return p, nil
}

// GetPost 查询单条帖子
func (s *PostService) GetPost(ctx context.Context, postID string) (*post.Post, error) {
	p, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if postRepo.IsNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return p, nil
}

// FeedResult 信息流结果
type FeedResult struct {
	Posts []*post.Post `json:"posts"`
	Total int64        `json:"total"`
}

// ListFeed 查询学院信息流
// collegeName 为空时返回全局信息流（is_global=true 的帖子）。
// 首页（page=1且无筛选）走Redis缓存，TTL 5分钟
func (s *PostService) ListFeed(ctx context.Context, collegeName string, page, pageSize int64) ([]*post.Post, int64, error) {
	useCache := page == 1 && s.cache != nil
	cacheKey := cache.FeedCacheKey(collegeName)

	if useCache {
		var cached FeedResult
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached.Posts, cached.Total, nil
		}
	}

	filter := bson.M{}
	if collegeName != "" {
		filter["college_name"] = collegeName
	} else {
		filter["is_global"] = true
	}

	posts, total, err := s.postRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	if useCache {
		if err := s.cache.Set(ctx, cacheKey, &FeedResult{Posts: posts, Total: total}, cache.FeedCacheTTL); err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache feed")
		}
	}

	return posts, total, nil
}

// DeletePost 删除帖子
// 作者本人或管理员可删除
func (s *PostService) DeletePost(ctx context.Context, postID string, acting *auth.User) error {
	p, err := s.GetPost(ctx, postID)
	if err != nil {
		return err
	}

	if p.AuthorID != acting.ID && !rolestate.CanModerate(acting) {
		return ErrNotPostOwner
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		log.Error().Err(err).Str("post_id", postID).Msg("failed to delete post")
		return errors.New("删除帖子失败")
	}

	s.invalidateFeed(ctx, p.CollegeName)

	return nil
}

// invalidateFeed 使学院信息流缓存和全局信息流缓存失效
func (s *PostService) invalidateFeed(ctx context.Context, collegeName string) {
	if s.cache == nil {
		return
	}
	keys := []string{cache.FeedCacheKey(""), cache.FeedCacheKey(collegeName)}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Str("college", collegeName).Msg("failed to invalidate feed cache")
	}
}
