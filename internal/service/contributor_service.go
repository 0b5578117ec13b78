package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"

	"campuslink/internal/model/auth"
	"campuslink/internal/model/contributor"
	"campuslink/internal/pkg/id"
	"campuslink/internal/pkg/mailer"
	"campuslink/internal/pkg/rolestate"
	"campuslink/internal/pkg/storage"
	authRepo "campuslink/internal/repository/auth"
	contributorRepo "campuslink/internal/repository/contributor"
)

var (
	ErrNotEligible          = errors.New("仅学生账号可以申请成为Contributor")
	ErrDuplicateApplication = errors.New("已有在档申请，不能重复提交")
	ErrMissingDocuments     = errors.New("必须同时上传学生证明和在读证明")
	ErrReasonRequired       = errors.New("申请理由不能为空")
	ErrReasonTooLong        = errors.New("申请理由或经历超出长度限制")
	ErrCollegeSlotTaken     = errors.New("该学院已有Contributor")
	ErrApplicationNotFound  = errors.New("申请不存在")
	ErrConcurrentReview     = errors.New("申请正在被其他管理员审核")
	ErrRejectReasonRequired = errors.New("拒绝申请必须填写原因")
	ErrUploadFailed         = errors.New("申请材料上传失败")
)

// AlreadyReviewedError 申请已被审核过
// 携带当前终态，供调用方在冲突响应中返回实际状态
type AlreadyReviewedError struct {
	Status contributor.ApplicationStatus
}

func (e *AlreadyReviewedError) Error() string {
	return fmt.Sprintf("申请已被审核，当前状态为 %s", e.Status)
}

// ApplicationDocument 申请材料文件
type ApplicationDocument struct {
	Filename    string
	ContentType string
	Data        io.Reader
}

// SubmitApplicationParams 提交申请参数
type SubmitApplicationParams struct {
	ReasonForApplying string
	Experience        string
	IDCard            *ApplicationDocument
	EnrollmentProof   *ApplicationDocument
}

// ContributorService Contributor申请服务
// 管理申请的提交与审核，审批通过时联动用户角色提升
type ContributorService interface {
	SubmitApplication(ctx context.Context, user *auth.User, params *SubmitApplicationParams) (*contributor.ContributorApplication, error)
	GetMyApplication(ctx context.Context, userID string) (*contributor.ContributorApplication, error)
	ListApplications(ctx context.Context, status, collegeName string, page, pageSize int64) ([]*contributor.ContributorApplication, int64, error)
	GetApplication(ctx context.Context, id string) (*contributor.ContributorApplication, error)
	ApproveApplication(ctx context.Context, appID string, admin *auth.User, comments string) (*contributor.ContributorApplication, error)
	RejectApplication(ctx context.Context, appID string, admin *auth.User, reason, comments string) (*contributor.ContributorApplication, error)
	DeleteApplication(ctx context.Context, appID string) error
}

type contributorService struct {
	appRepo  *contributorRepo.ApplicationRepo
	userRepo *authRepo.UserRepo
	storage  storage.Storage
	mail     *mailer.Mailer
}

// NewContributorService 创建Contributor申请服务
func NewContributorService(
	appRepo *contributorRepo.ApplicationRepo,
	userRepo *authRepo.UserRepo,
	store storage.Storage,
	mail *mailer.Mailer,
) ContributorService {
	return &contributorService{
		appRepo:  appRepo,
		userRepo: userRepo,
		storage:  store,
		mail:     mail,
	}
}

// SubmitApplication 提交Contributor申请
// 校验顺序：资格 → 重复申请 → 字段 → 材料 → 学院名额，全部通过后先上传材料再落库
func (s *contributorService) SubmitApplication(ctx context.Context, user *auth.User, params *SubmitApplicationParams) (*contributor.ContributorApplication, error) {
	// 仅 student 角色可申请，contributor/admin 申请没有意义
	if !rolestate.EligibleForContributorApplication(user) {
		return nil, ErrNotEligible
	}

	// 一个用户同一时刻最多一份在档申请，重复提交返回已有申请
	if existing, err := s.appRepo.FindByUserID(ctx, user.ID); err == nil {
		return existing, ErrDuplicateApplication
	}

	reason := strings.TrimSpace(params.ReasonForApplying)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	if len(reason) > contributor.MaxReasonLength || len(params.Experience) > contributor.MaxReasonLength {
		return nil, ErrReasonTooLong
	}

	if params.IDCard == nil || params.EnrollmentProof == nil {
		return nil, ErrMissingDocuments
	}

	// 学院名额预检：已有Contributor的学院直接拒绝提交
	// 并发窗口由审批路径的唯一索引兜底，这里只是尽早反馈
	if _, err := s.userRepo.FindVerifiedContributorByCollege(ctx, user.CollegeName, ""); err == nil {
		return nil, ErrCollegeSlotTaken
	}

	appID := id.New()

	// 材料先上传后落库：上传失败时不产生半成品申请记录
	idCardURL, err := s.uploadDocument(ctx, appID, "id_card", params.IDCard)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to upload id card document")
		return nil, ErrUploadFailed
	}
	proofURL, err := s.uploadDocument(ctx, appID, "enrollment_proof", params.EnrollmentProof)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to upload enrollment proof document")
		return nil, ErrUploadFailed
	}

	app := &contributor.ContributorApplication{
		ID:                 appID,
		UserID:             user.ID,
		FullName:           user.FullName,
		Email:              user.Email,
		CollegeName:        user.CollegeName,
		StudentID:          user.StudentID,
		Branch:             user.Branch,
		YearOfStudy:        user.YearOfStudy,
		IDCardURL:          idCardURL,
		EnrollmentProofURL: proofURL,
		ReasonForApplying:  reason,
		Experience:         strings.TrimSpace(params.Experience),
		Status:             contributor.ApplicationPending,
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		if authRepo.IsDuplicateKey(err) {
			// 并发重复提交，user_id 唯一索引挡下第二份
			if existing, ferr := s.appRepo.FindByUserID(ctx, user.ID); ferr == nil {
				return existing, ErrDuplicateApplication
			}
			return nil, ErrDuplicateApplication
		}
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to create contributor application")
		return nil, errors.New("创建申请失败")
	}

	s.notifyApplicant(user.Email, mailer.ApplicationEmailData{
		FullName:    user.FullName,
		CollegeName: user.CollegeName,
		Status:      "submitted",
	})

	return app, nil
}

// uploadDocument 上传单份申请材料，返回存储URL
func (s *contributorService) uploadDocument(ctx context.Context, appID, kind string, doc *ApplicationDocument) (string, error) {
	ext := path.Ext(doc.Filename)
	key := fmt.Sprintf("applications/%s/%s%s", appID, kind, ext)
	return s.storage.Upload(ctx, key, doc.Data, doc.ContentType)
}

// GetMyApplication 查询当前用户的申请
func (s *contributorService) GetMyApplication(ctx context.Context, userID string) (*contributor.ContributorApplication, error) {
	app, err := s.appRepo.FindByUserID(ctx, userID)
	if err != nil {
		if contributorRepo.IsNotFound(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

// ListApplications 查询申请列表（管理员），支持按状态和学院筛选
func (s *contributorService) ListApplications(ctx context.Context, status, collegeName string, page, pageSize int64) ([]*contributor.ContributorApplication, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	if collegeName != "" {
		filter["college_name"] = collegeName
	}
	return s.appRepo.List(ctx, filter, page, pageSize)
}

// GetApplication 查询单份申请（管理员）
func (s *contributorService) GetApplication(ctx context.Context, appID string) (*contributor.ContributorApplication, error) {
	app, err := s.appRepo.FindByID(ctx, appID)
	if err != nil {
		if contributorRepo.IsNotFound(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

// ApproveApplication 审批通过申请
// 先写用户（学院部分唯一索引在此关闭并发窗口），再条件更新申请状态。
// 申请已被并发审核时回滚用户变更，返回携带实际状态的冲突错误。
func (s *contributorService) ApproveApplication(ctx context.Context, appID string, admin *auth.User, comments string) (*contributor.ContributorApplication, error) {
	app, err := s.appRepo.FindByID(ctx, appID)
	if err != nil {
		if contributorRepo.IsNotFound(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}

	if app.Status.IsTerminal() {
		return app, &AlreadyReviewedError{Status: app.Status}
	}

	applicant, err := s.userRepo.FindByID(ctx, app.UserID)
	if err != nil {
		if authRepo.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// 学院名额复检，排除申请人自己
	if _, err := s.userRepo.FindVerifiedContributorByCollege(ctx, applicant.CollegeName, applicant.ID); err == nil {
		return nil, ErrCollegeSlotTaken
	}

	// 保存快照用于失败回滚
	snapshot := *applicant

	if err := rolestate.PromoteToContributor(applicant); err != nil {
		return nil, err
	}

	// 条件写入：用户角色在两次读取之间被并发修改时不生效。
	// 学院的部分唯一索引在这次写入上兜底名额冲突
	promoted, err := s.userRepo.SaveRoleAndStatusIf(ctx, applicant, snapshot.Role)
	if err != nil {
		if authRepo.IsDuplicateKey(err) {
			// 两个审批同时通过了预检，唯一索引挡下第二个写入者
			return nil, ErrCollegeSlotTaken
		}
		log.Error().Err(err).Str("user_id", applicant.ID).Msg("failed to promote applicant")
		return nil, errors.New("更新用户角色失败")
	}
	if !promoted {
		// 另一个审核抢先修改了用户角色
		current, ferr := s.appRepo.FindByID(ctx, appID)
		if ferr == nil && current.Status.IsTerminal() {
			return current, &AlreadyReviewedError{Status: current.Status}
		}
		return nil, ErrConcurrentReview
	}

	matched, err := s.appRepo.MarkApproved(ctx, appID, admin.ID, comments)
	if err != nil {
		s.rollbackPromotion(ctx, &snapshot)
		log.Error().Err(err).Str("application_id", appID).Msg("failed to mark application approved")
		return nil, errors.New("更新申请状态失败")
	}
	if !matched {
		// 申请在两次读取之间被并发审核了，撤销刚才的角色提升
		s.rollbackPromotion(ctx, &snapshot)

		current, ferr := s.appRepo.FindByID(ctx, appID)
		if ferr != nil {
			return nil, &AlreadyReviewedError{Status: contributor.ApplicationRejected}
		}
		return current, &AlreadyReviewedError{Status: current.Status}
	}

	updated, err := s.appRepo.FindByID(ctx, appID)
	if err != nil {
		updated = app
		updated.Status = contributor.ApplicationApproved
	}

	s.notifyApplicant(app.Email, mailer.ApplicationEmailData{
		FullName:    app.FullName,
		CollegeName: app.CollegeName,
		Status:      "approved",
	})

	return updated, nil
}

// rollbackPromotion 恢复审批失败时已写入的用户角色变更
// 条件更新：只在用户仍是刚提升的Contributor时回滚。
// 回滚失败只能记录日志，留待人工或下一次审核修正
func (s *contributorService) rollbackPromotion(ctx context.Context, snapshot *auth.User) {
	restored := *snapshot
	if _, err := s.userRepo.SaveRoleAndStatusIf(ctx, &restored, auth.RoleContributor); err != nil {
		log.Error().Err(err).
			Str("user_id", snapshot.ID).
			Str("role", string(snapshot.Role)).
			Msg("failed to roll back role promotion, user and application may diverge")
	}
}

// RejectApplication 拒绝申请，必须填写拒绝原因
func (s *contributorService) RejectApplication(ctx context.Context, appID string, admin *auth.User, reason, comments string) (*contributor.ContributorApplication, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrRejectReasonRequired
	}

	app, err := s.appRepo.FindByID(ctx, appID)
	if err != nil {
		if contributorRepo.IsNotFound(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}

	if app.Status.IsTerminal() {
		return app, &AlreadyReviewedError{Status: app.Status}
	}

	matched, err := s.appRepo.MarkRejected(ctx, appID, admin.ID, reason, comments)
	if err != nil {
		log.Error().Err(err).Str("application_id", appID).Msg("failed to mark application rejected")
		return nil, errors.New("更新申请状态失败")
	}
	if !matched {
		current, ferr := s.appRepo.FindByID(ctx, appID)
		if ferr != nil {
			return nil, &AlreadyReviewedError{Status: contributor.ApplicationApproved}
		}
		return current, &AlreadyReviewedError{Status: current.Status}
	}

	updated, err := s.appRepo.FindByID(ctx, appID)
	if err != nil {
		updated = app
		updated.Status = contributor.ApplicationRejected
	}

	s.notifyApplicant(app.Email, mailer.ApplicationEmailData{
		FullName:    app.FullName,
		CollegeName: app.CollegeName,
		Status:      "rejected",
		Reason:      reason,
	})

	return updated, nil
}

// DeleteApplication 删除申请记录（管理员）
// 只删除申请本身，申请人的角色不受影响；删除后该用户可重新申请
func (s *contributorService) DeleteApplication(ctx context.Context, appID string) error {
	app, err := s.appRepo.FindByID(ctx, appID)
	if err != nil {
		if contributorRepo.IsNotFound(err) {
			return ErrApplicationNotFound
		}
		return err
	}

	if err := s.appRepo.Delete(ctx, appID); err != nil {
		log.Error().Err(err).Str("application_id", appID).Msg("failed to delete application")
		return errors.New("删除申请失败")
	}

	// 申请材料清理是尽力而为的，失败不影响记录删除
	s.cleanupDocuments(ctx, app)

	return nil
}

// cleanupDocuments 清理申请关联的存储文件
func (s *contributorService) cleanupDocuments(ctx context.Context, app *contributor.ContributorApplication) {
	for _, url := range []string{app.IDCardURL, app.EnrollmentProofURL} {
		key := storageKeyFromURL(url, app.ID)
		if key == "" {
			continue
		}
		if err := s.storage.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to delete application document")
		}
	}
}

// storageKeyFromURL 从存储URL还原对象key
// 上传时key固定为 applications/<appID>/...，在URL中按该前缀截取
func storageKeyFromURL(url, appID string) string {
	marker := "applications/" + appID + "/"
	idx := strings.Index(url, marker)
	if idx < 0 {
		return ""
	}
	key := url[idx:]
	// OSS URL可能带查询参数
	if q := strings.Index(key, "?"); q >= 0 {
		key = key[:q]
	}
	return key
}

// notifyApplicant 异步发送申请状态通知邮件
func (s *contributorService) notifyApplicant(to string, data mailer.ApplicationEmailData) {
	if s.mail == nil {
		return
	}
	data.SiteName = s.mail.SiteName()
	email := mailer.BuildApplicationEmail(to, data)
	go func() {
		if err := s.mail.Send(email); err != nil {
			log.Warn().Err(err).Str("email", to).Msg("failed to deliver application notification")
		}
	}()
}
