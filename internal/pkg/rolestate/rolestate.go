// Package rolestate 是 role/account_status 的唯一状态机权威。
// 所有角色和账号状态的变更（包括管理员操作和Contributor审批）都必须经过这里的
// 守卫函数，业务代码不允许直接比较 role == admin 或直接写这两个字段。
package rolestate

import (
	"errors"

	"campuslink/internal/model/auth"
)

var (
	// ErrForbiddenTransition 禁止的变更：目标是管理员账号、操作自己、或试图产生第二个管理员
	ErrForbiddenTransition = errors.New("禁止的角色/状态变更")

	// ErrInvalidTransition 非法的状态迁移（不在迁移表中）
	ErrInvalidTransition = errors.New("非法的账号状态迁移")
)

// legalStatusTransitions 账号状态迁移表
// rejected 是保留状态：枚举中声明，但当前没有任何路径会进入或离开它
var legalStatusTransitions = map[auth.AccountStatus][]auth.AccountStatus{
	auth.StatusPendingEmailVerification: {auth.StatusVerified, auth.StatusSuspended},
	auth.StatusPendingAdminApproval:     {auth.StatusVerified, auth.StatusRejected, auth.StatusSuspended},
	auth.StatusVerified:                 {auth.StatusSuspended},
	auth.StatusSuspended:                {auth.StatusVerified},
	auth.StatusRejected:                 {},
}

// canTransitionStatus 检查状态迁移是否合法（同状态视为幂等，合法）
func canTransitionStatus(from, to auth.AccountStatus) bool {
	if from == to {
		return true
	}
	for _, next := range legalStatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// SetVerified 将账号置为已验证（邮箱OTP验证成功或管理员verify操作）
// 幂等：重复调用不改变结果
func SetVerified(u *auth.User) {
	u.AccountStatus = auth.StatusVerified
	u.EmailVerified = true
	u.IsActive = true
}

// Suspend 停用账号
// 管理员账号不可停用，任何人不能停用自己
func Suspend(u *auth.User, acting *auth.User) error {
	if u.Role == auth.RoleAdmin {
		return ErrForbiddenTransition
	}
	if acting != nil && u.ID == acting.ID {
		return ErrForbiddenTransition
	}
	u.AccountStatus = auth.StatusSuspended
	u.IsActive = false
	return nil
}

// Reactivate 恢复停用账号（suspended → verified）
func Reactivate(u *auth.User) error {
	if u.AccountStatus != auth.StatusSuspended {
		return ErrInvalidTransition
	}
	u.AccountStatus = auth.StatusVerified
	u.IsActive = true
	return nil
}

// ChangeRole 变更用户角色（管理员操作）
// 三条红线：
//  1. 任何路径都不能把角色改成admin（平台管理员只通过初始化脚本产生）
//  2. 管理员账号的角色不可变更
//  3. 不能变更自己的角色
func ChangeRole(u *auth.User, newRole auth.UserRole, acting *auth.User) error {
	if newRole == auth.RoleAdmin {
		return ErrForbiddenTransition
	}
	if u.Role == auth.RoleAdmin {
		return ErrForbiddenTransition
	}
	if acting != nil && u.ID == acting.ID {
		return ErrForbiddenTransition
	}
	if !newRole.IsValid() {
		return ErrInvalidTransition
	}
	u.Role = newRole
	return nil
}

// ChangeAccountStatus 变更账号状态（管理员操作）
// 管理员账号不可变更，不能变更自己，且迁移必须在迁移表中
func ChangeAccountStatus(u *auth.User, newStatus auth.AccountStatus, acting *auth.User) error {
	if u.Role == auth.RoleAdmin {
		return ErrForbiddenTransition
	}
	if acting != nil && u.ID == acting.ID {
		return ErrForbiddenTransition
	}
	if !newStatus.IsValid() {
		return ErrInvalidTransition
	}
	if !canTransitionStatus(u.AccountStatus, newStatus) {
		return ErrInvalidTransition
	}

	u.AccountStatus = newStatus
	switch newStatus {
	case auth.StatusSuspended:
		u.IsActive = false
	case auth.StatusVerified:
		u.IsActive = true
	}
	return nil
}

// SetActive 切换账号可用标记（管理员操作）
// 与其他管理员操作相同的守卫：不能操作管理员账号，不能操作自己
func SetActive(u *auth.User, active bool, acting *auth.User) error {
	if u.Role == auth.RoleAdmin {
		return ErrForbiddenTransition
	}
	if acting != nil && u.ID == acting.ID {
		return ErrForbiddenTransition
	}
	u.IsActive = active
	return nil
}

// VerifyByAdmin 管理员直接验证账号（跳过OTP）
// 与其他管理员操作相同的守卫：不能操作管理员账号，不能操作自己
func VerifyByAdmin(u *auth.User, acting *auth.User) error {
	if u.Role == auth.RoleAdmin {
		return ErrForbiddenTransition
	}
	if acting != nil && u.ID == acting.ID {
		return ErrForbiddenTransition
	}
	SetVerified(u)
	return nil
}

// CanDelete 检查用户是否可被删除
// 管理员不可删除，任何人不能删除自己
func CanDelete(u *auth.User, acting *auth.User) error {
	if u.Role == auth.RoleAdmin {
		return ErrForbiddenTransition
	}
	if acting != nil && u.ID == acting.ID {
		return ErrForbiddenTransition
	}
	return nil
}

// EligibleForContributorApplication 检查用户是否有资格提交Contributor申请
// 只有学生可以申请；Contributor和管理员不可
func EligibleForContributorApplication(u *auth.User) bool {
	return u.Role == auth.RoleStudent
}

// CanPublish 检查用户是否可以发布动态和活动
// 只有已验证的Contributor和管理员可以发布
func CanPublish(u *auth.User) bool {
	if u.AccountStatus != auth.StatusVerified {
		return false
	}
	return u.Role == auth.RoleContributor || u.Role == auth.RoleAdmin
}

// CanModerate 检查用户是否有管理权限（删除他人内容、审核申请等）
func CanModerate(u *auth.User) bool {
	return u.Role == auth.RoleAdmin
}

// IsAdminRole 检查角色字符串是否为管理员
// 供只持有JWT claims（没有完整User实体）的中间件使用
func IsAdminRole(role string) bool {
	return role == string(auth.RoleAdmin)
}

// PromoteToContributor 将学生提升为Contributor（仅供审批工作流调用）
// student → contributor 是角色状态机中唯一的角色提升路径
func PromoteToContributor(u *auth.User) error {
	if u.Role != auth.RoleStudent {
		return ErrForbiddenTransition
	}
	u.Role = auth.RoleContributor
	u.AccountStatus = auth.StatusVerified
	u.IsActive = true
	return nil
}
