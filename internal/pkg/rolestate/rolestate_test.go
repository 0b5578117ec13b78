package rolestate

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"campuslink/internal/model/auth"
)

func student(id, college string) *auth.User {
	return &auth.User{
		ID:            id,
		Role:          auth.RoleStudent,
		AccountStatus: auth.StatusPendingEmailVerification,
		CollegeName:   college,
	}
}

func admin(id string) *auth.User {
	return &auth.User{
		ID:            id,
		Role:          auth.RoleAdmin,
		AccountStatus: auth.StatusVerified,
		EmailVerified: true,
		IsActive:      true,
	}
}

func TestSetVerified(t *testing.T) {
	Convey("SetVerified 将账号置为已验证", t, func() {
		u := student("u1", "X")
		SetVerified(u)
		So(u.AccountStatus, ShouldEqual, auth.StatusVerified)
		So(u.EmailVerified, ShouldBeTrue)
		So(u.IsActive, ShouldBeTrue)

		Convey("重复调用幂等", func() {
			SetVerified(u)
			So(u.AccountStatus, ShouldEqual, auth.StatusVerified)
			So(u.EmailVerified, ShouldBeTrue)
		})
	})
}

func TestSuspend(t *testing.T) {
	Convey("Suspend 停用账号", t, func() {
		adm := admin("a1")

		Convey("正常停用学生", func() {
			u := student("u1", "X")
			So(Suspend(u, adm), ShouldBeNil)
			So(u.AccountStatus, ShouldEqual, auth.StatusSuspended)
			So(u.IsActive, ShouldBeFalse)
		})

		Convey("不能停用管理员", func() {
			target := admin("a2")
			err := Suspend(target, adm)
			So(err, ShouldEqual, ErrForbiddenTransition)
			So(target.AccountStatus, ShouldEqual, auth.StatusVerified)
		})

		Convey("不能停用自己", func() {
			u := student("u1", "X")
			err := Suspend(u, u)
			So(err, ShouldEqual, ErrForbiddenTransition)
			So(u.AccountStatus, ShouldEqual, auth.StatusPendingEmailVerification)
		})
	})
}

func TestReactivate(t *testing.T) {
	Convey("Reactivate 恢复停用账号", t, func() {
		u := student("u1", "X")
		u.AccountStatus = auth.StatusSuspended

		So(Reactivate(u), ShouldBeNil)
		So(u.AccountStatus, ShouldEqual, auth.StatusVerified)
		So(u.IsActive, ShouldBeTrue)

		Convey("非停用状态不能恢复", func() {
			v := student("u2", "X")
			So(Reactivate(v), ShouldEqual, ErrInvalidTransition)
		})
	})
}

func TestChangeRole(t *testing.T) {
	Convey("ChangeRole 变更角色", t, func() {
		adm := admin("a1")

		Convey("任何路径都不能提升为admin", func() {
			u := student("u1", "X")
			err := ChangeRole(u, auth.RoleAdmin, adm)
			So(err, ShouldEqual, ErrForbiddenTransition)
			So(u.Role, ShouldEqual, auth.RoleStudent)
		})

		Convey("管理员账号的角色不可变更", func() {
			target := admin("a2")
			err := ChangeRole(target, auth.RoleStudent, adm)
			So(err, ShouldEqual, ErrForbiddenTransition)
			So(target.Role, ShouldEqual, auth.RoleAdmin)
		})

		Convey("不能变更自己的角色", func() {
			u := student("u1", "X")
			err := ChangeRole(u, auth.RoleContributor, u)
			So(err, ShouldEqual, ErrForbiddenTransition)
			So(u.Role, ShouldEqual, auth.RoleStudent)
		})

		Convey("管理员把contributor降回student", func() {
			u := student("u1", "X")
			u.Role = auth.RoleContributor
			So(ChangeRole(u, auth.RoleStudent, adm), ShouldBeNil)
			So(u.Role, ShouldEqual, auth.RoleStudent)
		})

		Convey("无效角色被拒绝", func() {
			u := student("u1", "X")
			err := ChangeRole(u, auth.UserRole("superuser"), adm)
			So(err, ShouldEqual, ErrInvalidTransition)
		})
	})
}

func TestChangeAccountStatus(t *testing.T) {
	Convey("ChangeAccountStatus 按迁移表变更状态", t, func() {
		adm := admin("a1")

		Convey("verified → suspended → verified", func() {
			u := student("u1", "X")
			SetVerified(u)

			So(ChangeAccountStatus(u, auth.StatusSuspended, adm), ShouldBeNil)
			So(u.IsActive, ShouldBeFalse)

			So(ChangeAccountStatus(u, auth.StatusVerified, adm), ShouldBeNil)
			So(u.IsActive, ShouldBeTrue)
		})

		Convey("同状态幂等", func() {
			u := student("u1", "X")
			SetVerified(u)
			So(ChangeAccountStatus(u, auth.StatusVerified, adm), ShouldBeNil)
		})

		Convey("verified 不能直接回到 pending_email_verification", func() {
			u := student("u1", "X")
			SetVerified(u)
			err := ChangeAccountStatus(u, auth.StatusPendingEmailVerification, adm)
			So(err, ShouldEqual, ErrInvalidTransition)
		})

		Convey("rejected 是保留状态，没有出口", func() {
			u := student("u1", "X")
			u.AccountStatus = auth.StatusRejected
			err := ChangeAccountStatus(u, auth.StatusVerified, adm)
			So(err, ShouldEqual, ErrInvalidTransition)
		})

		Convey("管理员账号不可变更", func() {
			target := admin("a2")
			err := ChangeAccountStatus(target, auth.StatusSuspended, adm)
			So(err, ShouldEqual, ErrForbiddenTransition)
		})

		Convey("不能变更自己", func() {
			u := student("u1", "X")
			SetVerified(u)
			err := ChangeAccountStatus(u, auth.StatusSuspended, u)
			So(err, ShouldEqual, ErrForbiddenTransition)
		})
	})
}

func TestSetActive(t *testing.T) {
	Convey("SetActive 切换账号可用标记", t, func() {
		acting := admin("a1")

		Convey("停用再启用学生账号", func() {
			u := student("u1", "X")
			u.IsActive = true
			So(SetActive(u, false, acting), ShouldBeNil)
			So(u.IsActive, ShouldBeFalse)
			So(SetActive(u, true, acting), ShouldBeNil)
			So(u.IsActive, ShouldBeTrue)
		})

		Convey("管理员账号不可操作", func() {
			target := admin("a2")
			So(SetActive(target, false, acting), ShouldEqual, ErrForbiddenTransition)
			So(target.IsActive, ShouldBeTrue)
		})

		Convey("不能操作自己", func() {
			So(SetActive(acting, false, acting), ShouldEqual, ErrForbiddenTransition)
		})
	})
}

func TestVerifyByAdmin(t *testing.T) {
	Convey("VerifyByAdmin 管理员直接验证账号", t, func() {
		adm := admin("a1")

		Convey("验证待审核学生", func() {
			u := student("u1", "X")
			So(VerifyByAdmin(u, adm), ShouldBeNil)
			So(u.AccountStatus, ShouldEqual, auth.StatusVerified)
			So(u.EmailVerified, ShouldBeTrue)
		})

		Convey("管理员账号不可操作", func() {
			So(VerifyByAdmin(admin("a2"), adm), ShouldEqual, ErrForbiddenTransition)
		})

		Convey("不能操作自己", func() {
			u := student("u1", "X")
			So(VerifyByAdmin(u, u), ShouldEqual, ErrForbiddenTransition)
		})
	})
}

func TestCanPublish(t *testing.T) {
	Convey("CanPublish 发布权限", t, func() {
		Convey("已验证Contributor可以发布", func() {
			u := student("u1", "X")
			SetVerified(u)
			So(PromoteToContributor(u), ShouldBeNil)
			So(CanPublish(u), ShouldBeTrue)
		})

		Convey("学生不可以发布", func() {
			u := student("u1", "X")
			SetVerified(u)
			So(CanPublish(u), ShouldBeFalse)
		})

		Convey("停用的Contributor不可以发布", func() {
			u := student("u1", "X")
			SetVerified(u)
			So(PromoteToContributor(u), ShouldBeNil)
			So(Suspend(u, admin("a1")), ShouldBeNil)
			So(CanPublish(u), ShouldBeFalse)
		})

		Convey("管理员可以发布", func() {
			So(CanPublish(admin("a1")), ShouldBeTrue)
		})
	})
}

func TestCanDelete(t *testing.T) {
	Convey("CanDelete 删除守卫", t, func() {
		adm := admin("a1")

		So(CanDelete(student("u1", "X"), adm), ShouldBeNil)
		So(CanDelete(admin("a2"), adm), ShouldEqual, ErrForbiddenTransition)
		So(CanDelete(adm, adm), ShouldEqual, ErrForbiddenTransition)
	})
}

func TestPromoteToContributor(t *testing.T) {
	Convey("PromoteToContributor 学生提升为Contributor", t, func() {
		u := student("u1", "X")
		SetVerified(u)

		So(PromoteToContributor(u), ShouldBeNil)
		So(u.Role, ShouldEqual, auth.RoleContributor)
		So(u.AccountStatus, ShouldEqual, auth.StatusVerified)

		Convey("已是Contributor不能重复提升", func() {
			So(PromoteToContributor(u), ShouldEqual, ErrForbiddenTransition)
		})

		Convey("管理员不能被提升", func() {
			So(PromoteToContributor(admin("a1")), ShouldEqual, ErrForbiddenTransition)
		})
	})
}

func TestEligibleForContributorApplication(t *testing.T) {
	Convey("只有学生可以提交申请", t, func() {
		So(EligibleForContributorApplication(student("u1", "X")), ShouldBeTrue)

		c := student("u2", "X")
		c.Role = auth.RoleContributor
		So(EligibleForContributorApplication(c), ShouldBeFalse)

		So(EligibleForContributorApplication(admin("a1")), ShouldBeFalse)
	})
}
