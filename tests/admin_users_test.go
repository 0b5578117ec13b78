// Package tests 用户管理集成测试
package tests

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"campuslink/internal/model/auth"
	"campuslink/internal/pkg/rolestate"
	"campuslink/internal/service"
)

func TestAdminService_UserManagement(t *testing.T) {
	svc := testServices.AdminService

	Convey("管理员管理用户账号", t, func() {
		admin := newAdmin(t)

		Convey("停用用户后Refresh Token被吊销", func() {
			student := newStudent(t, uniqueCollege("停用测试"))

			token := &auth.RefreshToken{
				ID:        student.ID + "-rt",
				UserID:    student.ID,
				Token:     "rt-" + student.ID,
				ExpiresAt: time.Now().Add(time.Hour),
			}
			So(testServices.RefreshTokenRepo.Create(testCtx, token), ShouldBeNil)

			suspended, err := svc.SuspendUser(testCtx, student.ID, admin)
			So(err, ShouldBeNil)
			So(suspended.AccountStatus, ShouldEqual, auth.StatusSuspended)
			So(suspended.IsActive, ShouldBeFalse)

			_, err = testServices.RefreshTokenRepo.FindByToken(testCtx, token.Token)
			So(err, ShouldNotBeNil)

			Convey("停用的用户可以被恢复", func() {
				restored, err := svc.ReactivateUser(testCtx, student.ID)
				So(err, ShouldBeNil)
				So(restored.AccountStatus, ShouldEqual, auth.StatusVerified)
				So(restored.IsActive, ShouldBeTrue)
			})
		})

		Convey("管理员不能停用自己", func() {
			_, err := svc.SuspendUser(testCtx, admin.ID, admin)
			So(err, ShouldEqual, rolestate.ErrForbiddenTransition)
		})

		Convey("管理员账号不可被变更", func() {
			other := newAdmin(t)
			_, err := svc.UpdateUser(testCtx, other.ID, admin, &service.UpdateUserParams{
				Role: string(auth.RoleStudent),
			})
			So(err, ShouldEqual, rolestate.ErrForbiddenTransition)
		})

		Convey("不能通过用户更新产生第二个管理员", func() {
			student := newStudent(t, uniqueCollege("提权测试"))
			_, err := svc.UpdateUser(testCtx, student.ID, admin, &service.UpdateUserParams{
				Role: string(auth.RoleAdmin),
			})
			So(err, ShouldEqual, rolestate.ErrForbiddenTransition)
		})

		Convey("Contributor可以被降级回学生", func() {
			college := uniqueCollege("降级测试")
			holder := newStudent(t, college)
			holder.Role = auth.RoleContributor
			So(testServices.UserRepo.SaveRoleAndStatus(testCtx, holder), ShouldBeNil)

			demoted, err := svc.UpdateUser(testCtx, holder.ID, admin, &service.UpdateUserParams{
				Role: string(auth.RoleStudent),
			})
			So(err, ShouldBeNil)
			So(demoted.Role, ShouldEqual, auth.RoleStudent)

			Convey("降级后该学院的名额被释放", func() {
				another := newStudent(t, college)
				_, err := testServices.ContributorService.SubmitApplication(testCtx, another, testDocuments())
				So(err, ShouldBeNil)
			})
		})

		Convey("删除用户级联清理其所有数据", func() {
			college := uniqueCollege("删除测试")
			student := newStudent(t, college)

			app, err := testServices.ContributorService.SubmitApplication(testCtx, student, testDocuments())
			So(err, ShouldBeNil)

			So(svc.DeleteUser(testCtx, student.ID, admin), ShouldBeNil)

			_, err = svc.GetUser(testCtx, student.ID)
			So(err, ShouldEqual, service.ErrUserNotFound)

			_, err = testServices.AppRepo.FindByID(testCtx, app.ID)
			So(err, ShouldNotBeNil)
		})

		Convey("管理员不能删除自己", func() {
			err := svc.DeleteUser(testCtx, admin.ID, admin)
			So(err, ShouldEqual, rolestate.ErrForbiddenTransition)
		})

		Convey("无效的角色和状态被拒绝", func() {
			student := newStudent(t, uniqueCollege("校验测试"))

			_, err := svc.UpdateUser(testCtx, student.ID, admin, &service.UpdateUserParams{
				Role: "superuser",
			})
			So(err, ShouldEqual, service.ErrInvalidRole)

			_, err = svc.UpdateUser(testCtx, student.ID, admin, &service.UpdateUserParams{
				AccountStatus: "frozen",
			})
			So(err, ShouldEqual, service.ErrInvalidAccountStatus)
		})
	})
}
