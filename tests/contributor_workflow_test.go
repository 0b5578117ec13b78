// Package tests Contributor申请工作流集成测试
//
// 覆盖申请的提交、审核以及学院名额和申请状态的并发语义：
//
//	MONGO_URI=mongodb://localhost:27017 go test ./tests -run TestContributor -v
package tests

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"campuslink/internal/model/auth"
	"campuslink/internal/model/contributor"
	"campuslink/internal/service"
)

// testDocuments 构造一组合法的申请材料
func testDocuments() *service.SubmitApplicationParams {
	return &service.SubmitApplicationParams{
		ReasonForApplying: "希望为学院同学分享校园资讯",
		Experience:        "曾任学生会宣传部成员",
		IDCard: &service.ApplicationDocument{
			Filename:    "id_card.png",
			ContentType: "image/png",
			Data:        bytes.NewReader([]byte("fake-png-data")),
		},
		EnrollmentProof: &service.ApplicationDocument{
			Filename:    "enrollment.pdf",
			ContentType: "application/pdf",
			Data:        bytes.NewReader([]byte("fake-pdf-data")),
		},
	}
}

func TestContributorApplication_Submit(t *testing.T) {
	svc := testServices.ContributorService

	Convey("学生提交Contributor申请", t, func() {
		college := uniqueCollege("软件学院")
		student := newStudent(t, college)

		Convey("合法提交创建pending申请并快照用户资料", func() {
			app, err := svc.SubmitApplication(testCtx, student, testDocuments())
			So(err, ShouldBeNil)
			So(app.Status, ShouldEqual, contributor.ApplicationPending)
			So(app.UserID, ShouldEqual, student.ID)
			So(app.FullName, ShouldEqual, student.FullName)
			So(app.CollegeName, ShouldEqual, college)
			So(app.IDCardURL, ShouldNotBeEmpty)
			So(app.EnrollmentProofURL, ShouldNotBeEmpty)

			Convey("重复提交返回已有申请和冲突错误", func() {
				dup, err := svc.SubmitApplication(testCtx, student, testDocuments())
				So(err, ShouldEqual, service.ErrDuplicateApplication)
				So(dup, ShouldNotBeNil)
				So(dup.ID, ShouldEqual, app.ID)
			})
		})

		Convey("申请理由为空被拒绝", func() {
			params := testDocuments()
			params.ReasonForApplying = "   "
			another := newStudent(t, uniqueCollege("理学院"))
			_, err := svc.SubmitApplication(testCtx, another, params)
			So(err, ShouldEqual, service.ErrReasonRequired)
		})

		Convey("缺少申请材料被拒绝", func() {
			params := testDocuments()
			params.EnrollmentProof = nil
			another := newStudent(t, uniqueCollege("文学院"))
			_, err := svc.SubmitApplication(testCtx, another, params)
			So(err, ShouldEqual, service.ErrMissingDocuments)
		})

		Convey("非学生角色不能申请", func() {
			admin := newAdmin(t)
			_, err := svc.SubmitApplication(testCtx, admin, testDocuments())
			So(err, ShouldEqual, service.ErrNotEligible)
		})

		Convey("学院已有Contributor时提交被拒绝", func() {
			taken := uniqueCollege("商学院")
			holder := newStudent(t, taken)
			holder.Role = auth.RoleContributor
			So(testServices.UserRepo.SaveRoleAndStatus(testCtx, holder), ShouldBeNil)

			another := newStudent(t, taken)
			_, err := svc.SubmitApplication(testCtx, another, testDocuments())
			So(err, ShouldEqual, service.ErrCollegeSlotTaken)
		})
	})
}

func TestContributorApplication_Review(t *testing.T) {
	svc := testServices.ContributorService

	Convey("管理员审核Contributor申请", t, func() {
		admin := newAdmin(t)

		Convey("审批通过后申请人成为该学院的Contributor", func() {
			college := uniqueCollege("法学院")
			student := newStudent(t, college)
			app, err := svc.SubmitApplication(testCtx, student, testDocuments())
			So(err, ShouldBeNil)

			approved, err := svc.ApproveApplication(testCtx, app.ID, admin, "材料齐全")
			So(err, ShouldBeNil)
			So(approved.Status, ShouldEqual, contributor.ApplicationApproved)
			So(approved.ReviewedBy, ShouldEqual, admin.ID)
			So(approved.ReviewedAt, ShouldNotBeNil)

			promoted, err := testServices.UserRepo.FindByID(testCtx, student.ID)
			So(err, ShouldBeNil)
			So(promoted.Role, ShouldEqual, auth.RoleContributor)
			So(promoted.AccountStatus, ShouldEqual, auth.StatusVerified)

			Convey("同一学院的第二份申请无法再通过", func() {
				second := newStudent(t, college)
				app2, err := svc.SubmitApplication(testCtx, second, testDocuments())
				// 学院名额已被占用，提交就会被拒绝
				So(err, ShouldEqual, service.ErrCollegeSlotTaken)
				So(app2, ShouldBeNil)
			})

			Convey("已通过的申请再次审批返回当前状态", func() {
				current, err := svc.ApproveApplication(testCtx, app.ID, admin, "")
				var reviewed *service.AlreadyReviewedError
				So(errors.As(err, &reviewed), ShouldBeTrue)
				So(reviewed.Status, ShouldEqual, contributor.ApplicationApproved)
				So(current.Status, ShouldEqual, contributor.ApplicationApproved)
			})
		})

		Convey("拒绝申请必须填写原因", func() {
			student := newStudent(t, uniqueCollege("医学院"))
			app, err := svc.SubmitApplication(testCtx, student, testDocuments())
			So(err, ShouldBeNil)

			_, err = svc.RejectApplication(testCtx, app.ID, admin, "", "")
			So(err, ShouldEqual, service.ErrRejectReasonRequired)

			rejected, err := svc.RejectApplication(testCtx, app.ID, admin, "材料不清晰", "请重新拍摄")
			So(err, ShouldBeNil)
			So(rejected.Status, ShouldEqual, contributor.ApplicationRejected)
			So(rejected.RejectionReason, ShouldEqual, "材料不清晰")

			Convey("拒绝后用户角色保持不变", func() {
				unchanged, err := testServices.UserRepo.FindByID(testCtx, student.ID)
				So(err, ShouldBeNil)
				So(unchanged.Role, ShouldEqual, auth.RoleStudent)
			})

			Convey("已拒绝的申请不能再通过，状态不回退", func() {
				current, err := svc.ApproveApplication(testCtx, app.ID, admin, "")
				var reviewed *service.AlreadyReviewedError
				So(errors.As(err, &reviewed), ShouldBeTrue)
				So(reviewed.Status, ShouldEqual, contributor.ApplicationRejected)
				So(current.Status, ShouldEqual, contributor.ApplicationRejected)

				stillStudent, err := testServices.UserRepo.FindByID(testCtx, student.ID)
				So(err, ShouldBeNil)
				So(stillStudent.Role, ShouldEqual, auth.RoleStudent)
			})
		})

		Convey("删除申请记录后可以重新申请", func() {
			student := newStudent(t, uniqueCollege("艺术学院"))
			app, err := svc.SubmitApplication(testCtx, student, testDocuments())
			So(err, ShouldBeNil)

			So(svc.DeleteApplication(testCtx, app.ID), ShouldBeNil)

			_, err = svc.GetMyApplication(testCtx, student.ID)
			So(err, ShouldEqual, service.ErrApplicationNotFound)

			again, err := svc.SubmitApplication(testCtx, student, testDocuments())
			So(err, ShouldBeNil)
			So(again.Status, ShouldEqual, contributor.ApplicationPending)
		})

		Convey("不存在的申请返回NotFound", func() {
			_, err := svc.ApproveApplication(testCtx, "no-such-id", admin, "")
			So(err, ShouldEqual, service.ErrApplicationNotFound)
		})
	})
}

func TestContributorApplication_ConcurrentApproval(t *testing.T) {
	svc := testServices.ContributorService

	Convey("并发审批同一学院的两份申请", t, func() {
		admin := newAdmin(t)
		college := uniqueCollege("信息学院")

		s1 := newStudent(t, college)
		s2 := newStudent(t, college)

		app1, err := svc.SubmitApplication(testCtx, s1, testDocuments())
		So(err, ShouldBeNil)
		app2, err := svc.SubmitApplication(testCtx, s2, testDocuments())
		So(err, ShouldBeNil)

		var wg sync.WaitGroup
		results := make([]error, 2)
		for i, appID := range []string{app1.ID, app2.ID} {
			wg.Add(1)
			go func(idx int, id string) {
				defer wg.Done()
				_, results[idx] = svc.ApproveApplication(testCtx, id, admin, "")
			}(i, appID)
		}
		wg.Wait()

		Convey("恰好一份通过，另一份因名额冲突失败", func() {
			succeeded := 0
			for _, err := range results {
				if err == nil {
					succeeded++
				} else {
					So(err, ShouldEqual, service.ErrCollegeSlotTaken)
				}
			}
			So(succeeded, ShouldEqual, 1)
		})

		Convey("该学院最终只有一个Contributor", func() {
			contributors, total, err := testServices.UserRepo.List(testCtx,
				contributorFilter(college), 1, 10)
			So(err, ShouldBeNil)
			So(total, ShouldEqual, 1)
			So(len(contributors), ShouldEqual, 1)
		})

		Convey("失败一方的申请保持pending，用户保持student", func() {
			pending := 0
			for _, appID := range []string{app1.ID, app2.ID} {
				app, err := testServices.AppRepo.FindByID(testCtx, appID)
				So(err, ShouldBeNil)
				if app.Status == contributor.ApplicationPending {
					pending++
					loser, err := testServices.UserRepo.FindByID(testCtx, app.UserID)
					So(err, ShouldBeNil)
					So(loser.Role, ShouldEqual, auth.RoleStudent)
				}
			}
			So(pending, ShouldEqual, 1)
		})
	})

	Convey("并发审批同一份申请", t, func() {
		admin := newAdmin(t)
		student := newStudent(t, uniqueCollege("外语学院"))

		app, err := svc.SubmitApplication(testCtx, student, testDocuments())
		So(err, ShouldBeNil)

		var wg sync.WaitGroup
		results := make([]error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				_, results[idx] = svc.ApproveApplication(testCtx, app.ID, admin, "")
			}(i)
		}
		wg.Wait()

		Convey("申请只被审核一次，用户最终是Contributor", func() {
			succeeded := 0
			for _, err := range results {
				if err == nil {
					succeeded++
					continue
				}
				// 失败方看到已审核冲突或并发审核冲突
				var reviewed *service.AlreadyReviewedError
				if !errors.As(err, &reviewed) {
					So(err, ShouldEqual, service.ErrConcurrentReview)
				}
			}
			So(succeeded, ShouldEqual, 1)

			final, err := testServices.AppRepo.FindByID(testCtx, app.ID)
			So(err, ShouldBeNil)
			So(final.Status, ShouldEqual, contributor.ApplicationApproved)

			user, err := testServices.UserRepo.FindByID(testCtx, student.ID)
			So(err, ShouldBeNil)
			So(user.Role, ShouldEqual, auth.RoleContributor)
		})
	})
}
