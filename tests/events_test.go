// Package tests 动态与活动集成测试
package tests

import (
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"go.mongodb.org/mongo-driver/bson"

	"campuslink/internal/model/auth"
	"campuslink/internal/service"
)

// newContributor 创建一个已验证的Contributor用户
func newContributor(t *testing.T, collegeName string) *auth.User {
	t.Helper()
	user := newStudent(t, collegeName)
	user.Role = auth.RoleContributor
	if err := testServices.UserRepo.SaveRoleAndStatus(testCtx, user); err != nil {
		t.Fatalf("promote contributor: %v", err)
	}
	return user
}

func TestPostService_Feed(t *testing.T) {
	svc := testServices.PostService

	Convey("学院动态信息流", t, func() {
		college := uniqueCollege("动态学院")
		contrib := newContributor(t, college)

		Convey("Contributor可以发布动态", func() {
			p, err := svc.CreatePost(testCtx, contrib, &service.CreatePostParams{
				Content:  "本周五晚社团招新",
				IsGlobal: true,
			})
			So(err, ShouldBeNil)
			So(p.AuthorName, ShouldEqual, contrib.FullName)
			So(p.CollegeName, ShouldEqual, college)

			Convey("学院信息流能查到刚发布的动态", func() {
				posts, total, err := svc.ListFeed(testCtx, college, 1, 20)
				So(err, ShouldBeNil)
				So(total, ShouldEqual, 1)
				So(posts[0].ID, ShouldEqual, p.ID)
			})

			Convey("作者可以删除自己的动态", func() {
				So(svc.DeletePost(testCtx, p.ID, contrib), ShouldBeNil)
				_, err := svc.GetPost(testCtx, p.ID)
				So(err, ShouldEqual, service.ErrPostNotFound)
			})

			Convey("其他用户不能删除别人的动态", func() {
				stranger := newStudent(t, uniqueCollege("旁观学院"))
				err := svc.DeletePost(testCtx, p.ID, stranger)
				So(err, ShouldEqual, service.ErrNotPostOwner)
			})
		})

		Convey("普通学生不能发布动态", func() {
			student := newStudent(t, college)
			_, err := svc.CreatePost(testCtx, student, &service.CreatePostParams{
				Content: "我也想发",
			})
			So(err, ShouldEqual, service.ErrNotPublisher)
		})
	})
}

func TestEventService_Registration(t *testing.T) {
	svc := testServices.EventService

	Convey("活动报名", t, func() {
		college := uniqueCollege("活动学院")
		organizer := newContributor(t, college)

		event, err := svc.CreateEvent(testCtx, organizer, &service.CreateEventParams{
			Title:    "编程马拉松",
			Venue:    "图书馆报告厅",
			StartsAt: time.Now().Add(48 * time.Hour),
			Capacity: 2,
		})
		So(err, ShouldBeNil)

		Convey("报名成功且不能重复报名", func() {
			attendee := newStudent(t, college)
			So(svc.RegisterForEvent(testCtx, event.ID, attendee), ShouldBeNil)

			err := svc.RegisterForEvent(testCtx, event.ID, attendee)
			So(err, ShouldEqual, service.ErrAlreadyRegistered)
		})

		Convey("容量满后报名被拒绝", func() {
			a1 := newStudent(t, college)
			a2 := newStudent(t, college)
			a3 := newStudent(t, college)

			So(svc.RegisterForEvent(testCtx, event.ID, a1), ShouldBeNil)
			So(svc.RegisterForEvent(testCtx, event.ID, a2), ShouldBeNil)

			err := svc.RegisterForEvent(testCtx, event.ID, a3)
			So(err, ShouldEqual, service.ErrEventFull)

			Convey("取消报名后名额释放", func() {
				So(svc.CancelRegistration(testCtx, event.ID, a1), ShouldBeNil)
				So(svc.RegisterForEvent(testCtx, event.ID, a3), ShouldBeNil)
			})
		})

		Convey("并发报名不会超过容量", func() {
			capped, err := svc.CreateEvent(testCtx, organizer, &service.CreateEventParams{
				Title:    "限量讲座",
				StartsAt: time.Now().Add(24 * time.Hour),
				Capacity: 3,
			})
			So(err, ShouldBeNil)

			attendees := make([]*auth.User, 6)
			for i := range attendees {
				attendees[i] = newStudent(t, college)
			}

			var wg sync.WaitGroup
			results := make([]error, len(attendees))
			for i, u := range attendees {
				wg.Add(1)
				go func(idx int, user *auth.User) {
					defer wg.Done()
					results[idx] = svc.RegisterForEvent(testCtx, capped.ID, user)
				}(i, u)
			}
			wg.Wait()

			succeeded := 0
			for _, err := range results {
				if err == nil {
					succeeded++
				} else {
					So(err, ShouldEqual, service.ErrEventFull)
				}
			}
			So(succeeded, ShouldEqual, 3)

			final, err := svc.GetEvent(testCtx, capped.ID)
			So(err, ShouldBeNil)
			So(final.RegisteredCount(), ShouldEqual, 3)
		})

		Convey("已开始的活动不能报名", func() {
			// 直接落库一个过去开始的活动
			past, err := svc.CreateEvent(testCtx, organizer, &service.CreateEventParams{
				Title:    "已结束的活动",
				StartsAt: time.Now().Add(time.Minute),
				Capacity: 0,
			})
			So(err, ShouldBeNil)

			// 直接把开始时间改写到过去，模拟已开始的活动
			_, uerr := testDB.Collection("events").UpdateOne(testCtx,
				bson.M{"_id": past.ID},
				bson.M{"$set": bson.M{"starts_at": time.Now().Add(-time.Hour)}})
			So(uerr, ShouldBeNil)

			attendee := newStudent(t, college)
			err = svc.RegisterForEvent(testCtx, past.ID, attendee)
			So(err, ShouldEqual, service.ErrEventStarted)
		})

		Convey("普通学生不能创建活动", func() {
			student := newStudent(t, college)
			_, err := svc.CreateEvent(testCtx, student, &service.CreateEventParams{
				Title:    "学生活动",
				StartsAt: time.Now().Add(time.Hour),
			})
			So(err, ShouldEqual, service.ErrNotPublisher)
		})
	})
}
