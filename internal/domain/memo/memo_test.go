package memo_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/anxo/convoca/internal/domain/attendance"
	"github.com/anxo/convoca/internal/domain/memo"
	"github.com/anxo/convoca/internal/domain/model"
)

func report(rev uint64) memo.Report {
	return memo.Report{
		Revision: rev,
		Attendance: map[model.PersonID]attendance.Record{
			"A": {Attended: int(rev), Total: 10, Percentage: float64(rev) * 10},
		},
	}
}

func TestInMemoryCache(t *testing.T) {
	Convey("Given an empty report cache", t, func() {
		ctx := context.Background()
		cache := memo.NewInMemoryCache(memo.WithMaxSize(3))

		Convey("When looking up an unknown revision", func() {
			_, ok := cache.Get(ctx, 1)
			So(ok, ShouldBeFalse)
			So(cache.Size(), ShouldEqual, 0)
		})

		Convey("When storing and retrieving a report", func() {
			cache.Put(ctx, report(1))

			got, ok := cache.Get(ctx, 1)
			So(ok, ShouldBeTrue)
			So(got, ShouldResemble, report(1))
			So(cache.Size(), ShouldEqual, 1)
		})

		Convey("When storing the same revision twice", func() {
			cache.Put(ctx, report(1))
			cache.Put(ctx, report(1))
			So(cache.Size(), ShouldEqual, 1)
		})

		Convey("When exceeding the size cap", func() {
			for rev := uint64(1); rev <= 5; rev++ {
				cache.Put(ctx, report(rev))
			}

			Convey("Then the oldest revisions are evicted", func() {
				So(cache.Size(), ShouldEqual, 3)
				_, ok := cache.Get(ctx, 1)
				So(ok, ShouldBeFalse)
				_, ok = cache.Get(ctx, 2)
				So(ok, ShouldBeFalse)
				_, ok = cache.Get(ctx, 5)
				So(ok, ShouldBeTrue)
			})
		})
	})
}

func TestInMemoryCacheConcurrent(t *testing.T) {
	Convey("Given a shared cache under concurrent use", t, func() {
		ctx := context.Background()
		cache := memo.NewInMemoryCache(memo.WithMaxSize(8))

		done := make(chan struct{})
		for g := 0; g < 4; g++ {
			go func(base uint64) {
				defer func() { done <- struct{}{} }()
				for i := uint64(0); i < 50; i++ {
					rev := base*100 + i
					cache.Put(ctx, report(rev))
					cache.Get(ctx, rev)
				}
			}(uint64(g))
		}
		for g := 0; g < 4; g++ {
			<-done
		}

		Convey("Then the cache stays within its cap", func() {
			So(cache.Size(), ShouldBeLessThanOrEqualTo, 8)
		})
	})
}
