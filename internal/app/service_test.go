package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/mergington/activities/internal/adapters/mq/worker"
	"github.com/mergington/activities/internal/adapters/repository"
	service "github.com/mergington/activities/internal/app"
	"github.com/mergington/activities/internal/domain/model"
	"github.com/mergington/activities/internal/domain/roster"
	"github.com/mergington/activities/internal/domain/seed"
	"github.com/mergington/activities/pkg/logger"
	"github.com/mergington/activities/pkg/metrics"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// captureRecorder collects every roster change handed to the workers.
type captureRecorder struct {
	mu      sync.Mutex
	changes []model.RosterChange
}

func (r *captureRecorder) Record(_ context.Context, c worker.Change) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
	return nil
}

func (r *captureRecorder) snapshot() []model.RosterChange {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.RosterChange(nil), r.changes...)
}

// rosterOperations reads roster_operations_total for one label set.
func rosterOperations(activity, action, outcome string) float64 {
	families, err := metrics.GetRegistry().Gather()
	So(err, ShouldBeNil)
	want := map[string]string{"activity": activity, "action": action, "outcome": outcome}
	for _, mf := range families {
		if mf.GetName() != "mergington_activities_roster_operations_total" {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if v, ok := want[lp.GetName()]; ok && v != lp.GetValue() {
					continue next
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc, err := service.New()

		Convey("Then it should be seeded with the default catalogue", func() {
			So(err, ShouldBeNil)
			So(svc, ShouldNotBeNil)
			dir := svc.Activities(context.Background())
			So(len(dir), ShouldEqual, len(seed.Default()))
			So(dir["Chess Club"].Participants, ShouldResemble, []string{"michael@mergington.edu", "daniel@mergington.edu"})
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc, err := service.New(
			service.WithWorkerCount(8),
			service.WithQueueSize(16),
			service.WithSeed(model.Directory{
				"Robotics": {Description: "Build robots", Schedule: "Mondays", MaxParticipants: 2, Participants: []string{}},
			}),
		)

		Convey("Then it should use the provided seed", func() {
			So(err, ShouldBeNil)
			dir := svc.Activities(context.Background())
			So(dir, ShouldHaveLength, 1)
			So(dir, ShouldContainKey, "Robotics")
		})

		Convey("And the stats should reflect the options", func() {
			stats := svc.GetStats()
			So(stats["workerCount"], ShouldEqual, 8)
			So(stats["queueSize"], ShouldEqual, 16)
			So(stats["started"], ShouldBeFalse)
		})
	})

	Convey("Given two services built from the default seed", t, func() {
		a, _ := service.New()
		b, _ := service.New()

		Convey("Then they should not share state", func() {
			_, err := a.SignUp(context.Background(), "Chess Club", "new@mergington.edu")
			So(err, ShouldBeNil)
			So(b.Activities(context.Background())["Chess Club"].Participants, ShouldHaveLength, 2)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc, err := service.New(service.WithWorkerCount(2))
		So(err, ShouldBeNil)
		// Ensure service is stopped after test
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldBeTrue)
				So(stats["activities"], ShouldEqual, 9)
				So(stats, ShouldContainKey, "queueLength")
			})

			Convey("And starting again should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc, _ := service.New(service.WithWorkerCount(1))
		So(svc.Start(context.Background()), ShouldBeNil)

		Convey("When stopping it", func() {
			svc.Stop()

			Convey("Then it should no longer be started", func() {
				So(svc.GetStats()["started"], ShouldBeFalse)
			})

			Convey("And roster operations should keep working", func() {
				_, err := svc.SignUp(context.Background(), "Chess Club", "late@mergington.edu")
				So(err, ShouldBeNil)
			})

			Convey("And stopping twice should be safe", func() {
				So(func() { svc.Stop() }, ShouldNotPanic)
			})
		})
	})
}

func TestService_SignUp(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh service", t, func() {
		svc, _ := service.New()

		Convey("When a new student signs up for Chess Club", func() {
			a, err := svc.SignUp(ctx, "Chess Club", "newstudent@mergington.edu")

			Convey("Then the student should be appended to the roster", func() {
				So(err, ShouldBeNil)
				So(a.Participants, ShouldResemble, []string{
					"michael@mergington.edu", "daniel@mergington.edu", "newstudent@mergington.edu",
				})
				So(svc.Activities(ctx)["Chess Club"].Participants, ShouldHaveLength, 3)
			})
		})

		Convey("When signing up for an unknown activity", func() {
			_, err := svc.SignUp(ctx, "Nonexistent Club", "student@mergington.edu")

			Convey("Then it should fail with not found", func() {
				So(errors.Is(err, roster.ErrActivityNotFound), ShouldBeTrue)
				So(roster.Code(err), ShouldEqual, roster.CodeNotFound)
			})

			Convey("And the metric should use the shared label, not the name", func() {
				before := rosterOperations(metrics.UnknownActivityLabel, "signup", roster.CodeNotFound)
				_, _ = svc.SignUp(ctx, "Some Other Club", "student@mergington.edu")
				So(rosterOperations(metrics.UnknownActivityLabel, "signup", roster.CodeNotFound)-before, ShouldEqual, 1)
				So(rosterOperations("Some Other Club", "signup", roster.CodeNotFound), ShouldEqual, 0)
			})
		})

		Convey("When an enrolled student signs up again", func() {
			_, err := svc.SignUp(ctx, "Chess Club", "michael@mergington.edu")

			Convey("Then it should fail and leave the roster unchanged", func() {
				So(errors.Is(err, roster.ErrAlreadyEnrolled), ShouldBeTrue)
				So(svc.Activities(ctx)["Chess Club"].Participants, ShouldHaveLength, 2)
			})
		})

		Convey("When the email is empty", func() {
			_, err := svc.SignUp(ctx, "Chess Club", "")

			Convey("Then it should be rejected before touching the store", func() {
				So(errors.Is(err, service.ErrEmptyEmail), ShouldBeTrue)
			})
		})
	})

	Convey("Given a service enforcing capacity", t, func() {
		svc, _ := service.New(
			service.WithCapacityEnforcement(true),
			service.WithSeed(model.Directory{
				"Tiny": {Description: "d", Schedule: "s", MaxParticipants: 1, Participants: []string{"a@mergington.edu"}},
			}),
		)

		Convey("When signing up for a full activity", func() {
			_, err := svc.SignUp(ctx, "Tiny", "b@mergington.edu")

			Convey("Then it should fail as full", func() {
				So(errors.Is(err, roster.ErrActivityFull), ShouldBeTrue)
			})
		})
	})
}

func TestService_Unregister(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh service", t, func() {
		svc, _ := service.New()

		Convey("When an enrolled student unregisters", func() {
			a, err := svc.Unregister(ctx, "Chess Club", "michael@mergington.edu")

			Convey("Then only that student should be removed", func() {
				So(err, ShouldBeNil)
				So(a.Participants, ShouldResemble, []string{"daniel@mergington.edu"})
			})
		})

		Convey("When a student who is not enrolled unregisters", func() {
			_, err := svc.Unregister(ctx, "Chess Club", "ghost@mergington.edu")

			Convey("Then it should fail as not registered", func() {
				So(errors.Is(err, roster.ErrNotEnrolled), ShouldBeTrue)
			})
		})

		Convey("When unregistering from an unknown activity", func() {
			_, err := svc.Unregister(ctx, "Nonexistent Club", "student@mergington.edu")

			Convey("Then it should fail with not found", func() {
				So(roster.IsNotFound(err), ShouldBeTrue)
			})
		})

		Convey("When a student signs up and then unregisters", func() {
			before := svc.Activities(ctx)["Programming Class"].Participants
			_, err1 := svc.SignUp(ctx, "Programming Class", "rt@mergington.edu")
			_, err2 := svc.Unregister(ctx, "Programming Class", "rt@mergington.edu")

			Convey("Then the roster should be restored", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(svc.Activities(ctx)["Programming Class"].Participants, ShouldResemble, before)
			})
		})
	})
}

func TestService_RosterChanges(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service with a capturing recorder", t, func() {
		rec := &captureRecorder{}
		svc, err := service.New(service.WithRecorder(rec), service.WithWorkerCount(1))
		So(err, ShouldBeNil)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When roster operations succeed and fail", func() {
			_, _ = svc.SignUp(ctx, "Art Studio", "painter@mergington.edu")
			_, _ = svc.SignUp(ctx, "Art Studio", "painter@mergington.edu")
			_, _ = svc.Unregister(ctx, "Art Studio", "painter@mergington.edu")

			Convey("Then only successful mutations should be published", func() {
				So(eventually(func() bool { return len(rec.snapshot()) == 2 }), ShouldBeTrue)
				changes := rec.snapshot()
				So(changes[0].Action, ShouldEqual, model.ActionSignUp)
				So(changes[0].Activity, ShouldEqual, "Art Studio")
				So(changes[0].Email, ShouldEqual, "painter@mergington.edu")
				So(changes[0].Participants, ShouldEqual, 3)
				So(changes[0].ID, ShouldNotBeEmpty)
				So(changes[1].Action, ShouldEqual, model.ActionUnregister)
				So(changes[1].Participants, ShouldEqual, 2)
				So(changes[0].ID, ShouldNotEqual, changes[1].ID)
			})
		})
	})
}

func TestService_WithStore(t *testing.T) {
	Convey("Given a service with an injected store", t, func() {
		store, err := repository.NewInMemoryStore(model.Directory{
			"Chess Club": {Description: "d", Schedule: "s", MaxParticipants: 2, Participants: []string{}},
		})
		So(err, ShouldBeNil)
		svc, err := service.New(service.WithStore(store))
		So(err, ShouldBeNil)

		Convey("Then operations should go through that store", func() {
			_, err := svc.SignUp(context.Background(), "Chess Club", "x@mergington.edu")
			So(err, ShouldBeNil)
			a, err := store.Get(context.Background(), "Chess Club")
			So(err, ShouldBeNil)
			So(a.Participants, ShouldResemble, []string{"x@mergington.edu"})
		})
	})
}

func TestService_ConcurrentSignUps(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc, _ := service.New(service.WithQueueSize(4), service.WithWorkerCount(2))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		Convey("When the same student signs up concurrently", func() {
			var wg sync.WaitGroup
			var mu sync.Mutex
			successes := 0
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, err := svc.SignUp(context.Background(), "Gym Class", "race@mergington.edu"); err == nil {
						mu.Lock()
						successes++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			Convey("Then exactly one sign-up should succeed", func() {
				So(successes, ShouldEqual, 1)
				So(svc.Activities(context.Background())["Gym Class"].Participants, ShouldHaveLength, 3)
			})
		})
	})
}
