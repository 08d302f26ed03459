package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/mergington/activities/internal/domain/roster"
)

func TestOperationErrors(t *testing.T) {
	Convey("Given operation errors", t, func() {
		cause := errors.New("boom")

		Convey("Then NewKind should unwrap to its kind", func() {
			err := NewKind("api.signup", ErrMissingEmail)
			So(errors.Is(err, ErrMissingEmail), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.signup: email query parameter is required")
		})

		Convey("And WrapKind should unwrap to both kind and cause", func() {
			err := WrapKind("api.list", ErrInternal, cause)
			So(errors.Is(err, ErrInternal), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
		})

		Convey("And Wrap should keep roster errors visible", func() {
			err := Wrap("api.unregister", fmt.Errorf("service: %w", roster.NewError(roster.ErrNotEnrolled, "Chess Club", "x@y")))
			So(errors.Is(err, roster.ErrNotEnrolled), ShouldBeTrue)
			So(Wrap("op", nil), ShouldBeNil)
		})
	})
}

func TestWriteRosterError(t *testing.T) {
	Convey("Given roster failures", t, func() {
		cases := []struct {
			err    error
			status int
			detail string
		}{
			{roster.NewError(roster.ErrActivityNotFound, "X", "a@b"), http.StatusNotFound, "Activity not found"},
			{roster.NewError(roster.ErrAlreadyEnrolled, "X", "a@b"), http.StatusBadRequest, "Student is already signed up for this activity"},
			{roster.NewError(roster.ErrNotEnrolled, "X", "a@b"), http.StatusBadRequest, "Student is not registered for this activity"},
			{roster.NewError(roster.ErrActivityFull, "X", "a@b"), http.StatusBadRequest, "Activity is full"},
			{errors.New("disk on fire"), http.StatusInternalServerError, "Internal Server Error"},
		}

		for _, c := range cases {
			w := httptest.NewRecorder()
			writeRosterError(w, Wrap("api.test", c.err))
			So(w.Code, ShouldEqual, c.status)
			So(w.Body.String(), ShouldContainSubstring, c.detail)
		}
	})
}

func TestErrorClassification(t *testing.T) {
	Convey("Given HTTP status codes", t, func() {
		So(getErrorType(500), ShouldEqual, "server_error")
		So(getErrorType(422), ShouldEqual, "validation_error")
		So(getErrorType(405), ShouldEqual, "method_not_allowed")
		So(getErrorType(404), ShouldEqual, "not_found")
		So(getErrorType(400), ShouldEqual, "client_error")
		So(getErrorType(200), ShouldEqual, "unknown")

		So(getErrorSeverity(503), ShouldEqual, "high")
		So(getErrorSeverity(404), ShouldEqual, "medium")
		So(getErrorSeverity(200), ShouldEqual, "low")
	})
}
