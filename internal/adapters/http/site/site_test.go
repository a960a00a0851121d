package site

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	service "github.com/okian/fareprice/internal/app"
	"github.com/okian/fareprice/internal/domain/prediction"
	"github.com/okian/fareprice/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func fixedClock() time.Time { return time.Date(2019, time.March, 24, 8, 0, 0, 0, time.UTC) }

func newSiteMux(p prediction.Predictor) *http.ServeMux {
	svc := service.New(service.WithPredictor(p))
	mux := http.NewServeMux()
	Register(context.Background(), mux, svc, WithClock(fixedClock))
	return mux
}

func formBody() url.Values {
	return url.Values{
		"journey_date":   {"2019-03-24"},
		"departure_time": {"09:45"},
		"arrival_time":   {"19:10"},
		"airline":        {"SpiceJet"},
		"source":         {"Delhi"},
		"destination":    {"Cochin"},
		"total_stops":    {"1 stop"},
	}
}

func post(mux *http.ServeMux, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestSiteHandler(t *testing.T) {
	Convey("Given a site handler", t, func() {
		mux := newSiteMux(&prediction.FixedPredictor{Value: 5000.7})

		Convey("When requesting the form", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
			body := w.Body.String()

			Convey("Then it should render HTML with defaults", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				So(body, ShouldContainSubstring, `value="2019-03-24"`)
				So(body, ShouldContainSubstring, `value="09:45"`)
				So(body, ShouldContainSubstring, `value="19:10"`)
				So(body, ShouldContainSubstring, "Calculated Duration: 9h 25m")
			})

			Convey("And selectors should be sorted for display", func() {
				So(strings.Index(body, ">Air Asia<"), ShouldBeLessThan, strings.Index(body, ">Vistara<"))
				So(strings.Index(body, ">GoAir<"), ShouldBeLessThan, strings.Index(body, ">IndiGo<"))
				So(body, ShouldContainSubstring, ">non-stop<")
			})

			Convey("And no result should be shown", func() {
				So(body, ShouldNotContainSubstring, "Predicted Flight Price")
				So(body, ShouldContainSubstring, "March-June 2019")
			})
		})

		Convey("When submitting a valid form", func() {
			w := post(mux, formBody())
			body := w.Body.String()

			Convey("Then the rounded price should be displayed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(body, ShouldContainSubstring, "Predicted Flight Price: ₹ 5,001")
			})

			Convey("And the travel details should be listed", func() {
				So(body, ShouldContainSubstring, "24 March, 2019")
				So(body, ShouldContainSubstring, "<strong>Duration:</strong> 9h 25m")
				So(body, ShouldContainSubstring, "<strong>Total Stops:</strong> 1 Stop")
				So(body, ShouldContainSubstring, "<strong>Airline:</strong> SpiceJet")
			})

			Convey("And the submitted values should stay selected", func() {
				So(body, ShouldContainSubstring, `<option value="SpiceJet" selected>`)
				So(body, ShouldContainSubstring, `<option value="1 stop" selected>`)
			})
		})

		Convey("When submitting an overnight flight", func() {
			form := formBody()
			form.Set("departure_time", "22:30")
			form.Set("arrival_time", "01:15")
			w := post(mux, form)

			Convey("Then the duration should wrap past midnight", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "<strong>Duration:</strong> 2h 45m")
			})
		})

		Convey("When submitting an unknown airline", func() {
			form := formBody()
			form.Set("airline", "Pan Am")
			w := post(mux, form)

			Convey("Then the rejection should be rendered", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(w.Body.String(), ShouldContainSubstring, "Unknown airline: Pan Am")
				So(w.Body.String(), ShouldNotContainSubstring, "Predicted Flight Price")
			})
		})

		Convey("When submitting a malformed time", func() {
			form := formBody()
			form.Set("arrival_time", "7pm")
			w := post(mux, form)

			Convey("Then a bad request should be rendered", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "arrival_time")
			})
		})

		Convey("When requesting the stylesheet", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/static/style.css", nil))

			Convey("Then it should be served", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/css")
			})
		})

		Convey("When requesting an unknown path", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/some-asset", nil))

			Convey("Then it should 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When using an unsupported method", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("DELETE", "/", nil))

			Convey("Then it should be refused", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})
	})

	Convey("Given a site whose predictor fails", t, func() {
		mux := newSiteMux(&prediction.FixedPredictor{Err: errors.New("boom")})

		Convey("When submitting a valid form", func() {
			w := post(mux, formBody())

			Convey("Then a generic failure should be rendered", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(w.Body.String(), ShouldContainSubstring, "could not be predicted")
			})
		})
	})
}

func TestSiteHandlerWithNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		Convey("Then registering should panic", func() {
			So(func() {
				Register(context.Background(), nil, service.New())
			}, ShouldPanic)
		})
	})
}
