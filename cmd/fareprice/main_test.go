package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/fareprice/internal/adapters/artifact"
	"github.com/okian/fareprice/internal/config"
	"github.com/okian/fareprice/internal/domain/encoding"
	"github.com/okian/fareprice/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// writeModel stores a linear artifact priced at 3000 + 1000 per stop.
func writeModel(t *testing.T) string {
	t.Helper()
	layout := encoding.New(nil).Layout()
	coef := make([]float64, len(layout))
	coef[0] = 1000
	raw, err := json.Marshal(artifact.Artifact{
		Format:   artifact.FormatV1,
		Kind:     artifact.KindLinear,
		Name:     "cli-test",
		Features: layout,
		Linear:   &artifact.Linear{Intercept: 3000, Coefficients: coef},
	})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	Convey("Given the root command", t, func() {
		root := newRootCmd()

		Convey("Then it should expose every subcommand", func() {
			names := map[string]bool{}
			for _, c := range root.Commands() {
				names[c.Name()] = true
			}
			So(names["serve"], ShouldBeTrue)
			So(names["predict"], ShouldBeTrue)
			So(names["probe"], ShouldBeTrue)
		})

		Convey("Then serve should accept address and model overrides", func() {
			serve, _, err := root.Find([]string{"serve"})
			So(err, ShouldBeNil)
			So(serve.Flags().Lookup("addr"), ShouldNotBeNil)
			So(serve.Flags().Lookup("model"), ShouldNotBeNil)
		})
	})
}

func TestPredictCommand(t *testing.T) {
	Convey("Given a model artifact on disk", t, func() {
		path := writeModel(t)
		base := []string{"predict", "--model", path,
			"--date", "2019-03-24", "--departure", "09:45", "--arrival", "19:10",
			"--airline", "SpiceJet", "--source", "Delhi", "--destination", "Cochin",
			"--stops", "1 stop"}

		Convey("When predicting with plain output", func() {
			out, err := run(base...)

			Convey("Then the formatted price and duration should be printed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldEqual, "Predicted Flight Price: ₹ 4,000 (9h 25m)\n")
			})
		})

		Convey("When predicting with JSON output and features", func() {
			out, err := run(append(base, "--json", "--explain")...)

			Convey("Then the result should carry every field", func() {
				So(err, ShouldBeNil)
				var res predictOutput
				So(json.Unmarshal([]byte(out), &res), ShouldBeNil)
				So(res.Price, ShouldEqual, 4000)
				So(res.DisplayPrice, ShouldEqual, 4000)
				So(res.DurationMinutes, ShouldEqual, 565)
				So(res.Features, ShouldHaveLength, 31)
			})
		})

		Convey("When the airline is unknown", func() {
			_, err := run(append(base, "--airline", "Nowhere Air")...)

			Convey("Then the command should fail", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "Nowhere Air")
			})
		})

		Convey("When the model path does not exist", func() {
			_, err := run(append(base, "--model", filepath.Join(t.TempDir(), "missing.json"))...)

			Convey("Then the command should fail before predicting", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestNewHandler(t *testing.T) {
	Convey("Given a handler built around a loaded model", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.ModelPath = writeModel(t)

		svc, err := loadService(ctx, cfg)
		So(err, ShouldBeNil)
		h := newHandler(ctx, cfg, svc)

		Convey("Then every surface should be mounted", func() {
			for _, path := range []string{"/", "/healthz", "/api/vocabularies", "/api/model", "/api-docs", "/openapi.yaml"} {
				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
				So(rec.Code, ShouldEqual, http.StatusOK)
			}
		})
	})
}
