package artifact_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/okian/fareprice/internal/adapters/artifact"
	"github.com/okian/fareprice/internal/domain/encoding"
	. "github.com/smartystreets/goconvey/convey"
)

// Column indexes in the default layout.
const (
	colStops    = 0
	colDuration = 7
	colSpiceJet = 16
)

func layout() []string { return encoding.New(nil).Layout() }

func linearArtifact() artifact.Artifact {
	coef := make([]float64, len(layout()))
	coef[colStops] = 1500
	coef[colDuration] = 2
	return artifact.Artifact{
		Format:   artifact.FormatV1,
		Kind:     artifact.KindLinear,
		Name:     "ols-test",
		Features: layout(),
		Linear:   &artifact.Linear{Intercept: 1000, Coefficients: coef},
	}
}

func forestArtifact() artifact.Artifact {
	return artifact.Artifact{
		Format:   artifact.FormatV1,
		Kind:     artifact.KindTreeEnsemble,
		Name:     "forest-test",
		Features: layout(),
		Ensemble: &artifact.Ensemble{
			Aggregation: artifact.AggregationMean,
			Trees: []artifact.Tree{
				{Nodes: []artifact.Node{
					{Feature: colSpiceJet, Threshold: 0.5, Left: 1, Right: 2},
					{Left: -1, Right: -1, Value: 8000},
					{Left: -1, Right: -1, Value: 4000},
				}},
				{Nodes: []artifact.Node{
					{Left: -1, Right: -1, Value: 6000},
				}},
			},
		},
	}
}

func writeArtifact(dir string, a any) string {
	raw, err := json.Marshal(a)
	if err != nil {
		panic(err)
	}
	path := filepath.Join(dir, "model.json")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		panic(err)
	}
	return path
}

func row(set map[int]float64) []float64 {
	r := make([]float64, len(layout()))
	for i, v := range set {
		r[i] = v
	}
	return r
}

func TestLoad_StartupErrors(t *testing.T) {
	Convey("Given artifact paths", t, func() {
		ctx := context.Background()
		dir := t.TempDir()

		Convey("When the file does not exist", func() {
			m, err := artifact.Load(ctx, filepath.Join(dir, "absent.json"), layout())

			Convey("Then ErrModelArtifactMissing should be returned", func() {
				So(m, ShouldBeNil)
				So(errors.Is(err, artifact.ErrModelArtifactMissing), ShouldBeTrue)
				var se *artifact.StartupError
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Path, ShouldEndWith, "absent.json")
			})
		})

		Convey("When the file is not JSON", func() {
			path := filepath.Join(dir, "garbage.json")
			So(os.WriteFile(path, []byte("\x80\x04pickle"), 0o600), ShouldBeNil)
			_, err := artifact.Load(ctx, path, layout())

			Convey("Then ErrModelArtifactUnreadable should be returned", func() {
				So(errors.Is(err, artifact.ErrModelArtifactUnreadable), ShouldBeTrue)
				So(errors.Is(err, artifact.ErrModelArtifactMissing), ShouldBeFalse)
			})
		})

		Convey("When the feature order differs from the encoder", func() {
			a := linearArtifact()
			a.Features = layout()
			a.Features[8], a.Features[9] = a.Features[9], a.Features[8]
			_, err := artifact.Load(ctx, writeArtifact(dir, a), layout())

			Convey("Then the artifact should be rejected as incompatible", func() {
				So(errors.Is(err, artifact.ErrModelArtifactUnreadable), ShouldBeTrue)
				So(errors.Is(err, artifact.ErrIncompatibleLayout), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "column 8")
			})
		})

		Convey("When the feature count differs", func() {
			a := linearArtifact()
			a.Features = a.Features[:30]
			_, err := artifact.Load(ctx, writeArtifact(dir, a), layout())

			Convey("Then the artifact should be rejected", func() {
				So(errors.Is(err, artifact.ErrIncompatibleLayout), ShouldBeTrue)
			})
		})

		Convey("When the kind is unknown", func() {
			a := linearArtifact()
			a.Kind = "svm"
			_, err := artifact.Load(ctx, writeArtifact(dir, a), layout())

			Convey("Then ErrUnsupportedKind should be returned", func() {
				So(errors.Is(err, artifact.ErrUnsupportedKind), ShouldBeTrue)
			})
		})

		Convey("When the format tag is wrong", func() {
			a := linearArtifact()
			a.Format = "sklearn.pickle"
			_, err := artifact.Load(ctx, writeArtifact(dir, a), layout())

			Convey("Then loading should fail", func() {
				So(errors.Is(err, artifact.ErrModelArtifactUnreadable), ShouldBeTrue)
			})
		})

		Convey("When the coefficient count is wrong", func() {
			a := linearArtifact()
			a.Linear.Coefficients = a.Linear.Coefficients[:10]
			_, err := artifact.Load(ctx, writeArtifact(dir, a), layout())

			Convey("Then ErrMalformedModel should be returned", func() {
				So(errors.Is(err, artifact.ErrMalformedModel), ShouldBeTrue)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := artifact.Load(cctx, writeArtifact(dir, linearArtifact()), layout())

			Convey("Then loading should stop", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestLinearModel(t *testing.T) {
	Convey("Given a loaded linear artifact", t, func() {
		ctx := context.Background()
		m, err := artifact.Load(ctx, writeArtifact(t.TempDir(), linearArtifact()), layout())
		So(err, ShouldBeNil)

		Convey("Then info should describe it", func() {
			info := m.Info()
			So(info.Kind, ShouldEqual, artifact.KindLinear)
			So(info.Name, ShouldEqual, "ols-test")
			So(info.Features, ShouldEqual, 31)
			So(len(info.Digest), ShouldEqual, 64)
			So(info.Path, ShouldEndWith, "model.json")
		})

		Convey("When predicting a batch", func() {
			out, err := m.Predict(ctx, [][]float64{
				row(map[int]float64{colDuration: 565}),
				row(map[int]float64{colStops: 2, colDuration: 45}),
			})

			Convey("Then each row should be X·w + b", func() {
				So(err, ShouldBeNil)
				So(out, ShouldResemble, []float64{2130, 4090})
			})
		})

		Convey("When predicting an empty batch", func() {
			out, err := m.Predict(ctx, nil)

			Convey("Then the output should be empty", func() {
				So(err, ShouldBeNil)
				So(len(out), ShouldEqual, 0)
			})
		})

		Convey("When a row has the wrong width", func() {
			_, err := m.Predict(ctx, [][]float64{{1, 2, 3}})

			Convey("Then ErrRowWidth should be returned", func() {
				So(errors.Is(err, artifact.ErrRowWidth), ShouldBeTrue)
			})
		})
	})
}

func TestTreeEnsemble(t *testing.T) {
	Convey("Given a random-forest artifact", t, func() {
		ctx := context.Background()
		m, err := artifact.Decode(mustJSON(forestArtifact()), layout())
		So(err, ShouldBeNil)

		Convey("Then info should count the trees", func() {
			So(m.Info().Trees, ShouldEqual, 2)
		})

		Convey("When the row is a SpiceJet flight", func() {
			out, err := m.Predict(ctx, [][]float64{row(map[int]float64{colSpiceJet: 1})})

			Convey("Then trees should be averaged along the right branch", func() {
				So(err, ShouldBeNil)
				So(out[0], ShouldEqual, 5000)
			})
		})

		Convey("When the row is another airline", func() {
			out, err := m.Predict(ctx, [][]float64{row(nil)})

			Convey("Then the left branch should be taken", func() {
				So(err, ShouldBeNil)
				So(out[0], ShouldEqual, 7000)
			})
		})
	})

	Convey("Given a boosted artifact", t, func() {
		a := forestArtifact()
		a.Ensemble.Aggregation = artifact.AggregationSum
		a.Ensemble.BaseScore = 100
		a.Ensemble.LearningRate = 0.5
		m, err := artifact.Decode(mustJSON(a), layout())
		So(err, ShouldBeNil)

		Convey("Then outputs should be base + rate * sum", func() {
			out, err := m.Predict(context.Background(), [][]float64{row(nil)})
			So(err, ShouldBeNil)
			So(out[0], ShouldEqual, 100+0.5*(8000+6000))
		})
	})

	Convey("Given malformed trees", t, func() {
		Convey("When a child points back to its parent", func() {
			a := forestArtifact()
			a.Ensemble.Trees[0].Nodes[0].Left = 0
			_, err := artifact.Decode(mustJSON(a), layout())

			Convey("Then the artifact should be rejected", func() {
				So(errors.Is(err, artifact.ErrMalformedModel), ShouldBeTrue)
			})
		})

		Convey("When a split references a feature past the layout", func() {
			a := forestArtifact()
			a.Ensemble.Trees[0].Nodes[0].Feature = 31
			_, err := artifact.Decode(mustJSON(a), layout())

			Convey("Then the artifact should be rejected", func() {
				So(errors.Is(err, artifact.ErrMalformedModel), ShouldBeTrue)
			})
		})

		Convey("When the ensemble has no trees", func() {
			a := forestArtifact()
			a.Ensemble.Trees = nil
			_, err := artifact.Decode(mustJSON(a), layout())

			Convey("Then the artifact should be rejected", func() {
				So(errors.Is(err, artifact.ErrModelArtifactUnreadable), ShouldBeTrue)
			})
		})
	})
}

func TestModel_ConcurrentReads(t *testing.T) {
	Convey("Given a loaded model shared by many goroutines", t, func() {
		m, err := artifact.Decode(mustJSON(forestArtifact()), layout())
		So(err, ShouldBeNil)

		const readers = 32
		results := make([]float64, readers)
		errs := make([]error, readers)
		var wg sync.WaitGroup
		for i := 0; i < readers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				out, err := m.Predict(context.Background(), [][]float64{row(map[int]float64{colSpiceJet: 1})})
				errs[i] = err
				if err == nil {
					results[i] = out[0]
				}
			}(i)
		}
		wg.Wait()

		Convey("Then every reader should see the same prediction", func() {
			for i := 0; i < readers; i++ {
				So(errs[i], ShouldBeNil)
				So(results[i], ShouldEqual, 5000)
			}
		})
	})
}

func mustJSON(v any) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}
