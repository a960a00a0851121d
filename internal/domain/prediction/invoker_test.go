package prediction_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/okian/fareprice/internal/domain/model"
	"github.com/okian/fareprice/internal/domain/prediction"
	. "github.com/smartystreets/goconvey/convey"
)

func vector(n int) model.FeatureVector { return make(model.FeatureVector, n) }

func TestInvoker_Invoke(t *testing.T) {
	Convey("Given an invoker over a fixed predictor", t, func() {
		ctx := context.Background()
		stub := &prediction.FixedPredictor{Value: 5000.7}
		inv := prediction.NewInvoker(stub, prediction.WithWidth(31))

		Convey("When invoking with a valid vector", func() {
			price, err := inv.Invoke(ctx, vector(31))

			Convey("Then the display price should be rounded", func() {
				So(err, ShouldBeNil)
				So(price.Display, ShouldEqual, 5001)
			})

			Convey("And the unrounded value should remain available", func() {
				So(price.Value, ShouldEqual, 5000.7)
			})

			Convey("And the predictor should be called exactly once", func() {
				So(stub.Calls(), ShouldEqual, 1)
			})
		})

		Convey("When the vector has the wrong width", func() {
			_, err := inv.Invoke(ctx, vector(30))

			Convey("Then a PredictionError should be returned without calling the model", func() {
				So(errors.Is(err, prediction.ErrPrediction), ShouldBeTrue)
				So(errors.Is(err, prediction.ErrWidthMismatch), ShouldBeTrue)
				So(stub.Calls(), ShouldEqual, 0)
			})
		})

		Convey("When the predictor itself fails", func() {
			boom := errors.New("boom")
			failing := prediction.NewInvoker(&prediction.FixedPredictor{Err: boom})
			_, err := failing.Invoke(ctx, vector(31))

			Convey("Then the failure should propagate as a PredictionError", func() {
				var pe *prediction.Error
				So(errors.As(err, &pe), ShouldBeTrue)
				So(errors.Is(err, boom), ShouldBeTrue)
				So(pe.Op, ShouldEqual, "prediction.invoke")
			})
		})

		Convey("When the predictor returns no output", func() {
			empty := prediction.NewInvoker(prediction.PredictorFunc(func(context.Context, [][]float64) ([]float64, error) {
				return nil, nil
			}))
			_, err := empty.Invoke(ctx, vector(31))

			Convey("Then ErrEmptyOutput should be reported", func() {
				So(errors.Is(err, prediction.ErrEmptyOutput), ShouldBeTrue)
			})
		})

		Convey("When the predictor returns NaN", func() {
			nan := prediction.NewInvoker(&prediction.FixedPredictor{Value: math.NaN()})
			_, err := nan.Invoke(ctx, vector(31))

			Convey("Then ErrNonFiniteValue should be reported", func() {
				So(errors.Is(err, prediction.ErrNonFiniteValue), ShouldBeTrue)
			})
		})

		Convey("When the predictor returns a negative value", func() {
			neg := prediction.NewInvoker(&prediction.FixedPredictor{Value: -250.2})
			price, err := neg.Invoke(ctx, vector(31))

			Convey("Then it should pass through unclamped", func() {
				So(err, ShouldBeNil)
				So(price.Value, ShouldEqual, -250.2)
				So(price.Display, ShouldEqual, -250)
			})
		})

		Convey("When no predictor is configured", func() {
			_, err := prediction.NewInvoker(nil).Invoke(ctx, vector(31))

			Convey("Then ErrNoPredictor should be reported", func() {
				So(errors.Is(err, prediction.ErrNoPredictor), ShouldBeTrue)
			})
		})
	})
}

func TestInvoker_SingleRowBatch(t *testing.T) {
	Convey("Given a predictor that records its input", t, func() {
		var seen [][]float64
		p := prediction.PredictorFunc(func(_ context.Context, rows [][]float64) ([]float64, error) {
			seen = rows
			return []float64{1, 2}, nil
		})

		Convey("When invoking", func() {
			vec := vector(31)
			vec[7] = 565
			price, err := prediction.NewInvoker(p).Invoke(context.Background(), vec)

			Convey("Then it should send a one-row batch and read the first output", func() {
				So(err, ShouldBeNil)
				So(len(seen), ShouldEqual, 1)
				So(seen[0][7], ShouldEqual, 565)
				So(price.Value, ShouldEqual, 1)
			})
		})
	})
}

func TestFormatter(t *testing.T) {
	Convey("Given the default formatter", t, func() {
		f := prediction.NewFormatter("")

		Convey("Then amounts should carry the rupee sign and grouping", func() {
			So(f.Format(5001), ShouldEqual, "₹ 5,001")
			So(f.Format(12345), ShouldEqual, "₹ 12,345")
			So(f.Format(999), ShouldEqual, "₹ 999")
		})
	})

	Convey("Given a custom currency symbol", t, func() {
		f := prediction.NewFormatter("INR")

		Convey("Then the symbol should be used as prefix", func() {
			So(f.Format(1500), ShouldEqual, "INR 1,500")
		})
	})
}
