package vocab_test

import (
	"errors"
	"testing"

	"github.com/okian/fareprice/internal/domain/vocab"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaultSet(t *testing.T) {
	Convey("Given the default vocabularies", t, func() {
		set := vocab.Default()

		Convey("Then block widths should match the trained layout", func() {
			So(set.Airlines.Len(), ShouldEqual, 12)
			So(set.Sources.Len(), ShouldEqual, 5)
			So(set.Destinations.Len(), ShouldEqual, 6)
			So(set.Stops.Max(), ShouldEqual, 4)
		})

		Convey("And SpiceJet should sit at index 8", func() {
			i, err := set.Airlines.Index("SpiceJet")
			So(err, ShouldBeNil)
			So(i, ShouldEqual, 8)
		})

		Convey("And categorical vocabularies should come in vector order", func() {
			cats := set.Categorical()
			So(len(cats), ShouldEqual, 3)
			So(cats[0].Name(), ShouldEqual, vocab.FieldAirline)
			So(cats[1].Name(), ShouldEqual, vocab.FieldSource)
			So(cats[2].Name(), ShouldEqual, vocab.FieldDestination)
		})
	})
}

func TestVocabularyIndex(t *testing.T) {
	Convey("Given the airline vocabulary", t, func() {
		airlines := vocab.Default().Airlines

		Convey("When looking up an unknown label", func() {
			i, err := airlines.Index("FakeAir")

			Convey("Then it should fail with an InvalidCategoryError", func() {
				So(i, ShouldEqual, -1)
				So(errors.Is(err, vocab.ErrInvalidCategory), ShouldBeTrue)

				var ic *vocab.InvalidCategoryError
				So(errors.As(err, &ic), ShouldBeTrue)
				So(ic.Field, ShouldEqual, "airline")
				So(ic.Value, ShouldEqual, "FakeAir")
				So(err.Error(), ShouldContainSubstring, `"FakeAir"`)
			})
		})

		Convey("When looking up a label with different case", func() {
			_, err := airlines.Index("spicejet")

			Convey("Then matching should be exact", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestVocabularySorted(t *testing.T) {
	Convey("Given a vocabulary out of alphabetical order", t, func() {
		v := vocab.New("colour", "red", "blue", "green")

		Convey("When asking for display order", func() {
			sorted := v.Sorted()

			Convey("Then labels should be sorted without changing indexes", func() {
				So(sorted, ShouldResemble, []string{"blue", "green", "red"})
				i, _ := v.Index("red")
				So(i, ShouldEqual, 0)
				So(v.Labels(), ShouldResemble, []string{"red", "blue", "green"})
			})
		})

		Convey("When mutating a returned slice", func() {
			labels := v.Labels()
			labels[0] = "purple"

			Convey("Then the vocabulary should be unaffected", func() {
				So(v.Contains("red"), ShouldBeTrue)
				So(v.Contains("purple"), ShouldBeFalse)
			})
		})
	})
}

func TestStops(t *testing.T) {
	Convey("Given the default stops mapping", t, func() {
		stops := vocab.Default().Stops

		Convey("Then labels should resolve to their counts", func() {
			n, err := stops.Resolve("2 stops")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)

			n, err = stops.Resolve("non-stop")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 0)
		})

		Convey("And Label should invert Resolve", func() {
			for _, l := range stops.Labels() {
				n, err := stops.Resolve(l)
				So(err, ShouldBeNil)
				back, err := stops.Label(n)
				So(err, ShouldBeNil)
				So(back, ShouldEqual, l)
			}
		})

		Convey("And unknown inputs should be rejected", func() {
			_, err := stops.Resolve("5 stops")
			So(errors.Is(err, vocab.ErrInvalidCategory), ShouldBeTrue)

			_, err = stops.Label(7)
			var ic *vocab.InvalidCategoryError
			So(errors.As(err, &ic), ShouldBeTrue)
			So(ic.Field, ShouldEqual, vocab.FieldTotalStops)
			So(ic.Value, ShouldEqual, "7")
		})
	})
}
