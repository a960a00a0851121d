package probe

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/okian/fareprice/internal/domain/encoding"
	"github.com/okian/fareprice/internal/domain/model"
	"github.com/okian/fareprice/pkg/logger"
)

// Generator draws random itineraries from a set of vocabularies.
type Generator struct {
	vocabs       Vocabularies
	invalidRatio float64
	rng          *rand.Rand
}

// NewGenerator returns a Generator. The same seed and vocabularies always
// yield the same sequence of cases.
func NewGenerator(vocabs Vocabularies, invalidRatio float64, seed uint64) (*Generator, error) {
	if len(vocabs.Airlines) == 0 || len(vocabs.Sources) == 0 ||
		len(vocabs.Destinations) == 0 || len(vocabs.TotalStops) == 0 {
		return nil, fmt.Errorf("%w: empty vocabulary", ErrConfig)
	}
	if invalidRatio < 0 || invalidRatio > 1 {
		return nil, fmt.Errorf("%w: invalid ratio %v outside [0,1]", ErrConfig, invalidRatio)
	}
	return &Generator{
		vocabs:       vocabs,
		invalidRatio: invalidRatio,
		rng:          rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}, nil
}

// Next returns one case.
func (g *Generator) Next() Case {
	// Training data spans March through June.
	month := time.Month(3 + g.rng.IntN(4))
	date := time.Date(journeyYear, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, g.rng.IntN(daysIn(month)))

	dep := g.timeOfDay()
	arr := g.timeOfDay()

	c := Case{
		Itinerary: Itinerary{
			JourneyDate:   date.Format(model.DateLayout),
			DepartureTime: dep.String(),
			ArrivalTime:   arr.String(),
			Airline:       pick(g.rng, g.vocabs.Airlines),
			Source:        pick(g.rng, g.vocabs.Sources),
			Destination:   pick(g.rng, g.vocabs.Destinations),
			TotalStops:    pick(g.rng, g.vocabs.TotalStops),
		},
		ExpectMinutes: int(encoding.Duration(dep, arr)),
	}
	if g.rng.Float64() < g.invalidRatio {
		c.Itinerary.Airline = UnknownAirline
		c.ExpectInvalid = true
	}
	return c
}

// Generate returns n cases.
func (g *Generator) Generate(n int) []Case {
	out := make([]Case, n)
	for i := range out {
		out[i] = g.Next()
	}
	return out
}

func (g *Generator) timeOfDay() model.TimeOfDay {
	// Five-minute steps, like published schedules.
	m := g.rng.IntN(minutesPerDay/5) * 5
	return model.TimeOfDay{Hour: m / 60, Minute: m % 60}
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.IntN(len(values))]
}

func daysIn(m time.Month) int {
	return time.Date(journeyYear, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// generateCases builds the full case list for a run.
func generateCases(ctx context.Context, config *Config, vocabs Vocabularies, stats *Stats) ([]Case, error) {
	gen, err := NewGenerator(vocabs, config.InvalidRatio, config.Seed)
	if err != nil {
		return nil, err
	}
	cases := gen.Generate(config.Count)

	stats.Generated = len(cases)
	for _, c := range cases {
		if c.ExpectInvalid {
			stats.Invalid++
		}
	}
	logger.Get().Info(ctx, "generated itineraries",
		logger.Int("count", stats.Generated),
		logger.Int("invalid", stats.Invalid),
	)
	return cases, nil
}
