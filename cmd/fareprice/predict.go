package main

import (
	"encoding/json"
	"fmt"

	app "github.com/okian/fareprice/internal/app"
	"github.com/spf13/cobra"
)

type predictOutput struct {
	Price           float64            `json:"price"`
	DisplayPrice    int64              `json:"display_price"`
	FormattedPrice  string             `json:"formatted_price"`
	DurationMinutes int                `json:"duration_minutes"`
	Duration        string             `json:"duration"`
	Features        map[string]float64 `json:"features,omitempty"`
}

func newPredictCmd() *cobra.Command {
	var (
		req       app.Request
		modelPath string
		asJSON    bool
		explain   bool
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the fare of a single itinerary",
		Example: `  fareprice predict --date 2019-03-24 --departure 22:20 --arrival 01:10 \
    --airline IndiGo --source Banglore --destination "New Delhi" --stops non-stop`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFrom(cmd)
			if modelPath != "" {
				cfg.ModelPath = modelPath
			}
			ctx := cmd.Context()

			svc, err := loadService(ctx, cfg)
			if err != nil {
				return err
			}
			in, err := svc.Parse(req)
			if err != nil {
				return err
			}
			q, err := svc.Quote(ctx, in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !asJSON {
				_, err = fmt.Fprintf(out, "Predicted Flight Price: %s (%s)\n", q.Formatted, q.Duration)
				return err
			}

			res := predictOutput{
				Price:           q.Price.Value,
				DisplayPrice:    q.Price.Display,
				FormattedPrice:  q.Formatted,
				DurationMinutes: int(q.Duration),
				Duration:        q.Duration.String(),
			}
			if explain {
				res.Features = make(map[string]float64, len(q.Features))
				for i, name := range svc.Layout() {
					res.Features[name] = q.Features[i]
				}
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.JourneyDate, "date", "", "journey date, YYYY-MM-DD")
	f.StringVar(&req.DepartureTime, "departure", "", "departure time, HH:MM")
	f.StringVar(&req.ArrivalTime, "arrival", "", "arrival time, HH:MM")
	f.StringVar(&req.Airline, "airline", "", "airline name")
	f.StringVar(&req.Source, "source", "", "source city")
	f.StringVar(&req.Destination, "destination", "", "destination city")
	f.StringVar(&req.TotalStops, "stops", "non-stop", "stops label: non-stop, 1 stop ... 4 stops")
	f.StringVar(&modelPath, "model", "", "model artifact path (overrides FARE_MODEL_PATH)")
	f.BoolVar(&asJSON, "json", false, "print the full result as JSON")
	f.BoolVar(&explain, "explain", false, "include the encoded features in JSON output")
	for _, name := range []string{"date", "departure", "arrival", "airline", "source", "destination"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
