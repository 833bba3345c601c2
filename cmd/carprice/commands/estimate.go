package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sozercan/carprice/apimodels"
)

func (c *CLI) newEstimateCmd() *cobra.Command {
	var (
		req     apimodels.EstimateRequest
		explain bool
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the price of one car",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.Estimator.Estimate(cmd.Context(), req)
			if err != nil {
				return err
			}

			if explain {
				fmt.Fprintf(c.out, "%-20s %12.4f\n", "base", resp.BasePrice)
				for _, step := range resp.Adjustments {
					fmt.Fprintf(c.out, "%-20s %12.4f\n", step.Name, step.Total)
				}
			}
			fmt.Fprintf(c.out, "Estimated price: %s %s\n", resp.DisplayPrice, resp.Unit)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Manufacturer, "manufacturer", "", "car manufacturer")
	f.StringVar(&req.Location, "location", "", "city the car is sold in")
	f.StringVar(&req.FuelType, "fuel-type", "", "fuel type")
	f.StringVar(&req.Transmission, "transmission", "", "Manual or Automatic")
	f.StringVar(&req.OwnerType, "owner-type", "First", "number of previous owners")
	f.IntVar(&req.Year, "year", 0, "model year")
	f.Float64Var(&req.KilometersDriven, "kilometers", 0, "kilometers driven")
	f.Float64Var(&req.EngineCC, "engine-cc", 0, "engine displacement in CC")
	f.Float64Var(&req.PowerBHP, "power", 0, "power in bhp")
	f.Float64Var(&req.Seats, "seats", 5, "number of seats")
	f.Float64Var(&req.MileageKmpl, "mileage", 0, "fuel economy in km/l")

	f.IntVar(&req.ConditionRating, "condition", 3, "condition rating, 1 to 5")
	f.StringVar(&req.TrafficViolation, "traffic-violation", "No", "Yes or No")
	f.StringVar(&req.UseCase, "use-case", "Personal", "Personal, Commercial or Rental")
	f.StringVar(&req.Warranty, "warranty", "No", "Yes or No")
	f.IntVar(&req.ListingDurationDays, "listing-days", 0, "days the car has been listed")
	f.IntVar(&req.VehicleRating, "vehicle-rating", 3, "vehicle rating, 1 to 5")
	f.StringVar(&req.VehicleType, "vehicle-type", "Standard", "Standard, SUV or Luxury")

	f.BoolVar(&explain, "explain", false, "print the running total after each adjustment")

	for _, name := range []string{"manufacturer", "location", "fuel-type", "transmission", "year"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
