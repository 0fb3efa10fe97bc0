package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cartwise/grocery-service/internal/catalog"
	"github.com/cartwise/grocery-service/internal/database"
	"github.com/cartwise/grocery-service/internal/geocode"
	"github.com/cartwise/grocery-service/internal/handlers"
	"github.com/cartwise/grocery-service/internal/optimizer"
)

var optimizeZip string

// optimizeCmd represents the optimize command
var optimizeCmd = &cobra.Command{
	Use:   "optimize <item>...",
	Short: "Compute multi-store shopping trip plans for a shopping list",
	Long: `Compute the three alternative trip plans (price-optimized,
distance-optimized, convenience-optimized) for the given shopping list and
shopper zip code, and print them as JSON.`,
	Example: `  grocery-service optimize milk eggs bread --zip 90210`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runOptimize,
}

func init() {
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().StringVar(&optimizeZip, "zip", "", "Shopper zip code (required)")
	optimizeCmd.MarkFlagRequired("zip")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	repo := catalog.NewRepository(database.Pool())
	geocoder := geocode.Cached(geocode.NewClient(geocode.ClientConfig{
		BaseURL:           cfg.Geocoder.BaseURL,
		Country:           cfg.Geocoder.Country,
		Timeout:           cfg.Geocoder.Timeout,
		RequestsPerSecond: cfg.Geocoder.RequestsPerSecond,
		Burst:             cfg.Geocoder.Burst,
	}))
	svc := optimizer.NewService(repo, geocoder)

	plans, err := svc.Optimize(ctx, args, optimizeZip)
	if err != nil {
		return fmt.Errorf("optimize trip: %w", err)
	}

	out := handlers.OptimizeResponse{
		PriceOptimized:       handlers.NewTripPlanResponse(plans.PriceOptimized),
		DistanceOptimized:    handlers.NewTripPlanResponse(plans.DistanceOptimized),
		ConvenienceOptimized: handlers.NewTripPlanResponse(plans.ConvenienceOptimized),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
