package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"recipecost/internal/costing"
)

var priceMargin string

var priceCmd = &cobra.Command{
	Use:   "price <cost>...",
	Short: "Sum ingredient costs and suggest a sale price",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		margin, err := costing.ParseMargin(priceMargin)
		if err != nil {
			return err
		}

		ingredients := make([]costing.RecipeIngredient, 0, len(args))
		for _, arg := range args {
			cost, err := costing.ParseNumber(arg)
			if err != nil || cost < 0 || math.IsInf(cost, 0) || math.IsNaN(cost) {
				return fmt.Errorf("%w: cost %q must be a non-negative number", costing.ErrInvalidInput, arg)
			}
			ingredients = append(ingredients, costing.RecipeIngredient{Quantity: 1, Cost: cost})
		}

		totals, err := costing.PriceRecipe(ingredients, margin)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Total cost: %s\n", costing.FormatMoney(totals.TotalCost))
		fmt.Fprintf(out, "Margin: %g%%\n", totals.MarginPercent)
		fmt.Fprintf(out, "Suggested price: %s\n", costing.FormatMoney(totals.SuggestedSalePrice))
		return nil
	},
}

func init() {
	priceCmd.Flags().StringVar(&priceMargin, "margin", "", "Profit margin in percent (blank uses 100)")
}
