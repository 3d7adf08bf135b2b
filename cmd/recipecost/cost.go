package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"recipecost/internal/costing"
)

var (
	costPrice        string
	costQuantity     string
	costPurchaseUnit string
	costRecipeUnit   string
)

var costCmd = &cobra.Command{
	Use:   "cost",
	Short: "Compute the cost of one recipe unit of a material",
	Example: "  recipecost cost --price 5,50 --qty 1 --purchase-unit kg --recipe-unit g",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, cost, err := costing.ParseMaterialCost(costing.MaterialPurchaseForm{
			Name:         "material",
			Price:        costPrice,
			Quantity:     costQuantity,
			PurchaseUnit: costPurchaseUnit,
			RecipeUnit:   costRecipeUnit,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cost per %s: %s\n", in.RecipeUnit, decimal.NewFromFloat(cost).StringFixed(4))
		return nil
	},
}

func init() {
	costCmd.Flags().StringVar(&costPrice, "price", "", "Purchase price")
	costCmd.Flags().StringVar(&costQuantity, "qty", "", "Purchased quantity")
	costCmd.Flags().StringVar(&costPurchaseUnit, "purchase-unit", "", "Unit the material is bought in (g, kg, ml, L, un)")
	costCmd.Flags().StringVar(&costRecipeUnit, "recipe-unit", "", "Unit recipes use (g, kg, ml, L, un)")
	for _, name := range []string{"price", "qty", "purchase-unit", "recipe-unit"} {
		_ = costCmd.MarkFlagRequired(name)
	}
}
