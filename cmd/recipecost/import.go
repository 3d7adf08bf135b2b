package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"recipecost/internal/config"
	"recipecost/internal/costing"
	"recipecost/internal/db"
	"recipecost/internal/store"
	"recipecost/models"
)

var (
	loadConfigFunc   = config.Load
	openDatabaseFunc = db.Configure
)

var importOwnerEmail string

var importCmd = &cobra.Command{
	Use:   "import-materials <csv>",
	Short: "Register materials from a CSV file",
	Long: "Reads a CSV with the header name,price,quantity,purchase_unit,recipe_unit and registers every row " +
		"as a material of --owner (the oldest account when omitted). Invalid rows are reported and skipped.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfigFunc()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		database, err := openDatabaseFunc(cfg.Database)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}

		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open csv: %w", err)
		}
		defer file.Close()

		forms, err := readMaterialCSV(file)
		if err != nil {
			return fmt.Errorf("read csv: %w", err)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		owner, err := resolveImportOwner(ctx, database, importOwnerEmail)
		if err != nil {
			return fmt.Errorf("resolve owner: %w", err)
		}

		imported, failed := importMaterials(ctx, store.New(database), owner, forms, cmd.ErrOrStderr())
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d materials from %s for %s\n", imported, filepath.Base(args[0]), owner.Name)
		if failed > 0 {
			return fmt.Errorf("%d rows were rejected", failed)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importOwnerEmail, "owner", "", "Email of the account that will own the materials")
}

// csvRow keeps the line number next to the form for error reports.
type csvRow struct {
	line int
	form costing.MaterialPurchaseForm
}

var materialColumns = []string{"name", "price", "quantity", "purchase_unit", "recipe_unit"}

func readMaterialCSV(r io.Reader) ([]csvRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("csv is empty")
	}
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(header))
	for idx, key := range header {
		index[strings.ToLower(strings.TrimSpace(key))] = idx
	}
	for _, column := range materialColumns {
		if _, ok := index[column]; !ok {
			return nil, fmt.Errorf("missing column %q", column)
		}
	}

	value := func(row []string, column string) string {
		idx := index[column]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var records []csvRow
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		// Blank lines are skipped and quoted fields may span lines, so ask
		// the reader where the record started.
		line, _ := reader.FieldPos(0)
		records = append(records, csvRow{
			line: line,
			form: costing.MaterialPurchaseForm{
				Name:         value(row, "name"),
				Price:        value(row, "price"),
				Quantity:     value(row, "quantity"),
				PurchaseUnit: value(row, "purchase_unit"),
				RecipeUnit:   value(row, "recipe_unit"),
			},
		})
	}
	return records, nil
}

func resolveImportOwner(ctx context.Context, database *gorm.DB, email string) (store.Owner, error) {
	if database == nil {
		return store.Owner{}, gorm.ErrInvalidDB
	}

	var user models.User
	query := database.WithContext(ctx)
	if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
		if err := query.Where("lower(email) = ?", email).First(&user).Error; err != nil {
			return store.Owner{}, fmt.Errorf("find owner by email %q: %w", email, err)
		}
	} else if err := query.Order("id asc").First(&user).Error; err != nil {
		return store.Owner{}, fmt.Errorf("find default owner: %w", err)
	}
	return store.Owner{ID: user.ID, Name: user.DisplayName()}, nil
}

func importMaterials(ctx context.Context, s *store.Store, owner store.Owner, rows []csvRow, report io.Writer) (imported, failed int) {
	for _, row := range rows {
		in, cost, err := costing.ParseMaterialCost(row.form)
		if err == nil {
			_, err = s.AddMaterial(ctx, owner, in, cost)
		}
		if err != nil {
			fmt.Fprintf(report, "line %d (%s): %v\n", row.line, row.form.Name, err)
			failed++
			continue
		}
		imported++
	}
	return imported, failed
}
