package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/membership-service/internal/models"
)

// seedTypeFamily holds the tiered prices of one subscription family for
// 1, 3 and 6 months.
type seedTypeFamily struct {
	name   string
	prices [3]int
}

var seedTypeFamilies = []seedTypeFamily{
	{"G", [3]int{234, 594, 972}},
	{"ST", [3]int{164, 416, 680}},
	{"E", [3]int{117, 297, 486}},
	{"AE", [3]int{234, 594, 972}},
	{"FM", [3]int{140, 356, 583}},
	{"FC", [3]int{117, 297, 483}},
	{"DI", [3]int{164, 416, 680}},
	{"DM", [3]int{164, 416, 680}},
}

var seedCategories = []string{
	"general",
	"student",
	"elev",
	"agent economic",
	"familie monoparentala",
	"familie cu multi copii",
	"personal didactic",
	"personal medical",
}

var seedMonths = [3]int{1, 3, 6}

// SeedCatalog inserts the static category and subscription-type reference
// data. Existing rows are left untouched, so the call is idempotent and runs
// at every startup.
func (s *Storage) SeedCatalog(ctx context.Context) error {
	const op = "storage.SeedCatalog"

	typeQuery := `INSERT INTO subscription_type (subscription_type_name, months, cost)
				  VALUES ($1, $2, $3)
				  ON CONFLICT (subscription_type_name) DO NOTHING`
	for _, family := range seedTypeFamilies {
		for i, months := range seedMonths {
			name := fmt.Sprintf("%s-%d", family.name, months)
			if _, err := s.DB.ExecContext(ctx, typeQuery, name, months, family.prices[i]); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	categoryQuery := `INSERT INTO category (category_name)
					  VALUES ($1)
					  ON CONFLICT (category_name) DO NOTHING`
	for _, name := range seedCategories {
		if _, err := s.DB.ExecContext(ctx, categoryQuery, name); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// ListCategories returns all membership categories.
func (s *Storage) ListCategories(ctx context.Context) ([]*models.Category, error) {
	const op = "storage.ListCategories"

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, category_name, created_at FROM category ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Category
	for rows.Next() {
		var c models.Category
		if err = rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListSubscriptionTypes returns all subscription tiers ordered by name and
// duration.
func (s *Storage) ListSubscriptionTypes(ctx context.Context) ([]*models.SubscriptionType, error) {
	const op = "storage.ListSubscriptionTypes"

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, subscription_type_name, months, cost, created_at
		 FROM subscription_type
		 ORDER BY subscription_type_name, months`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.SubscriptionType
	for rows.Next() {
		var st models.SubscriptionType
		if err = rows.Scan(&st.ID, &st.Name, &st.Months, &st.Cost, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &st)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
