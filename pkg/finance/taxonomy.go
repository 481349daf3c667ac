// Package finance holds the pure reporting engines: monthly summary, daily
// expense series, budget realization and the category taxonomy. Everything in
// this package is a deterministic function over in-memory data; persistence
// and transport live in the root package.
package finance

import (
	"dompetku/models"
)

// IncomeCategory is the single category every income row carries.
const IncomeCategory = "Pemasukan"

// ExpenseCategories is the fixed expense category set, in display order.
var ExpenseCategories = []string{"Kebutuhan", "Investasi", "Keinginan", "Dana Darurat"}

// BudgetPercentages is the 50/30/15/5 rule: the share of total income each
// fixed expense category should stay under.
var BudgetPercentages = map[string]float64{
	"Kebutuhan":    50,
	"Investasi":    30,
	"Keinginan":    15,
	"Dana Darurat": 5,
}

// ExpenseSubcategories lists the built-in subcategories per fixed category.
var ExpenseSubcategories = map[string][]string{
	"Kebutuhan": {
		"Perawatan sepeda motor",
		"Bensin motor",
		"Pajak Honda",
		"Belanja Mingguan",
		"Belanja Bulanan",
		"Makan/Minum di luar",
		"Perabotan Rumah",
		"Laundry",
		"Buah-buahan",
		"Arisan",
		"Pulsa HP",
		"Internet data",
		"Berobat abang & adik",
		"Skincare",
		"Kebutuhan istri",
		"Lainnya",
	},
	"Keinginan": {
		"Healing",
		"Hiburan",
		"Staycation",
		"Jajanan",
		"Aksesoris Motor/Mobil",
		"Aksesoris HP",
		"Langganan",
		"Lainnya",
	},
	"Investasi": {
		"Ibu kandung",
		"Mertua",
		"Sedekah",
		"Hadiah",
		"Bahan dagangan",
		"Perawatan sawit",
		"Lainnya",
	},
	"Dana Darurat": {
		"Kesehatan",
		"Tak Terduga",
		"Servis",
		"Lainnya",
	},
}

// IncomeSubcategories lists the built-in income subcategories.
var IncomeSubcategories = []string{
	"Gaji bulanan",
	"Insentif",
	"Warisan ayah",
	"Dari orang tua",
	"Hibah",
	"Khutbah",
	"Kajian",
	"Imam",
	"Barang pribadi",
	"Barang dagangan",
	"Refund",
	"Lainnya",
}

// CategoryGroup is one expense category with its merged subcategory list.
type CategoryGroup struct {
	Category      string   `json:"category"`
	Subcategories []string `json:"subcategories"`
}

// Taxonomy is the merged default+custom category tree served to clients.
type Taxonomy struct {
	Expense []CategoryGroup `json:"expense"`
	Income  []string        `json:"income"`
}

// MergeTaxonomy merges the built-in taxonomy with a user's custom rows.
// Defaults come first, duplicates collapse, and custom expense rows naming a
// category outside the fixed four open a new group after them. Defaults are
// never persisted, so the merge runs on every read.
func MergeTaxonomy(custom []models.CustomCategory) Taxonomy {
	var tax Taxonomy

	for _, cat := range ExpenseCategories {
		subs := append([]string(nil), ExpenseSubcategories[cat]...)
		seen := make(map[string]bool, len(subs))
		for _, s := range subs {
			seen[s] = true
		}
		for _, c := range custom {
			if c.Type != models.TypeExpense || c.Category != cat || seen[c.Subcategory] {
				continue
			}
			subs = append(subs, c.Subcategory)
			seen[c.Subcategory] = true
		}
		tax.Expense = append(tax.Expense, CategoryGroup{Category: cat, Subcategories: subs})
	}

	// custom expense rows introducing brand-new categories
	knownCat := make(map[string]int, len(tax.Expense))
	for i, g := range tax.Expense {
		knownCat[g.Category] = i
	}
	for _, c := range custom {
		if c.Type != models.TypeExpense {
			continue
		}
		idx, ok := knownCat[c.Category]
		if !ok {
			tax.Expense = append(tax.Expense, CategoryGroup{Category: c.Category, Subcategories: []string{c.Subcategory}})
			knownCat[c.Category] = len(tax.Expense) - 1
			continue
		}
		if !containsString(tax.Expense[idx].Subcategories, c.Subcategory) {
			tax.Expense[idx].Subcategories = append(tax.Expense[idx].Subcategories, c.Subcategory)
		}
	}

	tax.Income = append([]string(nil), IncomeSubcategories...)
	for _, c := range custom {
		if c.Type == models.TypeIncome && !containsString(tax.Income, c.Subcategory) {
			tax.Income = append(tax.Income, c.Subcategory)
		}
	}
	return tax
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
