package core

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	Income  Type = "income"
	Expense Type = "expense"
)

const (
	Grocery        Category = "Grocery"
	Clothing       Category = "Clothing"
	Health         Category = "Health"
	PersonalCare   Category = "Personal Care"
	Education      Category = "Education"
	Housing        Category = "Housing"
	Insurance      Category = "Insurance"
	Utilities      Category = "Utilities"
	Transportation Category = "Transportation"
	Miscellaneous  Category = "Miscellaneous"
	Food           Category = "Food"
	Hobby          Category = "Hobby"
	Gift           Category = "Gift"
	Investment     Category = "Investment"
	Saving         Category = "Saving"
	Entertainment  Category = "Entertainment"
	Salary         Category = "Salary"
	Other          Category = "Other"
	Debt           Category = "Debt"
	Tax            Category = "Tax"
	Loan           Category = "Loan"

	// All is only meaningful as a filter value and matches every category.
	All Category = "All"
)

type (
	// Type tells income and expense apart.
	Type string

	// Category classifies the purpose of a transaction.
	Category string

	Transaction struct {
		ID          string    `json:"id"`
		Name        string    `json:"name"`
		Description string    `json:"desc"`
		Amount      float64   `json:"amount"` // positive for income, negative for expense
		Type        Type      `json:"type"`
		Category    Category  `json:"category"`
		Date        time.Time `json:"date"` // midnight, day granularity
	}
)

var (
	ErrEmptyName       = errors.New("empty name")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidDate     = errors.New("invalid date")
)

var categories = []Category{
	Grocery, Clothing, Health, PersonalCare, Education, Housing, Insurance,
	Utilities, Transportation, Miscellaneous, Food, Hobby, Gift, Investment,
	Saving, Entertainment, Salary, Other, Debt, Tax, Loan,
}

// AllCategories returns the closed set of categories in display order.
func AllCategories() []Category {
	return append([]Category(nil), categories...)
}

func (c Category) IsValid() bool {
	for _, v := range categories {
		if v == c {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory matches s case-insensitively against the known categories.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, string(All)) {
		return All, nil
	}
	for _, v := range categories {
		if strings.EqualFold(string(v), s) {
			return v, nil
		}
	}
	return "", ErrInvalidCategory
}

func (t Type) IsValid() bool {
	return t == Income || t == Expense
}

func (t Type) String() string {
	return string(t)
}

// ParseType accepts "income" or "expense" in any case.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	}
	return "", ErrInvalidType
}

// New builds a normalized transaction. The sign of amount is derived from typ
// and the time of day of date is dropped. An empty id is replaced by a fresh
// UUID; a non-empty one is kept so edits keep their identity.
//
// New never fails: typ and category are passed through as given, use
// Validate to check them.
func New(id, name, description string, amount float64, typ Type, category Category, date time.Time) Transaction {
	if id == "" {
		id = uuid.NewString()
	}
	sign := -1.0
	if typ == Income {
		sign = 1.0
	}
	return Transaction{
		ID:          id,
		Name:        name,
		Description: description,
		Amount:      math.Abs(amount) * sign,
		Type:        typ,
		Category:    category,
		Date:        StartOfDay(date),
	}
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Validate reports the first problem that would make t unfit for saving.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
		return ErrInvalidAmount
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if !t.Category.IsValid() {
		return ErrInvalidCategory
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}
