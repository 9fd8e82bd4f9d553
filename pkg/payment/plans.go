package payment

import "slices"

// Plan は料金ページに表示する商品プランです。
type Plan struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Popular     bool     `json:"popular,omitempty"`
}

var plans = []Plan{
	{
		ID:          "digital",
		Name:        "Digital Edition",
		Price:       9.99,
		Description: "Perfect for tablets and reading on the go.",
		Features:    []string{"High-resolution PDF download", "Compatible with iPad, Kindle Fire", "Shareable via email", "Keep forever"},
	},
	{
		ID:          "hardcover",
		Name:        "Hardcover Keepsake",
		Price:       29.99,
		Description: "A beautiful 8x8 hardcover book to cherish.",
		Features:    []string{"Premium hardcover binding", "Archival quality paper", "Vibrant full-color printing", "Includes Digital Edition (Free)", "Free shipping in US"},
		Popular:     true,
	},
	{
		ID:          "softcover",
		Name:        "Softcover",
		Price:       19.99,
		Description: "Durable and kid-friendly softcover.",
		Features:    []string{"Glossy cardstock cover", "High-quality paper", "Lightweight and portable", "Includes Digital Edition (Free)"},
	},
}

// Plans は料金ページの表示順でプランを返します。
func Plans() []Plan {
	out := make([]Plan, len(plans))
	for i, p := range plans {
		p.Features = slices.Clone(p.Features)
		out[i] = p
	}
	return out
}

// FindPlan は ID でプランを探します。
func FindPlan(id string) (Plan, bool) {
	for _, p := range Plans() {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
