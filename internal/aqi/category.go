package aqi

// Category describes one step of the provider's 1..5 air quality scale.
type Category struct {
	Index       int    `json:"index"`
	Label       string `json:"label"`
	Class       string `json:"class"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

var categories = map[int]Category{
	1: {Index: 1, Label: "Good", Class: "good", Color: "#10b981", Description: "😊 Perfect air quality for outdoor activities"},
	2: {Index: 2, Label: "Fair", Class: "fair", Color: "#84cc16", Description: "🙂 Air quality is acceptable"},
	3: {Index: 3, Label: "Moderate", Class: "moderate", Color: "#f59e0b", Description: "😐 Sensitive people should reduce outdoor exposure"},
	4: {Index: 4, Label: "Poor", Class: "poor", Color: "#f97316", Description: "😷 Everyone should reduce outdoor activities"},
	5: {Index: 5, Label: "Very Poor", Class: "very-poor", Color: "#ef4444", Description: "⚠️ Health alert! Avoid outdoor activities"},
}

// CategoryFor returns the category for a provider index; ok is false outside 1..5.
func CategoryFor(index int) (Category, bool) {
	c, ok := categories[index]
	return c, ok
}
