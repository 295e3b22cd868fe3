package model

import "sort"

const UnknownCategory = "unknown"

// Categories maps category ids stored in the database to ship type names.
var Categories = map[int]string{
	1: "ore carrier",
	2: "bulk cargo carrier",
	3: "general cargo ship",
	4: "container ship",
	5: "fishing boat",
	6: "passenger ship",
}

// Category is a category id with its display name.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CategoryName returns the name for id, or "unknown".
func CategoryName(id int) string {
	if name, ok := Categories[id]; ok {
		return name
	}
	return UnknownCategory
}

// ValidCategory reports whether id is one of the known categories.
func ValidCategory(id int) bool {
	_, ok := Categories[id]
	return ok
}

// CategoryFromClass converts a zero-based detector class id to a category id.
func CategoryFromClass(classID int) int {
	return classID + 1
}

// AllCategories returns every category ordered by id.
func AllCategories() []Category {
	categories := make([]Category, 0, len(Categories))
	for id, name := range Categories {
		categories = append(categories, Category{ID: id, Name: name})
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories
}
