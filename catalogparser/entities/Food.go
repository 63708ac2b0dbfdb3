package entities

// FoodRecord is a canonical food entry. Foods carry no attributes beyond
// their normalized name.
type FoodRecord struct {
	Name string `json:"name"`
}

// FoodFoodEdge is an unordered interaction between two foods. Matching is
// done in both orientations.
type FoodFoodEdge struct {
	Food1    string `json:"food_1"`
	Food2    string `json:"food_2"`
	Level    string `json:"interaction_level"`
	Nutrient string `json:"nutrient_name"`
}
