package patients

// ExampleQuery is a canned ad-hoc query offered to the user
type ExampleQuery struct {
	Description string `json:"description"`
	SQL         string `json:"sql"`
}

// ExampleQueries are shown next to the query box
var ExampleQueries = []ExampleQuery{
	{Description: "Senior patients", SQL: "SELECT * FROM patients WHERE age > 60"},
	{Description: "Sort by name", SQL: "SELECT * FROM patients ORDER BY name ASC"},
	{Description: "Count by gender", SQL: "SELECT gender, COUNT(*) as count FROM patients GROUP BY gender"},
}
