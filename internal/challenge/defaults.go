package challenge

// DefaultDocument is the catalog persisted when no catalog file exists yet.
// Keep the IDs stable because progress entries reference them.
func DefaultDocument() Document {
	return Document{
		MoodHappy: {
			{
				ID:          "happy_1",
				Title:       "Reverse a String",
				Description: "Write a function that returns the reverse of a given string.",
				Points:      10,
				Solution:    "func reverse(s string) string {\n\tr := []rune(s)\n\tfor i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {\n\t\tr[i], r[j] = r[j], r[i]\n\t}\n\treturn string(r)\n}",
			},
		},
		MoodTired: {
			{
				ID:          "tired_1",
				Title:       "Warmup loop",
				Description: "Print numbers 1 to 5 using a loop.",
				Points:      5,
				Solution:    "for i := 1; i <= 5; i++ {\n\tfmt.Println(i)\n}",
			},
		},
		MoodExcited: {
			{
				ID:          "excited_1",
				Title:       "Mini calculator",
				Description: "Create add/sub/mul/div functions.",
				Points:      20,
				Solution:    "func add(a, b float64) float64 { return a + b }\nfunc sub(a, b float64) float64 { return a - b }\nfunc mul(a, b float64) float64 { return a * b }\n\nfunc div(a, b float64) (float64, error) {\n\tif b == 0 {\n\t\treturn 0, errors.New(\"division by zero\")\n\t}\n\treturn a / b, nil\n}",
			},
		},
		MoodSad: {
			{
				ID:          "sad_1",
				Title:       "Gratitude list",
				Description: "Create a list of 3 things you're grateful for and print them.",
				Points:      5,
				Solution:    "grateful := []string{\"Family\", \"Health\", \"Friends\"}\nfor _, item := range grateful {\n\tfmt.Println(item)\n}",
			},
		},
	}
}
