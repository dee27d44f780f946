package mpa

// Rating is an MPA age rating from the closed reference vocabulary.
// Identity is carried by ID alone; Name is presentation data.
type Rating struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Global field names for validation
const (
	FieldID = "id"
)
