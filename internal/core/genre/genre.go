package genre

// Genre is a film genre from the closed reference vocabulary.
// Identity is carried by ID alone; Name is presentation data.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Global field names for validation
const (
	FieldID = "id"
)
