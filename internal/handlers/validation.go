package handlers

// fieldErrors maps a request field to its validation messages, matching
// the wire format clients already consume.
type fieldErrors map[string][]string

func (e fieldErrors) add(field, message string) {
	e[field] = append(e[field], message)
}

const (
	msgFieldRequired = "This field is required."
	msgFieldBlank    = "This field may not be blank."
	msgMaxLength200  = "Ensure this field has no more than 200 characters."
)
