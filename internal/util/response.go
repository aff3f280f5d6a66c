package util

type Envelope map[string]any

// Detail is the {"detail": "..."} body used for business outcomes.
func Detail(message string) Envelope {
	return Envelope{"detail": message}
}

// DetailWith adds extra fields next to detail.
func DetailWith(message string, fields map[string]any) Envelope {
	env := Envelope{"detail": message}
	for k, v := range fields {
		env[k] = v
	}
	return env
}
