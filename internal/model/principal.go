package model

// Principal is the verified identity behind a bearer token.
type Principal struct {
	Email  string
	Claims map[string]any
}
