package model

import "time"

// Application is a loan application from the external registry.
// The engine only reads it.
type Application struct {
	AppNumber    string
	CustomerName string
	Branch       string
	BranchCode   string
	Status       string
	CreatedAt    time.Time
}

// Person is an entry of the operations-maintained personnel roster.
type Person struct {
	Name   string
	Team   string
	Active bool
}
