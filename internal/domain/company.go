package domain

import "time"

// Company is the tenant boundary; every ticket belongs to exactly one.
type Company struct {
	ID        string
	Name      string
	Domain    string
	Active    bool
	CreatedAt time.Time
}

// Contract is an optional commercial agreement tickets can reference.
type Contract struct {
	ID        string
	CompanyID string
	Name      string
	Active    bool
	CreatedAt time.Time
}

// Category is a leaf or parent node of a two-level category tree.
type Category struct {
	ID        string
	CompanyID *string
	Name      string
	ParentID  *string
	CreatedAt time.Time
}

// Queue groups tickets for routing purposes.
type Queue struct {
	ID        string
	CompanyID string
	Name      string
	Active    bool
	CreatedAt time.Time
}

// Asset is a piece of customer equipment a ticket can reference.
type Asset struct {
	ID        string
	CompanyID string
	Name      string
	Serial    string
	Type      string
	Active    bool
	CreatedAt time.Time
}
