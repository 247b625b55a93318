package repository

import "errors"

var (
	// ErrSlugTaken means the slug or subdomain uniqueness constraint fired
	// on Create. Callers surface it as a conflict, not a server fault.
	ErrSlugTaken = errors.New("repository: slug already exists")
)
