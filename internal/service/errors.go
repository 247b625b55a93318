package service

import "errors"

var (
	// ErrNotFound — collaborator (or, for meeting ops, its parent) absent.
	ErrNotFound = errors.New("collaborator not found")
	// ErrSlugTaken — another collaborator already owns the slug or subdomain.
	ErrSlugTaken = errors.New("slug already exists")
)
