package compute

import "fmt"

// ErrNotFound is returned when a server is fetched by ID and the service
// reports a 404.
type ErrNotFound struct {
	ID     string
	Status int
	Body   string
}

func (err *ErrNotFound) Error() string {
	return fmt.Sprintf("server %s not found (status %d): %s", err.ID, err.Status, err.Body)
}

// ErrUnexpected is returned when the service responds with an unexpected
// status, or with a body that was expected to be a JSON object but is empty
// or unparseable.
type ErrUnexpected struct {
	Op     string
	Status int
	Body   string
}

func (err *ErrUnexpected) Error() string {
	return fmt.Sprintf("%s: unexpected response (status %d): %s", err.Op, err.Status, err.Body)
}

// ErrHTTP is returned when the transport collaborator fails outright, i.e.
// no structured response was observed at all.
type ErrHTTP struct {
	Op  string
	Err error
}

func (err *ErrHTTP) Error() string {
	if err.Err != nil {
		return fmt.Sprintf("%s: transport failure: %v", err.Op, err.Err)
	}
	return fmt.Sprintf("%s: transport returned no response", err.Op)
}

func (err *ErrHTTP) Unwrap() error { return err.Err }

type ErrCreate struct {
	Status int
	Body   string
}

func (err *ErrCreate) Error() string {
	return fmt.Sprintf("server creation failed (status %d): %s", err.Status, err.Body)
}

type ErrDelete struct {
	Status int
	Body   string
}

func (err *ErrDelete) Error() string {
	return fmt.Sprintf("server deletion failed (status %d): %s", err.Status, err.Body)
}

type ErrUpdate struct {
	Status int
	Body   string
}

func (err *ErrUpdate) Error() string {
	return fmt.Sprintf("server update failed (status %d): %s", err.Status, err.Body)
}

type ErrIPs struct {
	Status int
	Body   string
}

func (err *ErrIPs) Error() string {
	return fmt.Sprintf("address listing failed (status %d): %s", err.Status, err.Body)
}

type ErrMetadata struct {
	Op     string
	Status int
	Body   string
}

func (err *ErrMetadata) Error() string {
	return fmt.Sprintf("metadata %s failed (status %d): %s", err.Op, err.Status, err.Body)
}

type ErrKeyPair struct {
	Name   string
	Status int
	Body   string
}

func (err *ErrKeyPair) Error() string {
	return fmt.Sprintf("keypair %s request failed (status %d): %s", err.Name, err.Status, err.Body)
}

// ErrAction is the generic failure for POSTs to the action subresource.
type ErrAction struct {
	Name   string
	Status int
	Body   string
}

func (err *ErrAction) Error() string {
	return fmt.Sprintf("server action %s failed (status %d): %s", err.Name, err.Status, err.Body)
}

// ErrImageName is returned by CreateImage before any network call when the
// image name is empty.
type ErrImageName struct{}

func (err *ErrImageName) Error() string {
	return "image name must not be empty"
}

// ErrInvalidIPVersion is returned by PrimaryAddress for any selector other
// than 4 or 6.
type ErrInvalidIPVersion struct {
	Version int
}

func (err *ErrInvalidIPVersion) Error() string {
	return fmt.Sprintf("invalid IP version %d, must be 4 or 6", err.Version)
}

// ErrNoID is returned when a resource URL is requested for a server that
// has not been persisted yet.
type ErrNoID struct{}

func (err *ErrNoID) Error() string {
	return "server has no ID, cannot build a resource URL"
}

// ErrBadField is returned when a parameter set names a field the server
// entity does not have.
type ErrBadField struct {
	Err error
}

func (err *ErrBadField) Error() string {
	return fmt.Sprintf("unknown or invalid server field: %v", err.Err)
}

func (err *ErrBadField) Unwrap() error { return err.Err }
