package compute

import "github.com/StratoNode/strato/utils"

import "github.com/mitchellh/mapstructure"

import "encoding/json"
import "fmt"

// Address is one entry of a server's per-network address list. Order within
// a network is significant; the first address of a family is usually the
// primary one.
type Address struct {
	Version int    `json:"version"`
	Addr    string `json:"addr"`
}

// Server is the local representation of one remote compute instance. ID and
// Status are only ever set from server-authoritative responses. AdminPass
// is populated once, as a side effect of Create. Meta is non-nil from
// construction onward.
//
// A Server is not safe for concurrent use; each instance assumes a single
// owner.
type Server struct {
	service *Service

	ID         string               `json:"id"`
	Name       string               `json:"name"`
	Status     string               `json:"status"`
	HostID     string               `json:"hostId"`
	Progress   int                  `json:"progress"`
	AccessIPv4 string               `json:"accessIPv4"`
	AccessIPv6 string               `json:"accessIPv6"`
	Addresses  map[string][]Address `json:"addresses"`
	Meta       map[string]string    `json:"metadata"`
	AdminPass  string               `json:"adminPass"`
	Created    string               `json:"created"`
	Updated    string               `json:"updated"`
	Image      *Image               `json:"image"`
	Flavor     *Flavor              `json:"flavor"`

	// derived once from Image/Flavor at creation-request time
	imageRef  string
	flavorRef string

	metadata *Metadata
}

// Field names a patchable server attribute. Params keyed by anything else
// are rejected with ErrBadField.
type Field string

const (
	FieldName       Field = "name"
	FieldAccessIPv4 Field = "accessIPv4"
	FieldAccessIPv6 Field = "accessIPv6"
	FieldMeta       Field = "metadata"
	FieldImage      Field = "image"
	FieldFlavor     Field = "flavor"
)

// Params carries caller-supplied field overrides for Create and Update.
type Params map[Field]interface{}

// URL returns the canonical resource URL, joined with optional subresource
// segments. It fails with ErrNoID for an unpersisted server.
func (server *Server) URL(parts ...string) (string, error) {
	if server.ID == "" {
		return "", &ErrNoID{}
	}
	all := append([]string{"servers", server.ID}, parts...)
	return server.service.URL(all...), nil
}

// PrimaryAddress returns the server's reachable address for the given IP
// version, which must be 4 or 6.
func (server *Server) PrimaryAddress(version int) (string, error) {
	if version == 4 {
		return server.AccessIPv4, nil
	} else if version == 6 {
		return server.AccessIPv6, nil
	} else {
		return "", &ErrInvalidIPVersion{Version: version}
	}
}

// PreferredIP walks the per-network address lists and picks a public
// address, preferring IPv4 over IPv6. Returns an empty string if the
// server has no public address.
func (server *Server) PreferredIP() string {
	return server.preferredAddress(false)
}

// PreferredPrivateIP is PreferredIP for RFC 1918 / ULA addresses.
func (server *Server) PreferredPrivateIP() string {
	return server.preferredAddress(true)
}

func (server *Server) preferredAddress(private bool) string {
	var best string
	for _, networkAddresses := range server.Addresses {
		for _, address := range networkAddresses {
			if utils.IsPrivate(address.Addr) != private {
				continue
			}
			if best == "" || (utils.GetIPVersion(address.Addr) == 4 && utils.GetIPVersion(best) != 4) {
				best = address.Addr
			}
		}
	}
	return best
}

// Create provisions a new server. Caller overrides from params are merged
// onto the entity first; ID and Status are cleared to force new-resource
// semantics; imageRef and flavorRef are derived from the first link of the
// entity's image and flavor. On success every field of the returned server
// is copied onto the entity, including the one-time AdminPass.
//
// After an error the entity may be in a mixed local/remote state; callers
// must not assume consistency.
func (server *Server) Create(params Params) error {
	if err := server.applyParams(params); err != nil {
		return err
	}

	server.ID = ""
	server.Status = ""
	if server.Meta == nil {
		server.Meta = make(map[string]string)
	}
	server.Meta["sdk"] = UserAgent
	server.imageRef = server.Image.URL()
	server.flavorRef = server.Flavor.URL()

	request := createRequest{
		Server: createOpts{
			Name:      server.Name,
			ImageRef:  server.imageRef,
			FlavorRef: server.flavorRef,
			Metadata:  server.Meta,
		},
	}
	resp, err := server.service.requester.Do("POST", server.service.CollectionURL(), request)
	if err != nil || resp == nil {
		return &ErrHTTP{Op: "create server", Err: err}
	} else if !resp.OK() {
		return &ErrCreate{Status: resp.StatusCode, Body: string(resp.Body)}
	}

	var out serverResponse
	if err := resp.Decode(&out); err != nil || out.Server == nil {
		return &ErrUnexpected{Op: "create server", Status: resp.StatusCode, Body: string(resp.Body)}
	}
	if err := server.copyFrom(out.Server); err != nil {
		return &ErrUnexpected{Op: "create server", Status: resp.StatusCode, Body: string(resp.Body)}
	}
	return nil
}

// Delete destroys the remote server. Local state is left untouched; the
// caller is responsible for discarding the entity.
func (server *Server) Delete() error {
	url, err := server.URL()
	if err != nil {
		return err
	}
	resp, err := server.service.requester.Do("DELETE", url, nil)
	if err != nil || resp == nil {
		return &ErrHTTP{Op: "delete server", Err: err}
	} else if !resp.OK() {
		return &ErrDelete{Status: resp.StatusCode, Body: string(resp.Body)}
	}
	return nil
}

// Update applies the given overrides onto the entity, then PUTs a payload
// holding the entity's current value for each named field. The payload
// always reflects entity state after the merge, not the raw params values.
func (server *Server) Update(params Params) error {
	if err := server.applyParams(params); err != nil {
		return err
	}

	fields := make(map[string]interface{}, len(params))
	for field := range params {
		value, ok := server.fieldValue(field)
		if !ok {
			return &ErrBadField{Err: fmt.Errorf("no such field %q", string(field))}
		}
		fields[string(field)] = value
	}

	url, err := server.URL()
	if err != nil {
		return err
	}
	resp, err := server.service.requester.Do("PUT", url, updateRequest{Server: fields})
	if err != nil || resp == nil {
		return &ErrHTTP{Op: "update server", Err: err}
	} else if !resp.OK() {
		return &ErrUpdate{Status: resp.StatusCode, Body: string(resp.Body)}
	}
	return nil
}

// Rename is a convenience wrapper over Update.
func (server *Server) Rename(name string) error {
	return server.Update(Params{FieldName: name})
}

// Refresh re-fetches the server by ID and copies the returned fields onto
// the entity. A 404 yields ErrNotFound, any other failure ErrUnexpected.
func (server *Server) Refresh() error {
	url, err := server.URL()
	if err != nil {
		return err
	}
	resp, err := server.service.requester.Do("GET", url, nil)
	if err != nil || resp == nil {
		return &ErrHTTP{Op: "fetch server", Err: err}
	} else if resp.StatusCode == 404 {
		return &ErrNotFound{ID: server.ID, Status: resp.StatusCode, Body: string(resp.Body)}
	} else if !resp.OK() {
		return &ErrUnexpected{Op: "fetch server", Status: resp.StatusCode, Body: string(resp.Body)}
	}

	var out serverResponse
	if err := resp.Decode(&out); err != nil || out.Server == nil {
		return &ErrUnexpected{Op: "fetch server", Status: resp.StatusCode, Body: string(resp.Body)}
	}
	return server.copyFrom(out.Server)
}

// ListAddresses GETs the ips subresource, optionally scoped to one
// network. The response carries either an "addresses" object (all
// networks) or a "network" list (single network); "addresses" wins when
// both are present. The result is never nil.
func (server *Server) ListAddresses(network string) (map[string][]Address, error) {
	parts := []string{"ips"}
	if network != "" {
		parts = append(parts, network)
	}
	url, err := server.URL(parts...)
	if err != nil {
		return nil, err
	}
	resp, err := server.service.requester.Do("GET", url, nil)
	if err != nil || resp == nil {
		return nil, &ErrHTTP{Op: "list addresses", Err: err}
	} else if !resp.OK() {
		return nil, &ErrIPs{Status: resp.StatusCode, Body: string(resp.Body)}
	}

	var out addressesResponse
	if len(resp.Body) > 0 {
		if err := resp.Decode(&out); err != nil {
			return nil, &ErrUnexpected{Op: "list addresses", Status: resp.StatusCode, Body: string(resp.Body)}
		}
	}
	if out.Addresses != nil {
		return out.Addresses, nil
	}
	if out.Network != nil {
		key := network
		if key == "" {
			key = "network"
		}
		return map[string][]Address{key: out.Network}, nil
	}
	return map[string][]Address{}, nil
}

// applyParams merges caller overrides onto the entity. Keys that do not
// name a server field are rejected.
func (server *Server) applyParams(params Params) error {
	if len(params) == 0 {
		return nil
	}
	data := make(map[string]interface{}, len(params))
	for field, value := range params {
		data[string(field)] = value
	}
	if err := server.decode(data, true); err != nil {
		return &ErrBadField{Err: err}
	}
	return nil
}

// applyData copies matching fields from pre-fetched material. Extra keys
// are tolerated; the service is free to return more than we model.
func (server *Server) applyData(data map[string]interface{}) error {
	return server.decode(data, false)
}

func (server *Server) copyFrom(raw json.RawMessage) error {
	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return err
	}
	return server.applyData(data)
}

func (server *Server) decode(data map[string]interface{}, strict bool) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           server,
		TagName:          "json",
		ErrorUnused:      strict,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(data); err != nil {
		return err
	}
	if server.Meta == nil {
		server.Meta = make(map[string]string)
	}
	return nil
}

func (server *Server) fieldValue(field Field) (interface{}, bool) {
	switch field {
	case FieldName:
		return server.Name, true
	case FieldAccessIPv4:
		return server.AccessIPv4, true
	case FieldAccessIPv6:
		return server.AccessIPv6, true
	case FieldMeta:
		return server.Meta, true
	case FieldImage:
		return server.Image, true
	case FieldFlavor:
		return server.Flavor, true
	}
	return nil, false
}
