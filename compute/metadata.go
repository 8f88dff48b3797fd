package compute

// Metadata is a handle on a server's metadata subresource, optionally
// scoped to a single key. Construction never touches the network; call
// Fetch or Save explicitly.
type Metadata struct {
	server *Server

	// Key scopes the handle to one metadata item; empty means the whole
	// collection.
	Key    string
	Values map[string]string
}

// Metadata returns a handle on the server's metadata subresource. Pass an
// empty key for the whole collection.
func (server *Server) Metadata(key string) *Metadata {
	if key == "" {
		if server.metadata == nil {
			server.metadata = &Metadata{server: server, Values: make(map[string]string)}
		}
		return server.metadata
	}
	return &Metadata{server: server, Key: key, Values: make(map[string]string)}
}

func (meta *Metadata) URL() (string, error) {
	if meta.Key == "" {
		return meta.server.URL("metadata")
	}
	return meta.server.URL("metadata", meta.Key)
}

func (meta *Metadata) Set(key string, value string) {
	if meta.Values == nil {
		meta.Values = make(map[string]string)
	}
	meta.Values[key] = value
}

// Fetch replaces Values with the remote state of the subresource.
func (meta *Metadata) Fetch() error {
	url, err := meta.URL()
	if err != nil {
		return err
	}
	resp, err := meta.server.service.requester.Do("GET", url, nil)
	if err != nil || resp == nil {
		return &ErrHTTP{Op: "fetch metadata", Err: err}
	} else if !resp.OK() {
		return &ErrMetadata{Op: "fetch", Status: resp.StatusCode, Body: string(resp.Body)}
	}

	var out metadataResponse
	if err := resp.Decode(&out); err != nil {
		return &ErrUnexpected{Op: "fetch metadata", Status: resp.StatusCode, Body: string(resp.Body)}
	}
	if out.Metadata != nil {
		meta.Values = out.Metadata
	} else if out.Meta != nil {
		meta.Values = out.Meta
	} else {
		meta.Values = make(map[string]string)
	}
	return nil
}

// Save writes Values to the subresource. A whole-collection handle merges
// server-side via POST; a key-scoped handle PUTs the single item.
func (meta *Metadata) Save() error {
	url, err := meta.URL()
	if err != nil {
		return err
	}

	var method string
	var payload interface{}
	if meta.Key == "" {
		method = "POST"
		payload = metadataRequest{Metadata: meta.Values}
	} else {
		method = "PUT"
		payload = metadataItemRequest{Meta: meta.Values}
	}

	resp, err := meta.server.service.requester.Do(method, url, payload)
	if err != nil || resp == nil {
		return &ErrHTTP{Op: "save metadata", Err: err}
	} else if !resp.OK() {
		return &ErrMetadata{Op: "save", Status: resp.StatusCode, Body: string(resp.Body)}
	}
	return nil
}

// Delete removes the item a key-scoped handle points at. Whole-collection
// handles cannot be deleted in one call.
func (meta *Metadata) Delete() error {
	url, err := meta.URL()
	if err != nil {
		return err
	}
	resp, err := meta.server.service.requester.Do("DELETE", url, nil)
	if err != nil || resp == nil {
		return &ErrHTTP{Op: "delete metadata", Err: err}
	} else if !resp.OK() {
		return &ErrMetadata{Op: "delete", Status: resp.StatusCode, Body: string(resp.Body)}
	}
	return nil
}
