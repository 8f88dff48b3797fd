package compute

// Link is one entry of the links array the service attaches to flavors,
// images and servers.
type Link struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

type Flavor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	RAM   int    `json:"ram"`
	Disk  int    `json:"disk"`
	VCPUs int    `json:"vcpus"`
	Links []Link `json:"links"`
}

// Returns the canonical reference for the flavor: the first link URL if the
// service supplied links, otherwise the bare ID.
func (flavor *Flavor) URL() string {
	if flavor == nil {
		return ""
	} else if len(flavor.Links) > 0 {
		return flavor.Links[0].Href
	} else {
		return flavor.ID
	}
}
