package compute

type Image struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Status   string            `json:"status"`
	Progress int               `json:"progress"`
	Created  string            `json:"created"`
	Updated  string            `json:"updated"`
	Meta     map[string]string `json:"metadata"`
	Links    []Link            `json:"links"`
}

// Returns the canonical reference for the image: the first link URL if the
// service supplied links, otherwise the bare ID.
func (image *Image) URL() string {
	if image == nil {
		return ""
	} else if len(image.Links) > 0 {
		return image.Links[0].Href
	} else {
		return image.ID
	}
}
