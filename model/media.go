package model

type MediaItem struct {
	Id      string   `json:"id"`
	Caption string   `json:"caption"`
	Image   ImageRef `json:"image"`
}

type Sponsor struct {
	Id   string   `json:"id"`
	Name string   `json:"name"`
	Tier string   `json:"tier"`
	Logo ImageRef `json:"logo"`
}

// ImageRef is either an already-uploaded remote URL or a local file path.
// The service layer converts local refs to multipart uploads at the
// submission boundary; nothing else reads the file.
type ImageRef struct {
	URL  string `json:"url,omitempty"`
	Path string `json:"-"`
}

func RemoteImage(url string) ImageRef { return ImageRef{URL: url} }

func LocalImage(path string) ImageRef { return ImageRef{Path: path} }

func (r ImageRef) IsRemote() bool { return r.URL != "" }

func (r ImageRef) IsLocal() bool { return r.URL == "" && r.Path != "" }

func (r ImageRef) IsZero() bool { return r.URL == "" && r.Path == "" }
