package models

type ArchiveRequest struct {
	Images []ConvertedImage `json:"images"`
}

type SharedArchive struct {
	URL     string `json:"url"`
	Key     string `json:"key"`
	Size    int64  `json:"size"`
	Entries int    `json:"entries"`
}

type StoredObject struct {
	Name string `json:"name"`
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}
