package gen

// Artifact is one generated file, addressed relative to the output root.
// Regions lists the owned marker regions in the order they appear in
// Content.
type Artifact struct {
	RelativePath string   `json:"relativePath"`
	Content      string   `json:"content"`
	Regions      []string `json:"regions,omitempty"`
}
