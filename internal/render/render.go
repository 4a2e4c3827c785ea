// Package render maps operation results onto display fragments.
//
// Everything here is pure: the same inputs always produce the same fragment,
// and nothing depends on the controller or transport that produced the data.
package render

import (
	"github.com/commitfit/internal/contract"
	"github.com/commitfit/pkg/models"
)

// Link is a labeled file entry.
type Link struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Gallery is a titled, ordered list of image paths.
type Gallery struct {
	Title  string   `json:"title"`
	Images []string `json:"images"`
}

// Fragment is what a region displays. Zero value is an empty region.
type Fragment struct {
	Message string   `json:"message,omitempty"`
	Output  string   `json:"output,omitempty"` // preformatted, shown verbatim
	Links   []Link   `json:"links,omitempty"`
	Gallery *Gallery `json:"gallery,omitempty"`
}

// Empty reports whether the fragment displays nothing.
func (f Fragment) Empty() bool {
	return f.Message == "" && f.Output == "" && len(f.Links) == 0 && f.Gallery == nil
}

// Split separates the preformatted output, which belongs next to the status
// message, from the entries that belong in the result region.
func (f Fragment) Split() (string, Fragment) {
	return f.Output, Fragment{Links: f.Links, Gallery: f.Gallery}
}

// Gather builds the link list for a successful gather. Paths come from the
// naming contract, never from the response body.
func Gather(ref models.RepoRef) Fragment {
	artifacts := contract.GatherArtifacts(ref)
	links := make([]Link, 0, len(artifacts))
	for _, a := range artifacts {
		links = append(links, Link{Label: a.Label, Path: a.Path})
	}
	return Fragment{Links: links}
}

// ModelFit renders a model fit: output verbatim, then one image entry per path
// in the given order. No images means no gallery at all.
func ModelFit(title, output string, images []string) Fragment {
	f := Fragment{Output: output}
	if len(images) > 0 {
		f.Gallery = &Gallery{
			Title:  title,
			Images: append([]string(nil), images...),
		}
	}
	return f
}
