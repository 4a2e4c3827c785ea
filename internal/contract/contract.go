// Package contract holds the naming conventions shared with the analytics backend.
//
// The backend writes its artifacts to disk and only reports success, so the console
// derives the paths itself. Any change on either side must bump Version.
package contract

import (
	"fmt"

	"github.com/commitfit/pkg/models"
)

// Version of the artifact naming convention.
const Version = 1

const (
	DataDir   = "data"
	ImagesDir = "images"
)

// Artifact is a labeled file produced by the gather step.
type Artifact struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

var gatherSuffixes = []struct {
	label  string
	suffix string
}{
	{"Commits with Description", "commits_w_desc"},
	{"Commits", "commits"},
	{"Monthly Commits", "monthly"},
}

// GatherArtifacts returns the CSV files the gather step produces for ref, in display order.
func GatherArtifacts(ref models.RepoRef) []Artifact {
	artifacts := make([]Artifact, 0, len(gatherSuffixes))
	for _, s := range gatherSuffixes {
		artifacts = append(artifacts, Artifact{
			Label: s.label,
			Path:  fmt.Sprintf("%s/%s-%s.csv", DataDir, ref.Package(), s.suffix),
		})
	}
	return artifacts
}

// BassImages returns the chart paths written by the Bass model fit.
func BassImages(ref models.RepoRef) []string {
	return imagePaths(ref, "fit_contributors", "contributors_to_end")
}

// InnovationImages returns the chart paths written by the Innovation model fit.
func InnovationImages(ref models.RepoRef) []string {
	return imagePaths(ref, "innovation_fit", "polyfit_innovation", "forecasts")
}

func imagePaths(ref models.RepoRef, names ...string) []string {
	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, fmt.Sprintf("%s/%s_%s.png", ImagesDir, ref.Package(), name))
	}
	return paths
}
