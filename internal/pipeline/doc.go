// Package pipeline orchestrates a fetch run as a sequence of steps.
//
// A run consists of two steps: scanning the filing page for exhibit
// links, then resolving and downloading each exhibit's document. Steps
// accumulate results into a shared model.RunReport, which report writers
// render afterwards.
package pipeline
