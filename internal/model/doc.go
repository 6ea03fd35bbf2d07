// Package model ties the pipeline together: it loads a crop's trade tables,
// runs the re-export correction, builds the trade graph and partitions it
// into trading communities. A Model advances through these stages in order
// and exposes the artefacts of each completed stage.
//
// Yield-change scenarios are applied with Shift, which replays the pipeline
// on scaled production figures without touching the baseline artefacts.
package model
