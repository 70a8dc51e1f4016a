// Package workflows implements the multi-step operations behind kris
// commands: moving local files to the cluster through S3 and the platform's
// transfer jobs, and building custom images from requirements files.
//
// Workflows take an Options struct and return a Result struct. Commands own
// user interaction; workflows own sequencing and error handling.
package workflows
