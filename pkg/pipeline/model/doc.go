// Package model provides the data structures shared by the pipeline package and its options.
// It defines the stage descriptors handed to pipeline options and the lifecycle hooks
// every option implements.
package model
