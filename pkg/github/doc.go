// Package github synchronizes issue labels on a GitHub repository.
// It replaces every label on the remote repository with the set described
// by a label configuration file.
//
// The package includes:
// - Client, which issues single authenticated calls to the labels API
// - LabelService for listing, deleting and creating labels
// - Validator for the inputs a run needs before it touches the network
// - Queue, a bounded worker pool used serially for every label batch
// - Syncer, which sequences validate, list, delete and create
package github
