// Package collection holds the movie record model shared by the store, the
// collection service, and the HTTP layer, along with the era classification
// rule derived from a release year.
package collection
