// Package jsonstore keeps the collection in a single JSON array file.
//
// Records are held in memory in insertion order and the whole file is
// rewritten (temp file + rename) after every successful mutation. An advisory
// lock file next to the data file prevents a second process from opening the
// same collection for writing. A file that cannot be parsed is set aside and
// the store starts empty.
package jsonstore
