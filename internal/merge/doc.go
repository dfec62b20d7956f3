// Package merge combines the local collection with the collections of every
// preset layer under each category's collision policy, then applies the
// project's overrides. Every function returns new slices and leaves its
// inputs untouched.
package merge
