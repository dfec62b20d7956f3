// Package platform wraps the few filesystem calls whose behavior differs
// across operating systems. Permission bits are applied on Unix and ignored
// on Windows.
package platform
