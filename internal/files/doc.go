// Package files discovers source workbook files on disk. The cache manager
// uses it to resolve a configured source path that points at a directory to
// the newest workbook inside it.
package files
