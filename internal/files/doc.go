// Package files locates the product workbooks on disk and checks them
// against the catalog before a dataset build.
package files
