// Package file provides a file-based configuration store using TOML.
package file
