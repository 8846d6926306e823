// Package util provides small shared helpers for sportkit packages.
package util
