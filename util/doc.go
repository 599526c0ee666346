// Package util provides small generic helpers shared across speechkit.
package util
