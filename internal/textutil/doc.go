// Package textutil provides small text helpers shared by the provider client
// and response extraction.
package textutil
