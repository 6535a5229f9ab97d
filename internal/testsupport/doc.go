// Package testsupport provides helpers shared by package tests: temp-dir
// backed configs and history stores that clean up after themselves.
package testsupport
