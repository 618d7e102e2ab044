// Package testsupport builds throwaway Git repositories for package tests.
package testsupport
